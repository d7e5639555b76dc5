package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/jrick/logrotate/rotator"
	"github.com/pkg/errors"
)

// defaultFlags is read from the LOGFLAGS environment variable as a
// comma separated list, e.g. LOGFLAGS=shortfile. It is a variable
// initializer rather than an init function because BackendLog below
// depends on it.
var defaultFlags = getDefaultFlags()

// Flags to modify Backend's behavior.
const (
	// LogFlagLongFile adds the full path and line number of the logging
	// callsite, e.g. /a/b/c/main.go:123.
	LogFlagLongFile uint32 = 1 << iota

	// LogFlagShortFile adds the file name and line number of the logging
	// callsite, e.g. main.go:123. Takes precedence over LogFlagLongFile.
	LogFlagShortFile
)

func getDefaultFlags() (flags uint32) {
	for _, f := range strings.Split(os.Getenv("LOGFLAGS"), ",") {
		switch f {
		case "longfile":
			flags |= LogFlagLongFile
		case "shortfile":
			flags |= LogFlagShortFile
		}
	}
	return
}

const (
	defaultThresholdKB = 10 * 1000 // 10 MB per log file
	defaultMaxRolls    = 3
)

// Backend multiplexes the entries of every subsystem logger created from it
// into its writers. Each writer has its own minimum level. Entries are
// written by a single goroutine started with Run, so writers never see
// interleaved lines.
type Backend struct {
	flag      uint32
	isRunning uint32
	writers   []logWriter
	writeChan chan logEntry
	syncClose sync.Mutex // held by the writing goroutine until writeChan is drained
	closeOnce sync.Once
}

// NewBackendWithFlags returns a Backend using flags instead of the ones
// taken from the LOGFLAGS environment variable.
func NewBackendWithFlags(flags uint32) *Backend {
	return &Backend{flag: flags, writeChan: make(chan logEntry)}
}

// NewBackend returns a Backend using the flags from the LOGFLAGS
// environment variable.
func NewBackend() *Backend {
	return NewBackendWithFlags(defaultFlags)
}

type logWriter interface {
	io.WriteCloser
	LogLevel() Level
}

type leveledWriter struct {
	io.WriteCloser
	logLevel Level
}

func (lw leveledWriter) LogLevel() Level {
	return lw.logLevel
}

// nopCloser keeps Close from closing process wide streams such as stderr.
type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// AddLogFile makes b write entries at logLevel or above into a rotating
// log file, creating the file and its directory if needed.
func (b *Backend) AddLogFile(logFile string, logLevel Level) error {
	return b.AddLogFileWithCustomRotator(logFile, logLevel, defaultThresholdKB, defaultMaxRolls)
}

// AddLogFileWithCustomRotator is AddLogFile with explicit rotation
// settings: the file is rolled after thresholdKB kilobytes and at most
// maxRolls rolled files are kept.
func (b *Backend) AddLogFileWithCustomRotator(logFile string, logLevel Level, thresholdKB int64, maxRolls int) error {
	if b.IsRunning() {
		return errors.New("can't add a log file to a running backend")
	}
	logDir, _ := filepath.Split(logFile)
	if logDir != "" {
		err := os.MkdirAll(logDir, 0700)
		if err != nil {
			return errors.Wrapf(err, "failed to create log directory %s", logDir)
		}
	}
	r, err := rotator.New(logFile, thresholdKB, false, maxRolls)
	if err != nil {
		return errors.Wrapf(err, "failed to create file rotator for %s", logFile)
	}
	b.writers = append(b.writers, leveledWriter{WriteCloser: r, logLevel: logLevel})
	return nil
}

// AddLogWriter makes b write entries at logLevel or above into w. w is
// not closed when b is closed.
func (b *Backend) AddLogWriter(w io.Writer, logLevel Level) error {
	if b.IsRunning() {
		return errors.New("can't add a log writer to a running backend")
	}
	b.writers = append(b.writers, leveledWriter{WriteCloser: nopCloser{w}, logLevel: logLevel})
	return nil
}

// Run starts the goroutine writing entries to the writers. Until Run is
// called, entries are dropped. Run may only be called once.
func (b *Backend) Run() error {
	if !atomic.CompareAndSwapUint32(&b.isRunning, 0, 1) {
		return errors.New("the log backend is already running")
	}
	// Taken here rather than in the goroutine so that Close can't win the
	// race and close the writers before the first entry is written.
	b.syncClose.Lock()
	go func() {
		defer func() {
			if err := recover(); err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "Fatal error in logger.Backend goroutine: %+v\n", err)
				_, _ = fmt.Fprintf(os.Stderr, "Goroutine stacktrace: %s\n", debug.Stack())
			}
		}()
		b.runBlocking()
	}()
	return nil
}

func (b *Backend) runBlocking() {
	defer b.syncClose.Unlock()
	defer atomic.StoreUint32(&b.isRunning, 0)

	for entry := range b.writeChan {
		for _, writer := range b.writers {
			if entry.level >= writer.LogLevel() {
				_, _ = writer.Write(entry.log)
			}
		}
	}
}

// IsRunning returns whether Run was called and Close wasn't.
func (b *Backend) IsRunning() bool {
	return atomic.LoadUint32(&b.isRunning) != 0
}

// Close waits for all pending entries to be written and closes the
// writers. Loggers must not be used while Close is in progress. Calls
// after the first return immediately.
func (b *Backend) Close() {
	b.closeOnce.Do(func() {
		close(b.writeChan)
		b.syncClose.Lock()
		defer b.syncClose.Unlock()
		for _, writer := range b.writers {
			_ = writer.Close()
		}
	})
}

// Logger returns a new logger for the subsystem identified by
// subsystemTag. The tag prefixes every entry. The logger starts at
// LevelOff, so nothing is written until its level is lowered.
func (b *Backend) Logger(subsystemTag string) *Logger {
	return &Logger{level: uint32(LevelOff), tag: subsystemTag, b: b}
}
