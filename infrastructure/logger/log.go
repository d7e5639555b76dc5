package logger

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// BackendLog is the logging backend used to create all subsystem loggers.
var BackendLog = NewBackend()

// SubsystemTags is an enum of all sub system tags
var SubsystemTags = struct {
	BLDR,
	MUTN,
	POWM,
	BFRG string
}{
	BLDR: "BLDR",
	MUTN: "MUTN",
	POWM: "POWM",
	BFRG: "BFRG",
}

// subsystemLoggers maps each subsystem identifier to its associated logger.
var subsystemLoggers = map[string]*Logger{
	SubsystemTags.BLDR: BackendLog.Logger(SubsystemTags.BLDR),
	SubsystemTags.MUTN: BackendLog.Logger(SubsystemTags.MUTN),
	SubsystemTags.POWM: BackendLog.Logger(SubsystemTags.POWM),
	SubsystemTags.BFRG: BackendLog.Logger(SubsystemTags.BFRG),
}

// InitLog attaches the log file, the error log file and stderr to the
// backend and starts it. The log file receives every entry, the error
// log file warnings and above, and stderr entries at stderrLevel or above.
// Empty file names are skipped.
func InitLog(logFile, errLogFile string, stderrLevel Level) error {
	if logFile != "" {
		err := BackendLog.AddLogFile(logFile, LevelTrace)
		if err != nil {
			return errors.Wrapf(err, "error adding log file %s as log rotator for level %s", logFile, LevelTrace)
		}
	}
	if errLogFile != "" {
		err := BackendLog.AddLogFile(errLogFile, LevelWarn)
		if err != nil {
			return errors.Wrapf(err, "error adding log file %s as log rotator for level %s", errLogFile, LevelWarn)
		}
	}
	err := BackendLog.AddLogWriter(os.Stderr, stderrLevel)
	if err != nil {
		return err
	}
	return BackendLog.Run()
}

// SetLogLevel sets the logging level for the provided subsystem. Invalid
// subsystems are ignored. Uninitialized subsystems are dynamically created as
// needed.
func SetLogLevel(subsystemID string, logLevel string) {
	logger, ok := subsystemLoggers[subsystemID]
	if !ok {
		return
	}
	level, _ := LevelFromString(logLevel)
	logger.SetLevel(level)
}

// SetLogLevels sets the log level for all subsystem loggers to the passed
// level.
func SetLogLevels(logLevel string) {
	for subsystemID := range subsystemLoggers {
		SetLogLevel(subsystemID, logLevel)
	}
}

// SupportedSubsystems returns a sorted slice of the supported subsystems for
// logging purposes.
func SupportedSubsystems() []string {
	subsystems := make([]string, 0, len(subsystemLoggers))
	for subsysID := range subsystemLoggers {
		subsystems = append(subsystems, subsysID)
	}
	sort.Strings(subsystems)
	return subsystems
}

// Get returns a logger of a specific sub system
func Get(tag string) (logger *Logger, ok bool) {
	logger, ok = subsystemLoggers[tag]
	return
}

// ParseAndSetLogLevels attempts to parse the specified debug level and set
// the levels accordingly. An appropriate error is returned if anything is
// invalid. Accepted forms are a single level applied to all subsystems,
// e.g. "debug", or a comma separated list of subsystem=level pairs,
// e.g. "BLDR=debug,POWM=trace".
func ParseAndSetLogLevels(logLevel string) error {
	if !strings.Contains(logLevel, ",") && !strings.Contains(logLevel, "=") {
		if _, ok := LevelFromString(logLevel); !ok {
			return errors.Errorf("the specified debug level [%s] is invalid", logLevel)
		}
		SetLogLevels(logLevel)
		return nil
	}

	for _, logLevelPair := range strings.Split(logLevel, ",") {
		if !strings.Contains(logLevelPair, "=") {
			return errors.Errorf("the specified debug level contains an invalid "+
				"subsystem/level pair [%s]", logLevelPair)
		}
		fields := strings.Split(logLevelPair, "=")
		subsysID, level := fields[0], fields[1]

		if _, exists := Get(subsysID); !exists {
			return errors.Errorf("the specified subsystem [%s] is invalid -- "+
				"supported subsystems %s", subsysID, strings.Join(SupportedSubsystems(), ", "))
		}
		if _, ok := LevelFromString(level); !ok {
			return errors.Errorf("the specified debug level [%s] is invalid", level)
		}
		SetLogLevel(subsysID, level)
	}
	return nil
}

// LevelsString returns the current level of every subsystem, for
// diagnostics.
func LevelsString() string {
	parts := make([]string, 0, len(subsystemLoggers))
	for _, subsystemID := range SupportedSubsystems() {
		parts = append(parts, fmt.Sprintf("%s=%s", subsystemID, subsystemLoggers[subsystemID].Level()))
	}
	return strings.Join(parts, ",")
}
