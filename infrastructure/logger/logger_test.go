package logger

import (
	"bytes"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

type syncBuffer struct {
	mtx sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	return b.buf.String()
}

func TestLoggerFiltersByLevel(t *testing.T) {
	backend := NewBackendWithFlags(0)
	all := &syncBuffer{}
	warnings := &syncBuffer{}
	if err := backend.AddLogWriter(all, LevelTrace); err != nil {
		t.Fatalf("AddLogWriter: %+v", err)
	}
	if err := backend.AddLogWriter(warnings, LevelWarn); err != nil {
		t.Fatalf("AddLogWriter: %+v", err)
	}
	if err := backend.Run(); err != nil {
		t.Fatalf("Run: %+v", err)
	}

	log := backend.Logger("TEST")
	log.Infof("dropped while the logger is off")
	log.SetLevel(LevelDebug)
	log.Tracef("dropped below the logger level")
	log.Debugf("debug %d", 1)
	log.Warnf("warn %d", 2)
	backend.Close()

	allOutput := all.String()
	if strings.Contains(allOutput, "dropped") {
		t.Fatalf("TestLoggerFiltersByLevel: filtered entries were written:\n%s", allOutput)
	}
	if !strings.Contains(allOutput, "[DBG] TEST: debug 1\n") || !strings.Contains(allOutput, "[WRN] TEST: warn 2\n") {
		t.Fatalf("TestLoggerFiltersByLevel: unexpected output:\n%s", allOutput)
	}
	warningsOutput := warnings.String()
	if strings.Contains(warningsOutput, "debug 1") || !strings.Contains(warningsOutput, "warn 2") {
		t.Fatalf("TestLoggerFiltersByLevel: unexpected warnings output:\n%s", warningsOutput)
	}
}

func TestBackendCloseTwice(t *testing.T) {
	backend := NewBackendWithFlags(0)
	output := &syncBuffer{}
	if err := backend.AddLogWriter(output, LevelTrace); err != nil {
		t.Fatalf("AddLogWriter: %+v", err)
	}
	if err := backend.Run(); err != nil {
		t.Fatalf("Run: %+v", err)
	}

	log := backend.Logger("TEST")
	log.SetLevel(LevelTrace)
	log.Infof("before close")
	backend.Close()
	backend.Close()
	log.Criticalf("after close")

	if backend.IsRunning() {
		t.Fatalf("TestBackendCloseTwice: backend still running after Close")
	}
	if !strings.Contains(output.String(), "before close") || strings.Contains(output.String(), "after close") {
		t.Fatalf("TestBackendCloseTwice: unexpected output:\n%s", output.String())
	}
}

func TestLoggerDropsEntriesBeforeRun(t *testing.T) {
	backend := NewBackendWithFlags(0)
	log := backend.Logger("TEST")
	log.SetLevel(LevelTrace)

	// Must not block even though nothing reads the entries.
	log.Criticalf("nobody is listening")
}

func TestLoggerShortFile(t *testing.T) {
	backend := NewBackendWithFlags(LogFlagShortFile)
	output := &syncBuffer{}
	if err := backend.AddLogWriter(output, LevelTrace); err != nil {
		t.Fatalf("AddLogWriter: %+v", err)
	}
	if err := backend.Run(); err != nil {
		t.Fatalf("Run: %+v", err)
	}
	log := backend.Logger("TEST")
	log.SetLevel(LevelTrace)
	log.Infof("with callsite")
	backend.Close()

	if !strings.Contains(output.String(), "TEST logger_test.go:") {
		t.Fatalf("TestLoggerShortFile: callsite missing:\n%s", output.String())
	}
}

func TestBackendRejectsChangesWhileRunning(t *testing.T) {
	backend := NewBackendWithFlags(0)
	if err := backend.Run(); err != nil {
		t.Fatalf("Run: %+v", err)
	}
	defer backend.Close()

	if err := backend.Run(); err == nil {
		t.Fatalf("TestBackendRejectsChangesWhileRunning: second Run succeeded")
	}
	if err := backend.AddLogWriter(&syncBuffer{}, LevelInfo); err == nil {
		t.Fatalf("TestBackendRejectsChangesWhileRunning: AddLogWriter succeeded on a running backend")
	}
	logFile := filepath.Join(t.TempDir(), "test.log")
	if err := backend.AddLogFile(logFile, LevelInfo); err == nil {
		t.Fatalf("TestBackendRejectsChangesWhileRunning: AddLogFile succeeded on a running backend")
	}
}

func TestParseAndSetLogLevels(t *testing.T) {
	defer SetLogLevels("off")

	tests := []struct {
		input         string
		expectedError bool
		expected      map[string]Level
	}{
		{input: "debug", expected: map[string]Level{"BLDR": LevelDebug, "MUTN": LevelDebug}},
		{input: "BLDR=trace,POWM=warn", expected: map[string]Level{"BLDR": LevelTrace, "POWM": LevelWarn}},
		{input: "loud", expectedError: true},
		{input: "NOPE=debug", expectedError: true},
		{input: "BLDR=loud", expectedError: true},
		{input: "BLDR=debug,MUTN", expectedError: true},
	}
	for _, test := range tests {
		SetLogLevels("off")
		err := ParseAndSetLogLevels(test.input)
		if test.expectedError {
			if err == nil {
				t.Errorf("TestParseAndSetLogLevels: %q: expected an error", test.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("TestParseAndSetLogLevels: %q: unexpected error: %+v", test.input, err)
			continue
		}
		for tag, expectedLevel := range test.expected {
			log, _ := Get(tag)
			if log.Level() != expectedLevel {
				t.Errorf("TestParseAndSetLogLevels: %q: expected %s at %s, got %s",
					test.input, tag, expectedLevel, log.Level())
			}
		}
	}
}

func TestLevelFlag(t *testing.T) {
	var level Level
	if err := level.UnmarshalFlag("WARN"); err != nil {
		t.Fatalf("UnmarshalFlag: %+v", err)
	}
	if level != LevelWarn {
		t.Fatalf("TestLevelFlag: expected %s, got %s", LevelWarn, level)
	}
	if err := level.UnmarshalFlag("loud"); err == nil {
		t.Fatalf("TestLevelFlag: expected an error for an unknown level")
	}
	marshalled, _ := level.MarshalFlag()
	if marshalled != "wrn" {
		t.Fatalf("TestLevelFlag: expected wrn, got %s", marshalled)
	}
}

func TestSupportedSubsystems(t *testing.T) {
	expected := []string{"BFRG", "BLDR", "MUTN", "POWM"}
	subsystems := SupportedSubsystems()
	if strings.Join(subsystems, ",") != strings.Join(expected, ",") {
		t.Fatalf("TestSupportedSubsystems: expected %v, got %v", expected, subsystems)
	}
}

func TestLevelsString(t *testing.T) {
	defer SetLogLevels("off")

	SetLogLevels("off")
	if err := ParseAndSetLogLevels("BLDR=trace,POWM=warn"); err != nil {
		t.Fatalf("ParseAndSetLogLevels: %+v", err)
	}
	expected := "BFRG=OFF,BLDR=TRC,MUTN=OFF,POWM=WRN"
	if levels := LevelsString(); levels != expected {
		t.Fatalf("TestLevelsString: expected %q, got %q", expected, levels)
	}
}
