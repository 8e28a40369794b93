package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{Level(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("Level.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", DebugLevel},
		{"INFO", InfoLevel},
		{"warning", WarnLevel},
		{"ERROR", ErrorLevel},
		{"verbose", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFieldConstructors(t *testing.T) {
	t.Run("Duration", func(t *testing.T) {
		f := Duration("timeout", 5*time.Second)
		if f.Key != "timeout" || f.Value != "5s" {
			t.Errorf("Duration() = %+v", f)
		}
	})

	t.Run("Error", func(t *testing.T) {
		f := Error(errors.New("no convergence"))
		if f.Key != "error" || f.Value != "no convergence" {
			t.Errorf("Error() = %+v", f)
		}
		if f := Error(nil); f.Value != nil {
			t.Errorf("Error(nil) = %+v", f)
		}
	})

	t.Run("Pressure", func(t *testing.T) {
		if f := Pressure("p", 12.5); f.Value != 12.5 {
			t.Errorf("Pressure() = %+v", f)
		}
		if f := Pressure("p", math.NaN()); f.Value != nil {
			t.Errorf("Pressure(NaN) = %+v, want nil value", f)
		}
	})

	t.Run("Network", func(t *testing.T) {
		if f := Subnet(3); f.Key != "subnet" || f.Value != 3 {
			t.Errorf("Subnet() = %+v", f)
		}
		if f := WellID("W-12"); f.Key != "well_id" || f.Value != "W-12" {
			t.Errorf("WellID() = %+v", f)
		}
	})
}

func TestJSONLogger_BasicLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, DebugLevel)

	logger.Info("subnet solved", Subnet(7), Count(12))

	var entry Entry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal log entry: %v", err)
	}

	if entry.Level != "INFO" {
		t.Errorf("Level = %v, want INFO", entry.Level)
	}
	if entry.Message != "subnet solved" {
		t.Errorf("Message = %v, want 'subnet solved'", entry.Message)
	}
	if entry.Fields["subnet"] != float64(7) { // JSON numbers decode as float64
		t.Errorf("Fields[subnet] = %v, want 7", entry.Fields["subnet"])
	}
	if entry.Time == "" {
		t.Error("Time field is empty")
	}
}

func TestJSONLogger_NaNDoesNotBreakEncoding(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	logger.Info("node pressure", Float64("pressure", math.NaN()), Float64("inf", math.Inf(1)))

	var entry Entry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Entry with NaN was not valid JSON: %v (%s)", err, buf.String())
	}
	if entry.Fields["pressure"] != "NaN" {
		t.Errorf("pressure = %v, want \"NaN\"", entry.Fields["pressure"])
	}
}

func TestJSONLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 log entries, got %d", len(lines))
	}

	var entry Entry
	if err := json.Unmarshal([]byte(lines[1]), &entry); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if entry.Level != "ERROR" {
		t.Errorf("Second entry level = %v, want ERROR", entry.Level)
	}
}

func TestJSONLogger_WithSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)
	child := logger.With(Component("solver"), Subnet(1))

	logger.SetLevel(ErrorLevel)
	child.Info("suppressed")
	if buf.Len() != 0 {
		t.Fatal("Child should follow the parent's level")
	}

	logger.SetLevel(InfoLevel)
	child.Info("kept", EdgeIndex(4))

	var entry Entry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if entry.Fields["component"] != "solver" || entry.Fields["edge"] != float64(4) {
		t.Errorf("Unexpected fields: %v", entry.Fields)
	}
}

func TestGlobalHelperFunctions(t *testing.T) {
	var buf bytes.Buffer
	SetDefaultLogger(NewJSONLogger(&buf, DebugLevel))
	defer SetDefaultLogger(nil)

	Debug("debug msg")
	Info("info msg")
	Warn("warn msg")
	ErrorLog("error msg")
	With(RunID("r1")).Info("child msg")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("Expected 5 log entries, got %d", len(lines))
	}

	levels := []string{"DEBUG", "INFO", "WARN", "ERROR", "INFO"}
	for i, expectedLevel := range levels {
		var entry Entry
		if err := json.Unmarshal([]byte(lines[i]), &entry); err != nil {
			t.Fatalf("Failed to unmarshal entry %d: %v", i, err)
		}
		if entry.Level != expectedLevel {
			t.Errorf("Entry %d level = %v, want %v", i, entry.Level, expectedLevel)
		}
	}
}

func TestDefaultLogger_LazyInit(t *testing.T) {
	SetDefaultLogger(nil)
	if DefaultLogger() == nil {
		t.Fatal("DefaultLogger() returned nil")
	}
}

func TestStartTimer(t *testing.T) {
	mem := NewMemoryLogger(DebugLevel)

	timer := StartTimer(mem, "run finished", RunID("abc"))
	timer.End(Count(3))
	timer.EndError(errors.New("boom"))

	records := mem.Records()
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if _, ok := records[0].Fields["latency"]; !ok {
		t.Error("End() should attach latency")
	}
	if records[0].Fields["count"] != 3 || records[0].Fields["run_id"] != "abc" {
		t.Errorf("Unexpected fields: %v", records[0].Fields)
	}
	if records[1].Level != ErrorLevel || records[1].Fields["error"] != "boom" {
		t.Errorf("EndError() = %+v", records[1])
	}
}

func TestMemoryLogger(t *testing.T) {
	mem := NewMemoryLogger(InfoLevel)
	child := mem.With(Subnet(2))

	mem.Debug("hidden")
	child.Warn("well data missing", WellID("W1"))

	if got := len(mem.Records()); got != 1 {
		t.Fatalf("Expected 1 record, got %d", got)
	}

	found := mem.Find("missing")
	if len(found) != 1 {
		t.Fatalf("Find() returned %d records", len(found))
	}
	if found[0].Fields["subnet"] != 2 || found[0].Fields["well_id"] != "W1" {
		t.Errorf("Unexpected fields: %v", found[0].Fields)
	}
	if len(mem.Find("absent")) != 0 {
		t.Error("Find() should not match unrelated messages")
	}
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.With(Subnet(1)).Error("ignored")
	if l.GetLevel() != InfoLevel {
		t.Errorf("GetLevel() = %v", l.GetLevel())
	}
}
