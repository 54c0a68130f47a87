package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLogger_Log(t *testing.T) {
	var buf bytes.Buffer
	logger := New(LevelInfo, &buf)

	tests := []struct {
		name    string
		level   Level
		message string
		fields  Fields
		err     error
		want    bool // should log
	}{
		{
			name:    "info message",
			level:   LevelInfo,
			message: "fetched handout",
			fields:  Fields{"url": "https://example.com"},
			want:    true,
		},
		{
			name:    "debug below threshold",
			level:   LevelDebug,
			message: "debug message",
			want:    false,
		},
		{
			name:    "error with err",
			level:   LevelError,
			message: "download failed",
			err:     errors.New("connection reset"),
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			logger.log(tt.level, tt.message, tt.fields, tt.err)

			logged := buf.Len() > 0
			if logged != tt.want {
				t.Fatalf("log() logged = %v, want %v", logged, tt.want)
			}
			if !logged {
				return
			}

			var entry LogEntry
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if entry.Message != tt.message || entry.Level != string(tt.level) {
				t.Errorf("entry = %+v, want message %q level %q", entry, tt.message, tt.level)
			}
			if tt.err != nil && entry.Error != tt.err.Error() {
				t.Errorf("entry.Error = %q, want %q", entry.Error, tt.err.Error())
			}
		})
	}
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name      string
		minLevel  Level
		logLevel  Level
		shouldLog bool
	}{
		{"debug logs at debug", LevelDebug, LevelDebug, true},
		{"info logs at debug", LevelDebug, LevelInfo, true},
		{"debug doesn't log at info", LevelInfo, LevelDebug, false},
		{"warn doesn't log at error", LevelError, LevelWarn, false},
		{"error always logs", LevelDebug, LevelError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			New(tt.minLevel, &buf).log(tt.logLevel, "test", nil, nil)

			if logged := buf.Len() > 0; logged != tt.shouldLog {
				t.Errorf("shouldLog = %v, want %v", logged, tt.shouldLog)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"info", LevelInfo, false},
		{" DEBUG ", LevelDebug, false},
		{"warning", LevelWarn, false},
		{"Error", LevelError, false},
		{"loud", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func fixedArchive(at time.Time) *Archive {
	a := NewArchive()
	a.now = func() time.Time { return at }
	return a
}

func TestLogger_Archive(t *testing.T) {
	at := time.Date(2024, 4, 1, 9, 5, 7, 0, time.Local)
	archive := fixedArchive(at)

	var buf bytes.Buffer
	logger := New(LevelInfo, &buf)
	logger.SetArchive(archive)

	logger.Debug("hidden", nil)
	logger.Info("fetched", Fields{"count": 3, "date": "20240401"})
	logger.Warn("slow", nil)
	logger.Error("failed", nil, errors.New("boom"))

	want := []string{
		"2024/04/01 09:05:07 PROGRESS fetched count=3 date=20240401",
		"2024/04/01 09:05:07 WARNING  slow",
		"2024/04/01 09:05:07 ERROR    failed: boom",
	}
	got := archive.Lines()
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("Lines() = %q, want %q", got, want)
	}
}

func TestArchive_Newlines(t *testing.T) {
	at := time.Date(2000, 1, 1, 0, 0, 0, 0, time.Local)
	a := fixedArchive(at)

	a.Add(StatusProgress, "line one\nline two")
	a.Add(StatusProgress, "n@keep\nbreaks")
	a.Add(Status("CUSTOM"), "x")

	want := []string{
		"2000/01/01 00:00:00 PROGRESS line oneline two",
		"2000/01/01 00:00:00 PROGRESS keep\nbreaks",
		"2000/01/01 00:00:00 CUSTOM x",
	}
	got := a.Lines()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Lines()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestArchive_Store(t *testing.T) {
	at := time.Date(2000, 1, 1, 12, 0, 0, 0, time.Local)
	a := fixedArchive(at)
	path := filepath.Join(t.TempDir(), "ktnet.log")

	a.Add(StatusProgress, "first")
	if err := a.Store(path); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if a.Len() != 0 {
		t.Errorf("Len() after Store = %d, want 0", a.Len())
	}

	a.Add(StatusError, "second")
	if err := a.Store(path); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "2000/01/01 12:00:00 PROGRESS first\n2000/01/01 12:00:00 ERROR    second\n"
	if string(data) != want {
		t.Errorf("stored archive = %q, want %q", string(data), want)
	}
}

func TestArchive_StoreFailureKeepsEntries(t *testing.T) {
	a := NewArchive()
	a.Add(StatusProgress, "kept")

	err := a.Store(filepath.Join(t.TempDir(), "missing", "ktnet.log"))
	if err == nil {
		t.Fatal("Store() into a missing directory expected error")
	}
	if a.Len() != 1 {
		t.Errorf("Len() after failed Store = %d, want 1", a.Len())
	}
}

func TestMetrics_Counter(t *testing.T) {
	m := NewMetrics()

	m.IncrCounter("pages.fetched")
	m.IncrCounter("pages.fetched")
	m.AddCounter("pages.fetched", 3)

	if got := m.GetSnapshot().Counters["pages.fetched"]; got != 5 {
		t.Errorf("Counter = %v, want 5", got)
	}
}

func TestMetrics_Timing(t *testing.T) {
	m := NewMetrics()

	m.RecordTiming("portal.request", 100*time.Millisecond)
	m.RecordTiming("portal.request", 200*time.Millisecond)
	m.RecordTiming("portal.request", 150*time.Millisecond)

	st := m.GetSnapshot().Timings["portal.request"]
	if st.Count != 3 {
		t.Errorf("Timing count = %v, want 3", st.Count)
	}
	if st.Min != 100*time.Millisecond {
		t.Errorf("Min timing = %v, want 100ms", st.Min)
	}
	if st.Max != 200*time.Millisecond {
		t.Errorf("Max timing = %v, want 200ms", st.Max)
	}
	if st.Average != 150*time.Millisecond {
		t.Errorf("Average timing = %v, want 150ms", st.Average)
	}
}

func TestPackageLevelFunctions(t *testing.T) {
	var buf bytes.Buffer
	SetDefault(New(LevelDebug, &buf))
	defer SetDefault(New(LevelInfo, os.Stderr))

	Debug("test debug", nil)
	Info("test info", Fields{"key": "value"})
	Warn("test warning", nil)
	Error("test error", Fields{"component": "test"}, errors.New("test"))

	if got := strings.Count(buf.String(), "\n"); got != 4 {
		t.Errorf("default logger wrote %d lines, want 4", got)
	}

	IncrCounter("test")
	RecordTiming("test", time.Second)
	if GetMetricsSnapshot().Counters["test"] < 1 {
		t.Error("GetMetricsSnapshot() missing counter")
	}
}
