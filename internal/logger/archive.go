package logger

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// Status is the severity column of an archived line.
type Status string

const (
	StatusProgress Status = "PROGRESS"
	StatusError    Status = "ERROR"
	StatusWarning  Status = "WARNING"
)

// keepNewlines at the start of a message keeps its line breaks in the archive.
const keepNewlines = "n@"

const archiveTimeLayout = "2006/01/02 15:04:05"

// ArchiveEntry is one archived log line.
type ArchiveEntry struct {
	Time    time.Time
	Status  Status
	Message string
}

// String formats the entry as "YYYY/MM/DD HH:MM:SS STATUS   message". Known
// statuses are padded to eight columns.
func (e ArchiveEntry) String() string {
	status := string(e.Status)
	switch e.Status {
	case StatusProgress, StatusError, StatusWarning:
		status = fmt.Sprintf("%-8s", status)
	}
	return e.Time.Format(archiveTimeLayout) + " " + status + " " + e.Message
}

// Archive keeps log lines in memory until they are stored. Safe for
// concurrent use.
type Archive struct {
	mu      sync.Mutex
	entries []ArchiveEntry
	now     func() time.Time
}

// NewArchive returns an empty archive stamped with the local clock.
func NewArchive() *Archive {
	return &Archive{now: time.Now}
}

// Add archives message. Line breaks are removed unless the message starts
// with "n@", which is itself dropped.
func (a *Archive) Add(status Status, message string) {
	if strings.HasPrefix(message, keepNewlines) {
		message = strings.TrimPrefix(message, keepNewlines)
	} else {
		message = strings.NewReplacer("\r", "", "\n", "").Replace(message)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, ArchiveEntry{Time: a.now(), Status: status, Message: message})
}

// Len returns the number of archived lines.
func (a *Archive) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.entries)
}

// Lines returns the archived lines formatted, without clearing them.
func (a *Archive) Lines() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	lines := make([]string, len(a.entries))
	for i, e := range a.entries {
		lines[i] = e.String()
	}
	return lines
}

// Clear drops every archived line.
func (a *Archive) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = nil
}

// Store appends the archived lines to the file at path, creating it if needed,
// and clears the archive. On error the archive is left intact.
func (a *Archive) Store(path string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.entries) == 0 {
		return nil
	}

	var b strings.Builder
	for _, e := range a.entries {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening log archive: %w", err)
	}
	if _, err := f.WriteString(b.String()); err != nil {
		f.Close()
		return fmt.Errorf("writing log archive: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing log archive: %w", err)
	}

	a.entries = nil
	return nil
}
