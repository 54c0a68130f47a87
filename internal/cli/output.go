package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/ktnetscraper/ktnet/internal/handout"
	"github.com/ktnetscraper/ktnet/internal/parser"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText  OutputFormat = "text"
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
)

// ParseFormat validates a --format value. allowed lists the formats the
// command supports.
func ParseFormat(s string, allowed ...OutputFormat) (OutputFormat, error) {
	f := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	names := make([]string, len(allowed))
	for i, a := range allowed {
		if f == a {
			return f, nil
		}
		names[i] = "'" + string(a) + "'"
	}
	return "", fmt.Errorf("invalid format: %s (must be %s)", s, strings.Join(names, " or "))
}

// ListResult is the output of the list command.
type ListResult struct {
	Date     string           `json:"date"`
	Faculty  string           `json:"faculty,omitempty"`
	Grade    string           `json:"grade,omitempty"`
	Filter   string           `json:"filter,omitempty"`
	Count    int              `json:"count"`
	Handouts []handout.Record `json:"handouts"`
}

// ListView controls how a ListResult is rendered as text or table.
type ListView struct {
	Fields   []handout.Field
	Separate bool
	Header   *handout.Header
}

// WriteList writes the result in the specified format
func WriteList(w io.Writer, result *ListResult, format OutputFormat, view ListView) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatTable:
		if result.Count == 0 {
			fmt.Fprintln(w, "No handouts found.")
			return nil
		}
		handout.RenderTable(w, result.Handouts, view.Fields, view.Header)
		return nil
	case FormatText:
		return writeListText(w, result, view)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func writeListText(w io.Writer, result *ListResult, view ListView) error {
	if result.Count == 0 {
		fmt.Fprintln(w, "No handouts found.")
		return nil
	}

	err := handout.Render(w, result.Handouts, handout.RenderOptions{
		Fields:   view.Fields,
		Separate: view.Separate,
		Header:   view.Header,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "\nTotal: %d handouts", result.Count)
	if result.Filter != "" {
		fmt.Fprintf(w, " (%s)", result.Filter)
	}
	fmt.Fprintln(w)
	return nil
}

// DownloadResult is the output of the download command.
type DownloadResult struct {
	Date    string   `json:"date"`
	Dir     string   `json:"dir"`
	Targets int      `json:"targets"`
	Saved   []string `json:"saved"`
	Errors  []string `json:"errors,omitempty"`
}

// WriteDownload writes the result in the specified format
func WriteDownload(w io.Writer, result *DownloadResult, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		for _, p := range result.Saved {
			fmt.Fprintf(w, "%s %s\n", color.GreenString("✓"), p)
		}
		for _, e := range result.Errors {
			fmt.Fprintf(w, "%s %s\n", color.RedString("✗"), e)
		}
		fmt.Fprintf(w, "\nSaved %d of %d handouts to %s\n", len(result.Saved), result.Targets, result.Dir)
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// StatusResult is the output of the status command.
type StatusResult struct {
	User     string `json:"user"`
	LoggedIn bool   `json:"logged_in"`
	Faculty  string `json:"faculty,omitempty"`
	Grade    string `json:"grade,omitempty"`
	BaseURL  string `json:"base_url"`
}

// WriteStatus writes the result in the specified format
func WriteStatus(w io.Writer, result *StatusResult, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		state := color.RedString("not logged in")
		if result.LoggedIn {
			state = color.GreenString("logged in")
		}
		fmt.Fprintf(w, "%s  %s (%s)\n", color.CyanString("User:"), result.User, state)
		fmt.Fprintf(w, "%s  %s\n", color.CyanString("Portal:"), result.BaseURL)
		if result.Faculty != "" {
			fmt.Fprintf(w, "%s  %s, grade %s\n", color.CyanString("Class:"), facultyName(result.Faculty), result.Grade)
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func facultyName(code string) string {
	switch code {
	case parser.FacultyMedicine:
		return "医学部 (M)"
	case parser.FacultyNursing:
		return "看護学部 (N)"
	case parser.FacultyGraduateNursing:
		return "看護学研究科 (K)"
	case parser.FacultyGraduate:
		return "大学院 (D)"
	default:
		return code
	}
}
