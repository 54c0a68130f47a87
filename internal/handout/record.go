package handout

import (
	"strconv"
	"strings"
	"time"

	"github.com/ktnetscraper/ktnet/internal/kttime"
)

const (
	// TargetIcon marks a record selected for download.
	TargetIcon = "◆"
	// NonTargetIcon marks a record excluded from download.
	NonTargetIcon = "◇"
)

// Record is one downloadable course material. Empty strings and nil times mean
// the portal did not list the value.
type Record struct {
	Name         string     `json:"name,omitempty"`
	Unit         string     `json:"unit,omitempty"`
	UnitSequence string     `json:"unit_sequence,omitempty"`
	Topic        string     `json:"topic,omitempty"`
	Teachers     []string   `json:"teachers,omitempty"`
	LessonType   string     `json:"lesson_type,omitempty"`
	Course       string     `json:"course,omitempty"`
	ReleaseStart *time.Time `json:"release_start,omitempty"`
	ReleaseEnd   *time.Time `json:"release_end,omitempty"`
	Description  string     `json:"description,omitempty"`
	FileName     string     `json:"file_name,omitempty"`
	SessionDate  string     `json:"session_date,omitempty"` // YYYYMMDD
	Period       string     `json:"period,omitempty"`
	DownloadURL  string     `json:"download_url,omitempty"`

	IsDownloadTarget bool `json:"is_download_target"`
}

// NewRecord returns an empty record that is a download target.
func NewRecord() Record {
	return Record{IsDownloadTarget: true}
}

// SetTarget includes or excludes the record from batch downloads.
func (r *Record) SetTarget(target bool) {
	r.IsDownloadTarget = target
}

// ToggleTarget flips IsDownloadTarget.
func (r *Record) ToggleTarget() {
	r.IsDownloadTarget = !r.IsDownloadTarget
}

// TargetURL returns DownloadURL for download targets and "" otherwise.
func (r Record) TargetURL() string {
	if !r.IsDownloadTarget {
		return ""
	}
	return r.DownloadURL
}

// Clone returns a deep copy.
func (r Record) Clone() Record {
	out := r
	if r.Teachers != nil {
		out.Teachers = append([]string(nil), r.Teachers...)
	}
	if r.ReleaseStart != nil {
		t := *r.ReleaseStart
		out.ReleaseStart = &t
	}
	if r.ReleaseEnd != nil {
		t := *r.ReleaseEnd
		out.ReleaseEnd = &t
	}
	return out
}

// Value returns the raw text form of f, used for filtering and sorting.
// Dates are compact YYYYMMDD, release times are "YYYY/MM/DD HH:mm".
func (r Record) Value(f Field) string {
	switch f {
	case FieldName:
		return r.Name
	case FieldUnit:
		return r.Unit
	case FieldUnitSequence:
		return r.UnitSequence
	case FieldTopic:
		return r.Topic
	case FieldTeachers:
		return strings.Join(r.Teachers, ", ")
	case FieldLessonType:
		return r.LessonType
	case FieldCourse:
		return r.Course
	case FieldReleaseStart:
		return formatTime(r.ReleaseStart, kttime.DateTimeLayout)
	case FieldReleaseEnd:
		return formatTime(r.ReleaseEnd, kttime.DateTimeLayout)
	case FieldDescription:
		return r.Description
	case FieldFileName:
		return r.FileName
	case FieldSessionDate:
		return r.SessionDate
	case FieldPeriod:
		return r.Period
	case FieldURL:
		return r.DownloadURL
	case FieldTarget:
		return strconv.FormatBool(r.IsDownloadTarget)
	case FieldTargetIcon:
		return r.icon()
	}
	return ""
}

// Field returns the display form of f: dates as YYYY/MM/DD, the period with a
// 限 suffix and the target as an icon.
func (r Record) Field(f Field) string {
	switch f {
	case FieldReleaseStart:
		return formatTime(r.ReleaseStart, kttime.DateLayout)
	case FieldReleaseEnd:
		return formatTime(r.ReleaseEnd, kttime.DateLayout)
	case FieldSessionDate:
		return kttime.DisplayDate(r.SessionDate)
	case FieldPeriod:
		if r.Period == "" {
			return ""
		}
		return r.Period + "限"
	}
	return r.Value(f)
}

// HasTeacher reports whether name is one of the listed teachers.
func (r Record) HasTeacher(name string) bool {
	for _, t := range r.Teachers {
		if t == name {
			return true
		}
	}
	return false
}

func (r Record) icon() string {
	if r.IsDownloadTarget {
		return TargetIcon
	}
	return NonTargetIcon
}

func formatTime(t *time.Time, layout string) string {
	if t == nil {
		return ""
	}
	return t.In(kttime.JST).Format(layout)
}
