package parser

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ktnetscraper/ktnet/internal/handout"
	"github.com/ktnetscraper/ktnet/internal/kttime"
)

// TimetableBase prefixes every relative link found on timetable and handout pages.
const TimetableBase = "https://kt.kanazawa-med.ac.jp/timetable"

const (
	segmentMarker = '●'
	lineBreak     = "<br />"
)

var (
	lineBreakRunes = []rune(lineBreak)

	// unit sequences read like "第2回", sometimes padded with full-width spaces
	sequenceNoise = regexp.MustCompile(`[第回\s\p{Zs}]`)

	teacherDelimiters = regexp.MustCompile(`[,，、､]+`)
)

// segment is the text between two "●" markers, measured in runes.
type segment struct {
	text   []rune
	breaks []int // rune offsets of each "<br />"
}

func newSegment(text []rune) segment {
	return segment{text: text, breaks: indexAll(text, lineBreakRunes)}
}

// label is the text up to the first break, or the whole segment without one.
func (s segment) label() string {
	if len(s.breaks) == 0 {
		return strings.TrimSpace(string(s.text))
	}
	return strings.TrimSpace(string(s.text[:s.breaks[0]]))
}

// line returns the raw text between break n-1 and break n, for n >= 1.
func (s segment) line(n int) (string, bool) {
	if n < 1 || n >= len(s.breaks) {
		return "", false
	}
	return string(s.text[s.breaks[n-1]+len(lineBreakRunes) : s.breaks[n]]), true
}

// body is the trimmed first line after the label.
func (s segment) body() (string, bool) {
	l, ok := s.line(1)
	return strings.TrimSpace(l), ok
}

// ExtractHandout parses a handout-detail page. Links are resolved against
// TimetableBase.
func ExtractHandout(text string) (handout.Record, error) {
	return ExtractHandoutFrom(text, TimetableBase)
}

// ExtractHandoutFrom parses a handout-detail page, resolving the download link
// against base.
//
// A page with no "●" segments yields an empty record. A segment whose label
// names a known field but lacks the line breaks needed to read it fails the
// whole extraction with ErrUnexpectedContent. Segments with unknown labels are
// skipped.
func ExtractHandoutFrom(text, base string) (handout.Record, error) {
	text = strings.ReplaceAll(text, "\n", "")
	if _, err := Validate(text, KindHandout); err != nil {
		return handout.Record{}, err
	}

	src := []rune(text)
	marks := indexRune(src, segmentMarker)

	rec := handout.NewRecord()
	for i := 0; i < len(marks); i++ {
		seg, merged := segmentAt(src, marks, i)
		if err := apply(&rec, seg, base); err != nil {
			return handout.Record{}, err
		}
		if merged {
			// the next segment is the tail of this one's value
			i++
		}
	}
	return rec, nil
}

// segmentAt cuts the i-th segment. The last two segments run to the end of the
// text. A segment with fewer than two breaks is assumed to have been split by a
// literal "●" inside a value and is merged with the following one, which is
// reported by merged; only one such merge is attempted.
func segmentAt(src []rune, marks []int, i int) (seg segment, merged bool) {
	start := marks[i] + 1
	end := len(src)
	if i < len(marks)-2 {
		end = marks[i+1]
	}

	seg = newSegment(src[start:end])
	if len(seg.breaks) < 2 && i+2 < len(marks) {
		return newSegment(src[start:marks[i+2]]), true
	}
	return seg, false
}

// apply routes one segment to the record field its label names. The order of
// the cases matters: the "本文" label carries the file name, which may itself
// contain any of the later keywords.
func apply(rec *handout.Record, seg segment, base string) error {
	label := seg.label()

	switch {
	case strings.Contains(label, "本文"):
		return applyLink(rec, label, base)
	case strings.Contains(label, "ユニ"):
		return applyUnit(rec, seg)
	case strings.Contains(label, "区分"):
		return setBody(&rec.LessonType, seg, label)
	case strings.Contains(label, "講義"):
		return setBody(&rec.Topic, seg, label)
	case strings.Contains(label, "講座"):
		return setBody(&rec.Course, seg, label)
	case strings.Contains(label, "担当"):
		var body string
		if err := setBody(&body, seg, label); err != nil {
			return err
		}
		rec.Teachers = SplitTeachers(body)
		return nil
	case label == "公開開始日":
		return setTime(&rec.ReleaseStart, seg, label)
	case label == "公開終了日":
		return setTime(&rec.ReleaseEnd, seg, label)
	case label == "教材・資料名":
		return setBody(&rec.Name, seg, label)
	case label == "教材・資料の説明":
		return setBody(&rec.Description, seg, label)
	}
	return nil
}

func setBody(dst *string, seg segment, label string) error {
	body, ok := seg.body()
	if !ok {
		return unexpected(KindHandout, "segment %q has %d line breaks, want at least 2", label, len(seg.breaks))
	}
	*dst = body
	return nil
}

// setTime leaves dst nil when the portal lists the field without a value.
func setTime(dst **time.Time, seg segment, label string) error {
	var body string
	if err := setBody(&body, seg, label); err != nil {
		return err
	}
	if body == "" {
		return nil
	}

	t, err := kttime.ParseDateTime(body)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", label, err)
	}
	*dst = &t
	return nil
}

// applyLink reads `本文 <a href="./Download.php?...">name.pdf</a>`. A label
// without an href has no file attached and is left alone.
func applyLink(rec *handout.Record, label, base string) error {
	const attr = `href="`

	hrefPos := strings.Index(label, attr)
	if hrefPos < 0 {
		return nil
	}
	closePos := strings.LastIndex(label, "</a")
	start := hrefPos + len(attr)
	if closePos < start {
		return unexpected(KindHandout, "unterminated link in %q", label)
	}

	part := label[start:closePos]
	quote := strings.Index(part, `"`)
	gt := strings.Index(part, ">")
	if quote < 0 || gt < quote {
		return unexpected(KindHandout, "malformed link in %q", label)
	}

	path := strings.TrimPrefix(part[:quote], ".")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	rec.DownloadURL = base + path
	rec.FileName = strings.TrimSpace(part[gt+1:])
	return nil
}

// applyUnit reads the unit segment:
//
//	ユニット<br />name<br />第2回<br />01月01日（土）5限<br />
//
// The period is the rune two places before the fourth break.
func applyUnit(rec *handout.Record, seg segment) error {
	if len(seg.breaks) < 4 {
		return unexpected(KindHandout, "unit segment has %d line breaks, want at least 4", len(seg.breaks))
	}

	unit, _ := seg.line(1)
	sequence, _ := seg.line(2)
	p := seg.breaks[3]
	if p < 2 {
		return unexpected(KindHandout, "unit segment has no period")
	}

	rec.Unit = strings.TrimSpace(unit)
	rec.UnitSequence = sequenceNoise.ReplaceAllString(sequence, "")
	rec.Period = string(seg.text[p-2 : p-1])
	return nil
}

// SplitTeachers splits a teacher list on half- and full-width commas and
// ideographic commas, trimming each name. Order and duplicates are kept; empty
// names are dropped.
func SplitTeachers(list string) []string {
	var out []string
	for _, name := range teacherDelimiters.Split(list, -1) {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func indexRune(src []rune, r rune) []int {
	var out []int
	for i, c := range src {
		if c == r {
			out = append(out, i)
		}
	}
	return out
}

// indexAll returns the offsets of non-overlapping occurrences of pat in src.
func indexAll(src, pat []rune) []int {
	var out []int
	for i := 0; i+len(pat) <= len(src); {
		if runesEqual(src[i:i+len(pat)], pat) {
			out = append(out, i)
			i += len(pat)
			continue
		}
		i++
	}
	return out
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
