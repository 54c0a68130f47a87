package kttime

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// DateTimeLayout is the portal's release date layout, e.g. "2000/01/01 03:34".
	DateTimeLayout = "2006/01/02 15:04"
	// DateLayout is the slash-delimited calendar date layout.
	DateLayout = "2006/01/02"
	// CompactLayout is the 8-digit YYYYMMDD layout.
	CompactLayout = "20060102"
)

// JST is the fixed UTC+9 zone of the portal.
var JST = time.FixedZone("JST", 9*60*60)

// ErrFormat is returned for malformed date or date-time text.
var ErrFormat = errors.New("malformed date")

// ParseDateTime parses text in the exact form "YYYY/MM/DD HH:mm" and returns the
// instant in JST.
func ParseDateTime(text string) (time.Time, error) {
	if utf8.RuneCountInString(text) != len(DateTimeLayout) {
		return time.Time{}, fmt.Errorf("%w: %q is not YYYY/MM/DD HH:mm", ErrFormat, text)
	}

	t, err := time.ParseInLocation(DateTimeLayout, text, JST)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrFormat, text, err)
	}
	return t, nil
}

// FormatDateTime renders t in JST using DateTimeLayout.
func FormatDateTime(t time.Time) string {
	return t.In(JST).Format(DateTimeLayout)
}

// CalendarDate is a civil date without a time of day.
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

// DateInput is any accepted representation of a calendar date.
// Implementations: Digits8, SlashDate and CalendarDate.
type DateInput interface {
	Date() (CalendarDate, error)
}

// Digits8 is a compact date string such as "20230401".
type Digits8 string

// SlashDate is a slash-delimited date string such as "2023/04/01" or "2023/4/1".
type SlashDate string

// Date validates and converts the compact form.
func (d Digits8) Date() (CalendarDate, error) {
	s := string(d)
	if len(s) != len(CompactLayout) || !allDigits(s) {
		return CalendarDate{}, fmt.Errorf("%w: %q is not YYYYMMDD", ErrFormat, s)
	}
	year, _ := strconv.Atoi(s[0:4])
	month, _ := strconv.Atoi(s[4:6])
	day, _ := strconv.Atoi(s[6:8])
	return CalendarDate{Year: year, Month: time.Month(month), Day: day}.Date()
}

// Date validates and converts the slash form. Components need not be zero padded.
func (d SlashDate) Date() (CalendarDate, error) {
	parts := strings.Split(strings.TrimSpace(string(d)), "/")
	if len(parts) != 3 {
		return CalendarDate{}, fmt.Errorf("%w: %q is not YYYY/MM/DD", ErrFormat, string(d))
	}

	nums := make([]int, 3)
	for i, p := range parts {
		if p == "" || !allDigits(p) {
			return CalendarDate{}, fmt.Errorf("%w: %q is not YYYY/MM/DD", ErrFormat, string(d))
		}
		nums[i], _ = strconv.Atoi(p)
	}
	return CalendarDate{Year: nums[0], Month: time.Month(nums[1]), Day: nums[2]}.Date()
}

// Date reports an error when the date does not exist on the calendar.
func (c CalendarDate) Date() (CalendarDate, error) {
	t := time.Date(c.Year, c.Month, c.Day, 0, 0, 0, 0, JST)
	if c.Year < 1 || c.Year > 9999 || t.Year() != c.Year || t.Month() != c.Month || t.Day() != c.Day {
		return CalendarDate{}, fmt.Errorf("%w: %04d/%02d/%02d does not exist", ErrFormat, c.Year, int(c.Month), c.Day)
	}
	return c, nil
}

// Time returns midnight of the date in JST.
func (c CalendarDate) Time() time.Time {
	return time.Date(c.Year, c.Month, c.Day, 0, 0, 0, 0, JST)
}

// Compact returns the zero-padded YYYYMMDD form.
func (c CalendarDate) Compact() string {
	return fmt.Sprintf("%04d%02d%02d", c.Year, int(c.Month), c.Day)
}

func (c CalendarDate) String() string {
	return fmt.Sprintf("%04d/%02d/%02d", c.Year, int(c.Month), c.Day)
}

// DateOf returns the JST calendar date of t.
func DateOf(t time.Time) CalendarDate {
	t = t.In(JST)
	return CalendarDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// NormalizeDate converts any DateInput into the 8-digit YYYYMMDD form.
func NormalizeDate(in DateInput) (string, error) {
	d, err := in.Date()
	if err != nil {
		return "", err
	}
	return d.Compact(), nil
}

// ParseDateText accepts command-line style dates: "YYYYMMDD" or "YYYY/MM/DD".
func ParseDateText(text string) (CalendarDate, error) {
	text = strings.TrimSpace(text)
	if strings.Contains(text, "/") {
		return SlashDate(text).Date()
	}
	return Digits8(text).Date()
}

// DisplayDate renders a compact date as YYYY/MM/DD. Anything that is not a
// valid compact date is returned unchanged.
func DisplayDate(compact string) string {
	d, err := Digits8(compact).Date()
	if err != nil {
		return compact
	}
	return d.String()
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
