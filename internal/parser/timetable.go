package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Faculty codes sent in the timetable query.
const (
	FacultyMedicine        = "M"
	FacultyNursing         = "N"
	FacultyGraduateNursing = "K"
	FacultyGraduate        = "D"
)

var (
	undergraduatePattern = regexp.MustCompile(`(..)学部(\d)年`)
	graduatePattern      = regexp.MustCompile(`(...)大学院（\d）(\d)年`)
)

// FacultyAndGrade reads the logged-in student's faculty code and grade from a
// timetable page, e.g. "医学部2年" gives ("M", "2").
func FacultyAndGrade(text string) (faculty, grade string, err error) {
	text = strings.ReplaceAll(text, "\n", "")
	if _, err := Validate(text, KindTimetable); err != nil {
		return "", "", err
	}

	if m := undergraduatePattern.FindStringSubmatch(text); m != nil {
		prefix := []rune(m[1])
		switch {
		case prefix[1] == '医':
			return FacultyMedicine, m[2], nil
		case m[1] == "看護":
			return FacultyNursing, m[2], nil
		}
	}

	if m := graduatePattern.FindStringSubmatch(text); m != nil {
		if m[1] == "看護学" {
			return FacultyGraduateNursing, m[2], nil
		}
		return FacultyGraduate, m[2], nil
	}

	return "", "", unexpected(KindTimetable, "no faculty and grade found")
}

// HandoutPageURLs returns the handout-detail links of a timetable page,
// resolved against TimetableBase.
func HandoutPageURLs(text string) ([]string, error) {
	return HandoutPageURLsFrom(text, TimetableBase)
}

// HandoutPageURLsFrom returns the View_Kyozai links of a timetable page in
// document order without duplicates, resolved against base.
func HandoutPageURLsFrom(text, base string) ([]string, error) {
	if _, err := Validate(strings.ReplaceAll(text, "\n", ""), KindTimetable); err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	seen := make(map[string]bool)
	urls := make([]string, 0)
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		path := strings.TrimPrefix(strings.TrimSpace(href), ".")
		if !strings.HasPrefix(path, "/View_Kyozai") {
			return
		}
		u := base + path
		if !seen[u] {
			seen[u] = true
			urls = append(urls, u)
		}
	})

	return urls, nil
}
