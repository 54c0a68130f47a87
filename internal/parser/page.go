package parser

import (
	"strings"
	"unicode/utf8"
)

// Kind is the type of a portal page.
type Kind int

const (
	KindUnknown Kind = iota
	KindLogin
	KindMenu
	KindTimetable
	KindHandout
)

const pageMarker = "■"

func (k Kind) String() string {
	switch k {
	case KindLogin:
		return "login"
	case KindMenu:
		return "menu"
	case KindTimetable:
		return "timetable"
	case KindHandout:
		return "handout"
	default:
		return "unknown"
	}
}

// Classify returns the kind of page from the rune following the first "■":
// ロ(グイン), メ(ニュー), 時(間割) or 教(材情報). Line feeds are ignored, so a
// title broken onto the next line still classifies.
func Classify(text string) Kind {
	i := strings.Index(text, pageMarker)
	if i < 0 {
		return KindUnknown
	}

	rest := strings.TrimLeft(text[i+len(pageMarker):], "\n")
	r, _ := utf8.DecodeRuneInString(rest)
	switch r {
	case 'ロ':
		return KindLogin
	case 'メ':
		return KindMenu
	case '時':
		return KindTimetable
	case '教':
		return KindHandout
	default:
		return KindUnknown
	}
}

// Validate classifies text and checks it against expected. A login page is
// reported as ErrLoginRequired unless a login page was expected; any other
// mismatch is ErrUnexpectedContent.
func Validate(text string, expected Kind) (Kind, error) {
	kind := Classify(text)
	switch {
	case kind == expected:
		return kind, nil
	case kind == KindLogin:
		return kind, loginRequired()
	default:
		return kind, unexpected(kind, "expected %s page", expected)
	}
}

// LoginStatus reports whether the page a login attempt landed on belongs to an
// authenticated session.
func LoginStatus(text string) (bool, error) {
	switch kind := Classify(text); kind {
	case KindMenu, KindTimetable, KindHandout:
		return true, nil
	case KindLogin:
		return false, nil
	default:
		return false, unexpected(kind, "expected a page served after login")
	}
}
