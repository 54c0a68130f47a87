package parser

import (
	"errors"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Kind
	}{
		{"login", "<div>■ログイン</div>", KindLogin},
		{"menu", "<div>■メニュー</div>", KindMenu},
		{"timetable", "<div>■時間割</div>", KindTimetable},
		{"handout", "<div>■教材情報</div>", KindHandout},
		{"empty", "", KindUnknown},
		{"xml declaration only", `<?xml version="1.0" encoding="Shift_JIS"?>`, KindUnknown},
		{"unknown title", "■お知らせ", KindUnknown},
		{"marker is last rune", "<div>■", KindUnknown},
		{"first marker wins", "■メニュー ■ログイン", KindMenu},
		{"title on next line", "■\nメニュー", KindMenu},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.text); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestClassifyFixtures(t *testing.T) {
	tests := []struct {
		fixture string
		want    Kind
	}{
		{"index.html", KindLogin},
		{"menu.html", KindMenu},
		{"timetable.html", KindTimetable},
		{"timetable_no_class.html", KindTimetable},
		{"handout.html", KindHandout},
	}

	for _, tt := range tests {
		t.Run(tt.fixture, func(t *testing.T) {
			if got := Classify(loadFixture(t, tt.fixture)); got != tt.want {
				t.Errorf("Classify(%s) = %v, want %v", tt.fixture, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	pages := map[Kind]string{
		KindLogin:     "■ログイン",
		KindMenu:      "■メニュー",
		KindTimetable: "■時間割",
		KindHandout:   "■教材情報",
		KindUnknown:   "no marker",
	}
	kinds := []Kind{KindLogin, KindMenu, KindTimetable, KindHandout, KindUnknown}

	for actual, text := range pages {
		for _, expected := range kinds {
			t.Run(actual.String()+"/"+expected.String(), func(t *testing.T) {
				got, err := Validate(text, expected)
				if got != actual {
					t.Errorf("Validate() kind = %v, want %v", got, actual)
				}

				switch {
				case actual == expected:
					if err != nil {
						t.Errorf("Validate() unexpected error: %v", err)
					}
				case actual == KindLogin:
					if !errors.Is(err, ErrLoginRequired) {
						t.Errorf("Validate() error = %v, want ErrLoginRequired", err)
					}
				default:
					if !errors.Is(err, ErrUnexpectedContent) {
						t.Errorf("Validate() error = %v, want ErrUnexpectedContent", err)
					}
					var ce *ContentError
					if !errors.As(err, &ce) || ce.Kind != actual {
						t.Errorf("Validate() error = %v, want ContentError with kind %v", err, actual)
					}
				}
			})
		}
	}
}

func TestLoginStatus(t *testing.T) {
	tests := []struct {
		fixture string
		want    bool
	}{
		{"menu.html", true},
		{"timetable_no_class.html", true},
		{"handout.html", true},
		{"index.html", false},
	}

	for _, tt := range tests {
		t.Run(tt.fixture, func(t *testing.T) {
			got, err := LoginStatus(loadFixture(t, tt.fixture))
			if err != nil {
				t.Fatalf("LoginStatus(%s) unexpected error: %v", tt.fixture, err)
			}
			if got != tt.want {
				t.Errorf("LoginStatus(%s) = %v, want %v", tt.fixture, got, tt.want)
			}
		})
	}

	for _, text := range []string{"", `<?xml version="1.0" encoding="Shift_JIS"?>`} {
		if _, err := LoginStatus(text); !errors.Is(err, ErrUnexpectedContent) {
			t.Errorf("LoginStatus(%q) error = %v, want ErrUnexpectedContent", text, err)
		}
	}
}

func TestKindString(t *testing.T) {
	if got := Kind(42).String(); got != "unknown" {
		t.Errorf("Kind(42).String() = %q, want %q", got, "unknown")
	}
}
