package handout

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ktnetscraper/ktnet/internal/kttime"
)

func sampleRecord() Record {
	start := time.Date(2000, 1, 1, 3, 34, 0, 0, kttime.JST)
	r := NewRecord()
	r.Name = "教材E"
	r.Unit = "ユニットA"
	r.UnitSequence = "2"
	r.Topic = "テーマB"
	r.Teachers = []string{"牧瀬教授", "岡部講師"}
	r.LessonType = "講義"
	r.Course = "C学"
	r.ReleaseStart = &start
	r.FileName = "レジュメ６.pdf"
	r.SessionDate = "20000101"
	r.Period = "5"
	r.DownloadURL = "https://kt.kanazawa-med.ac.jp/timetable/Download.php?kz=1"
	return r
}

func TestNewRecordIsTarget(t *testing.T) {
	r := NewRecord()
	if !r.IsDownloadTarget {
		t.Error("NewRecord().IsDownloadTarget = false, want true")
	}
}

func TestRecordTargets(t *testing.T) {
	r := sampleRecord()
	if got := r.TargetURL(); got != r.DownloadURL {
		t.Errorf("TargetURL() = %q, want %q", got, r.DownloadURL)
	}

	r.ToggleTarget()
	if r.IsDownloadTarget {
		t.Fatal("ToggleTarget() left record a target")
	}
	if got := r.TargetURL(); got != "" {
		t.Errorf("TargetURL() on non-target = %q, want empty", got)
	}
	if got := r.Field(FieldTargetIcon); got != NonTargetIcon {
		t.Errorf("Field(FieldTargetIcon) = %q, want %q", got, NonTargetIcon)
	}

	r.SetTarget(true)
	if got := r.Field(FieldTargetIcon); got != TargetIcon {
		t.Errorf("Field(FieldTargetIcon) = %q, want %q", got, TargetIcon)
	}
}

func TestRecordField(t *testing.T) {
	r := sampleRecord()

	tests := []struct {
		field Field
		value string
		shown string
	}{
		{FieldName, "教材E", "教材E"},
		{FieldTeachers, "牧瀬教授, 岡部講師", "牧瀬教授, 岡部講師"},
		{FieldSessionDate, "20000101", "2000/01/01"},
		{FieldPeriod, "5", "5限"},
		{FieldReleaseStart, "2000/01/01 03:34", "2000/01/01"},
		{FieldReleaseEnd, "", ""},
		{FieldTarget, "true", "true"},
		{FieldUnitSequence, "2", "2"},
	}

	for _, tt := range tests {
		t.Run(tt.field.String(), func(t *testing.T) {
			if got := r.Value(tt.field); got != tt.value {
				t.Errorf("Value(%s) = %q, want %q", tt.field, got, tt.value)
			}
			if got := r.Field(tt.field); got != tt.shown {
				t.Errorf("Field(%s) = %q, want %q", tt.field, got, tt.shown)
			}
		})
	}
}

func TestRecordPeriodEmpty(t *testing.T) {
	if got := NewRecord().Field(FieldPeriod); got != "" {
		t.Errorf("Field(FieldPeriod) on empty record = %q, want empty", got)
	}
}

func TestRecordClone(t *testing.T) {
	r := sampleRecord()
	c := r.Clone()

	if diff := cmp.Diff(r, c); diff != "" {
		t.Fatalf("Clone() mismatch (-want +got):\n%s", diff)
	}

	c.Teachers[0] = "changed"
	*c.ReleaseStart = c.ReleaseStart.Add(time.Hour)
	if r.Teachers[0] != "牧瀬教授" {
		t.Error("Clone() shares the Teachers slice")
	}
	if r.ReleaseStart.Hour() != 3 {
		t.Error("Clone() shares ReleaseStart")
	}
}

func TestParseField(t *testing.T) {
	for i := FieldName; i <= FieldTargetIcon; i++ {
		got, err := ParseField(i.String())
		if err != nil {
			t.Fatalf("ParseField(%q) unexpected error: %v", i.String(), err)
		}
		if got != i {
			t.Errorf("ParseField(%q) = %v, want %v", i.String(), got, i)
		}
	}

	if _, err := ParseField("nope"); err == nil {
		t.Error("ParseField(\"nope\") expected error")
	}
}

func TestParseFields(t *testing.T) {
	tests := []struct {
		input   string
		want    []Field
		wantErr bool
	}{
		{input: "", want: DefaultFields()},
		{input: "all", want: AllFields()},
		{input: "unit, name ,PERIOD", want: []Field{FieldUnit, FieldName, FieldPeriod}},
		{input: "unit,bogus", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFields(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFields(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseFields(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestHeader(t *testing.T) {
	h := NewHeader()
	if got := h.Field(FieldName); got != "教材名" {
		t.Errorf("Field(FieldName) = %q, want %q", got, "教材名")
	}

	h.Set(FieldName, "Name")
	if got := h.Field(FieldName); got != "Name" {
		t.Errorf("Field(FieldName) after Set = %q, want %q", got, "Name")
	}

	h.Reset()
	if got := h.Field(FieldName); got != "教材名" {
		t.Errorf("Field(FieldName) after Reset = %q, want %q", got, "教材名")
	}

	var _ Displayable = h
	var _ Displayable = Record{}
}
