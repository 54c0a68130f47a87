package handout

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func rec(unit, name, date, period string, teachers ...string) Record {
	r := NewRecord()
	r.Unit = unit
	r.Name = name
	r.SessionDate = date
	r.Period = period
	r.Teachers = teachers
	return r
}

func fixtureCollection() *Collection {
	return NewCollection(
		rec("算数", "b", "20200102", "1", "教員A"),
		rec("国語", "a", "20200101", "2", "教員B", "教員C"),
		rec("算数", "c", "20200101", "1", "教員C"),
		rec("理科", "d", "20200103", "3"),
	)
}

func names(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name
	}
	return out
}

func TestCollectionFilter(t *testing.T) {
	c := fixtureCollection()

	tests := []struct {
		name     string
		criteria []Criterion
		want     []int
	}{
		{
			name: "no criteria",
			want: []int{0, 1, 2, 3},
		},
		{
			name:     "or within a field",
			criteria: []Criterion{{Field: FieldUnit, Values: []string{"算数", "国語"}}},
			want:     []int{0, 1, 2},
		},
		{
			name: "and across fields",
			criteria: []Criterion{
				{Field: FieldUnit, Values: []string{"算数", "国語"}},
				{Field: FieldSessionDate, Values: []string{"20200101"}},
			},
			want: []int{1, 2},
		},
		{
			name:     "teacher membership",
			criteria: []Criterion{{Field: FieldTeachers, Values: []string{"教員C"}}},
			want:     []int{1, 2},
		},
		{
			name:     "empty value set",
			criteria: []Criterion{{Field: FieldUnit}},
			want:     []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, c.Filter(tt.criteria...))
		})
	}
}

func TestCollectionSort(t *testing.T) {
	c := fixtureCollection()
	c.Sort()
	require.Equal(t, []string{"c", "a", "b", "d"}, names(c.View()))

	c.Sort(SortKey{Field: FieldUnit}, SortKey{Field: FieldName, Descending: true})
	// 国 < 理 < 算 in code point order.
	require.Equal(t, []string{"a", "d", "c", "b"}, names(c.View()))
}

func TestCollectionSortStable(t *testing.T) {
	c := NewCollection(
		rec("x", "first", "20200101", "1"),
		rec("x", "second", "20200101", "1"),
		rec("x", "third", "20200101", "1"),
	)
	c.Sort(SortKey{Field: FieldUnit, Descending: true})
	require.Equal(t, []string{"first", "second", "third"}, names(c.View()))
}

func TestCollectionSortNumeric(t *testing.T) {
	a := rec("u", "a", "", "")
	a.UnitSequence = "10"
	b := rec("u", "b", "", "")
	b.UnitSequence = "9"
	c := NewCollection(a, b)
	c.Sort(SortKey{Field: FieldUnitSequence})
	require.Equal(t, []string{"b", "a"}, names(c.View()))
}

func TestCollectionOwnership(t *testing.T) {
	c := fixtureCollection()

	view := c.View()
	view[0].Name = "mutated"
	view[0].Teachers[0] = "mutated"
	got, err := c.At(0)
	require.NoError(t, err)
	require.Equal(t, "b", got.Name)
	require.Equal(t, "教員A", got.Teachers[0])

	refs, err := c.Refer([]int{0})
	require.NoError(t, err)
	refs[0].Name = "shared"
	got, err = c.At(0)
	require.NoError(t, err)
	require.Equal(t, "shared", got.Name)

	clone := c.Clone()
	clone.SetAllTargets(false)
	require.Len(t, c.Targets(), 4)
	require.Empty(t, clone.Targets())
}

func TestCollectionCopyDeletePop(t *testing.T) {
	c := fixtureCollection()

	copied, err := c.Copy([]int{2, 0})
	require.NoError(t, err)
	require.Equal(t, []string{"c", "b"}, names(copied))

	popped, err := c.Pop([]int{1, 1})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "a"}, names(popped))
	require.Equal(t, []string{"b", "c", "d"}, names(c.View()))

	require.NoError(t, c.Delete([]int{0, 2}))
	require.Equal(t, []string{"c"}, names(c.View()))

	require.Error(t, c.Delete([]int{5}))
	_, err = c.Copy([]int{-1})
	require.Error(t, err)
	_, err = c.Refer([]int{1})
	require.Error(t, err)

	require.NoError(t, c.Delete(nil))
	require.Equal(t, 0, c.Len())
}

func TestCollectionTargets(t *testing.T) {
	c := fixtureCollection()
	require.NoError(t, c.SetTargets([]int{1, 3}, false))
	require.Equal(t, []string{"b", "c"}, names(c.Targets()))

	require.Error(t, c.SetTargets([]int{0, 9}, false))
	require.Len(t, c.Targets(), 2, "failed SetTargets must not change anything")
}

func TestParseCriterion(t *testing.T) {
	c, err := ParseCriterion("unit=算数, 国語")
	require.NoError(t, err)
	require.Equal(t, Criterion{Field: FieldUnit, Values: []string{"算数", "国語"}}, c)
	require.Equal(t, "unit=算数,国語", c.String())

	for _, bad := range []string{"unit", "bogus=1", "unit= , "} {
		_, err := ParseCriterion(bad)
		require.Error(t, err, bad)
	}

	cs, err := ParseCriteria([]string{"unit=算数", "date=20200101"})
	require.NoError(t, err)
	require.Equal(t, "unit=算数 AND date=20200101", cs.String())
	require.Equal(t, "No filters", Criteria{}.String())
}

func TestParseSortKeys(t *testing.T) {
	keys, err := ParseSortKeys("date, -name")
	require.NoError(t, err)
	require.Equal(t, []SortKey{{Field: FieldSessionDate}, {Field: FieldName, Descending: true}}, keys)

	keys, err = ParseSortKeys("")
	require.NoError(t, err)
	require.Equal(t, DefaultSortKeys(), keys)

	_, err = ParseSortKeys("-bogus")
	require.Error(t, err)
}

func TestRender(t *testing.T) {
	records := []Record{rec("A", "教材", "20000101", "5")}
	fields := []Field{FieldUnit, FieldName, FieldPeriod}

	var buf bytes.Buffer
	err := Render(&buf, records, RenderOptions{Fields: fields, Separate: true, Header: NewHeader()})
	require.NoError(t, err)

	want := "ユニット   教材名   時限\n" +
		"A" + strings.Repeat(" ", 8) + "| 教材" + strings.Repeat(" ", 3) + "| 5限\n"
	require.Equal(t, want, buf.String())

	buf.Reset()
	err = Render(&buf, records, RenderOptions{Fields: fields})
	require.NoError(t, err)
	require.Equal(t, "A   教材   5限\n", buf.String())
}

func TestRenderFixedWidth(t *testing.T) {
	records := []Record{rec("ユニットA", "教材", "", "")}

	var buf bytes.Buffer
	err := Render(&buf, records, RenderOptions{Fields: []Field{FieldUnit, FieldName}, Widths: []int{5}})
	require.NoError(t, err)
	require.Equal(t, "ユニ    教材\n", buf.String())
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	RenderTable(&buf, []Record{rec("A", "教材", "20000101", "5")}, []Field{FieldUnit, FieldPeriod}, nil)

	out := buf.String()
	require.Contains(t, out, "UNIT")
	require.Contains(t, out, "5限")
}
