package handout

import (
	"fmt"
	"strings"
)

// Criterion matches records whose field equals any one of Values.
// A criterion with no values matches nothing.
type Criterion struct {
	Field  Field
	Values []string
}

// Matches reports whether r satisfies the criterion. Teachers match when any
// listed teacher equals a value, or when the joined list does.
func (c Criterion) Matches(r Record) bool {
	for _, v := range c.Values {
		if c.Field == FieldTeachers && r.HasTeacher(v) {
			return true
		}
		if r.Value(c.Field) == v {
			return true
		}
	}
	return false
}

func (c Criterion) String() string {
	return fmt.Sprintf("%s=%s", c.Field, strings.Join(c.Values, ","))
}

// Criteria is a conjunction: every criterion must match.
type Criteria []Criterion

// IsEmpty returns true if there are no criteria.
func (cs Criteria) IsEmpty() bool {
	return len(cs) == 0
}

// Matches reports whether r satisfies every criterion. Empty criteria match
// every record.
func (cs Criteria) Matches(r Record) bool {
	for _, c := range cs {
		if !c.Matches(r) {
			return false
		}
	}
	return true
}

func (cs Criteria) String() string {
	if cs.IsEmpty() {
		return "No filters"
	}
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.String()
	}
	return strings.Join(parts, " AND ")
}

// ParseCriterion parses "field=value1,value2".
func ParseCriterion(input string) (Criterion, error) {
	key, values, ok := strings.Cut(input, "=")
	if !ok {
		return Criterion{}, fmt.Errorf("invalid filter %q: expected field=value[,value...]", input)
	}

	f, err := ParseField(key)
	if err != nil {
		return Criterion{}, fmt.Errorf("invalid filter %q: %w", input, err)
	}

	c := Criterion{Field: f}
	for _, v := range strings.Split(values, ",") {
		if v = strings.TrimSpace(v); v != "" {
			c.Values = append(c.Values, v)
		}
	}
	if len(c.Values) == 0 {
		return Criterion{}, fmt.Errorf("invalid filter %q: no values", input)
	}
	return c, nil
}

// ParseCriteria parses each input with ParseCriterion.
func ParseCriteria(inputs []string) (Criteria, error) {
	cs := make(Criteria, 0, len(inputs))
	for _, in := range inputs {
		c, err := ParseCriterion(in)
		if err != nil {
			return nil, err
		}
		cs = append(cs, c)
	}
	return cs, nil
}
