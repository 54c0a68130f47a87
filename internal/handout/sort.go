package handout

import (
	"fmt"
	"strconv"
	"strings"
)

// SortKey orders records by one field.
type SortKey struct {
	Field      Field
	Descending bool
}

func (k SortKey) String() string {
	if k.Descending {
		return "-" + k.Field.String()
	}
	return k.Field.String()
}

// DefaultSortKeys orders by session date, then period, then name.
func DefaultSortKeys() []SortKey {
	return []SortKey{{Field: FieldSessionDate}, {Field: FieldPeriod}, {Field: FieldName}}
}

// ParseSortKeys parses "date,period,-name". A leading "-" sorts that key in
// descending order. An empty list yields DefaultSortKeys.
func ParseSortKeys(list string) ([]SortKey, error) {
	list = strings.TrimSpace(list)
	if list == "" {
		return DefaultSortKeys(), nil
	}

	var keys []SortKey
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		desc := strings.HasPrefix(part, "-")
		f, err := ParseField(strings.TrimPrefix(part, "-"))
		if err != nil {
			return nil, fmt.Errorf("invalid sort key %q: %w", part, err)
		}
		keys = append(keys, SortKey{Field: f, Descending: desc})
	}
	return keys, nil
}

// less compares a and b key by key. Values that both parse as integers are
// compared numerically so "10" sorts after "9".
func less(a, b Record, keys []SortKey) bool {
	for _, k := range keys {
		c := compareValues(a.Value(k.Field), b.Value(k.Field))
		if c == 0 {
			continue
		}
		if k.Descending {
			return c > 0
		}
		return c < 0
	}
	return false
}

func compareValues(a, b string) int {
	if ai, err := strconv.Atoi(a); err == nil {
		if bi, err := strconv.Atoi(b); err == nil {
			switch {
			case ai < bi:
				return -1
			case ai > bi:
				return 1
			}
			return 0
		}
	}
	return strings.Compare(a, b)
}
