package handout

import (
	"fmt"
	"sort"
)

// Collection is an ordered list of handout records. Records are stored by
// value; methods that hand records out return clones unless documented
// otherwise.
type Collection struct {
	records []Record

	// Header labels the rendered columns. May be nil.
	Header *Header
}

// NewCollection returns a collection holding clones of records and the default
// header.
func NewCollection(records ...Record) *Collection {
	c := &Collection{Header: NewHeader()}
	c.Append(records...)
	return c
}

// Append adds clones of records to the end of the collection.
func (c *Collection) Append(records ...Record) {
	for _, r := range records {
		c.records = append(c.records, r.Clone())
	}
}

// Len returns the number of records.
func (c *Collection) Len() int {
	return len(c.records)
}

// At returns a clone of the record at index i.
func (c *Collection) At(i int) (Record, error) {
	if err := c.checkIndex(i); err != nil {
		return Record{}, err
	}
	return c.records[i].Clone(), nil
}

// View returns clones of every record in order. Changes to the result do not
// affect the collection.
func (c *Collection) View() []Record {
	out := make([]Record, len(c.records))
	for i, r := range c.records {
		out[i] = r.Clone()
	}
	return out
}

// Clone returns an independent deep copy of the collection.
func (c *Collection) Clone() *Collection {
	out := &Collection{records: c.View()}
	if c.Header != nil {
		h := NewHeader()
		for f, l := range c.Header.labels {
			h.labels[f] = l
		}
		out.Header = h
	}
	return out
}

// Refer returns pointers into the collection's storage for the given indexes.
// The records are shared: writes through the pointers change the collection.
// The pointers are invalidated by Append, Delete, Pop and Sort.
func (c *Collection) Refer(indexes []int) ([]*Record, error) {
	out := make([]*Record, 0, len(indexes))
	for _, i := range indexes {
		if err := c.checkIndex(i); err != nil {
			return nil, err
		}
		out = append(out, &c.records[i])
	}
	return out, nil
}

// Copy returns clones of the records at indexes, in the order given. A nil
// slice copies every record.
func (c *Collection) Copy(indexes []int) ([]Record, error) {
	if indexes == nil {
		return c.View(), nil
	}
	out := make([]Record, 0, len(indexes))
	for _, i := range indexes {
		if err := c.checkIndex(i); err != nil {
			return nil, err
		}
		out = append(out, c.records[i].Clone())
	}
	return out, nil
}

// Delete removes the records at indexes. A nil slice removes every record.
// Duplicate indexes are removed once.
func (c *Collection) Delete(indexes []int) error {
	if indexes == nil {
		c.records = nil
		return nil
	}

	drop := make(map[int]bool, len(indexes))
	for _, i := range indexes {
		if err := c.checkIndex(i); err != nil {
			return err
		}
		drop[i] = true
	}

	kept := c.records[:0]
	for i, r := range c.records {
		if !drop[i] {
			kept = append(kept, r)
		}
	}
	c.records = kept
	return nil
}

// Pop removes the records at indexes and returns them.
func (c *Collection) Pop(indexes []int) ([]Record, error) {
	out, err := c.Copy(indexes)
	if err != nil {
		return nil, err
	}
	if err := c.Delete(indexes); err != nil {
		return nil, err
	}
	return out, nil
}

// SetAllTargets marks every record as a download target or not.
func (c *Collection) SetAllTargets(target bool) {
	for i := range c.records {
		c.records[i].SetTarget(target)
	}
}

// SetTargets marks the records at indexes.
func (c *Collection) SetTargets(indexes []int, target bool) error {
	for _, i := range indexes {
		if err := c.checkIndex(i); err != nil {
			return err
		}
	}
	for _, i := range indexes {
		c.records[i].SetTarget(target)
	}
	return nil
}

// Targets returns clones of the records selected for download.
func (c *Collection) Targets() []Record {
	var out []Record
	for _, r := range c.records {
		if r.IsDownloadTarget {
			out = append(out, r.Clone())
		}
	}
	return out
}

// Filter returns, in ascending order, the indexes of records that satisfy every
// criterion. With no criteria every index is returned.
func (c *Collection) Filter(criteria ...Criterion) []int {
	cs := Criteria(criteria)
	out := make([]int, 0, len(c.records))
	for i, r := range c.records {
		if cs.Matches(r) {
			out = append(out, i)
		}
	}
	return out
}

// Sort orders the records by keys, earlier keys taking priority. Records that
// compare equal keep their relative order. With no keys DefaultSortKeys is used.
func (c *Collection) Sort(keys ...SortKey) {
	if len(keys) == 0 {
		keys = DefaultSortKeys()
	}
	sort.SliceStable(c.records, func(i, j int) bool {
		return less(c.records[i], c.records[j], keys)
	})
}

func (c *Collection) checkIndex(i int) error {
	if i < 0 || i >= len(c.records) {
		return fmt.Errorf("index %d out of range [0,%d)", i, len(c.records))
	}
	return nil
}
