// Package handout holds the typed records produced from handout-detail pages
// and an ordered collection with filter, sort and rendering helpers.
//
// Fields are addressed through the closed Field enum rather than string keys.
// Both Record and Header implement Displayable, so a header row is rendered
// with the same code path as data rows without being a record itself.
//
// Example usage:
//
//	c := handout.NewCollection()
//	c.Append(records...)
//	c.Sort(handout.DefaultSortKeys()...)
//	idx := c.Filter(handout.Criterion{Field: handout.FieldUnit, Values: []string{"ユニットA"}})
//	handout.Render(os.Stdout, c.Copy(idx), handout.RenderOptions{Header: handout.NewHeader()})
package handout
