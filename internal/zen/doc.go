// Package zen measures and pads strings by terminal display width, counting
// East Asian wide, fullwidth and ambiguous characters as two columns.
package zen
