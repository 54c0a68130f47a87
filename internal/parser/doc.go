// Package parser classifies portal pages and extracts handout records from them.
//
// Every page the portal serves starts its title with a "■" marker; the rune
// after the first marker tells the page kind apart. Handout-detail pages list
// their fields as "●label<br />value<br />" segments, which ExtractHandout walks
// with per-label rules.
//
// All functions are pure and safe for concurrent use. Input must already be
// decoded to UTF-8.
package parser
