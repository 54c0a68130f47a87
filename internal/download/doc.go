// Package download saves handout files to disk.
//
// Files are laid out by unit:
//
//	<dir>/<unit>/<file name>
//
// Records without a unit go under "その他". A manifest.json in <dir> remembers
// which download URLs were already saved so repeated runs skip them.
package download
