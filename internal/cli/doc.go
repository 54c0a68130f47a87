// Package cli implements the ktnet command-line interface.
//
// The cli package provides the Cobra-based commands for listing the handouts
// of a day (text, table or JSON output with field selection, sorting and
// filtering), downloading them into a per-unit directory tree, and checking
// the login status. It wires config, portal, download and logger together;
// every run appends its log archive to the configured file on exit.
package cli
