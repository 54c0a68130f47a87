package main

// Parses a handout or timetable page saved from the portal and prints what
// ktnet extracts from it. Pages saved by a browser are usually Shift_JIS;
// pass -utf8 for pages already converted.
//
//	go run ./scripts/parse-page.go View_Kyozai.html

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"golang.org/x/text/encoding/japanese"

	"github.com/ktnetscraper/ktnet/internal/parser"
)

func main() {
	utf8 := flag.Bool("utf8", false, "Input is already UTF-8")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: parse-page [-utf8] FILE")
		os.Exit(2)
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		os.Exit(1)
	}
	if !*utf8 {
		if data, err = japanese.ShiftJIS.NewDecoder().Bytes(data); err != nil {
			fmt.Fprintf(os.Stderr, "Error decoding Shift_JIS: %v\n", err)
			os.Exit(1)
		}
	}
	text := string(data)

	var out interface{}
	switch kind := parser.Classify(text); kind {
	case parser.KindHandout:
		out, err = parser.ExtractHandout(text)
	case parser.KindTimetable:
		out, err = parser.HandoutPageURLs(text)
	default:
		fmt.Printf("Page kind: %s\n", kind)
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing page: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		os.Exit(1)
	}
}
