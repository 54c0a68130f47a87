package main

import "github.com/ktnetscraper/ktnet/internal/cli"

func main() {
	cli.Execute()
}
