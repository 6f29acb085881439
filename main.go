// Package main is the entry point for the reviewdash CLI.
package main

import "github.com/sadopc/reviewdash/internal/cli"

func main() {
	cli.Execute()
}
