// Package main is the entry point for the arq CLI.
package main

import (
	"os"

	"github.com/fatih/color"

	"github.com/satishbabariya/activerecord/cmd/arq/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "✗ %v\n", err)
		os.Exit(1)
	}
}
