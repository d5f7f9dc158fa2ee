// Package gitsecrets provides the command-line interface for the gitsecrets
// scanner. It wires subcommands (scan, patterns, baseline, history, config,
// completion), resolves flags against config files and maps results to exit
// codes.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/varalys/gitsecrets/cmd/gitsecrets"
//	func main() { gitsecrets.Execute() }
package gitsecrets
