// Package main provides the xlsdigest command-line interface.
//
// xlsdigest hashes every spreadsheet file (any .xls* extension) directly inside
// a directory with a small fixed pool of workers and writes a CSV manifest of
// full path and digest, sorted by path, so two runs over unchanged files produce
// the same manifest.
//
// The main binary supports multiple subcommands:
//   - scan: Hash a directory and write the manifest (also the default action)
//   - count: Count the spreadsheet files in a directory
//   - seed: Generate spreadsheet-named test files
//
// An interrupt cancels a running scan; no manifest is written for a cancelled
// or failed run.
package main
