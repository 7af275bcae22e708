// Package cmd provides the command-line interface implementation for xlsdigest.
//
// This package contains all the subcommand implementations for the xlsdigest CLI tool.
// It uses the Cobra library for command structure and Fang for styled help and errors.
//
// The package is organized into the following commands:
//   - root: Main command coordinator; given a directory it runs scan
//   - scan: Hash a directory's spreadsheets and write the CSV manifest
//   - count: Count the files scan would hash
//   - seed: Generate spreadsheet-named fixture files
//
// Each command is implemented as a separate file with its own constructor function
// that returns a *cobra.Command. Argument checks shared by the commands live in
// args.go and terminal rendering of a manifest in print.go.
//
// The commands leave the scanning itself to the manifest package and take their
// settings from the config package, overlaid by any flags set explicitly.
package cmd
