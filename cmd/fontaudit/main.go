// Command fontaudit audits a PPTX presentation for font-rendering risk:
// embedded versus requested typefaces, runs with no typeface at all, and
// requests for style variants that are not embedded.
//
// Exit codes: 0 when every requested face is embedded, 2 when the document
// requests faces that are not embedded, 1 on fatal errors.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tsawler/fontaudit"
	"github.com/tsawler/fontaudit/audit"
	"github.com/tsawler/fontaudit/export"
	"github.com/tsawler/fontaudit/format"
)

var (
	outFile      string
	quiet        bool
	maxLocations int
)

// exitCode carries the discrepancy signal out of the cobra run function.
var exitCode int

var rootCmd = &cobra.Command{
	Use:   "fontaudit <presentation.pptx>",
	Short: "Audit PPTX embedded vs requested fonts",
	Long: `fontaudit inspects a PPTX package and reports which typefaces are
declared as embedded, which are actually requested by slide content, which
paragraphs and runs rely on an unknown external default font, and which
runs request a bold/italic variant that is not embedded.

The exit code signals the result to an orchestrating pipeline: 0 when every
requested face is embedded, 2 otherwise.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVarP(&outFile, "out", "o", "", "Path to output JSON report file")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress the text summary")
	rootCmd.Flags().IntVar(&maxLocations, "max-locations", 0, "Cap on recorded paragraph locations (0 = unlimited)")
}

func run(_ *cobra.Command, args []string) error {
	path := args[0]

	if format.Detect(path) != format.PPTX {
		if f, err := format.DetectFromFile(path); err == nil && f != format.PPTX {
			fmt.Fprintf(os.Stderr, "warning: %s does not look like a PPTX package (%s)\n", path, f)
		}
	}

	report, err := fontaudit.Open(path).
		MaxLocations(maxLocations).
		Report()
	if err != nil {
		return err
	}

	if outFile != "" {
		if err := writeJSON(report, outFile); err != nil {
			return err
		}
	}
	if !quiet {
		exporter := &export.TextExporter{}
		if err := exporter.Export(report, os.Stdout); err != nil {
			return err
		}
	}

	if report.HasDiscrepancies() {
		exitCode = 2
	}
	return nil
}

func writeJSON(report *audit.Report, filename string) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating report directory: %w", err)
		}
	}
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	exporter := &export.JSONExporter{}
	if err := exporter.Export(report, f); err != nil {
		f.Close()
		return fmt.Errorf("writing report: %w", err)
	}
	return f.Close()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	os.Exit(exitCode)
}
