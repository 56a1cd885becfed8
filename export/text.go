package export

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/tsawler/fontaudit/audit"
)

// TextExporter renders a human-readable summary of the report. The summary
// is advisory output for the terminal; the JSON report is the machine
// contract.
type TextExporter struct {
	MaxItems int // cap on sample lists, 10 when zero
}

func (e *TextExporter) maxItems() int {
	if e.MaxItems <= 0 {
		return 10
	}
	return e.MaxItems
}

// Export implements the Exporter interface for text output.
func (e *TextExporter) Export(r *audit.Report, w io.Writer) error {
	limit := e.maxItems()

	fmt.Fprintln(w, "PPTX Font Audit")
	fmt.Fprintf(w, "  PPTX: %s\n", r.PptxPath)
	fmt.Fprintf(w, "  Theme major/minor: %s / %s\n", orNone(r.ThemeMajorLatin), orNone(r.ThemeMinorLatin))
	fmt.Fprintf(w, "  Embedded typefaces (%d): %s\n", len(r.EmbeddedTypefaces), strings.Join(r.EmbeddedTypefaces, ", "))

	if len(r.EmbeddedFontBinaries) > 0 {
		fmt.Fprintln(w, "  Embedded font binaries (sample):")
		for i, bin := range r.EmbeddedFontBinaries {
			if i >= limit {
				break
			}
			fmt.Fprintf(w, "    - %s %s %s :: %s\n", bin.Typeface, bin.Style, bin.PartName, strings.Join(bin.SniffedNames, ", "))
		}
	}

	fmt.Fprintf(w, "  Requested faces (%d): %s\n", len(r.RequestedFaces), strings.Join(r.RequestedFaces.SortedKeys(), ", "))
	fmt.Fprintf(w, "  Requested theme tokens (%d): %s\n", len(r.RequestedThemeTokens), strings.Join(r.RequestedThemeTokens.SortedKeys(), ", "))
	fmt.Fprintf(w, "  Requested raw (%d): %s\n", len(r.RequestedTypefaces), strings.Join(r.RequestedTypefaces.SortedKeys(), ", "))
	fmt.Fprintf(w, "  Top requested (raw): %s\n", topItems(r.RequestedTypefaces, limit))
	fmt.Fprintf(w, "  Top resolved: %s\n", topItems(r.RequestedResolved, limit))

	missing := r.MissingTypefaceRuns
	fmt.Fprintf(w, "  Missing typeface runs: runs=%d paragraphs=%d total=%d\n", missing.Runs, missing.Paragraphs, missing.Total)
	fmt.Fprintf(w, "  Unknown requested (%d): %s\n", len(r.UnknownRequested), strings.Join(r.UnknownRequested, ", "))
	fmt.Fprintf(w, "  missing paragraphs: %d (empty=%d nonempty=%d)\n", missing.Paragraphs, r.MissingParagraphsEmpty, r.MissingParagraphsNonempty)
	fmt.Fprintf(w, "  missing runs with text: %d\n", r.MissingRunsWithText)
	for i, loc := range r.MissingParagraphLocations {
		if i >= limit {
			break
		}
		fmt.Fprintf(w, "    - %s s%d p%d %s\n", loc.SlideFile, loc.ShapeIndex, loc.ParagraphIndex, loc.Snippet)
	}

	e.writeStyleUsage(w, r, limit)
	return nil
}

func (e *TextExporter) writeStyleUsage(w io.Writer, r *audit.Report, limit int) {
	usage := r.UnsupportedStyleUsage
	if len(usage.Counts) == 0 {
		fmt.Fprintln(w, "  Unsupported style usage: none")
		return
	}

	fmt.Fprintln(w, "  Unsupported style usage:")
	for _, tf := range sortedKeys(usage.Counts) {
		styles := usage.Counts[tf]
		parts := make([]string, 0, len(styles))
		for _, style := range sortedKeys(styles) {
			parts = append(parts, fmt.Sprintf("%s=%d", style, styles[style]))
		}
		fmt.Fprintf(w, "    - %s: %s\n", tf, strings.Join(parts, ", "))
	}

	if len(usage.Violations) == 0 {
		return
	}
	fmt.Fprintln(w, "  Top unsupported style violations:")
	for i, v := range usage.Violations {
		if i >= limit {
			break
		}
		fmt.Fprintf(w, "    - %s s%s p%d r%d %s b=%t i=%t %s\n",
			v.SlideFile, v.ShapeID, v.ParagraphIndex, v.RunIndex, v.Typeface, v.Bold, v.Italic, v.Snippet)
	}
}

// topItems formats the most frequent entries as "key:count" pairs.
func topItems(m audit.CountMap, limit int) string {
	keys := m.SortedKeys()
	if len(keys) == 0 {
		return "(none)"
	}
	if len(keys) > limit {
		keys = keys[:limit]
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s:%d", k, m[k]))
	}
	return strings.Join(parts, ", ")
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
