// Package fontaudit audits a PPTX presentation for font-rendering risk
// before the document is handed to a renderer that cannot substitute
// missing fonts safely. It reports which typefaces are embedded versus
// requested, which paragraphs and runs rely on an unknown external default,
// and which runs request a style variant that is not embedded.
//
// Basic usage:
//
//	report, err := fontaudit.Open("deck.pptx").Report()
//	if err != nil {
//	    // handle error
//	}
//	if report.HasDiscrepancies() {
//	    log.Println("Missing fonts:", report.UnknownRequested)
//	}
//
// With options:
//
//	report, err := fontaudit.Open("deck.pptx").
//	    MaxLocations(100).
//	    Report()
package fontaudit

import (
	"github.com/tsawler/fontaudit/audit"
	"github.com/tsawler/fontaudit/pptx"
)

// Auditor provides a fluent interface for configuring and running a font
// audit. Each configuration method returns a new Auditor instance, making
// it safe for concurrent use and allowing method chaining.
type Auditor struct {
	filename string
	options  AuditOptions
}

// Open prepares an audit of the given PPTX file. No I/O happens until a
// terminal operation like Report is called.
func Open(filename string) *Auditor {
	return &Auditor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// clone creates a copy of the Auditor so each chain method returns a new
// instance.
func (a *Auditor) clone() *Auditor {
	return &Auditor{
		filename: a.filename,
		options:  a.options.clone(),
	}
}

// MaxLocations caps the number of missing-paragraph location records kept
// in the report. Zero or negative keeps all of them.
func (a *Auditor) MaxLocations(n int) *Auditor {
	na := a.clone()
	na.options.maxLocations = n
	return na
}

// MaxViolations caps the number of style-violation records kept in the
// report. Zero or negative keeps all of them.
func (a *Auditor) MaxViolations(n int) *Auditor {
	na := a.clone()
	na.options.maxViolations = n
	return na
}

// Sniff overrides the limits of the embedded-font name sniffer.
func (a *Auditor) Sniff(opts pptx.SniffOptions) *Auditor {
	na := a.clone()
	na.options.sniff = opts
	return na
}

// Report runs the audit and returns the aggregate report.
//
// Only two conditions are fatal: a package that does not exist
// (pptx.ErrNotFound) or cannot be opened (pptx.ErrCorrupt), and malformed
// XML in the presentation manifest, relationship index, or theme. Missing
// optional parts degrade the relevant report sections to empty, and slide
// parts that fail to parse are skipped so the remaining slides are still
// audited.
func (a *Auditor) Report() (*audit.Report, error) {
	pkg, err := pptx.Open(a.filename)
	if err != nil {
		return nil, err
	}
	defer pkg.Close()

	presentation, _ := pkg.ReadPart(pptx.PresentationPart)
	rels, _ := pkg.ReadPart(pptx.PresentationRelsPart)
	themeData, _ := pkg.ReadPart(pptx.ThemePart)

	theme, err := pptx.ParseThemeFonts(themeData)
	if err != nil {
		return nil, err
	}
	catalog, err := pptx.ParseFontCatalog(presentation, rels, pkg, a.options.sniff)
	if err != nil {
		return nil, err
	}

	walker := &audit.Walker{Catalog: catalog, Theme: theme}
	builder := audit.NewBuilder(a.filename, catalog, theme)
	builder.MaxLocations = a.options.maxLocations
	builder.MaxViolations = a.options.maxViolations

	for _, name := range pkg.SlideParts() {
		data, ok := pkg.ReadPart(name)
		if !ok {
			continue
		}
		sa, err := walker.WalkSlide(name, data)
		if err != nil {
			continue // unparsable slides are skipped, the rest still audit
		}
		builder.Add(sa)
	}

	return builder.Build(), nil
}
