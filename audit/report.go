// Package audit walks the slides of a presentation, resolves each run's
// effective typeface against the embedded-font catalog and the theme, and
// aggregates every discrepancy into a deterministic report.
package audit

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"

	"github.com/tsawler/fontaudit/pptx"
)

// CountMap is a frequency table over typeface names. Its JSON form is an
// object whose keys appear in descending count order, ties broken by key,
// so the same input bytes always serialize identically.
type CountMap map[string]int

// Add increments the count for key.
func (m CountMap) Add(key string) {
	m[key]++
}

// Merge adds every count from other into m.
func (m CountMap) Merge(other CountMap) {
	for k, v := range other {
		m[k] += v
	}
}

// SortedKeys returns the keys ordered by (-count, key).
func (m CountMap) SortedKeys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if m[keys[i]] != m[keys[j]] {
			return m[keys[i]] > m[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}

// MarshalJSON emits the map as a JSON object in canonical order.
func (m CountMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.SortedKeys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(m[k]))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MissingRunCounts summarizes how much of the document relies on an unknown
// external default font.
type MissingRunCounts struct {
	Runs       int `json:"runs"`
	Paragraphs int `json:"paragraphs"`
	Total      int `json:"total"`
}

// ParagraphLocation identifies a nonempty paragraph that provides no
// typeface, with enough context to find it in the source XML.
type ParagraphLocation struct {
	SlideFile       string   `json:"slide_file"`
	SlideIndex      int      `json:"slide_index"`
	ShapeIndex      int      `json:"shape_index"`
	ShapeID         string   `json:"shape_id"`
	ShapeName       string   `json:"shape_name"`
	ParagraphIndex  int      `json:"paragraph_index"`
	HasRuns         bool     `json:"has_runs"`
	RunCount        int      `json:"run_count"`
	RunTypefaces    []string `json:"run_typefaces"`
	Snippet         string   `json:"snippet"`
	HasDefaultLatin bool     `json:"has_defRPr_latin"`
	HasEndLatin     bool     `json:"has_endParaRPr_latin"`
	XPath           string   `json:"xpaths"`
}

// StyleViolation records a run requesting a style variant its embedded
// typeface does not declare.
type StyleViolation struct {
	SlideFile      string `json:"slide_file"`
	ShapeID        string `json:"shape_id"`
	ShapeName      string `json:"shape_name"`
	ParagraphIndex int    `json:"paragraph_index"`
	RunIndex       int    `json:"run_index"`
	Typeface       string `json:"typeface"`
	RequiredStyle  string `json:"required_style"`
	Bold           bool   `json:"bold"`
	Italic         bool   `json:"italic"`
	Snippet        string `json:"snippet"`
}

// StyleUsage aggregates style violations per typeface and style.
type StyleUsage struct {
	Counts     map[string]map[string]int `json:"counts"`
	Violations []StyleViolation          `json:"violations"`
}

// SummaryCounts holds the cardinalities of the report's aggregate sets.
type SummaryCounts struct {
	Embedded                int `json:"embedded"`
	RequestedUnique         int `json:"requested_unique"`
	RequestedFacesUnique    int `json:"requested_faces_unique"`
	RequestedTokensUnique   int `json:"requested_theme_tokens_unique"`
	RequestedResolvedUnique int `json:"requested_resolved_unique"`
	UnknownRequested        int `json:"unknown_requested"`
}

// Report is the aggregate outcome of one audit. It is a pure function of
// the package bytes: no wall-clock or traversal-order dependency leaks into
// its content.
type Report struct {
	PptxPath             string                     `json:"pptx_path"`
	EmbeddedTypefaces    []string                   `json:"embedded_typefaces"`
	EmbeddedFontStyles   map[string]pptx.StyleFlags `json:"embedded_font_styles"`
	EmbeddedFontBinaries []pptx.FontBinary          `json:"embedded_font_binaries"`
	ThemeMajorLatin      string                     `json:"theme_majorLatin"`
	ThemeMinorLatin      string                     `json:"theme_minorLatin"`

	RequestedTypefaces   CountMap `json:"requested_typefaces"`
	RequestedFaces       CountMap `json:"requested_faces"`
	RequestedThemeTokens CountMap `json:"requested_theme_tokens"`
	RequestedResolved    CountMap `json:"requested_resolved"`

	MissingTypefaceRuns       MissingRunCounts    `json:"missing_typeface_runs"`
	MissingParagraphsEmpty    int                 `json:"missing_paragraphs_empty"`
	MissingParagraphsNonempty int                 `json:"missing_paragraphs_nonempty"`
	MissingRunsWithText       int                 `json:"missing_runs_with_text"`
	MissingParagraphLocations []ParagraphLocation `json:"missing_paragraph_locations"`

	UnsupportedStyleUsage StyleUsage    `json:"unsupported_style_usage"`
	UnknownRequested      []string      `json:"unknown_requested"`
	Counts                SummaryCounts `json:"counts"`
}

// HasDiscrepancies reports whether the document requests literal faces that
// are not embedded. It drives the CLI's non-zero completion signal.
func (r *Report) HasDiscrepancies() bool {
	return len(r.UnknownRequested) > 0
}

// Builder merges per-slide audits with the catalog and theme outputs into
// one immutable Report. Slide results merge commutatively; final ordering
// of aggregate keys is normalized at build time, not taken from processing
// order.
type Builder struct {
	path    string
	catalog pptx.FontCatalog
	theme   pptx.ThemeFonts

	// MaxLocations and MaxViolations cap the recorded detail lists when
	// positive; zero keeps everything.
	MaxLocations  int
	MaxViolations int

	slides []*SlideAudit
}

// NewBuilder creates a Builder for one audit invocation.
func NewBuilder(path string, catalog pptx.FontCatalog, theme pptx.ThemeFonts) *Builder {
	return &Builder{path: path, catalog: catalog, theme: theme}
}

// Add merges one slide's audit into the builder.
func (b *Builder) Add(sa *SlideAudit) {
	b.slides = append(b.slides, sa)
}

// Build assembles the final report.
func (b *Builder) Build() *Report {
	r := &Report{
		PptxPath:             b.path,
		EmbeddedTypefaces:    b.catalog.Typefaces,
		EmbeddedFontStyles:   b.catalog.Styles,
		EmbeddedFontBinaries: b.catalog.Binaries,
		ThemeMajorLatin:      b.theme.MajorLatin,
		ThemeMinorLatin:      b.theme.MinorLatin,

		RequestedTypefaces:   make(CountMap),
		RequestedFaces:       make(CountMap),
		RequestedThemeTokens: make(CountMap),
		RequestedResolved:    make(CountMap),

		MissingParagraphLocations: make([]ParagraphLocation, 0),
		UnsupportedStyleUsage: StyleUsage{
			Counts:     make(map[string]map[string]int),
			Violations: make([]StyleViolation, 0),
		},
		UnknownRequested: make([]string, 0),
	}

	for _, sa := range b.slides {
		r.RequestedTypefaces.Merge(sa.Raw)
		r.RequestedFaces.Merge(sa.Faces)
		r.RequestedThemeTokens.Merge(sa.Tokens)
		r.RequestedResolved.Merge(sa.Resolved)

		r.MissingTypefaceRuns.Runs += sa.MissingRuns
		r.MissingTypefaceRuns.Paragraphs += sa.MissingParagraphs
		r.MissingParagraphsEmpty += sa.MissingParagraphsEmpty
		r.MissingParagraphsNonempty += sa.MissingParagraphsNonempty
		r.MissingRunsWithText += sa.MissingRunsWithText

		r.MissingParagraphLocations = append(r.MissingParagraphLocations, sa.Locations...)
		r.UnsupportedStyleUsage.Violations = append(r.UnsupportedStyleUsage.Violations, sa.Violations...)
		for _, v := range sa.Violations {
			styles := r.UnsupportedStyleUsage.Counts[v.Typeface]
			if styles == nil {
				styles = make(map[string]int)
				r.UnsupportedStyleUsage.Counts[v.Typeface] = styles
			}
			styles[v.RequiredStyle]++
		}
	}
	r.MissingTypefaceRuns.Total = r.MissingTypefaceRuns.Runs + r.MissingTypefaceRuns.Paragraphs

	if b.MaxLocations > 0 && len(r.MissingParagraphLocations) > b.MaxLocations {
		r.MissingParagraphLocations = r.MissingParagraphLocations[:b.MaxLocations]
	}
	if b.MaxViolations > 0 && len(r.UnsupportedStyleUsage.Violations) > b.MaxViolations {
		r.UnsupportedStyleUsage.Violations = r.UnsupportedStyleUsage.Violations[:b.MaxViolations]
	}

	embedded := make(map[string]bool, len(r.EmbeddedTypefaces))
	for _, tf := range r.EmbeddedTypefaces {
		embedded[tf] = true
	}
	for face := range r.RequestedFaces {
		if !embedded[face] {
			r.UnknownRequested = append(r.UnknownRequested, face)
		}
	}
	sort.Strings(r.UnknownRequested)

	r.Counts = SummaryCounts{
		Embedded:                len(r.EmbeddedTypefaces),
		RequestedUnique:         len(r.RequestedTypefaces),
		RequestedFacesUnique:    len(r.RequestedFaces),
		RequestedTokensUnique:   len(r.RequestedThemeTokens),
		RequestedResolvedUnique: len(r.RequestedResolved),
		UnknownRequested:        len(r.UnknownRequested),
	}
	return r
}
