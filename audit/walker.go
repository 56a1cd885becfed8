package audit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tsawler/fontaudit/pptx"
)

// snippetLen bounds the text excerpts carried in location and violation
// records.
const snippetLen = 40

// Walker computes per-slide font statistics. It reads the catalog and theme
// but never mutates them, so one Walker may be shared across slides.
type Walker struct {
	Catalog pptx.FontCatalog
	Theme   pptx.ThemeFonts
}

// SlideAudit holds the counters and findings from one slide part. Slides
// are independent; SlideAudit values merge commutatively in the Builder.
type SlideAudit struct {
	Raw      CountMap
	Faces    CountMap
	Tokens   CountMap
	Resolved CountMap

	MissingRuns               int
	MissingRunsWithText       int
	MissingParagraphs         int
	MissingParagraphsEmpty    int
	MissingParagraphsNonempty int

	Locations  []ParagraphLocation
	Violations []StyleViolation
}

func newSlideAudit() *SlideAudit {
	return &SlideAudit{
		Raw:      make(CountMap),
		Faces:    make(CountMap),
		Tokens:   make(CountMap),
		Resolved: make(CountMap),
	}
}

// WalkSlide audits one slide part. The raw request scan covers every latin
// font reference in the part; the paragraph/run walk covers text shapes
// only. An error means the slide could not be parsed and should be skipped.
func (w *Walker) WalkSlide(name string, data []byte) (*SlideAudit, error) {
	sa := newSlideAudit()

	raw, err := pptx.ScanLatinTypefaces(data)
	if err != nil {
		return nil, err
	}
	for _, tf := range raw {
		sa.Raw.Add(tf)
		if pptx.IsThemeToken(tf) {
			sa.Tokens.Add(tf)
			if face, ok := w.Theme.Resolve(tf); ok {
				sa.Resolved.Add(face)
			}
		} else {
			sa.Faces.Add(tf)
			sa.Resolved.Add(tf)
		}
	}

	slide, err := pptx.ParseSlide(name, data)
	if err != nil {
		return nil, err
	}

	for si, shape := range slide.Shapes {
		for pi, para := range shape.Paragraphs {
			w.walkParagraph(sa, slide, shape, para, si+1, pi+1)
		}
	}
	return sa, nil
}

// walkParagraph classifies one paragraph and its runs. Paragraph-level
// coverage applies uniformly to every run in the paragraph; that mirrors
// the format's inheritance semantics even for runs that carry other
// explicit properties.
func (w *Walker) walkParagraph(sa *SlideAudit, slide *pptx.Slide, shape pptx.Shape, para pptx.Paragraph, shapeIdx, paraIdx int) {
	pHas := para.HasTypeface()

	runTypefaces := make(map[string]bool)
	var text strings.Builder
	for ri, run := range para.Runs {
		if run.Typeface != "" {
			runTypefaces[run.Typeface] = true

			if flags, known := w.Catalog.Styles[run.Typeface]; known {
				required := pptx.RequiredStyle(run.Bold, run.Italic)
				if !flags.Has(required) {
					sa.Violations = append(sa.Violations, StyleViolation{
						SlideFile:      slide.PartName,
						ShapeID:        shape.ID,
						ShapeName:      shape.Name,
						ParagraphIndex: paraIdx,
						RunIndex:       ri + 1,
						Typeface:       run.Typeface,
						RequiredStyle:  required,
						Bold:           run.Bold,
						Italic:         run.Italic,
						Snippet:        snippet(run.Text),
					})
				}
			}
		}
		if run.Text != "" {
			text.WriteString(run.Text)
		}

		if run.Typeface == "" && !pHas {
			sa.MissingRuns++
			if run.Text != "" {
				sa.MissingRunsWithText++
			}
		}
	}

	if pHas {
		return
	}
	sa.MissingParagraphs++
	if len(para.Runs) == 0 && text.Len() == 0 {
		sa.MissingParagraphsEmpty++
		return
	}
	sa.MissingParagraphsNonempty++

	faces := make([]string, 0, len(runTypefaces))
	for tf := range runTypefaces {
		faces = append(faces, tf)
	}
	sort.Strings(faces)

	sa.Locations = append(sa.Locations, ParagraphLocation{
		SlideFile:       slide.PartName,
		SlideIndex:      slide.Index,
		ShapeIndex:      shapeIdx,
		ShapeID:         shape.ID,
		ShapeName:       shape.Name,
		ParagraphIndex:  paraIdx,
		HasRuns:         len(para.Runs) > 0,
		RunCount:        len(para.Runs),
		RunTypefaces:    faces,
		Snippet:         snippet(text.String()),
		HasDefaultLatin: para.DefaultTypeface != "",
		HasEndLatin:     para.EndTypeface != "",
		XPath:           fmt.Sprintf("/p:sld/p:cSld/p:spTree/p:sp[%d]/p:txBody/a:p[%d]", shapeIdx, paraIdx),
	})
}

// snippet truncates text to the bounded excerpt carried in records.
func snippet(text string) string {
	runes := []rune(text)
	if len(runes) > snippetLen {
		return string(runes[:snippetLen])
	}
	return text
}
