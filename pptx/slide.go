package pptx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Slide is a parsed slide part, reduced to the text shapes the font audit
// walks. Shapes appear in document order.
type Slide struct {
	PartName string
	Index    int // 1-based slide number from the part name
	Shapes   []Shape
}

// Shape is a shape carrying a text body.
type Shape struct {
	ID         string
	Name       string
	Paragraphs []Paragraph
}

// Paragraph holds the runs of one paragraph plus the paragraph-level
// typeface fallbacks: the default run properties and the end-of-paragraph
// run properties. Either one present means runs in this paragraph are
// covered even when they carry no typeface of their own.
type Paragraph struct {
	DefaultTypeface string // from pPr/defRPr/latin, "" if absent
	EndTypeface     string // from endParaRPr/latin, "" if absent
	Runs            []Run
}

// HasTypeface reports whether the paragraph provides a typeface fallback.
func (p Paragraph) HasTypeface() bool {
	return p.DefaultTypeface != "" || p.EndTypeface != ""
}

// Run is the smallest unit of styled text.
type Run struct {
	Typeface string // run's own typeface, "" if absent
	Bold     bool
	Italic   bool
	Text     string
}

// ParseSlide parses a slide part into the audit's shape/paragraph/run view.
// Only shapes with a text body are kept.
func ParseSlide(name string, data []byte) (*Slide, error) {
	var doc slideXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing slide %s: %w", name, err)
	}

	slide := &Slide{
		PartName: name,
		Index:    SlideIndex(name),
		Shapes:   make([]Shape, 0),
	}
	for _, sp := range doc.CSld.SpTree.Shapes {
		if sp.TxBody == nil {
			continue
		}
		shape := Shape{
			ID:         sp.NvSpPr.CNvPr.ID,
			Name:       sp.NvSpPr.CNvPr.Name,
			Paragraphs: make([]Paragraph, 0, len(sp.TxBody.P)),
		}
		for _, p := range sp.TxBody.P {
			shape.Paragraphs = append(shape.Paragraphs, parseParagraph(p))
		}
		slide.Shapes = append(slide.Shapes, shape)
	}
	return slide, nil
}

func parseParagraph(p pXML) Paragraph {
	para := Paragraph{Runs: make([]Run, 0, len(p.R))}
	if p.PPr != nil && p.PPr.DefRPr != nil && p.PPr.DefRPr.Latin != nil {
		para.DefaultTypeface = p.PPr.DefRPr.Latin.Typeface
	}
	if p.EndParaRPr != nil && p.EndParaRPr.Latin != nil {
		para.EndTypeface = p.EndParaRPr.Latin.Typeface
	}
	for _, r := range p.R {
		run := Run{Text: r.T}
		if r.RPr != nil {
			if r.RPr.Latin != nil {
				run.Typeface = r.RPr.Latin.Typeface
			}
			run.Bold = truthy(r.RPr.B)
			run.Italic = truthy(r.RPr.I)
		}
		para.Runs = append(para.Runs, run)
	}
	return para
}

// truthy interprets a boolean XML attribute. The format accepts several
// spellings; anything else, including absence, is false.
func truthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "t", "on", "yes":
		return true
	}
	return false
}

// ScanLatinTypefaces collects every typeface attribute on a latin font
// reference anywhere in a slide part, not only inside text bodies. This is
// the raw request stream the audit counts. Malformed XML is an error so the
// caller can skip the slide.
func ScanLatinTypefaces(data []byte) ([]string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	typefaces := make([]string, 0)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return typefaces, nil
		}
		if err != nil {
			return nil, fmt.Errorf("scanning slide: %w", err)
		}
		el, ok := tok.(xml.StartElement)
		if !ok || el.Name.Local != "latin" || el.Name.Space != nsDrawingML {
			continue
		}
		for _, attr := range el.Attr {
			if attr.Name.Local == "typeface" && attr.Value != "" {
				typefaces = append(typefaces, attr.Value)
			}
		}
	}
}
