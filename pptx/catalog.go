package pptx

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strings"
)

// Style names for embedded font variants, as they appear in the
// presentation manifest.
const (
	StyleRegular    = "regular"
	StyleBold       = "bold"
	StyleItalic     = "italic"
	StyleBoldItalic = "boldItalic"
)

// RequiredStyle returns the style variant a run needs given its bold and
// italic flags.
func RequiredStyle(bold, italic bool) string {
	switch {
	case bold && italic:
		return StyleBoldItalic
	case bold:
		return StyleBold
	case italic:
		return StyleItalic
	}
	return StyleRegular
}

// StyleFlags records which style variants the presentation declares for an
// embedded typeface.
type StyleFlags struct {
	Regular    bool `json:"has_regular"`
	Bold       bool `json:"has_bold"`
	Italic     bool `json:"has_italic"`
	BoldItalic bool `json:"has_boldItalic"`
}

// Has reports whether the named style variant is declared.
func (f StyleFlags) Has(style string) bool {
	switch style {
	case StyleRegular:
		return f.Regular
	case StyleBold:
		return f.Bold
	case StyleItalic:
		return f.Italic
	case StyleBoldItalic:
		return f.BoldItalic
	}
	return false
}

// FontBinary describes one embedded font program referenced from the
// presentation manifest, with best-effort name metadata read from its bytes.
type FontBinary struct {
	Typeface     string   `json:"typeface"`
	Style        string   `json:"style"`
	RelID        string   `json:"rId"`
	PartName     string   `json:"part_name"`
	SniffedNames []string `json:"utf16_strings"`
	Family       string   `json:"family,omitempty"`
	Subfamily    string   `json:"subfamily,omitempty"`
}

// FontCatalog is the embedded-font view of a presentation manifest: the
// declared typefaces, their declared style variants, and the binary font
// programs behind them. It is built once and never mutated.
type FontCatalog struct {
	Typefaces []string
	Styles    map[string]StyleFlags
	Binaries  []FontBinary
}

// ParseFontCatalog builds the embedded-font catalog from the presentation
// manifest and its relationship index. A nil manifest yields an empty
// catalog, a normal outcome since many presentations embed no fonts.
// Malformed XML of a present part is an error. pkg may be nil, in which
// case binary parts are not read.
func ParseFontCatalog(presentation, rels []byte, pkg *Package, opts SniffOptions) (FontCatalog, error) {
	cat := FontCatalog{
		Typefaces: make([]string, 0),
		Styles:    make(map[string]StyleFlags),
		Binaries:  make([]FontBinary, 0),
	}
	if len(presentation) == 0 {
		return cat, nil
	}

	var pres presentationXML
	if err := xml.Unmarshal(presentation, &pres); err != nil {
		return cat, fmt.Errorf("parsing presentation: %w", err)
	}
	relMap, err := parseRelationships(rels)
	if err != nil {
		return cat, err
	}

	if pres.EmbeddedFontLst == nil {
		return cat, nil
	}

	seen := make(map[string]bool)
	for _, ef := range pres.EmbeddedFontLst.EmbeddedFont {
		if ef.Font == nil || ef.Font.Typeface == "" {
			continue
		}
		tf := ef.Font.Typeface
		if !seen[tf] {
			seen[tf] = true
			cat.Typefaces = append(cat.Typefaces, tf)
		}
		cat.Styles[tf] = StyleFlags{
			Regular:    ef.Regular != nil,
			Bold:       ef.Bold != nil,
			Italic:     ef.Italic != nil,
			BoldItalic: ef.BoldItalic != nil,
		}

		for _, ref := range []struct {
			style string
			el    *fontRefXML
		}{
			{StyleRegular, ef.Regular},
			{StyleBold, ef.Bold},
			{StyleItalic, ef.Italic},
			{StyleBoldItalic, ef.BoldItalic},
		} {
			if ref.el == nil {
				continue
			}
			cat.Binaries = append(cat.Binaries, loadFontBinary(tf, ref.style, ref.el.ID, relMap, pkg, opts))
		}
	}
	sort.Strings(cat.Typefaces)

	return cat, nil
}

// loadFontBinary follows the relationship id to the binary font part and
// sniffs name metadata from it. Every stage is best-effort: a missing
// relationship or part yields an entry with no names, not an error.
func loadFontBinary(typeface, style, relID string, rels map[string]string, pkg *Package, opts SniffOptions) FontBinary {
	bin := FontBinary{
		Typeface:     typeface,
		Style:        style,
		RelID:        relID,
		SniffedNames: make([]string, 0),
	}

	target, ok := rels[relID]
	if relID == "" || !ok {
		return bin
	}
	bin.PartName = resolveTarget(target)

	if pkg == nil {
		return bin
	}
	data, ok := pkg.ReadPart(bin.PartName)
	if !ok {
		return bin
	}

	bin.SniffedNames = SniffNames(data, opts)
	bin.Family, bin.Subfamily = NameTable(data)
	return bin
}

// resolveTarget normalizes a relationship target to a package part name.
// Root-relative targets keep their path with the leading slash stripped;
// targets already inside ppt/ pass through; anything else is relative to
// the presentation folder.
func resolveTarget(target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimLeft(target, "/")
	}
	if strings.HasPrefix(target, "ppt/") {
		return target
	}
	return "ppt/" + target
}

// parseRelationships builds the id to target mapping from a .rels part.
// Nil input yields an empty mapping.
func parseRelationships(data []byte) (map[string]string, error) {
	rels := make(map[string]string)
	if len(data) == 0 {
		return rels, nil
	}

	var doc relationshipsXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing relationships: %w", err)
	}
	for _, rel := range doc.Relationship {
		if rel.ID != "" && rel.Target != "" {
			rels[rel.ID] = rel.Target
		}
	}
	return rels, nil
}
