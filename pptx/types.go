package pptx

import "encoding/xml"

// XML namespaces used in PPTX files.
const (
	nsPresentationML = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsDrawingML      = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsRelationships  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsPackageRels    = "http://schemas.openxmlformats.org/package/2006/relationships"
)

// presentationXML represents the ppt/presentation.xml file structure,
// restricted to the embedded font declarations the audit needs.
type presentationXML struct {
	XMLName         xml.Name            `xml:"presentation"`
	EmbeddedFontLst *embeddedFontLstXML `xml:"embeddedFontLst"`
}

type embeddedFontLstXML struct {
	EmbeddedFont []embeddedFontXML `xml:"embeddedFont"`
}

// embeddedFontXML declares one embedded typeface and up to four style
// variants, each referencing a binary font part through a relationship id.
type embeddedFontXML struct {
	Font       *embeddedFontNameXML `xml:"font"`
	Regular    *fontRefXML          `xml:"regular"`
	Bold       *fontRefXML          `xml:"bold"`
	Italic     *fontRefXML          `xml:"italic"`
	BoldItalic *fontRefXML          `xml:"boldItalic"`
}

type embeddedFontNameXML struct {
	Typeface string `xml:"typeface,attr"`
}

type fontRefXML struct {
	ID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"` // r:id
}

// themeXML represents a ppt/theme/theme*.xml file, restricted to the font
// scheme.
type themeXML struct {
	XMLName       xml.Name         `xml:"theme"`
	ThemeElements themeElementsXML `xml:"themeElements"`
}

type themeElementsXML struct {
	FontScheme fontSchemeXML `xml:"fontScheme"`
}

type fontSchemeXML struct {
	MajorFont fontCollectionXML `xml:"majorFont"`
	MinorFont fontCollectionXML `xml:"minorFont"`
}

type fontCollectionXML struct {
	Latin *latinXML `xml:"latin"`
}

type latinXML struct {
	Typeface string `xml:"typeface,attr"`
}

// slideXML represents a ppt/slides/slide*.xml file structure.
type slideXML struct {
	XMLName xml.Name `xml:"sld"`
	CSld    cSldXML  `xml:"cSld"`
}

type cSldXML struct {
	SpTree spTreeXML `xml:"spTree"`
}

// spTreeXML flattens the shape tree into document order. Grouped shapes are
// inlined at the position of their group so that 1-based shape indexes match
// the order a reader of the raw XML would see.
type spTreeXML struct {
	Shapes []spXML
}

// UnmarshalXML walks the shape tree element by element, collecting sp
// elements and recursing into grpSp groups in place.
func (t *spTreeXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "sp":
				var sp spXML
				if err := d.DecodeElement(&sp, &el); err != nil {
					return err
				}
				t.Shapes = append(t.Shapes, sp)
			case "grpSp":
				var grp spTreeXML
				if err := grp.UnmarshalXML(d, el); err != nil {
					return err
				}
				t.Shapes = append(t.Shapes, grp.Shapes...)
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

// spXML represents a shape element.
type spXML struct {
	NvSpPr nvSpPrXML  `xml:"nvSpPr"`
	TxBody *txBodyXML `xml:"txBody"`
}

type nvSpPrXML struct {
	CNvPr cNvPrXML `xml:"cNvPr"`
}

type cNvPrXML struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

// txBodyXML represents text body content.
type txBodyXML struct {
	P []pXML `xml:"p"` // Paragraphs
}

// pXML represents a paragraph.
type pXML struct {
	PPr        *pPrXML `xml:"pPr"`        // Paragraph properties
	R          []rXML  `xml:"r"`          // Text runs
	EndParaRPr *rPrXML `xml:"endParaRPr"` // End paragraph run properties
}

type pPrXML struct {
	DefRPr *rPrXML `xml:"defRPr"` // Default run properties for the paragraph
}

// rXML represents a text run.
type rXML struct {
	RPr *rPrXML `xml:"rPr"` // Run properties
	T   string  `xml:"t"`   // Text content
}

// rPrXML holds run properties. Bold and italic are kept as raw attribute
// strings because the format accepts several truthy spellings.
type rPrXML struct {
	B     string    `xml:"b,attr"`
	I     string    `xml:"i,attr"`
	Latin *latinXML `xml:"latin"`
}

// relationshipsXML represents .rels files.
type relationshipsXML struct {
	XMLName      xml.Name          `xml:"Relationships"`
	Relationship []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}
