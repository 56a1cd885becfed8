package fontaudit

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tsawler/fontaudit/audit"
	"github.com/tsawler/fontaudit/pptx"
)

const testPresentation = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:presentation xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" embedTrueTypeFonts="1">
  <p:sldIdLst>
    <p:sldId id="256" r:id="rId2"/>
    <p:sldId id="257" r:id="rId3"/>
  </p:sldIdLst>
  <p:embeddedFontLst>
    <p:embeddedFont>
      <p:font typeface="Calibri"/>
      <p:regular r:id="rId10"/>
      <p:bold r:id="rId11"/>
    </p:embeddedFont>
  </p:embeddedFontLst>
</p:presentation>`

const testPresentationRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId10" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/font" Target="fonts/font1.fntdata"/>
  <Relationship Id="rId11" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/font" Target="fonts/font2.fntdata"/>
</Relationships>`

const testTheme = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<a:theme xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" name="Office Theme">
  <a:themeElements>
    <a:fontScheme name="Office">
      <a:majorFont><a:latin typeface="Calibri Light"/></a:majorFont>
      <a:minorFont><a:latin typeface="Arial"/></a:minorFont>
    </a:fontScheme>
  </a:themeElements>
</a:theme>`

const testSlide1 = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <p:cSld>
    <p:spTree>
      <p:nvGrpSpPr><p:cNvPr id="1" name=""/></p:nvGrpSpPr>
      <p:sp>
        <p:nvSpPr><p:cNvPr id="2" name="Title 1"/></p:nvSpPr>
        <p:txBody>
          <a:bodyPr/>
          <a:p>
            <a:r>
              <a:rPr lang="en-US"><a:latin typeface="+mn-lt"/></a:rPr>
              <a:t>Theme styled title</a:t>
            </a:r>
          </a:p>
        </p:txBody>
      </p:sp>
    </p:spTree>
  </p:cSld>
</p:sld>`

const testSlide2 = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <p:cSld>
    <p:spTree>
      <p:nvGrpSpPr><p:cNvPr id="1" name=""/></p:nvGrpSpPr>
      <p:sp>
        <p:nvSpPr><p:cNvPr id="5" name="Content 1"/></p:nvSpPr>
        <p:txBody>
          <a:bodyPr/>
          <a:p>
            <a:r>
              <a:rPr lang="en-US" b="1" i="1"><a:latin typeface="Calibri"/></a:rPr>
              <a:t>Needs bold italic</a:t>
            </a:r>
          </a:p>
          <a:p>
            <a:r>
              <a:rPr lang="en-US"><a:latin typeface="Comic Sans"/></a:rPr>
              <a:t>Unembedded face</a:t>
            </a:r>
            <a:r>
              <a:t>naked run</a:t>
            </a:r>
          </a:p>
          <a:p/>
        </p:txBody>
      </p:sp>
    </p:spTree>
  </p:cSld>
</p:sld>`

// utf16le encodes an ASCII string as UTF-16LE bytes.
func utf16le(s string) []byte {
	b := make([]byte, 0, len(s)*2)
	for i := 0; i < len(s); i++ {
		b = append(b, s[i], 0)
	}
	return b
}

func defaultParts() map[string][]byte {
	return map[string][]byte{
		"ppt/presentation.xml":            []byte(testPresentation),
		"ppt/_rels/presentation.xml.rels": []byte(testPresentationRels),
		"ppt/theme/theme1.xml":            []byte(testTheme),
		"ppt/slides/slide1.xml":           []byte(testSlide1),
		"ppt/slides/slide2.xml":           []byte(testSlide2),
		"ppt/fonts/font1.fntdata":         utf16le("Calibri"),
		"ppt/fonts/font2.fntdata":         utf16le("Calibri Bold"),
	}
}

// createPPTX writes a package with the given parts to a temp file.
func createPPTX(t *testing.T, parts map[string][]byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.pptx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	names := make([]string, 0, len(parts))
	for name := range parts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("Failed to create %s in zip: %v", name, err)
		}
		if _, err := w.Write(parts[name]); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
	return path
}

func TestAuditReport(t *testing.T) {
	path := createPPTX(t, defaultParts())

	report, err := Open(path).Report()
	if err != nil {
		t.Fatalf("Audit failed: %v", err)
	}

	if diff := cmp.Diff([]string{"Calibri"}, report.EmbeddedTypefaces); diff != "" {
		t.Errorf("Embedded typefaces mismatch (-want +got):\n%s", diff)
	}
	if report.ThemeMajorLatin != "Calibri Light" || report.ThemeMinorLatin != "Arial" {
		t.Errorf("Unexpected theme fonts: %q / %q", report.ThemeMajorLatin, report.ThemeMinorLatin)
	}

	flags := report.EmbeddedFontStyles["Calibri"]
	if !flags.Regular || !flags.Bold || flags.Italic || flags.BoldItalic {
		t.Errorf("Unexpected Calibri style flags: %+v", flags)
	}

	if len(report.EmbeddedFontBinaries) != 2 {
		t.Fatalf("Expected 2 font binaries, got %d", len(report.EmbeddedFontBinaries))
	}
	reg := report.EmbeddedFontBinaries[0]
	if reg.PartName != "ppt/fonts/font1.fntdata" || len(reg.SniffedNames) == 0 {
		t.Errorf("Unexpected regular binary enrichment: %+v", reg)
	}

	// The +mn-lt token resolves against the theme's minor slot.
	if report.RequestedThemeTokens["+mn-lt"] != 1 {
		t.Errorf("Expected one +mn-lt request, got %d", report.RequestedThemeTokens["+mn-lt"])
	}
	if report.RequestedResolved["Arial"] != 1 {
		t.Errorf("Expected +mn-lt to resolve to Arial, got %v", report.RequestedResolved)
	}
	if report.RequestedFaces["Calibri"] != 1 || report.RequestedFaces["Comic Sans"] != 1 {
		t.Errorf("Unexpected requested faces: %v", report.RequestedFaces)
	}

	if diff := cmp.Diff([]string{"Comic Sans"}, report.UnknownRequested); diff != "" {
		t.Errorf("Unknown requested mismatch (-want +got):\n%s", diff)
	}
	if !report.HasDiscrepancies() {
		t.Error("Expected a discrepancy signal for Comic Sans")
	}

	// Slide 2: one bold-italic request against a regular+bold embedding.
	violations := report.UnsupportedStyleUsage.Violations
	if len(violations) != 1 {
		t.Fatalf("Expected 1 style violation, got %d", len(violations))
	}
	v := violations[0]
	if v.Typeface != "Calibri" || v.RequiredStyle != pptx.StyleBoldItalic {
		t.Errorf("Unexpected violation: %+v", v)
	}
	if report.UnsupportedStyleUsage.Counts["Calibri"][pptx.StyleBoldItalic] != 1 {
		t.Errorf("Unexpected violation counts: %v", report.UnsupportedStyleUsage.Counts)
	}

	// Slide 2 paragraph 2 has a typeface-free run; paragraph 3 is empty.
	// No paragraph in the fixture carries its own defRPr or endParaRPr
	// latin, so every nonempty one is recorded.
	if report.MissingTypefaceRuns.Runs != 1 {
		t.Errorf("Expected 1 missing run, got %d", report.MissingTypefaceRuns.Runs)
	}
	if report.MissingRunsWithText != 1 {
		t.Errorf("Expected 1 missing run with text, got %d", report.MissingRunsWithText)
	}
	if report.MissingParagraphsEmpty != 1 || report.MissingParagraphsNonempty != 3 {
		t.Errorf("Unexpected paragraph classes: empty=%d nonempty=%d",
			report.MissingParagraphsEmpty, report.MissingParagraphsNonempty)
	}
	if report.MissingTypefaceRuns.Paragraphs != report.MissingParagraphsEmpty+report.MissingParagraphsNonempty {
		t.Error("Empty and nonempty classes must partition the missing paragraphs")
	}
	if len(report.MissingParagraphLocations) != 3 {
		t.Fatalf("Expected 3 location records, got %d", len(report.MissingParagraphLocations))
	}
	var loc *audit.ParagraphLocation
	for i := range report.MissingParagraphLocations {
		l := &report.MissingParagraphLocations[i]
		if l.SlideIndex == 2 && l.ParagraphIndex == 2 {
			loc = l
		}
	}
	if loc == nil {
		t.Fatal("Missing location record for slide 2 paragraph 2")
	}
	if loc.RunCount != 2 || !loc.HasRuns {
		t.Errorf("Unexpected location record: %+v", loc)
	}
	if diff := cmp.Diff([]string{"Comic Sans"}, loc.RunTypefaces); diff != "" {
		t.Errorf("Run typeface mismatch (-want +got):\n%s", diff)
	}

	if report.Counts.Embedded != 1 || report.Counts.UnknownRequested != 1 {
		t.Errorf("Unexpected summary counts: %+v", report.Counts)
	}
}

func TestAuditIdempotent(t *testing.T) {
	path := createPPTX(t, defaultParts())

	first, err := Open(path).Report()
	if err != nil {
		t.Fatalf("First audit failed: %v", err)
	}
	second, err := Open(path).Report()
	if err != nil {
		t.Fatalf("Second audit failed: %v", err)
	}

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Audits of identical bytes differ (-first +second):\n%s", diff)
	}
}

func TestAuditSkipsUnparsableSlides(t *testing.T) {
	parts := defaultParts()
	parts["ppt/slides/slide3.xml"] = []byte("<p:sld><broken")
	path := createPPTX(t, parts)

	report, err := Open(path).Report()
	if err != nil {
		t.Fatalf("Audit should survive a broken slide: %v", err)
	}
	// Slides 1 and 2 still contribute.
	if report.RequestedThemeTokens["+mn-lt"] != 1 || report.RequestedFaces["Calibri"] != 1 {
		t.Errorf("Expected intact slides to be audited: %v", report.RequestedTypefaces)
	}
}

func TestAuditMissingOptionalParts(t *testing.T) {
	// A package with nothing but one slide: every catalog and theme section
	// degrades to empty, and nothing fails.
	path := createPPTX(t, map[string][]byte{
		"ppt/slides/slide1.xml": []byte(testSlide1),
	})

	report, err := Open(path).Report()
	if err != nil {
		t.Fatalf("Audit failed: %v", err)
	}
	if len(report.EmbeddedTypefaces) != 0 {
		t.Errorf("Expected no embedded typefaces, got %v", report.EmbeddedTypefaces)
	}
	if report.ThemeMajorLatin != "" || report.ThemeMinorLatin != "" {
		t.Error("Expected absent theme fonts")
	}
	// The token cannot resolve without a theme.
	if report.RequestedThemeTokens["+mn-lt"] != 1 || len(report.RequestedResolved) != 0 {
		t.Errorf("Unexpected request counts: tokens=%v resolved=%v",
			report.RequestedThemeTokens, report.RequestedResolved)
	}
}

func TestAuditMalformedPresentationFatal(t *testing.T) {
	parts := defaultParts()
	parts["ppt/presentation.xml"] = []byte("<p:presentation><broken")
	path := createPPTX(t, parts)

	if _, err := Open(path).Report(); err == nil {
		t.Error("Expected a malformed presentation manifest to be fatal")
	}
}

func TestAuditMalformedThemeFatal(t *testing.T) {
	parts := defaultParts()
	parts["ppt/theme/theme1.xml"] = []byte("<a:theme><broken")
	path := createPPTX(t, parts)

	if _, err := Open(path).Report(); err == nil {
		t.Error("Expected a malformed theme to be fatal")
	}
}

func TestAuditPackageErrors(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.pptx")).Report()
	if !errors.Is(err, pptx.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "garbage.pptx")
	if err := os.WriteFile(path, []byte("not a zip"), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	_, err = Open(path).Report()
	if !errors.Is(err, pptx.ErrCorrupt) {
		t.Errorf("Expected ErrCorrupt, got %v", err)
	}
}

func TestAuditMaxLocations(t *testing.T) {
	parts := defaultParts()
	path := createPPTX(t, parts)

	report, err := Open(path).MaxLocations(0).Report()
	if err != nil {
		t.Fatalf("Audit failed: %v", err)
	}
	baseline := len(report.MissingParagraphLocations)
	if baseline == 0 {
		t.Fatal("Fixture should produce at least one location record")
	}

	capped, err := Open(path).MaxLocations(baseline - 1).Report()
	if err != nil {
		t.Fatalf("Audit failed: %v", err)
	}
	if len(capped.MissingParagraphLocations) != baseline-1 {
		t.Errorf("Expected %d locations, got %d", baseline-1, len(capped.MissingParagraphLocations))
	}
}

func TestAuditorChainImmutable(t *testing.T) {
	base := Open("deck.pptx")
	derived := base.MaxLocations(5)
	if base.options.maxLocations == derived.options.maxLocations {
		t.Error("Chain methods must not mutate the receiver")
	}
}
