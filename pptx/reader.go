// Package pptx provides read access to PPTX (Office Open XML Presentation)
// packages and parsing of the parts the font audit needs: the presentation
// manifest, its relationship index, the theme, and the slides.
package pptx

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
)

// Well-known part names inside a PPTX package.
const (
	PresentationPart     = "ppt/presentation.xml"
	PresentationRelsPart = "ppt/_rels/presentation.xml.rels"
	ThemePart            = "ppt/theme/theme1.xml"
)

var (
	// ErrNotFound indicates the package path does not exist.
	ErrNotFound = errors.New("pptx: package not found")
	// ErrCorrupt indicates the package container could not be opened.
	ErrCorrupt = errors.New("pptx: package corrupt")
)

var slidePartRe = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// Package provides access to the parts of an opened PPTX archive.
type Package struct {
	zipReader *zip.ReadCloser
}

// Open opens a PPTX package for reading. It returns ErrNotFound if the path
// does not exist and ErrCorrupt if the zip container cannot be opened.
func Open(filename string) (*Package, error) {
	if _, err := os.Stat(filename); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, filename)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, filename, err)
	}

	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, filename, err)
	}

	return &Package{zipReader: zr}, nil
}

// Close releases resources associated with the Package.
func (p *Package) Close() error {
	if p.zipReader != nil {
		err := p.zipReader.Close()
		p.zipReader = nil
		return err
	}
	return nil
}

// ReadPart returns the bytes of the named part. A missing part is reported
// as ok=false, not as an error: optional parts are a normal condition.
func (p *Package) ReadPart(name string) ([]byte, bool) {
	for _, f := range p.zipReader.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, false
			}
			defer rc.Close()
			data, err := io.ReadAll(rc)
			if err != nil {
				return nil, false
			}
			return data, true
		}
	}
	return nil, false
}

// SlideParts returns the names of all slide parts, sorted ascending by the
// slide number embedded in the part name (slide2 before slide10).
func (p *Package) SlideParts() []string {
	names := make([]string, 0)
	for _, f := range p.zipReader.File {
		if slidePartRe.MatchString(f.Name) {
			names = append(names, f.Name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		return SlideIndex(names[i]) < SlideIndex(names[j])
	})
	return names
}

// SlideIndex extracts the 1-based slide number from a slide part name.
// It returns 0 if the name does not follow the slide naming convention.
func SlideIndex(name string) int {
	m := slidePartRe.FindStringSubmatch(name)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}
