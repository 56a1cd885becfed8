// Package format provides input format detection for the fontaudit tool.
package format

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format represents a recognized input format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// ZIP indicates a zip archive that is not a recognizable presentation.
	ZIP
	// PPTX indicates a Microsoft PowerPoint (.pptx) package.
	PPTX
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case ZIP:
		return "ZIP"
	case PPTX:
		return "PPTX"
	default:
		return "Unknown"
	}
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pptx":
		return PPTX
	case ".zip":
		return ZIP
	default:
		return Unknown
	}
}

// DetectFromReader inspects the content to determine format. This is more
// reliable than extension-based detection: it checks the zip magic bytes
// and then looks inside the archive for presentation markers.
func DetectFromReader(r io.ReaderAt, size int64) (Format, error) {
	magic := make([]byte, 4)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	if n < 4 || magic[0] != 0x50 || magic[1] != 0x4B || magic[2] != 0x03 || magic[3] != 0x04 {
		return Unknown, nil
	}

	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, err
	}
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "ppt/") {
			return PPTX, nil
		}
	}
	return ZIP, nil
}

// DetectFromFile opens the named file and detects its format from content.
func DetectFromFile(filename string) (Format, error) {
	f, err := os.Open(filename)
	if err != nil {
		return Unknown, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Unknown, err
	}
	return DetectFromReader(f, info.Size())
}
