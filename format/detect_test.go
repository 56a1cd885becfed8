package format

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"deck.pptx", PPTX},
		{"DECK.PPTX", PPTX},
		{"archive.zip", ZIP},
		{"document.pdf", Unknown},
		{"noextension", Unknown},
	}
	for _, tt := range tests {
		if got := Detect(tt.filename); got != tt.want {
			t.Errorf("Detect(%q) = %s, want %s", tt.filename, got, tt.want)
		}
	}
}

func TestFormatString(t *testing.T) {
	if PPTX.String() != "PPTX" || ZIP.String() != "ZIP" || Unknown.String() != "Unknown" {
		t.Error("Unexpected format names")
	}
}

// buildZip creates an in-memory zip with the given entry names.
func buildZip(t *testing.T, names ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("Failed to create %s: %v", name, err)
		}
		if _, err := w.Write([]byte("<x/>")); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
	return buf.Bytes()
}

func TestDetectFromReaderPPTX(t *testing.T) {
	data := buildZip(t, "[Content_Types].xml", "ppt/presentation.xml")
	got, err := DetectFromReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("Detection failed: %v", err)
	}
	if got != PPTX {
		t.Errorf("Expected PPTX, got %s", got)
	}
}

func TestDetectFromReaderPlainZip(t *testing.T) {
	data := buildZip(t, "readme.txt")
	got, err := DetectFromReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("Detection failed: %v", err)
	}
	if got != ZIP {
		t.Errorf("Expected ZIP, got %s", got)
	}
}

func TestDetectFromReaderNotZip(t *testing.T) {
	data := []byte("%PDF-1.7 not a zip at all")
	got, err := DetectFromReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("Detection failed: %v", err)
	}
	if got != Unknown {
		t.Errorf("Expected Unknown, got %s", got)
	}
}

func TestDetectFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.bin")
	if err := os.WriteFile(path, buildZip(t, "ppt/presentation.xml"), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	got, err := DetectFromFile(path)
	if err != nil {
		t.Fatalf("Detection failed: %v", err)
	}
	if got != PPTX {
		t.Errorf("Expected PPTX, got %s", got)
	}
}
