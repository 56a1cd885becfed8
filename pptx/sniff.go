package pptx

import (
	"golang.org/x/image/font/sfnt"
	"golang.org/x/text/encoding/unicode"
)

// SniffOptions bounds the name-sniffing heuristic.
type SniffOptions struct {
	MinLen   int // minimum run of printable characters to keep a candidate
	MaxRaw   int // cap on raw candidates collected from the blob
	MaxNames int // cap on candidates surviving the name filter
	MaxLen   int // maximum length of a plausible name string
}

// DefaultSniffOptions returns the limits used by the audit report.
func DefaultSniffOptions() SniffOptions {
	return SniffOptions{MinLen: 3, MaxRaw: 20, MaxNames: 10, MaxLen: 40}
}

func (o SniffOptions) normalized() SniffOptions {
	d := DefaultSniffOptions()
	if o.MinLen <= 0 {
		o.MinLen = d.MinLen
	}
	if o.MaxRaw <= 0 {
		o.MaxRaw = d.MaxRaw
	}
	if o.MaxNames <= 0 {
		o.MaxNames = d.MaxNames
	}
	if o.MaxLen <= 0 {
		o.MaxLen = d.MaxLen
	}
	return o
}

// SniffNames extracts plausible font name strings from an embedded font
// program. It scans adjacent byte pairs as UTF-16LE characters and keeps
// runs of printable ASCII, the layout TrueType name tables use, then
// filters for short strings containing at least one letter. The result is
// corroborating evidence only: the scan is best-effort, never fails, and an
// empty result is valid.
func SniffNames(data []byte, opts SniffOptions) []string {
	opts = opts.normalized()
	dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()

	raw := make([]string, 0)
	current := make([]byte, 0)
	flush := func() {
		if len(current) >= opts.MinLen*2 {
			if s, err := dec.Bytes(current); err == nil {
				raw = append(raw, string(s))
			}
		}
		current = current[:0]
	}

	for i := 0; i+1 < len(data); i += 2 {
		lo, hi := data[i], data[i+1]
		if hi == 0 && lo >= 32 && lo <= 126 {
			current = append(current, lo, hi)
			continue
		}
		flush()
		if len(raw) >= opts.MaxRaw {
			break
		}
	}
	if len(raw) < opts.MaxRaw {
		flush()
	}

	// De-dupe while preserving order.
	seen := make(map[string]bool)
	deduped := raw[:0]
	for _, s := range raw {
		if !seen[s] {
			seen[s] = true
			deduped = append(deduped, s)
		}
	}

	return filterNameStrings(deduped, opts)
}

// filterNameStrings keeps candidates that look like font family or
// subfamily names: bounded length, at least one letter, bounded count.
func filterNameStrings(candidates []string, opts SniffOptions) []string {
	out := make([]string, 0, len(candidates))
	for _, s := range candidates {
		if len(s) > opts.MaxLen || !hasLetter(s) {
			continue
		}
		out = append(out, s)
		if len(out) >= opts.MaxNames {
			break
		}
	}
	return out
}

func hasLetter(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}

// NameTable reads the family and subfamily names from an sfnt font program.
// Any failure yields empty strings: embedded font programs are untrusted
// input and must not abort the audit.
func NameTable(data []byte) (family, subfamily string) {
	defer func() {
		if recover() != nil {
			family, subfamily = "", ""
		}
	}()

	f, err := sfnt.Parse(data)
	if err != nil {
		return "", ""
	}
	var buf sfnt.Buffer
	family, _ = f.Name(&buf, sfnt.NameIDFamily)
	subfamily, _ = f.Name(&buf, sfnt.NameIDSubfamily)
	return family, subfamily
}
