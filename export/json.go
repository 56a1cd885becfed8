package export

import (
	"encoding/json"
	"io"

	"github.com/tsawler/fontaudit/audit"
)

// JSONExporter renders the report as indented JSON. Output is byte-stable
// for identical reports: count mappings marshal in (-count, key) order and
// plain maps marshal key-sorted.
type JSONExporter struct {
	Indent string // indentation string, two spaces when empty
}

// Export implements the Exporter interface for JSON output.
func (e *JSONExporter) Export(r *audit.Report, w io.Writer) error {
	indent := e.Indent
	if indent == "" {
		indent = "  "
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", indent)
	return enc.Encode(r)
}
