// Package export renders audit reports for machine and human consumption.
package export

import (
	"io"

	"github.com/tsawler/fontaudit/audit"
)

// Exporter defines the interface all report renderers implement. Writing to
// an io.Writer keeps exporters testable and lets callers choose the
// destination.
type Exporter interface {
	Export(r *audit.Report, w io.Writer) error
}
