package fontaudit

import "github.com/tsawler/fontaudit/pptx"

// AuditOptions holds configuration for an audit run.
type AuditOptions struct {
	// Report detail caps (0 = unbounded)
	maxLocations  int
	maxViolations int

	// Name sniffer limits
	sniff pptx.SniffOptions
}

// defaultOptions returns the default audit options.
func defaultOptions() AuditOptions {
	return AuditOptions{
		maxLocations:  0,
		maxViolations: 0,
		sniff:         pptx.DefaultSniffOptions(),
	}
}

// clone creates a copy of AuditOptions. All fields are values, so a plain
// copy is deep.
func (o AuditOptions) clone() AuditOptions {
	return o
}
