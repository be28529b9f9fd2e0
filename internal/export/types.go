// Package export produces downloadable snapshots of the candidate and
// request slices: CSV listings and a PDF pipeline report. Exports are
// write-only output, never persisted back into the store.
package export

import "errors"

// Result contains the export output
type Result struct {
	Data     []byte
	Filename string
	MimeType string
}

// ErrPDFDependencyMissing indicates PDF export runtime dependencies are
// unavailable.
var ErrPDFDependencyMissing = errors.New("export pdf dependency missing")
