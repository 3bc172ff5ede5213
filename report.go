package rstbreak

import (
	"fmt"
	"io"
)

// Reporter prints the structural report and the corruption log.
type Reporter struct {
	w   io.Writer
	err error
}

// NewReporter returns a reporter writing to w.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

func (r *Reporter) printf(format string, args ...any) {
	if r.err != nil {
		return
	}

	_, r.err = fmt.Fprintf(r.w, format, args...)
}

// Header starts the report for the named file.
func (r *Reporter) Header(name string) {
	r.printf("--- JPEG structure of '%s' ---\n", name)
}

// Record prints one marker line, followed by the entropy total for SOS segments.
func (r *Reporter) Record(rec MarkerRecord) {
	if rec.HasLength {
		r.printf("%08X: FF %02X  -> %s, length=%d\n", rec.Offset, uint8(rec.Marker), rec.Name, rec.Length)
	} else {
		r.printf("%08X: FF %02X  -> %s\n", rec.Offset, uint8(rec.Marker), rec.Name)
	}

	if rec.Scan != nil {
		r.printf("    Total entropy-coded segment: %d bytes\n", rec.Scan.Entropy())
	}
}

// Footer ends the structural report.
func (r *Reporter) Footer() {
	r.printf("--- End of file ---\n")
}

// Replacement prints the span of a corrupted interval and its position in hex.
// The span is the full interval, not the overwritten window.
func (r *Reporter) Replacement(rep Replacement) {
	r.printf("Replace %d bytes from %x\n", rep.Length, rep.Position)
}

// Err returns the first write error, if any.
func (r *Reporter) Err() error {
	return r.err
}
