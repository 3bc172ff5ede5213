package rstbreak

import "fmt"

// MarkerRecord describes one marker found in the stream.
type MarkerRecord struct {
	Offset    int       // Position of the 0xFF byte preceding the marker code.
	Marker    Marker    // Marker code.
	Name      string    // Display name of the marker.
	Length    int       // Declared segment length, including the 2 length bytes.
	HasLength bool      // False for SOI and RSTn, which carry no length field.
	Scan      *ScanInfo // Entropy-coded data following an SOS segment, nil otherwise.
}

// Parser walks the marker structure of a JPEG stream one record at a time.
// It consumes its cursor and cannot be restarted.
//
// The EOI marker never produces a record; its position is kept as the end of the
// entropy-coded data and parsing continues after it.
type Parser struct {
	c        *Cursor
	rec      MarkerRecord
	err      error
	done     bool
	restarts []int
	eoi      int
	hasEOI   bool
}

// NewParser returns a parser over data.
func NewParser(data []byte) *Parser {
	return &Parser{c: NewCursor(data)}
}

// Next advances to the next record. It returns false when the stream is
// exhausted, truncated, or malformed; Err distinguishes the last case.
func (p *Parser) Next() bool {
	if p.done {
		return false
	}

	for {
		marker, offset, err := NextMarker(p.c)
		if err != nil {
			return p.stop(nil)
		}

		if marker == EOI {
			p.eoi = offset - 1
			p.hasEOI = true

			continue
		}

		rec := MarkerRecord{
			Offset: offset,
			Marker: marker,
			Name:   marker.Name(),
		}

		if !marker.HasLength() {
			p.rec = rec

			return true
		}

		length, err := p.c.Read16()
		if err != nil {
			// Truncated length field, end of parseable structure.
			return p.stop(nil)
		}

		if length < 2 {
			// Length must include its own 2 bytes.
			return p.stop(fmt.Errorf("%w: %d at offset %#x", ErrMalformedLength, length, offset))
		}

		rec.Length = length
		rec.HasLength = true

		if marker == SOS {
			scan := ScanEntropy(p.c)
			p.restarts = append(p.restarts, scan.Restarts...)
			rec.Scan = &scan
		} else {
			p.c.Skip(length - 2)
		}

		p.rec = rec

		return true
	}
}

func (p *Parser) stop(err error) bool {
	p.done = true
	p.err = err
	p.rec = MarkerRecord{}

	return false
}

// Record returns the record produced by the last successful call to Next.
func (p *Parser) Record() MarkerRecord {
	return p.rec
}

// Err returns the error that stopped the parser, or nil if it ran out of input.
func (p *Parser) Err() error {
	return p.err
}

// Restarts returns the restart positions collected so far across all scans.
func (p *Parser) Restarts() []int {
	return p.restarts
}

// EndOfImage returns the end-of-image position, one byte before the last EOI marker seen.
func (p *Parser) EndOfImage() (int, bool) {
	return p.eoi, p.hasEOI
}

// Structure is the result of a complete forward pass over a JPEG stream.
type Structure struct {
	Records       []MarkerRecord
	Restarts      []int
	EndOfImage    int
	HasEndOfImage bool
	Size          int // Length of the parsed data.
}

// Parse runs a parser to completion. On a malformed segment length it returns
// the records collected up to that point along with the error.
func Parse(data []byte) (*Structure, error) {
	return ParseFunc(data, nil)
}

// ParseFunc is like Parse but calls fn for every record as soon as it is produced.
func ParseFunc(data []byte, fn func(MarkerRecord)) (*Structure, error) {
	p := NewParser(data)
	s := &Structure{Size: len(data)}

	for p.Next() {
		rec := p.Record()
		s.Records = append(s.Records, rec)

		if fn != nil {
			fn(rec)
		}
	}

	s.Restarts = p.Restarts()
	s.EndOfImage, s.HasEndOfImage = p.EndOfImage()

	return s, p.Err()
}
