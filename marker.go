package rstbreak

import (
	"fmt"
	"io"
)

// Marker is the code byte that follows 0xFF in a JPEG marker.
type Marker uint8

// JPEG marker codes.
const (
	SOF0  Marker = 0xC0 // Start of Frame, Baseline DCT
	SOF2  Marker = 0xC2 // Start of Frame, Progressive DCT
	DHT   Marker = 0xC4 // Define Huffman Table
	RST0  Marker = 0xD0 // RSTn = RST0+n, n = 0-7
	RST7  Marker = 0xD7
	SOI   Marker = 0xD8 // Start of Image
	EOI   Marker = 0xD9 // End of Image
	SOS   Marker = 0xDA // Start of Scan
	DQT   Marker = 0xDB // Define Quantization Table
	DRI   Marker = 0xDD // Define Restart Interval
	APP0  Marker = 0xE0 // APPn = APP0+n, n = 0-15
	APP1  Marker = 0xE1
	APP2  Marker = 0xE2
	APP15 Marker = 0xEF
	COM   Marker = 0xFE // Comment
)

var markerNames = map[Marker]string{
	SOI:  "SOI (Start of Image)",
	EOI:  "EOI (End of Image)",
	SOF0: "SOF0 (Baseline DCT)",
	SOF2: "SOF2 (Progressive DCT)",
	DHT:  "DHT (Define Huffman Table)",
	DQT:  "DQT (Define Quantization Table)",
	SOS:  "SOS (Start of Scan)",
	DRI:  "DRI (Define Restart Interval)",
	APP0: "APP0 (JFIF)",
	APP1: "APP1 (EXIF)",
	APP2: "APP2",
	COM:  "COM (Comment)",
}

func init() {
	for m := RST0; m <= RST7; m++ {
		markerNames[m] = fmt.Sprintf("RST%d", m-RST0)
	}
}

// Name returns the display name of the marker.
func (m Marker) Name() string {
	if name, ok := markerNames[m]; ok {
		return name
	}

	return fmt.Sprintf("Unknown (FF%02X)", uint8(m))
}

// IsRST reports whether m is one of the restart markers RST0-RST7.
func (m Marker) IsRST() bool {
	return (m | 7) == RST7
}

// HasLength reports whether the marker is followed by a 2-byte segment length.
// SOI, EOI and the restart markers stand alone.
func (m Marker) HasLength() bool {
	return !(m.IsRST() || m == SOI || m == EOI)
}

// NextMarker finds the next marker in the stream. Bytes before the 0xFF are
// discarded, as are any 0xFF fill bytes that precede the code. The returned
// offset is that of the 0xFF immediately before the marker code.
//
// Outside entropy-coded data a 0xFF 0x00 pair is returned as marker 0x00.
func NextMarker(c *Cursor) (Marker, int, error) {
	// Skip non-FF bytes (padding or garbage between segments).
	for {
		b, err := c.ReadByte()
		if err != nil {
			return 0, 0, io.EOF
		}

		if b == 0xFF {
			break
		}
	}

	// Skip fill bytes until the marker code.
	for {
		b, err := c.ReadByte()
		if err != nil {
			return 0, 0, io.EOF
		}

		if b != 0xFF {
			return Marker(b), c.Pos() - 2, nil
		}
	}
}
