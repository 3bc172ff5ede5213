package rstbreak

import "bytes"

// minimalScan is a baseline stream with two restart markers inside a single scan.
var minimalScan = []byte{
	// SOI: Start of Image
	0xff, 0xd8,
	// DQT with a single payload byte
	0xff, 0xdb, 0x00, 0x03, 0x00,
	// SOS: Start of Scan
	0xff, 0xda, 0x00, 0x08,
	// Entropy-coded data
	0x01, 0x02, 0xff, 0xd0, 0x03, 0x04, 0xff, 0xd1, 0x05, 0x06,
	// EOI: End of Image
	0xff, 0xd9,
}

// scanHeader is SOI, a one-byte DQT and an SOS header, 11 bytes in total.
var scanHeader = []byte{0xff, 0xd8, 0xff, 0xdb, 0x00, 0x03, 0x00, 0xff, 0xda, 0x00, 0x08}

// buildScan returns scanHeader followed by restarts+1 intervals of size bytes,
// separated by RSTn markers and terminated by EOI. The n-th restart position is
// len(scanHeader) + (n+1)*(size+2).
func buildScan(restarts, size int) []byte {
	var b bytes.Buffer
	b.Write(scanHeader)

	for i := 0; i <= restarts; i++ {
		b.Write(bytes.Repeat([]byte{0x11}, size))
		if i < restarts {
			b.Write([]byte{0xff, 0xd0 + byte(i%8)})
		}
	}

	b.Write([]byte{0xff, 0xd9})

	return b.Bytes()
}

func restartAt(n, size int) int {
	return len(scanHeader) + (n+1)*(size+2)
}
