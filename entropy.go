package rstbreak

// ScanInfo describes the entropy-coded data that follows a start-of-scan segment.
type ScanInfo struct {
	Start    int   // Position of the first byte scanned.
	End      int   // Cursor position when scanning stopped.
	Restarts []int // Positions immediately after each RSTn marker, in encounter order.
}

// Entropy returns the number of bytes consumed by the scan.
func (s ScanInfo) Entropy() int {
	return s.End - s.Start
}

// ScanEntropy walks byte-stuffed entropy-coded data from the cursor position.
// Stuffed 0xFF00 pairs are data, and RSTn markers are recorded and skipped.
// Any other marker ends the scan with the cursor rewound onto its 0xFF, so
// that NextMarker reads it again. Running out of data also ends the scan.
func ScanEntropy(c *Cursor) ScanInfo {
	info := ScanInfo{Start: c.Pos()}

	for {
		b, err := c.ReadByte()
		if err != nil {
			break
		}

		if b != 0xFF {
			continue
		}

		b2, err := c.ReadByte()
		if err != nil {
			// Reached EOF after a 0xFF.
			break
		}

		if b2 == 0x00 {
			// Stuffed 0xFF00, literal 0xFF in the data.
			continue
		}

		if Marker(b2).IsRST() {
			info.Restarts = append(info.Restarts, c.Pos())

			continue
		}

		// Next real marker, scan ends.
		c.Unread(2)

		break
	}

	info.End = c.Pos()

	return info
}
