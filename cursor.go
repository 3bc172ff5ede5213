package rstbreak

import "io"

// Cursor provides sequential, seekable read access over an in-memory JPEG stream.
// Reads past the end of the data report io.EOF instead of panicking, so truncated
// input degrades into an early end of the marker loop.
type Cursor struct {
	data []byte // Input buffer containing the entire JPEG file.
	pos  int    // Current position index in the input buffer.
}

// NewCursor returns a cursor positioned at the start of data.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Pos returns the current position, which is also the number of bytes consumed so far.
func (c *Cursor) Pos() int {
	return c.pos
}

// Remaining returns the number of bytes left to be processed.
func (c *Cursor) Remaining() int {
	if c.pos >= len(c.data) {
		return 0
	}

	return len(c.data) - c.pos
}

// ReadByte consumes a single byte.
func (c *Cursor) ReadByte() (byte, error) {
	if c.pos >= len(c.data) {
		return 0, io.EOF
	}

	b := c.data[c.pos]
	c.pos++

	return b, nil
}

// Read16 consumes a 16-bit big-endian integer.
// If fewer than two bytes remain, nothing is consumed.
func (c *Cursor) Read16() (int, error) {
	if c.Remaining() < 2 {
		return 0, io.ErrUnexpectedEOF
	}

	v := (int(c.data[c.pos]) << 8) | int(c.data[c.pos+1])
	c.pos += 2

	return v, nil
}

// Skip advances the position by count bytes. Skipping beyond the end leaves the
// cursor at the end, where the next read reports io.EOF.
func (c *Cursor) Skip(count int) {
	c.pos += count
	if c.pos > len(c.data) {
		c.pos = len(c.data)
	}
}

// Unread moves the position back by count bytes, stopping at the start of the data.
func (c *Cursor) Unread(count int) {
	c.pos -= count
	if c.pos < 0 {
		c.pos = 0
	}
}
