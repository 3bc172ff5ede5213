package rstbreak

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextMarker(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		marker Marker
		offset int
	}{
		{"plain", []byte{0xff, 0xd8}, SOI, 0},
		{"padding", []byte{0x00, 0x12, 0x34, 0xff, 0xdb}, DQT, 3},
		{"fill bytes", []byte{0xff, 0xff, 0xff, 0xc4}, DHT, 2},
		{"stuffed pair outside scan", []byte{0xff, 0x00}, Marker(0x00), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCursor(tt.data)

			m, off, err := NextMarker(c)
			require.NoError(t, err)
			assert.Equal(t, tt.marker, m)
			assert.Equal(t, tt.offset, off)
			assert.Equal(t, len(tt.data), c.Pos())
		})
	}
}

func TestNextMarkerEOF(t *testing.T) {
	for _, data := range [][]byte{
		nil,
		{0x01, 0x02},
		{0x01, 0xff},
		{0xff, 0xff, 0xff},
	} {
		_, _, err := NextMarker(NewCursor(data))
		assert.ErrorIs(t, err, io.EOF, "data % x", data)
	}
}

func TestMarkerName(t *testing.T) {
	assert.Equal(t, "SOI (Start of Image)", SOI.Name())
	assert.Equal(t, "SOS (Start of Scan)", SOS.Name())
	assert.Equal(t, "APP1 (EXIF)", APP1.Name())
	assert.Equal(t, "RST0", RST0.Name())
	assert.Equal(t, "RST5", Marker(0xd5).Name())
	assert.Equal(t, "Unknown (FFC1)", Marker(0xc1).Name())
}

func TestMarkerClasses(t *testing.T) {
	for m := 0; m < 256; m++ {
		marker := Marker(m)
		rst := m >= 0xd0 && m <= 0xd7
		assert.Equal(t, rst, marker.IsRST(), "marker %#x", m)
		assert.Equal(t, !(rst || marker == SOI || marker == EOI), marker.HasLength(), "marker %#x", m)
	}
}
