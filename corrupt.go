package rstbreak

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// DefaultPrefix is prepended to the input file name to build the output name.
const DefaultPrefix = "patched_"

// Policy selects which restart intervals are corrupted and how.
type Policy struct {
	// SkipEvery leaves every n-th restart interval intact, starting with the first.
	SkipEvery int `yaml:"skip_every"`
	// Offset is the distance from the restart position to the first overwritten byte.
	Offset int `yaml:"offset"`
	// Width is the number of bytes overwritten per interval.
	Width int `yaml:"width"`
	// Fill is the value written over each window.
	Fill byte `yaml:"fill"`
}

// DefaultPolicy returns the fixed policy: keep intervals 0, 3, 6, ... and overwrite
// 20 bytes with 0xAA, 20 bytes past every other restart marker.
func DefaultPolicy() Policy {
	return Policy{
		SkipEvery: 3,
		Offset:    20,
		Width:     20,
		Fill:      0xAA,
	}
}

// Validate checks that the policy parameters are usable.
func (p Policy) Validate() error {
	if p.SkipEvery < 1 {
		return fmt.Errorf("%w: skip_every must be at least 1, got %d", ErrInvalidPolicy, p.SkipEvery)
	}

	if p.Offset < 0 {
		return fmt.Errorf("%w: negative offset %d", ErrInvalidPolicy, p.Offset)
	}

	if p.Width < 0 {
		return fmt.Errorf("%w: negative width %d", ErrInvalidPolicy, p.Width)
	}

	return nil
}

// Replacement describes one corrupted restart interval.
type Replacement struct {
	Index       int // Index into the restart position list.
	Position    int // Restart position the interval starts at.
	Length      int // Distance to the next restart position or to the end of image.
	WriteOffset int // First overwritten byte.
	Written     int // Number of bytes actually overwritten, at most Policy.Width.
}

// Plan computes the windows to overwrite in a file of the given size.
// Length is the full interval span and is informational only; the overwritten
// window is always Policy.Width bytes, truncated at the end of the file.
// Without an EOI the last span is measured up to size-1. An invalid policy plans nothing.
func Plan(restarts []int, eoi int, hasEOI bool, size int, p Policy) []Replacement {
	if p.Validate() != nil {
		return nil
	}

	if !hasEOI {
		eoi = size - 1
	}

	var out []Replacement
	for i, pos := range restarts {
		if i%p.SkipEvery == 0 {
			continue
		}

		length := eoi - pos
		if i < len(restarts)-1 {
			length = restarts[i+1] - pos
		}

		off := math.MaxInt
		if p.Offset <= math.MaxInt-pos {
			off = pos + p.Offset
		}

		n := 0
		if off >= 0 && off < size {
			n = min(p.Width, size-off)
		}

		out = append(out, Replacement{
			Index:       i,
			Position:    pos,
			Length:      length,
			WriteOffset: off,
			Written:     n,
		})
	}

	return out
}

func planFor(s *Structure, p Policy) []Replacement {
	return Plan(s.Restarts, s.EndOfImage, s.HasEndOfImage, s.Size, p)
}

// Corrupt returns a copy of src with the policy applied. src is not modified.
func Corrupt(src []byte, s *Structure, p Policy) ([]byte, []Replacement) {
	out := make([]byte, len(src))
	copy(out, src)

	plan := Plan(s.Restarts, s.EndOfImage, s.HasEndOfImage, len(src), p)
	for _, r := range plan {
		if r.Written == 0 {
			continue
		}

		window := out[r.WriteOffset : r.WriteOffset+r.Written]
		for i := range window {
			window[i] = p.Fill
		}
	}

	return out, plan
}

// OutputPath returns the path of the corrupted duplicate, next to the input.
func OutputPath(input, prefix string) string {
	return filepath.Join(filepath.Dir(input), prefix+filepath.Base(input))
}

// CorruptFile duplicates src to dst and overwrites the planned windows in dst
// through a second, independent handle. It returns the applied replacements.
func CorruptFile(src, dst string, s *Structure, p Policy, log *zap.Logger) (plan []Replacement, err error) {
	if log == nil {
		log = zap.NewNop()
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := copyFile(src, dst); err != nil {
		return nil, err
	}

	w, err := os.OpenFile(dst, os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s for writing: %w", dst, err)
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", dst, cerr)
		}
	}()

	plan = planFor(s, p)

	widest := 0
	for _, r := range plan {
		widest = max(widest, r.Written)
	}
	fill := bytes.Repeat([]byte{p.Fill}, widest)

	for _, r := range plan {
		log.Debug("corrupting restart interval",
			zap.Int("index", r.Index),
			zap.Int("position", r.Position),
			zap.Int("length", r.Length),
			zap.Int("written", r.Written))

		if r.Written == 0 {
			continue
		}

		if _, err := w.WriteAt(fill[:r.Written], int64(r.WriteOffset)); err != nil {
			return nil, fmt.Errorf("failed to write %s at %#x: %w", dst, r.WriteOffset, err)
		}
	}

	return plan, nil
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", dst, cerr)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}

	return nil
}
