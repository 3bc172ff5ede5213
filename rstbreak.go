package rstbreak

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
)

// Standard error types.
var (
	ErrMalformedLength = errors.New("malformed segment length")
	ErrInvalidPolicy   = errors.New("invalid corruption policy")
)

// Options specifies processing parameters.
type Options struct {
	// Policy selects the restart intervals to corrupt. Nil means DefaultPolicy.
	Policy *Policy
	// Prefix is prepended to the input file name for the output file.
	// If empty, DefaultPrefix is used.
	Prefix string
	// DryRun parses and plans without writing the output file.
	DryRun bool
	// Report receives the structural report and the corruption log. Nil discards it.
	Report io.Writer
	// Logger receives debug events. Nil disables logging.
	Logger *zap.Logger
}

// Result is the outcome of Process.
type Result struct {
	Structure    *Structure
	Replacements []Replacement
	Output       string // Path of the written duplicate, empty on a dry run.
}

// ParseReader reads the whole stream from r and parses its marker structure.
func ParseReader(r io.Reader) (*Structure, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read stream: %w", err)
	}

	return Parse(data)
}

// Process parses the JPEG file at path, printing its structure as it goes, and
// writes a corrupted duplicate next to it. The report stays intact up to the
// point where parsing stopped, even when an error is returned.
func Process(path string, opts ...*Options) (*Result, error) {
	o := Options{}
	if len(opts) > 0 && opts[0] != nil {
		o = *opts[0]
	}

	policy := DefaultPolicy()
	if o.Policy != nil {
		policy = *o.Policy
	}

	if err := policy.Validate(); err != nil {
		return nil, err
	}

	if o.Prefix == "" {
		o.Prefix = DefaultPrefix
	}

	if o.Report == nil {
		o.Report = io.Discard
	}

	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}

	rep := NewReporter(o.Report)
	rep.Header(path)

	s, err := ParseFunc(data, rep.Record)
	if err != nil {
		return &Result{Structure: s}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	rep.Footer()

	o.Logger.Debug("parsed marker structure",
		zap.String("path", path),
		zap.Int("records", len(s.Records)),
		zap.Int("restarts", len(s.Restarts)),
		zap.Bool("eoi", s.HasEndOfImage))

	// The corruption log goes out before the duplicate is written.
	res := &Result{Structure: s, Replacements: planFor(s, policy)}
	for _, r := range res.Replacements {
		rep.Replacement(r)
	}

	if !o.DryRun {
		res.Output = OutputPath(path, o.Prefix)

		if _, err := CorruptFile(path, res.Output, s, policy, o.Logger); err != nil {
			return res, err
		}
	}

	if err := rep.Err(); err != nil {
		return res, fmt.Errorf("failed to write report: %w", err)
	}

	return res, nil
}
