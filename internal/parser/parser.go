// Package parser defines the interfaces for reading game descriptions.
package parser

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"

	"github.com/michaelcadilhac/oink/pkg/errors"
	"github.com/michaelcadilhac/oink/pkg/model"
)

// Parser is the interface for reading one game format.
type Parser interface {
	// Parse reads a full game description from the reader.
	Parse(ctx context.Context, reader io.Reader) (*model.GameInput, error)

	// SupportedFormats returns the formats supported by this parser.
	SupportedFormats() []model.GameFormat

	// Name returns the name of this parser.
	Name() string
}

// Registry holds registered parsers.
type Registry struct {
	parsers map[model.GameFormat]Parser
}

// NewRegistry creates a Registry with all built-in parsers registered.
func NewRegistry() *Registry {
	r := &Registry{parsers: make(map[model.GameFormat]Parser)}
	r.Register(NewPGSolverParser())
	r.Register(NewEnergyParser())
	return r
}

// Register registers a parser for all formats it supports.
func (r *Registry) Register(p Parser) {
	for _, f := range p.SupportedFormats() {
		r.parsers[f] = p
	}
}

// Get returns the parser for the given format.
func (r *Registry) Get(format model.GameFormat) (Parser, bool) {
	p, ok := r.parsers[format]
	return p, ok
}

// Detect sniffs the format from the first token of the input and returns a
// buffered reader positioned at the start of the input.
func Detect(reader io.Reader) (model.GameFormat, *bufio.Reader, error) {
	br := bufio.NewReader(reader)
	head, err := br.Peek(16)
	if err != nil && err != io.EOF {
		return "", nil, errors.Wrap(errors.CodeParseError, "cannot read input header", err)
	}
	first := strings.Fields(string(head))
	if len(first) == 0 {
		return "", nil, errors.New(errors.CodeParseError, "empty input")
	}
	switch {
	case strings.HasPrefix(first[0], "parity"):
		return model.FormatPGSolver, br, nil
	case strings.HasPrefix(first[0], "energy"):
		return model.FormatEnergy, br, nil
	default:
		return "", nil, errors.Newf(errors.CodeParseError, "unknown input magic %q", first[0])
	}
}

// ParseFile opens the file, detects the format unless one is forced, and
// parses the game.
func (r *Registry) ParseFile(ctx context.Context, path string, format model.GameFormat) (*model.GameInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.CodeNotFound, "cannot open input file", err)
	}
	defer f.Close()
	return r.ParseReader(ctx, f, format)
}

// ParseReader parses a game from the reader, detecting the format when the
// given one is empty.
func (r *Registry) ParseReader(ctx context.Context, reader io.Reader, format model.GameFormat) (*model.GameInput, error) {
	var src io.Reader = reader
	if format == "" {
		detected, br, err := Detect(reader)
		if err != nil {
			return nil, err
		}
		format, src = detected, br
	}
	p, ok := r.Get(format)
	if !ok {
		return nil, errors.Newf(errors.CodeUnsupported, "no parser for format %q", format)
	}
	return p.Parse(ctx, src)
}
