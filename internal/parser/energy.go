package parser

import (
	"bufio"
	"context"
	"io"
	"math/big"
	"strconv"
	"strings"

	"github.com/michaelcadilhac/oink/pkg/errors"
	"github.com/michaelcadilhac/oink/pkg/model"
)

// EnergyParser reads the plain-text energy-game format:
//
//	energy <N>
//	<vid> <owner0|1> <dst>,<weight>,<dst>,<weight>,...
//
// N is the vertex count; weights are arbitrary-precision signed decimal
// integers. A transition may also be written "<dst> <weight>" with commas
// only between transitions; both spellings are accepted.
type EnergyParser struct{}

// NewEnergyParser creates an EnergyParser.
func NewEnergyParser() *EnergyParser {
	return &EnergyParser{}
}

// Name returns the parser name.
func (p *EnergyParser) Name() string { return "energy" }

// SupportedFormats returns the formats supported by this parser.
func (p *EnergyParser) SupportedFormats() []model.GameFormat {
	return []model.GameFormat{model.FormatEnergy}
}

// Parse reads a full energy game.
func (p *EnergyParser) Parse(ctx context.Context, reader io.Reader) (*model.GameInput, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	lineno := 0
	readLine := func() (string, bool) {
		for scanner.Scan() {
			lineno++
			line := strings.TrimSpace(scanner.Text())
			if line != "" {
				return line, true
			}
		}
		return "", false
	}

	header, ok := readLine()
	if !ok {
		return nil, errors.New(errors.CodeParseError, "missing header line")
	}
	fields := strings.Fields(header)
	if len(fields) != 2 || fields[0] != "energy" {
		return nil, errors.Newf(errors.CodeParseError, "line %d: expected \"energy <N>\"", lineno)
	}
	n, err := strconv.ParseInt(fields[1], 10, 32)
	if err != nil || n <= 0 {
		return nil, errors.Newf(errors.CodeParseError, "line %d: bad vertex count %q", lineno, fields[1])
	}

	in := &model.EnergyInput{N: int32(n), Owners: make([]uint8, n)}
	seen := make([]bool, n)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line, ok := readLine()
		if !ok {
			break
		}
		if err := p.parseVertex(line, lineno, in, seen); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.CodeParseError, "read error", err)
	}
	if len(in.Edges) == 0 {
		return nil, errors.New(errors.CodeParseError, "no transition lines")
	}

	return &model.GameInput{Format: model.FormatEnergy, Energy: in}, nil
}

func (p *EnergyParser) parseVertex(line string, lineno int, in *model.EnergyInput, seen []bool) error {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return errors.Newf(errors.CodeParseError, "line %d: expected \"<vid> <owner> <transitions>\"", lineno)
	}
	vid, err := strconv.ParseInt(fields[0], 10, 32)
	if err != nil || vid < 0 || vid >= int64(in.N) {
		return errors.Newf(errors.CodeParseError, "line %d: bad vertex id %q", lineno, fields[0])
	}
	owner, err := strconv.ParseUint(fields[1], 10, 8)
	if err != nil || owner > 1 {
		return errors.Newf(errors.CodeParseError, "line %d: bad owner %q", lineno, fields[1])
	}
	if seen[vid] {
		return errors.Newf(errors.CodeParseError, "line %d: duplicate vertex %d", lineno, vid)
	}
	seen[vid] = true
	in.Owners[vid] = uint8(owner)

	// Flatten the transition list: commas and spaces both separate tokens,
	// leaving alternating destination / weight entries.
	rest := strings.Join(fields[2:], " ")
	rest = strings.ReplaceAll(rest, ",", " ")
	tokens := strings.Fields(rest)
	if len(tokens) == 0 || len(tokens)%2 != 0 {
		return errors.Newf(errors.CodeParseError, "line %d: transitions must be <dst>,<weight> pairs", lineno)
	}
	for i := 0; i < len(tokens); i += 2 {
		dst, err := strconv.ParseInt(tokens[i], 10, 32)
		if err != nil || dst < 0 || dst >= int64(in.N) {
			return errors.Newf(errors.CodeParseError, "line %d: bad destination %q", lineno, tokens[i])
		}
		w, ok := new(big.Int).SetString(tokens[i+1], 10)
		if !ok {
			return errors.Newf(errors.CodeParseError, "line %d: bad weight %q", lineno, tokens[i+1])
		}
		in.Edges = append(in.Edges, model.EnergyEdge{Src: int32(vid), Dst: int32(dst), Weight: w})
	}
	return nil
}
