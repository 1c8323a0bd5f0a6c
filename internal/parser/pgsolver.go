package parser

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/michaelcadilhac/oink/pkg/errors"
	"github.com/michaelcadilhac/oink/pkg/model"
)

// PGSolverParser reads the PGSolver parity-game text format:
//
//	parity <N>;
//	<id> <priority> <owner> <succ>,<succ>,... [<label>];
//
// N is the highest vertex identifier. Owner 0 plays Max (even priorities),
// owner 1 plays Min (odd priorities).
type PGSolverParser struct{}

// NewPGSolverParser creates a PGSolverParser.
func NewPGSolverParser() *PGSolverParser {
	return &PGSolverParser{}
}

// Name returns the parser name.
func (p *PGSolverParser) Name() string { return "pgsolver" }

// SupportedFormats returns the formats supported by this parser.
func (p *PGSolverParser) SupportedFormats() []model.GameFormat {
	return []model.GameFormat{model.FormatPGSolver}
}

// Parse reads a full parity game.
func (p *PGSolverParser) Parse(ctx context.Context, reader io.Reader) (*model.GameInput, error) {
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
	header = strings.TrimSuffix(header, ";")
	fields := strings.Fields(header)
	if len(fields) != 2 || fields[0] != "parity" {
		return nil, errors.Newf(errors.CodeParseError, "line %d: expected \"parity <N>;\"", lineno)
	}
	maxID, err := strconv.ParseInt(fields[1], 10, 32)
	if err != nil || maxID < 0 {
		return nil, errors.Newf(errors.CodeParseError, "line %d: bad vertex bound %q", lineno, fields[1])
	}

	in := &model.ParityInput{N: int32(maxID) + 1}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line, ok := readLine()
		if !ok {
			break
		}
		v, err := p.parseVertex(line, lineno)
		if err != nil {
			return nil, err
		}
		if v.ID >= in.N {
			in.N = v.ID + 1
		}
		in.Vertices = append(in.Vertices, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.CodeParseError, "read error", err)
	}
	if len(in.Vertices) == 0 {
		return nil, errors.New(errors.CodeParseError, "no vertex lines")
	}

	return &model.GameInput{Format: model.FormatPGSolver, Parity: in}, nil
}

func (p *PGSolverParser) parseVertex(line string, lineno int) (model.ParityVertex, error) {
	var v model.ParityVertex
	line = strings.TrimSuffix(line, ";")

	// Optional quoted label at the end of the line.
	if idx := strings.Index(line, "\""); idx >= 0 {
		rest := line[idx+1:]
		end := strings.Index(rest, "\"")
		if end < 0 {
			return v, errors.Newf(errors.CodeParseError, "line %d: unterminated label", lineno)
		}
		v.Label = rest[:end]
		line = strings.TrimSpace(line[:idx])
	}

	fields := strings.Fields(line)
	if len(fields) < 4 {
		return v, errors.Newf(errors.CodeParseError, "line %d: expected \"<id> <priority> <owner> <succs>\"", lineno)
	}

	id, err := strconv.ParseInt(fields[0], 10, 32)
	if err != nil || id < 0 {
		return v, errors.Newf(errors.CodeParseError, "line %d: bad vertex id %q", lineno, fields[0])
	}
	prio, err := strconv.ParseInt(fields[1], 10, 32)
	if err != nil || prio < 0 {
		return v, errors.Newf(errors.CodeParseError, "line %d: bad priority %q", lineno, fields[1])
	}
	owner, err := strconv.ParseUint(fields[2], 10, 8)
	if err != nil || owner > 1 {
		return v, errors.Newf(errors.CodeParseError, "line %d: bad owner %q", lineno, fields[2])
	}

	// Successors may contain spaces after commas; rejoin then split.
	succsField := strings.Join(fields[3:], "")
	for _, s := range strings.Split(succsField, ",") {
		if s == "" {
			return v, errors.Newf(errors.CodeParseError, "line %d: empty successor", lineno)
		}
		succ, err := strconv.ParseInt(s, 10, 32)
		if err != nil || succ < 0 {
			return v, errors.Newf(errors.CodeParseError, "line %d: bad successor %q", lineno, s)
		}
		v.Succs = append(v.Succs, int32(succ))
	}

	v.ID = int32(id)
	v.Priority = int32(prio)
	v.Owner = uint8(owner)
	return v, nil
}
