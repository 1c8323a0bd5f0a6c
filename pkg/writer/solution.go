package writer

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/michaelcadilhac/oink/pkg/errors"
	"github.com/michaelcadilhac/oink/pkg/model"
)

// WriteSolution renders one "<vid> <winner> <strategy-dst or -1>" line per
// vertex.
func WriteSolution(results []model.VertexResult, w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, r := range results {
		if _, err := fmt.Fprintf(bw, "%d %d %d\n", r.Vertex, r.Winner, r.Strategy); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadSolution parses the per-vertex solution lines back, for the verifier
// CLI. Vertices must be listed exactly once each.
func ReadSolution(r io.Reader, n int32) ([]model.VertexResult, error) {
	results := make([]model.VertexResult, n)
	seen := make([]bool, n)

	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, errors.Newf(errors.CodeParseError, "solution line %d: expected \"<vid> <winner> <strategy>\"", lineno)
		}
		vid, err := strconv.ParseInt(fields[0], 10, 32)
		if err != nil || vid < 0 || vid >= int64(n) {
			return nil, errors.Newf(errors.CodeParseError, "solution line %d: bad vertex id %q", lineno, fields[0])
		}
		winner, err := strconv.ParseUint(fields[1], 10, 8)
		if err != nil || winner > 1 {
			return nil, errors.Newf(errors.CodeParseError, "solution line %d: bad winner %q", lineno, fields[1])
		}
		strat, err := strconv.ParseInt(fields[2], 10, 32)
		if err != nil || strat < -1 || strat >= int64(n) {
			return nil, errors.Newf(errors.CodeParseError, "solution line %d: bad strategy %q", lineno, fields[2])
		}
		if seen[vid] {
			return nil, errors.Newf(errors.CodeParseError, "solution line %d: duplicate vertex %d", lineno, vid)
		}
		seen[vid] = true
		results[vid] = model.VertexResult{Vertex: int32(vid), Winner: uint8(winner), Strategy: int32(strat)}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.CodeParseError, "read error", err)
	}
	for v := int32(0); v < n; v++ {
		if !seen[v] {
			return nil, errors.Newf(errors.CodeParseError, "solution misses vertex %d", v)
		}
	}
	return results, nil
}
