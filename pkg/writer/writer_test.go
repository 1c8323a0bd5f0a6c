package writer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelcadilhac/oink/pkg/model"
)

func TestWriteReadSolutionRoundTrip(t *testing.T) {
	results := []model.VertexResult{
		{Vertex: 0, Winner: model.OwnerMin, Strategy: model.NoStrategy},
		{Vertex: 1, Winner: model.OwnerMin, Strategy: 0},
		{Vertex: 2, Winner: model.OwnerMax, Strategy: 2},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSolution(results, &buf))
	assert.Equal(t, "0 1 -1\n1 1 0\n2 0 2\n", buf.String())

	parsed, err := ReadSolution(&buf, 3)
	require.NoError(t, err)
	assert.Equal(t, results, parsed)
}

func TestReadSolutionErrors(t *testing.T) {
	cases := map[string]string{
		"short line":  "0 1\n1 1 0\n2 0 2\n",
		"bad winner":  "0 7 -1\n1 1 0\n2 0 2\n",
		"bad vertex":  "9 1 -1\n1 1 0\n2 0 2\n",
		"bad strat":   "0 1 9\n1 1 0\n2 0 2\n",
		"duplicate":   "0 1 -1\n0 1 0\n2 0 2\n",
		"missing row": "0 1 -1\n1 1 0\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadSolution(strings.NewReader(input), 3)
			assert.Error(t, err)
		})
	}
}

func TestJSONWriter(t *testing.T) {
	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	var buf bytes.Buffer
	require.NoError(t, NewJSONWriter[payload]().Write(payload{Name: "g", Count: 2}, &buf))
	assert.Equal(t, "{\"name\":\"g\",\"count\":2}\n", buf.String())

	buf.Reset()
	require.NoError(t, NewPrettyJSONWriter[payload]().Write(payload{Name: "g"}, &buf))
	assert.Contains(t, buf.String(), "\n  \"name\": \"g\"")
}
