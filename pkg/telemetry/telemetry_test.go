package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go.opentelemetry.io/otel/sdk/trace"
)

func TestParseKeyValuePairs(t *testing.T) {
	assert.Empty(t, parseKeyValuePairs(""))
	assert.Equal(t,
		map[string]string{"a": "1", "b": "x=y"},
		parseKeyValuePairs("a=1, b=x=y, =skipped, malformed"))
}

func TestParseRatio(t *testing.T) {
	assert.Equal(t, 1.0, parseRatio(""))
	assert.Equal(t, 1.0, parseRatio("nope"))
	assert.Equal(t, 0.25, parseRatio("0.25"))
	assert.Equal(t, 0.0, parseRatio("-3"))
	assert.Equal(t, 1.0, parseRatio("7"))
}

func TestCreateSampler(t *testing.T) {
	assert.Equal(t, trace.AlwaysSample(), createSampler(&Config{}))
	assert.Equal(t, trace.NeverSample(), createSampler(&Config{Sampler: "always_off"}))
	assert.Equal(t,
		trace.TraceIDRatioBased(0.5).Description(),
		createSampler(&Config{Sampler: "traceidratio", SamplerArg: "0.5"}).Description())
}

func TestLoadFromEnvDefaults(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "")
	t.Setenv("OTEL_SERVICE_NAME", "")
	cfg := loadFromEnv()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, "oink-solver", cfg.ServiceName)
	assert.Equal(t, "grpc", cfg.Protocol)
}
