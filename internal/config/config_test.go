package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitrdm/acmatch/pkg/acmatch"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "greedy", cfg.Matcher.Strategy)
	assert.Equal(t, "ascending", cfg.Matcher.CandidateOrder)
	assert.Equal(t, "as_written", cfg.Matcher.PatternOrder)
	assert.Equal(t, "acmatch", cfg.Metrics.Namespace)
}

func TestParse_EmptyDocumentKeepsDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_OverridesFields(t *testing.T) {
	cfg, err := Parse([]byte(`
matcher:
  strategy: exhaustive
  pattern_order: generality
batch:
  workers: 8
log:
  level: debug
  format: json
metrics:
  enabled: true
  namespace: rules
`))
	require.NoError(t, err)

	assert.Equal(t, "exhaustive", cfg.Matcher.Strategy)
	assert.Equal(t, "ascending", cfg.Matcher.CandidateOrder, "unset fields keep defaults")
	assert.Equal(t, "generality", cfg.Matcher.PatternOrder)
	assert.Equal(t, 8, cfg.Batch.Workers)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "rules", cfg.Metrics.Namespace)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown strategy", "matcher:\n  strategy: random\n", "Strategy"},
		{"unknown order", "matcher:\n  candidate_order: shuffled\n", "CandidateOrder"},
		{"negative workers", "batch:\n  workers: -1\n", "Workers"},
		{"too many workers", "batch:\n  workers: 1000\n", "Workers"},
		{"bad level", "log:\n  level: loud\n", "Level"},
		{"bad namespace", "metrics:\n  namespace: \"my-ns\"\n", "Namespace"},
		{"empty namespace", "metrics:\n  namespace: \"\"\n", "Namespace"},
		{"unknown key", "matcher:\n  speed: fast\n", "speed"},
		{"malformed", "matcher: [\n", "decode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "acmatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("matcher:\n  candidate_order: descending\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "descending", cfg.Matcher.CandidateOrder)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.yaml")
}

func TestMatcherOptions_ConfigureMatcher(t *testing.T) {
	cfg, err := Parse([]byte("matcher:\n  strategy: exhaustive\n"))
	require.NoError(t, err)

	opts, err := cfg.MatcherOptions(nil, nil)
	require.NoError(t, err)
	m := acmatch.NewMatcher(opts...)
	assert.Equal(t, acmatch.Exhaustive, m.Strategy())

	// The greedy search misses this match; the configured exhaustive one does not.
	arena := acmatch.NewArena()
	one := arena.Const(1)
	y := arena.Var("y")
	sum := arena.OpAC(acmatch.Add, one, y)
	pat := acmatch.POp(acmatch.Add, acmatch.PVar("x"), acmatch.PConst(1))
	assert.True(t, m.Match(arena, sum, pat, acmatch.NewSubstitution()))
}

func TestMatcherOptions_RejectsUnvalidatedValues(t *testing.T) {
	cfg := Default()
	cfg.Matcher.Strategy = "bogus"
	_, err := cfg.MatcherOptions(nil, nil)
	require.Error(t, err)
}

func TestLogger_RespectsLevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	cfg := Default()
	cfg.Log.Format = "json"
	cfg.Log.Level = "warn"
	logger := cfg.Logger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "k", 1)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.True(t, logger.Enabled(context.Background(), parseLevel("error")))
}
