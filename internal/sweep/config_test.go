package sweep

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("testdata", "scenarios.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Workers)
	require.Len(t, cfg.Scenarios, 3)

	grid := cfg.Scenarios[0]
	assert.Equal(t, "atm-call", grid.Name)
	assert.Equal(t, "grid", grid.Method)
	assert.Equal(t, 100.0, grid.Spot)
	assert.Equal(t, 200, grid.Grid.SpaceSteps)

	barrier := cfg.Scenarios[1]
	require.NotNil(t, barrier.Barrier)
	assert.Equal(t, 90.0, barrier.Barrier.Level)
	assert.Equal(t, "down-and-out", barrier.Barrier.Type)

	mc := cfg.Scenarios[2]
	assert.Equal(t, "monte-carlo", mc.Method)
	assert.Equal(t, int64(42), mc.Seed)
	assert.Equal(t, 5000, mc.Paths)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join("testdata", "nope.yaml"))
	require.Error(t, err)
}

func TestLoadConfigRejectsEmptyAndUnnamed(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("workers: 2\n"), 0644))
	_, err := LoadConfig(empty)
	require.ErrorContains(t, err, "no scenarios")

	unnamed := filepath.Join(dir, "unnamed.yaml")
	raw := "scenarios:\n  - spot: 100\n    strike: 100\n"
	require.NoError(t, os.WriteFile(unnamed, []byte(raw), 0644))
	_, err = LoadConfig(unnamed)
	require.ErrorContains(t, err, "no name")
}

func TestLoadConfigRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("scenarios: [unclosed"), 0644))

	_, err := LoadConfig(bad)
	require.Error(t, err)
}
