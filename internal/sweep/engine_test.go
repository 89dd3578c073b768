package sweep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseScenario(name, method string) Scenario {
	return Scenario{
		Name:     name,
		Method:   method,
		Kind:     "call",
		Spot:     100,
		Strike:   100,
		Rate:     0.05,
		Vol:      0.2,
		Maturity: 1,
	}
}

func TestEngineRunsAllMethods(t *testing.T) {
	grid := baseScenario("grid", "grid")
	grid.Grid = GridSpec{SpaceSteps: 200, TimeSteps: 200}

	barrier := baseScenario("barrier", "grid")
	barrier.Grid = GridSpec{SpaceSteps: 200, TimeSteps: 200}
	barrier.Barrier = &BarrierSpec{Level: 90, Type: "down-and-out"}

	binomial := baseScenario("tree", "binomial")
	binomial.TreeSteps = 200

	mc := baseScenario("mc", "monte-carlo")
	mc.Paths = 5000
	mc.PathSteps = 50
	mc.Seed = 42

	analytic := baseScenario("rr", "analytic")
	analytic.Barrier = &BarrierSpec{Level: 90, Type: "down-and-out"}

	cfg := &Config{
		Workers:   3,
		Scenarios: []Scenario{grid, barrier, binomial, mc, analytic, baseScenario("closed", "closed-form")},
	}

	res, err := NewEngine(cfg).Run()
	require.NoError(t, err)
	require.Len(t, res.Rows, 6)

	// rows come back in config order regardless of worker scheduling
	names := make([]string, len(res.Rows))
	for i, row := range res.Rows {
		names[i] = row.Name
		assert.Empty(t, row.Error, "scenario %s", row.Name)
		assert.Greater(t, row.Price, 0.0, "scenario %s", row.Name)
	}
	assert.Equal(t, []string{"grid", "barrier", "tree", "mc", "rr", "closed"}, names)

	// vanilla grid carries a Black-Scholes reference
	require.NotNil(t, res.Rows[0].Reference)
	require.NotNil(t, res.Rows[0].AbsError)
	assert.Less(t, *res.Rows[0].AbsError, 0.05)

	// zero-rebate down-and-out call carries the Reiner-Rubinstein reference
	require.NotNil(t, res.Rows[1].Reference)
	assert.Less(t, *res.Rows[1].AbsError, 0.1)

	// monte-carlo reports a confidence half-width
	require.NotNil(t, res.Rows[3].HalfWidth)
	assert.Greater(t, *res.Rows[3].HalfWidth, 0.0)
}

func TestEngineRecordsScenarioFailures(t *testing.T) {
	bad := baseScenario("bad", "quantum")
	good := baseScenario("good", "closed-form")

	res, err := NewEngine(&Config{Scenarios: []Scenario{bad, good}}).Run()
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)

	assert.Contains(t, res.Rows[0].Error, "unknown method")
	assert.Empty(t, res.Rows[1].Error)
}

func TestEngineDefaultsMethodAndKind(t *testing.T) {
	sc := baseScenario("defaults", "")
	sc.Kind = ""
	sc.Grid = GridSpec{SpaceSteps: 100, TimeSteps: 100}

	res, err := NewEngine(&Config{Scenarios: []Scenario{sc}}).Run()
	require.NoError(t, err)

	row := res.Rows[0]
	assert.Equal(t, "grid", row.Method)
	assert.Equal(t, "call", row.Kind)
	assert.Empty(t, row.Error)
}

func TestEngineAnalyticRequiresBarrier(t *testing.T) {
	res, err := NewEngine(&Config{Scenarios: []Scenario{baseScenario("rr", "analytic")}}).Run()
	require.NoError(t, err)
	assert.Contains(t, res.Rows[0].Error, "requires a barrier")
}

func TestEngineRejectsEmptyConfig(t *testing.T) {
	_, err := NewEngine(&Config{}).Run()
	require.Error(t, err)
}
