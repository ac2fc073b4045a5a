package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rpgo/cre-proforma/internal/calculation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func breakEvenFixture() *calculation.BreakEvenAnalysis {
	return &calculation.BreakEvenAnalysis{
		DealName:  "Test Plaza",
		TargetIRR: d(0.12),
		Results: []calculation.BreakEvenResult{
			{ScenarioName: "Base", BaseCapRate: d(0.065), BaseIRR: d(0.15), BreakEvenCapRate: d(0.0725), IRRAtBreakEven: d(0.12), Cushion: d(0.0075), Iterations: 18},
		},
	}
}

func TestWriteBreakEven(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBreakEven(&buf, breakEvenFixture(), false))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "BREAK-EVEN EXIT CAP RATE: Test Plaza\n"))
	assert.Contains(t, out, "Target leveraged IRR: 12.00%")
	assert.Contains(t, out, "7.25%")
	assert.Contains(t, out, "Cushion (bps)")
	assert.Contains(t, out, " 75 ")
}

func TestWriteBreakEven_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBreakEven(&buf, breakEvenFixture(), true))

	var decoded calculation.BreakEvenAnalysis
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Results, 1)
	assert.True(t, decoded.Results[0].BreakEvenCapRate.Equal(d(0.0725)))
}

func TestWriteSimulation(t *testing.T) {
	result := &calculation.SimulationResult{
		DealName:     "Test Plaza",
		ScenarioName: "Base",
		Runs:         200,
		Seed:         99,
		Failures:     3,
		TargetIRR:    d(0.1),
		MeanIRR:      d(0.134),
		StdDevIRR:    d(0.021),
		SuccessRate:  d(0.875),
		IRRPercentiles: calculation.PercentileRanges{
			P10: d(0.105), P25: d(0.12), P50: d(0.135), P75: d(0.149), P90: d(0.16),
		},
		MultiplePercentiles: calculation.PercentileRanges{
			P10: d(1.6), P25: d(1.75), P50: d(1.9), P75: d(2.05), P90: d(2.2),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSimulation(&buf, result, false))
	out := buf.String()
	assert.Contains(t, out, "SENSITIVITY SIMULATION: Test Plaza / Base")
	assert.Contains(t, out, "Runs: 200 (seed 99), failures: 3")
	assert.Contains(t, out, "Probability of meeting 10.00%: 87.50%")
	assert.Contains(t, out, "13.50%")
	assert.Contains(t, out, "1.90x")

	buf.Reset()
	require.NoError(t, WriteSimulation(&buf, result, true))
	assert.Contains(t, buf.String(), `"irr_percentiles"`)
}
