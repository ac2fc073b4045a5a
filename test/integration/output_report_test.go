package integration

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/cre-proforma/internal/output"
)

func TestOutputGeneration(t *testing.T) {
	_, results := runExample(t)

	for _, name := range output.AvailableFormatterNames() {
		for _, thousands := range []bool{false, true} {
			f := output.GetFormatter(name, output.Options{Thousands: thousands})
			require.NotNil(t, f, name)
			data, err := f.Format(results)
			require.NoError(t, err, name)
			assert.NotEmpty(t, data, name)
		}
	}
}

func TestGenerateAllReports(t *testing.T) {
	_, results := runExample(t)
	dir := t.TempDir()

	paths, err := output.GenerateReport(results, "all", dir, output.Options{})
	require.NoError(t, err)
	require.Len(t, paths, 6)

	for _, p := range paths {
		data, err := os.ReadFile(p)
		require.NoError(t, err)
		content := string(data)
		switch {
		case strings.HasSuffix(p, ".json"):
			assert.Contains(t, content, `"scenario_name": "Soft Leasing"`)
		case strings.HasSuffix(p, ".html"):
			assert.Contains(t, content, "Lakeside Commons")
		case strings.HasSuffix(p, ".txt"):
			assert.Contains(t, content, "PRO FORMA ANALYSIS: Lakeside Commons")
		}
	}
}
