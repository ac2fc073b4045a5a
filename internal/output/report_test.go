package output_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	stddec "github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/cre-proforma/internal/domain"
	"github.com/rpgo/cre-proforma/internal/output"
)

func TestFormatters(t *testing.T) {
	if got := output.FormatCurrency(stddec.NewFromFloat(123.45)); got != "$123.45" {
		t.Fatalf("FormatCurrency = %q", got)
	}
	if got := output.FormatPercentage(stddec.NewFromFloat(0.1234)); got != "12.34%" {
		t.Fatalf("FormatPercentage = %q", got)
	}
}

func minimalComparison() *domain.ScenarioComparison {
	return &domain.ScenarioComparison{
		DealName: "Harbor Point Office",
		Results: []domain.ProjectionResult{{
			ScenarioName: "Base Case",
			HoldMonths:   0,
			Periods:      []domain.PeriodCashFlow{{Period: 0, UnleveragedCashFlow: stddec.NewFromInt(-100)}},
			Waterfall: domain.WaterfallResult{
				ClassA: domain.ClassReturns{Name: "LP"},
				ClassB: domain.ClassReturns{Name: "GP"},
			},
		}},
	}
}

func TestGenerateReport_JSON_CSV(t *testing.T) {
	dir := t.TempDir()
	sc := minimalComparison()

	paths, err := output.GenerateReport(sc, "json", dir, output.Options{})
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.True(t, strings.HasPrefix(filepath.Base(paths[0]), "proforma_harbor_point_office_json_"))
	assert.Equal(t, ".json", filepath.Ext(paths[0]))

	paths, err = output.GenerateReport(sc, "csv-summary", dir, output.Options{})
	require.NoError(t, err)
	require.Len(t, paths, 1)
	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "Base Case,")
}

func TestGenerateReport_All(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	paths, err := output.GenerateReport(minimalComparison(), "ALL", dir, output.Options{Thousands: true})
	require.NoError(t, err)
	assert.Len(t, paths, 6)

	exts := map[string]int{}
	for _, p := range paths {
		_, statErr := os.Stat(p)
		assert.NoError(t, statErr)
		exts[filepath.Ext(p)]++
	}
	assert.Equal(t, map[string]int{".txt": 1, ".csv": 3, ".json": 1, ".html": 1}, exts)
}

func TestGenerateReport_Unsupported(t *testing.T) {
	_, err := output.GenerateReport(minimalComparison(), "pdf", t.TempDir(), output.Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, output.ErrUnsupportedFormat))
	assert.Contains(t, err.Error(), "waterfall-csv")
	assert.Contains(t, err.Error(), "monthly-csv")
}

func TestWriteFormatted_DefaultDealSlug(t *testing.T) {
	dir := t.TempDir()
	f := output.FormatterFunc{ID: "raw", F: func(*domain.ScenarioComparison) ([]byte, error) { return []byte("ok"), nil }}
	path, err := output.WriteFormatted(f, &domain.ScenarioComparison{DealName: "  !!  "}, dir, "txt")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "proforma_deal_raw_"))
}

func TestWriteFormatted_FormatError(t *testing.T) {
	boom := errors.New("boom")
	f := output.FormatterFunc{ID: "bad", F: func(*domain.ScenarioComparison) ([]byte, error) { return nil, boom }}
	_, err := output.WriteFormatted(f, minimalComparison(), t.TempDir(), "txt")
	assert.ErrorIs(t, err, boom)
}

func TestAvailableFormatterNames(t *testing.T) {
	names := output.AvailableFormatterNames()
	assert.Equal(t, []string{"annual-csv", "console", "console-lite", "csv", "detailed-csv", "html", "json", "schedule", "waterfall-csv"}, names)
	assert.Contains(t, output.AvailableFormatAliases(), "verbose")
}
