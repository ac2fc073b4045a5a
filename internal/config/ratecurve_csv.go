package config

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rpgo/cre-proforma/internal/domain"
	"github.com/shopspring/decimal"
)

// LoadRateCurveCSV reads forward curve points from a CSV file with a header row
// and date,rate columns. Dates are ISO (2026-03-31) or month-year (March 2026,
// taken as the first of the month); rates are decimals (0.035) or percentages (3.5%).
func LoadRateCurveCSV(filePath string) ([]domain.RatePoint, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("invalid CSV format: expected at least 2 columns")
	}

	var points []domain.RatePoint
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read data row: %w", err)
		}
		if len(record) < 2 || strings.TrimSpace(record[0]) == "" {
			continue
		}

		date, err := parseCurveDate(record[0])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", filepath.Base(filePath), line, err)
		}
		rate, err := parseRate(record[1])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", filepath.Base(filePath), line, err)
		}
		points = append(points, domain.RatePoint{Date: date, Rate: rate})
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("no valid rate points found in %s", filePath)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points, nil
}

func parseCurveDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("January 2006", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("Jan 2006", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date: %s", s)
}

// parseRate accepts 0.035 or 3.5%
func parseRate(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	pct := strings.HasSuffix(s, "%")
	value, err := decimal.NewFromString(strings.TrimSpace(strings.TrimSuffix(s, "%")))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid rate: %s", s)
	}
	if pct {
		value = value.Div(decimal.NewFromInt(100))
	}
	return value, nil
}

// resolveRateCurve merges the points of a curve file into the deal and clears
// the file reference. Relative paths are taken from baseDir.
func resolveRateCurve(deal *domain.Deal, baseDir string) error {
	if deal.RateCurve.File == "" {
		return nil
	}
	path := deal.RateCurve.File
	if !filepath.IsAbs(path) && baseDir != "" {
		path = filepath.Join(baseDir, path)
	}
	points, err := LoadRateCurveCSV(path)
	if err != nil {
		return domain.NewConfigurationError("deal.rate_curve.file", "%v", err)
	}
	deal.RateCurve.Points = append(deal.RateCurve.Points, points...)
	deal.RateCurve.File = ""
	sort.SliceStable(deal.RateCurve.Points, func(i, j int) bool {
		return deal.RateCurve.Points[i].Date.Before(deal.RateCurve.Points[j].Date)
	})
	return nil
}
