package calculation

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/rpgo/cre-proforma/internal/domain"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

const (
	DefaultSimulationRuns        = 500
	DefaultSimulationConcurrency = 8
)

// SimulationConfig controls a sensitivity simulation. Each sigma is the standard
// deviation of a normal shock added to the deal's own assumption.
type SimulationConfig struct {
	Runs            int
	Seed            int64
	ExitCapSigma    float64
	RentGrowthSigma float64
	VacancySigma    float64
	TargetIRR       decimal.Decimal
	Concurrency     int
}

// SimulationOutcome is one draw and the returns it produced
type SimulationOutcome struct {
	Run               int             `json:"run"`
	ExitCapRate       decimal.Decimal `json:"exit_cap_rate"`
	RentGrowth        decimal.Decimal `json:"rent_growth"`
	VacancyRate       decimal.Decimal `json:"vacancy_rate"`
	UnleveragedIRR    decimal.Decimal `json:"unleveraged_irr"`
	LeveragedIRR      decimal.Decimal `json:"leveraged_irr"`
	LeveragedMultiple decimal.Decimal `json:"leveraged_multiple"`
	Converged         bool            `json:"converged"`
	MeetsTarget       bool            `json:"meets_target"`
}

// PercentileRanges represents percentile ranges of a simulated metric
type PercentileRanges struct {
	P10 decimal.Decimal `json:"p10"`
	P25 decimal.Decimal `json:"p25"`
	P50 decimal.Decimal `json:"p50"`
	P75 decimal.Decimal `json:"p75"`
	P90 decimal.Decimal `json:"p90"`
}

// SimulationResult aggregates all runs of a simulation
type SimulationResult struct {
	DealName            string              `json:"deal_name"`
	ScenarioName        string              `json:"scenario_name"`
	Runs                int                 `json:"runs"`
	Seed                int64               `json:"seed"`
	TargetIRR           decimal.Decimal     `json:"target_irr"`
	MeanIRR             decimal.Decimal     `json:"mean_irr"`
	StdDevIRR           decimal.Decimal     `json:"std_dev_irr"`
	IRRPercentiles      PercentileRanges    `json:"irr_percentiles"`
	MultiplePercentiles PercentileRanges    `json:"multiple_percentiles"`
	SuccessRate         decimal.Decimal     `json:"success_rate"` // share of runs meeting the target IRR
	Failures            int                 `json:"failures"`     // runs whose leveraged flows had no IRR
	Outcomes            []SimulationOutcome `json:"outcomes,omitempty"`
}

// SensitivitySimulator perturbs exit cap, rent growth and vacancy and re-projects the deal
type SensitivitySimulator struct {
	Engine *ProFormaEngine
	Config SimulationConfig
}

// NewSensitivitySimulator creates a simulator; zero Runs, Concurrency and Seed take defaults
func NewSensitivitySimulator(engine *ProFormaEngine, config SimulationConfig) *SensitivitySimulator {
	if config.Runs <= 0 {
		config.Runs = DefaultSimulationRuns
	}
	if config.Concurrency <= 0 {
		config.Concurrency = DefaultSimulationConcurrency
	}
	if config.Seed == 0 {
		config.Seed = seedFunc()
	}
	return &SensitivitySimulator{Engine: engine, Config: config}
}

type shock struct {
	capRate, rentGrowth, vacancy decimal.Decimal
}

// draws generates every run's assumptions up front so a seed always yields the
// same runs regardless of scheduling
func (s *SensitivitySimulator) draws(deal domain.Deal) []shock {
	rng := rand.New(rand.NewSource(s.Config.Seed))
	minCap := decimal.NewFromFloat(0.005)
	maxVacancy := decimal.NewFromFloat(0.95)

	out := make([]shock, s.Config.Runs)
	for i := range out {
		capRate := deal.Exit.CapRate.Add(decimal.NewFromFloat(rng.NormFloat64() * s.Config.ExitCapSigma))
		growth := deal.Operating.RentGrowth.Add(decimal.NewFromFloat(rng.NormFloat64() * s.Config.RentGrowthSigma))
		vacancy := deal.Operating.VacancyRate.Add(decimal.NewFromFloat(rng.NormFloat64() * s.Config.VacancySigma))

		if capRate.LessThan(minCap) {
			capRate = minCap
		}
		if vacancy.IsNegative() {
			vacancy = decimal.Zero
		} else if vacancy.GreaterThan(maxVacancy) {
			vacancy = maxVacancy
		}
		out[i] = shock{capRate: capRate, rentGrowth: growth, vacancy: vacancy}
	}
	return out
}

// Run executes the simulation against deal. Runs without a leveraged IRR are
// counted as failures; any other projection error aborts the simulation.
func (s *SensitivitySimulator) Run(ctx context.Context, deal domain.Deal, scenarioName string) (*SimulationResult, error) {
	base := deal.Clone()
	base.ApplyDefaults(s.Engine.Defaults)
	shocks := s.draws(base)

	// runs are quiet; the summary is logged once
	runner := *s.Engine
	runner.Logger = NopLogger{}

	outcomes := make([]SimulationOutcome, len(shocks))
	errs := make([]error, len(shocks))
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, s.Config.Concurrency)

	for i := range shocks {
		wg.Add(1)
		go func(run int) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if err := ctx.Err(); err != nil {
				errs[run] = err
				return
			}
			outcomes[run], errs[run] = s.runOne(ctx, &runner, base, run, shocks[run], scenarioName)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("simulation run %d: %w", i, err)
		}
	}

	result := s.summarize(outcomes)
	result.DealName = deal.Name
	result.ScenarioName = scenarioName
	if result.Failures == len(outcomes) {
		return nil, &domain.ConvergenceError{Method: "simulation", Reason: "no run produced a leveraged IRR"}
	}

	s.Engine.Logger.Infof("simulated %q scenario %q: %d runs, median leveraged IRR %s, %d failures", deal.Name, scenarioName,
		result.Runs, result.IRRPercentiles.P50.StringFixed(4), result.Failures)
	return result, nil
}

func (s *SensitivitySimulator) runOne(ctx context.Context, runner *ProFormaEngine, base domain.Deal, run int, sh shock, scenarioName string) (SimulationOutcome, error) {
	out := SimulationOutcome{Run: run, ExitCapRate: sh.capRate, RentGrowth: sh.rentGrowth, VacancyRate: sh.vacancy}

	d := base.Clone()
	d.Exit.CapRate = sh.capRate
	d.Operating.RentGrowth = sh.rentGrowth
	d.Operating.VacancyRate = sh.vacancy

	res, err := runner.Project(ctx, d, scenarioName)
	if err != nil {
		if errors.Is(err, domain.ErrConvergence) {
			return out, nil
		}
		return out, err
	}

	out.Converged = true
	out.UnleveragedIRR = res.Metrics.UnleveragedIRR
	out.LeveragedIRR = res.Metrics.LeveragedIRR
	out.LeveragedMultiple = res.Metrics.LeveragedMultiple
	out.MeetsTarget = out.LeveragedIRR.GreaterThanOrEqual(s.Config.TargetIRR)
	return out, nil
}

func (s *SensitivitySimulator) summarize(outcomes []SimulationOutcome) *SimulationResult {
	result := &SimulationResult{
		Runs:      len(outcomes),
		Seed:      s.Config.Seed,
		TargetIRR: s.Config.TargetIRR,
		Outcomes:  outcomes,
	}

	irrs := make([]float64, 0, len(outcomes))
	multiples := make([]float64, 0, len(outcomes))
	successes := 0
	for _, o := range outcomes {
		if !o.Converged {
			result.Failures++
			continue
		}
		if o.MeetsTarget {
			successes++
		}
		irrs = append(irrs, o.LeveragedIRR.InexactFloat64())
		multiples = append(multiples, o.LeveragedMultiple.InexactFloat64())
	}
	if len(outcomes) > 0 {
		result.SuccessRate = decimal.NewFromInt(int64(successes)).Div(decimal.NewFromInt(int64(len(outcomes))))
	}
	if len(irrs) == 0 {
		return result
	}

	result.MeanIRR = decimal.NewFromFloat(stat.Mean(irrs, nil))
	if len(irrs) > 1 {
		result.StdDevIRR = decimal.NewFromFloat(stat.StdDev(irrs, nil))
	}
	result.IRRPercentiles = percentiles(irrs)
	result.MultiplePercentiles = percentiles(multiples)
	return result
}

// percentiles sorts values in place and reads the empirical quantiles
func percentiles(values []float64) PercentileRanges {
	sort.Float64s(values)
	q := func(p float64) decimal.Decimal {
		return decimal.NewFromFloat(stat.Quantile(p, stat.Empirical, values, nil))
	}
	return PercentileRanges{P10: q(0.10), P25: q(0.25), P50: q(0.50), P75: q(0.75), P90: q(0.90)}
}
