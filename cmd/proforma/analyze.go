package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rpgo/cre-proforma/internal/calculation"
	"github.com/rpgo/cre-proforma/internal/domain"
	"github.com/rpgo/cre-proforma/internal/output"
)

var (
	targetIRR      float64
	analysisJSON   bool
	breakEvenScen  string
	simulateScen   string
	simulateConfig calculation.SimulationConfig
)

func init() {
	rootCmd.AddCommand(breakEvenCmd)
	rootCmd.AddCommand(simulateCmd)

	breakEvenCmd.Flags().Float64Var(&targetIRR, "target-irr", 0.15, "Leveraged IRR the exit must still deliver")
	breakEvenCmd.Flags().StringVarP(&breakEvenScen, "scenario", "s", "", "only analyze this scenario")
	breakEvenCmd.Flags().BoolVar(&analysisJSON, "json", false, "Print JSON instead of a table")

	simulateCmd.Flags().IntVar(&simulateConfig.Runs, "runs", calculation.DefaultSimulationRuns, "Number of simulated projections")
	simulateCmd.Flags().Int64Var(&simulateConfig.Seed, "seed", 0, "Random seed, 0 picks one from the clock")
	simulateCmd.Flags().Float64Var(&simulateConfig.ExitCapSigma, "cap-sigma", 0.005, "Standard deviation of the exit cap rate shock")
	simulateCmd.Flags().Float64Var(&simulateConfig.RentGrowthSigma, "rent-sigma", 0.01, "Standard deviation of the rent growth shock")
	simulateCmd.Flags().Float64Var(&simulateConfig.VacancySigma, "vacancy-sigma", 0.02, "Standard deviation of the vacancy shock")
	simulateCmd.Flags().IntVar(&simulateConfig.Concurrency, "concurrency", calculation.DefaultSimulationConcurrency, "Projections run in parallel")
	simulateCmd.Flags().Float64Var(&targetIRR, "target-irr", 0.15, "Leveraged IRR counted as success")
	simulateCmd.Flags().StringVarP(&simulateScen, "scenario", "s", "", "Scenario to perturb, defaults to the first")
	simulateCmd.Flags().BoolVar(&analysisJSON, "json", false, "Print JSON including every run")
}

var breakEvenCmd = &cobra.Command{
	Use:   "breakeven [flags] DealFile",
	Short: "Find the exit cap rate at which each scenario still reaches a target IRR",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, engine, err := loadDeal(args[0])
		if err != nil {
			return err
		}
		if breakEvenScen != "" {
			scenario, err := findScenario(cfg, breakEvenScen)
			if err != nil {
				return err
			}
			cfg.Scenarios = []domain.Scenario{scenario}
		}

		analysis, err := engine.BreakEvenAnalysis(cmd.Context(), cfg, decimal.NewFromFloat(targetIRR))
		if err != nil {
			return err
		}
		return output.WriteBreakEven(os.Stdout, analysis, analysisJSON)
	},
}

var simulateCmd = &cobra.Command{
	Use:   "simulate [flags] DealFile",
	Short: "Perturb exit cap, rent growth and vacancy and report the spread of returns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, engine, err := loadDeal(args[0])
		if err != nil {
			return err
		}

		scenario := domain.Scenario{Name: calculation.BaseScenarioName}
		if simulateScen != "" {
			if scenario, err = findScenario(cfg, simulateScen); err != nil {
				return err
			}
		} else if len(cfg.Scenarios) > 0 {
			scenario = cfg.Scenarios[0]
		}

		sc := simulateConfig
		sc.TargetIRR = decimal.NewFromFloat(targetIRR)
		sim := calculation.NewSensitivitySimulator(engine, sc)
		log.Info().Int("runs", sim.Config.Runs).Int64("seed", sim.Config.Seed).Str("scenario", scenario.Name).Msg("starting simulation")

		result, err := sim.Run(cmd.Context(), scenario.Apply(cfg.Deal.Clone()), scenario.Name)
		if err != nil {
			return err
		}
		if !analysisJSON {
			result.Outcomes = nil
		}
		return output.WriteSimulation(os.Stdout, result, analysisJSON)
	},
}

func findScenario(cfg *domain.Configuration, name string) (domain.Scenario, error) {
	for _, s := range cfg.Scenarios {
		if s.Name == name {
			return s, nil
		}
	}
	return domain.Scenario{}, fmt.Errorf("no scenario named %q", name)
}
