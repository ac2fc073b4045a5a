package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rpgo/cre-proforma/internal/calculation"
	"github.com/rpgo/cre-proforma/internal/config"
	"github.com/rpgo/cre-proforma/internal/domain"
	"github.com/rpgo/cre-proforma/internal/output"
)

func init() {
	rootCmd.AddCommand(runCmd)

	viper.BindEnv("output.format", "PROFORMA_FORMAT")
	runCmd.Flags().StringP("format", "f", "console", "Report format, `all` writes every file report")
	viper.BindPFlag("output.format", runCmd.Flags().Lookup("format"))

	viper.BindEnv("output.dir", "PROFORMA_OUTPUT_DIR")
	runCmd.Flags().StringP("output-dir", "o", "", "Write reports to this directory instead of stdout")
	viper.BindPFlag("output.dir", runCmd.Flags().Lookup("output-dir"))
}

var runCmd = &cobra.Command{
	Use:   "run [flags] DealFile",
	Short: "Project a deal and every scenario it defines",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := projectDeal(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		format := viper.GetString("output.format")
		dir := viper.GetString("output.dir")
		opts := output.Options{Thousands: viper.GetBool("output.thousands")}

		if dir == "" && output.NormalizeFormatName(format) != "all" {
			f := output.GetFormatter(format, opts)
			if f == nil {
				return fmt.Errorf("%w: %q", output.ErrUnsupportedFormat, format)
			}
			data, err := f.Format(results)
			if err != nil {
				return fmt.Errorf("render %s report: %w", f.Name(), err)
			}
			_, err = os.Stdout.Write(data)
			return err
		}

		if dir == "" {
			dir = "."
		}
		paths, err := output.GenerateReport(results, format, dir, opts)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Println(p)
		}
		return nil
	},
}

// loadDeal reads a deal file and builds an engine configured from its defaults
func loadDeal(path string) (*domain.Configuration, *calculation.ProFormaEngine, error) {
	cfg, err := config.NewInputParser().LoadFromFile(path)
	if err != nil {
		return nil, nil, err
	}
	log.Info().Str("deal", cfg.Deal.Name).Int("scenarios", len(cfg.Scenarios)).Msg("loaded deal")

	engine := calculation.NewProFormaEngineWithDefaults(cfg.Defaults)
	engine.SetLogger(calculation.NewZerologLogger(log.Logger))
	return cfg, engine, nil
}

// projectDeal loads a deal file and runs all of its scenarios
func projectDeal(ctx context.Context, path string) (*domain.ScenarioComparison, error) {
	cfg, engine, err := loadDeal(path)
	if err != nil {
		return nil, err
	}

	results, err := engine.RunScenarios(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("projection failed: %w", err)
	}
	return results, nil
}
