package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rpgo/cre-proforma/internal/domain"
	"github.com/rpgo/cre-proforma/internal/output"
)

var scheduleScenario string

func init() {
	rootCmd.AddCommand(scheduleCmd)

	scheduleCmd.Flags().StringVarP(&scheduleScenario, "scenario", "s", "", "only print this scenario")
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule [flags] DealFile",
	Short: "Print the debt schedule of every loan tranche",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := projectDeal(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if scheduleScenario != "" {
			filtered := make([]domain.ProjectionResult, 0, 1)
			for _, r := range results.Results {
				if r.ScenarioName == scheduleScenario {
					filtered = append(filtered, r)
				}
			}
			if len(filtered) == 0 {
				return fmt.Errorf("no scenario named %q", scheduleScenario)
			}
			results.Results = filtered
		}

		data, err := output.ScheduleFormatter{Thousands: viper.GetBool("output.thousands")}.Format(results)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}
