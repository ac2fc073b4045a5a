package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Logging configuration
	viper.BindEnv("log.level", "PROFORMA_LOG_LEVEL")
	rootCmd.PersistentFlags().String("log-level", "warning", "Logging level")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	viper.BindEnv("log.output", "PROFORMA_LOG_OUTPUT")
	rootCmd.PersistentFlags().String("log-output", "stderr", "Write logs to specified output one of: file path, `stdout`, or `stderr`")
	viper.BindPFlag("log.output", rootCmd.PersistentFlags().Lookup("log-output"))

	viper.BindEnv("log.pretty", "PROFORMA_LOG_PRETTY")
	rootCmd.PersistentFlags().Bool("log-pretty", true, "Write human readable logs instead of JSON")
	viper.BindPFlag("log.pretty", rootCmd.PersistentFlags().Lookup("log-pretty"))

	// Report rendering
	viper.BindEnv("output.thousands", "PROFORMA_THOUSANDS")
	rootCmd.PersistentFlags().Bool("thousands", false, "Render currency amounts in $000s")
	viper.BindPFlag("output.thousands", rootCmd.PersistentFlags().Lookup("thousands"))
}

var rootCmd = &cobra.Command{
	Use:           "proforma",
	Short:         "Commercial real estate pro forma engine",
	Long:          `Project monthly property cash flows, debt, exit value and equity waterfall returns for a deal and its scenarios.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "warning: could not read .env: %v\n", err)
		}
		setupLogging()
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("command failed")
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
