package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rpgo/cre-proforma/internal/config"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate DealFile",
	Short: "Check a deal file without running it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.NewInputParser().LoadFromFile(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s is valid\n", args[0])
		fmt.Printf("  Deal:      %s\n", cfg.Deal.Name)
		fmt.Printf("  Tenants:   %d\n", len(cfg.Deal.Tenants))
		fmt.Printf("  Loans:     %d\n", len(cfg.Deal.Loans))
		fmt.Printf("  Tiers:     %d\n", len(cfg.Deal.Waterfall.Tiers))
		fmt.Printf("  Scenarios: %d\n", len(cfg.Scenarios))
		for _, s := range cfg.Scenarios {
			fmt.Printf("    - %s\n", s.Name)
		}
		return nil
	},
}
