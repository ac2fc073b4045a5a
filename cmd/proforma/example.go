package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rpgo/cre-proforma/internal/config"
)

var overwrite bool

func init() {
	rootCmd.AddCommand(exampleCmd)

	exampleCmd.Flags().BoolVar(&overwrite, "force", false, "overwrite an existing file")
}

var exampleCmd = &cobra.Command{
	Use:   "example [path]",
	Short: "Write an example deal file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "example_deal.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		if _, err := os.Stat(path); err == nil && !overwrite {
			return fmt.Errorf("%s already exists, use --force to overwrite", path)
		}

		parser := config.NewInputParser()
		if err := parser.SaveConfiguration(parser.CreateExampleConfiguration(), path); err != nil {
			return err
		}
		fmt.Printf("Example deal written to %s\n", path)
		return nil
	},
}
