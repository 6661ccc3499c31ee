package commands

import (
	"github.com/spf13/cobra"

	"solar-valuation/service"
)

var assumptionsPath string

var rootCmd = &cobra.Command{
	Use:   "solarval",
	Short: "Acquisition price and loan capacity estimator for FIT solar assets",
	Long: `solarval values a FIT solar generation asset from its annual revenue,
remaining FIT period, operating cost, post-FIT power price and target IRR.

Examples:
  solarval evaluate --revenue 45000000 --remaining-years 12.5 --post-fit-price 12 --irr 5.5
  solarval serve`,
	SilenceUsage: true,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&assumptionsPath, "assumptions", "", "YAML file overriding valuation assumptions")
}

// loadAssumptions prefers the flag, then the configured path, then defaults.
func loadAssumptions(configured string) (service.Assumptions, error) {
	path := assumptionsPath
	if path == "" {
		path = configured
	}
	if path == "" {
		return service.DefaultAssumptions(), nil
	}
	return service.LoadAssumptions(path)
}
