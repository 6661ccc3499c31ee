package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"solar-valuation/domain"
	"solar-valuation/logger"
	"solar-valuation/service"
)

type evaluateOptions struct {
	revenue        float64
	remainingYears float64
	mwCapacity     float64
	opex           float64
	postFitPrice   float64
	irr            float64
	asJSON         bool
}

func init() {
	rootCmd.AddCommand(newEvaluateCmd())
}

func newEvaluateCmd() *cobra.Command {
	opts := &evaluateOptions{}

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Value one asset and print the price range and borrowing capacity",
		Long: `Value one asset from the command line.

Operating cost defaults to 16.5% of annual revenue when --opex is not given.

Example:
  solarval evaluate --revenue 45000000 --remaining-years 12.5 --mw 1.6 --post-fit-price 12 --irr 5.5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&opts.revenue, "revenue", 45_000_000, "annual power sales revenue")
	f.Float64Var(&opts.remainingYears, "remaining-years", 12.5, "remaining FIT period in years")
	f.Float64Var(&opts.mwCapacity, "mw", 1.6, "plant capacity in MW (informational)")
	f.Float64Var(&opts.opex, "opex", 0, "annual operating cost (default 16.5% of revenue)")
	f.Float64Var(&opts.postFitPrice, "post-fit-price", 12, "expected post-FIT price per kWh")
	f.Float64Var(&opts.irr, "irr", 5.5, "target IRR in percent")
	f.BoolVar(&opts.asJSON, "json", false, "print the raw result as JSON")

	return cmd
}

func runEvaluate(cmd *cobra.Command, opts *evaluateOptions) error {
	assumptions, err := loadAssumptions("")
	if err != nil {
		return fmt.Errorf("load assumptions: %w", err)
	}

	input := domain.ValuationInputs{
		AnnualRevenue:  opts.revenue,
		RemainingYears: opts.remainingYears,
		MWCapacity:     opts.mwCapacity,
		PostFitPrice:   opts.postFitPrice,
		TargetIRR:      opts.irr,
	}
	if cmd.Flags().Changed("opex") {
		input = input.WithOperatingCost(opts.opex)
	}

	log := logger.NewWithWriter(cmd.ErrOrStderr(), "warn")
	engine := service.NewValuationEngine(assumptions)
	valuationService := service.NewValuationService(engine, nil, log, 0)

	input = engine.ResolveInputs(input)
	result := valuationService.Evaluate(cmd.Context(), input)

	if opts.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printReport(cmd.OutOrStdout(), input, result, assumptions)
	return nil
}
