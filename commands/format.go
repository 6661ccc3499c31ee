package commands

import (
	"fmt"
	"io"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"solar-valuation/domain"
	"solar-valuation/service"
)

const separator = "───────────────────────────────────────────────"

// reportPrinter groups digits the way the Japanese locale does.
var reportPrinter = message.NewPrinter(language.Japanese)

func formatAmount(v float64) string {
	return reportPrinter.Sprintf("%d", int64(math.Round(v)))
}

func printReport(w io.Writer, in domain.ValuationInputs, r domain.ValuationResult, a service.Assumptions) {
	row := func(label string, v float64, unit string) {
		fmt.Fprintf(w, "  %-34s %18s %s\n", label, formatAmount(v), unit)
	}

	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, "  Acquisition price range")
	fmt.Fprintln(w, separator)
	if r.Fallback {
		fmt.Fprintln(w, "  ⚠️  inputs could not be valued, all figures are zero")
	}
	row("Minimum", r.FinalPriceMin, "JPY")
	row("Maximum", r.FinalPriceMax, "JPY")
	row("IRR-based price", r.IRRBasedPrice, "JPY")
	fmt.Fprintf(w, "  %-34s %18s ~ %s JPY\n", "Multiple-based price",
		formatAmount(r.MultipleBasedPriceMin), formatAmount(r.MultipleBasedPriceMax))

	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, "  Metrics")
	fmt.Fprintln(w, separator)
	row("Annual EBITDA", r.AnnualEBITDA, "JPY")
	row("Average annual FCF", r.AverageAnnualFCF, "JPY")
	row("FCF during FIT", r.TotalFitFCF, "JPY")
	row(fmt.Sprintf("Post-FIT FCF (%dy)", a.PostFitHorizonYears), r.PostFitTotalFCF, "JPY")
	row("Total FCF (FIT + post-FIT)", r.TotalFCF, "JPY")
	row("Max borrowing (FIT only)", r.MaxBorrowingAmount, "JPY")
	row(fmt.Sprintf("Max borrowing (incl. %dy post-FIT)", a.PostFitHorizonYears), r.MaxBorrowingAmountWithPostFit, "JPY")

	fmt.Fprintln(w, separator)
	if in.OperatingCost != nil {
		row("Operating cost", *in.OperatingCost, "JPY/yr")
	}
	row("Post-FIT generation", r.EstimatedAnnualGeneration, "kWh/yr")
	row("Post-FIT revenue", r.PostFitAnnualRevenue, "JPY/yr")
	if in.MWCapacity > 0 {
		fmt.Fprintf(w, "  %-34s %18s MW\n", "Capacity", reportPrinter.Sprintf("%.1f", in.MWCapacity))
	}
	fmt.Fprintf(w, "  * degradation %.1f%%/yr, DSCR %.2f, interest %.1f%%\n",
		a.DegradationRate*100, a.TargetDSCR, a.InterestRate*100)
	fmt.Fprintf(w, "  * price = IRR-based %.0f%% + multiple-based %.0f%% (%.1fx-%.1fx EBITDA)\n",
		a.IRRWeight*100, a.MultipleWeight*100, a.MultipleMin, a.MultipleMax)
}
