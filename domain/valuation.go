package domain

// ValuationInputs are the figures describing a FIT solar asset.
// OperatingCost is optional; nil means "derive from revenue".
type ValuationInputs struct {
	AnnualRevenue  float64  `json:"annualRevenue"`
	RemainingYears float64  `json:"remainingYears"`
	MWCapacity     float64  `json:"mwCapacity,omitempty"` // informational only
	OperatingCost  *float64 `json:"operatingCost,omitempty"`
	PostFitPrice   float64  `json:"postFitPrice"`
	TargetIRR      float64  `json:"targetIRR"` // percent, 5.5 = 5.5%
}

// WithOperatingCost returns a copy of the inputs with an explicit operating cost.
func (in ValuationInputs) WithOperatingCost(cost float64) ValuationInputs {
	in.OperatingCost = &cost
	return in
}

type ValuationResult struct {
	AnnualEBITDA                  float64 `json:"annualEBITDA"`
	AverageAnnualFCF              float64 `json:"averageAnnualFCF"`
	TotalFitFCF                   float64 `json:"totalFitFCF"`
	PostFitTotalFCF               float64 `json:"postFitTotalFCF"`
	TotalFCF                      float64 `json:"totalFCF"`
	FinalPriceMin                 float64 `json:"finalPriceMin"`
	FinalPriceMax                 float64 `json:"finalPriceMax"`
	MaxBorrowingAmount            float64 `json:"maxBorrowingAmount"`
	MaxBorrowingAmountWithPostFit float64 `json:"maxBorrowingAmountWithPostFit"`
	PostFitAnnualRevenue          float64 `json:"postFitAnnualRevenue"`
	EstimatedAnnualGeneration     float64 `json:"estimatedAnnualGeneration"`
	IRRBasedPrice                 float64 `json:"irrBasedPrice"`
	MultipleBasedPriceMin         float64 `json:"multipleBasedPriceMin"`
	MultipleBasedPriceMax         float64 `json:"multipleBasedPriceMax"`
	PostFitEBITDA                 float64 `json:"postFitEBITDA"`

	// Fallback is set when the inputs could not be evaluated and every
	// figure above was zeroed.
	Fallback bool `json:"fallback"`
}

// Fields lists every numeric figure of the result in a fixed order.
func (r ValuationResult) Fields() []float64 {
	return []float64{
		r.AnnualEBITDA,
		r.AverageAnnualFCF,
		r.TotalFitFCF,
		r.PostFitTotalFCF,
		r.TotalFCF,
		r.FinalPriceMin,
		r.FinalPriceMax,
		r.MaxBorrowingAmount,
		r.MaxBorrowingAmountWithPostFit,
		r.PostFitAnnualRevenue,
		r.EstimatedAnnualGeneration,
		r.IRRBasedPrice,
		r.MultipleBasedPriceMin,
		r.MultipleBasedPriceMax,
		r.PostFitEBITDA,
	}
}

type Period string

const (
	PeriodFit     Period = "fit"
	PeriodPostFit Period = "post_fit"
)

// YearProjection is one row of the combined FIT + post-FIT projection.
type YearProjection struct {
	Index          int     `json:"index"` // continuous across both periods
	Period         Period  `json:"period"`
	FCF            float64 `json:"fcf"`
	DiscountYear   int     `json:"discountYear"`
	PresentValue   float64 `json:"presentValue"`
	CoverageEBITDA float64 `json:"coverageEBITDA"`
	MaxBorrowing   float64 `json:"maxBorrowing"`
}

type ValuationBreakdown struct {
	Inputs        ValuationInputs  `json:"inputs"`
	Result        ValuationResult  `json:"result"`
	FitPeriodPV   float64          `json:"fitPeriodPV"`
	PostFitPV     float64          `json:"postFitPV"`
	AnnuityFactor float64          `json:"annuityFactor"`
	Years         []YearProjection `json:"years"`
}
