package service

import (
	"errors"
	"fmt"
	"math"

	"solar-valuation/domain"
)

var (
	ErrInvalidInput          = errors.New("invalid valuation input")
	ErrComputationDegenerate = errors.New("degenerate valuation computation")
)

// ValuationEngine turns the inputs of a FIT solar asset into a price range and
// debt capacity. It holds no state beyond its assumptions and is safe for
// concurrent use.
type ValuationEngine struct {
	assumptions Assumptions
}

func NewValuationEngine(assumptions Assumptions) *ValuationEngine {
	return &ValuationEngine{assumptions: assumptions}
}

func (e *ValuationEngine) Assumptions() Assumptions {
	return e.assumptions
}

// Evaluate never fails: inputs that cannot be valued produce the all-zero
// result with Fallback set.
func (e *ValuationEngine) Evaluate(in domain.ValuationInputs) domain.ValuationResult {
	result, _ := e.evaluate(in)
	return result
}

func (e *ValuationEngine) evaluate(in domain.ValuationInputs) (domain.ValuationResult, error) {
	b, err := e.Breakdown(in)
	if err != nil {
		return fallbackResult(), err
	}
	return b.Result, nil
}

// DefaultOperatingCost is the operating cost assumed when the caller supplies none.
func (e *ValuationEngine) DefaultOperatingCost(annualRevenue float64) float64 {
	return roundHalfUp(annualRevenue * e.assumptions.DefaultOpexRatio)
}

// ResolveInputs fills in the default operating cost. An explicit cost is kept
// as given.
func (e *ValuationEngine) ResolveInputs(in domain.ValuationInputs) domain.ValuationInputs {
	if in.OperatingCost == nil {
		return in.WithOperatingCost(e.DefaultOperatingCost(in.AnnualRevenue))
	}
	return in
}

// Breakdown runs the full pipeline and returns the per-year projection next to
// the summary figures. Errors wrap ErrInvalidInput or ErrComputationDegenerate.
func (e *ValuationEngine) Breakdown(in domain.ValuationInputs) (b domain.ValuationBreakdown, err error) {
	defer func() {
		if r := recover(); r != nil {
			b = domain.ValuationBreakdown{}
			err = fmt.Errorf("%w: %v", ErrComputationDegenerate, r)
		}
	}()

	in = e.ResolveInputs(in)
	if err := validateInputs(in); err != nil {
		return domain.ValuationBreakdown{}, err
	}

	a := e.assumptions
	opex := *in.OperatingCost
	annualEBITDA := in.AnnualRevenue - opex

	// A trailing partial FIT year counts as a whole year.
	fitYears := int(math.Ceil(in.RemainingYears))
	fitFCF := make([]float64, fitYears)
	for i := range fitFCF {
		fitFCF[i] = annualEBITDA * (1 - a.DegradationRate*float64(i))
	}

	generation := (in.AnnualRevenue / a.ReferenceTariff) * a.GenerationDerating
	postFitRevenue := generation * in.PostFitPrice
	postFitEBITDA := postFitRevenue - opex*a.PostFitOpexRatio

	// Post-FIT degradation continues from the unrounded end of FIT.
	postFitFCF := make([]float64, a.PostFitHorizonYears)
	for i := range postFitFCF {
		postFitFCF[i] = postFitEBITDA * (1 - a.DegradationRate*(float64(i)+in.RemainingYears))
	}

	years := make([]domain.YearProjection, 0, fitYears+len(postFitFCF))

	var fitPV float64
	for i, fcf := range fitFCF {
		pv := presentValue(fcf, i+1, in.TargetIRR)
		fitPV += pv
		years = append(years, domain.YearProjection{
			Index:        i,
			Period:       domain.PeriodFit,
			FCF:          fcf,
			DiscountYear: i + 1,
			PresentValue: pv,
		})
	}

	// Discount years resume after the rounded FIT period.
	var postFitPV float64
	for i, fcf := range postFitFCF {
		year := i + fitYears + 1
		pv := presentValue(fcf, year, in.TargetIRR)
		postFitPV += pv
		years = append(years, domain.YearProjection{
			Index:        fitYears + i,
			Period:       domain.PeriodPostFit,
			FCF:          fcf,
			DiscountYear: year,
			PresentValue: pv,
		})
	}

	irrBasedPrice := fitPV + postFitPV
	multipleMin := annualEBITDA * a.MultipleMin
	multipleMax := annualEBITDA * a.MultipleMax

	factor := annuityFactor(a.InterestRate, in.RemainingYears)
	maxBorrowing := (annualEBITDA / a.TargetDSCR) / factor

	// The weakest coverage year caps borrowing. Degradation runs on the
	// continuous year index here, not the FCF offsets above.
	maxWithPostFit := math.Inf(1)
	for k := range years {
		base := annualEBITDA
		if years[k].Period == domain.PeriodPostFit {
			base = postFitEBITDA
		}
		ebitda := base * (1 - a.DegradationRate*float64(k))
		years[k].CoverageEBITDA = ebitda
		years[k].MaxBorrowing = (ebitda / a.TargetDSCR) / factor
		maxWithPostFit = math.Min(maxWithPostFit, years[k].MaxBorrowing)
	}

	totalFit := sum(fitFCF)
	totalPostFit := sum(postFitFCF)

	result := domain.ValuationResult{
		AnnualEBITDA:                  annualEBITDA,
		AverageAnnualFCF:              annualEBITDA * (1 - a.DegradationRate*in.RemainingYears/2),
		TotalFitFCF:                   totalFit,
		PostFitTotalFCF:               totalPostFit,
		TotalFCF:                      totalFit + totalPostFit,
		FinalPriceMin:                 roundHalfUp(irrBasedPrice*a.IRRWeight + multipleMin*a.MultipleWeight),
		FinalPriceMax:                 roundHalfUp(irrBasedPrice*a.IRRWeight + multipleMax*a.MultipleWeight),
		MaxBorrowingAmount:            maxBorrowing,
		MaxBorrowingAmountWithPostFit: maxWithPostFit,
		PostFitAnnualRevenue:          postFitRevenue,
		EstimatedAnnualGeneration:     generation,
		IRRBasedPrice:                 irrBasedPrice,
		MultipleBasedPriceMin:         multipleMin,
		MultipleBasedPriceMax:         multipleMax,
		PostFitEBITDA:                 postFitEBITDA,
	}

	if !allFinite(result.Fields()...) || !allFinite(factor, fitPV, postFitPV) {
		return domain.ValuationBreakdown{}, fmt.Errorf("%w: non-finite result (annuity factor %v)", ErrComputationDegenerate, factor)
	}

	return domain.ValuationBreakdown{
		Inputs:        in,
		Result:        result,
		FitPeriodPV:   fitPV,
		PostFitPV:     postFitPV,
		AnnuityFactor: factor,
		Years:         years,
	}, nil
}

func validateInputs(in domain.ValuationInputs) error {
	if !allFinite(in.AnnualRevenue, in.RemainingYears, in.MWCapacity, *in.OperatingCost, in.PostFitPrice, in.TargetIRR) {
		return fmt.Errorf("%w: non-finite value", ErrInvalidInput)
	}
	switch {
	case in.AnnualRevenue <= 0:
		return fmt.Errorf("%w: annualRevenue must be positive", ErrInvalidInput)
	case in.RemainingYears <= 0:
		return fmt.Errorf("%w: remainingYears must be positive", ErrInvalidInput)
	case in.RemainingYears > MaxRemainingYears:
		return fmt.Errorf("%w: remainingYears exceeds %.0f", ErrInvalidInput, MaxRemainingYears)
	case in.MWCapacity < 0:
		return fmt.Errorf("%w: mwCapacity must not be negative", ErrInvalidInput)
	case *in.OperatingCost < 0:
		return fmt.Errorf("%w: operatingCost must not be negative", ErrInvalidInput)
	case in.PostFitPrice <= 0:
		return fmt.Errorf("%w: postFitPrice must be positive", ErrInvalidInput)
	case in.TargetIRR <= 0:
		return fmt.Errorf("%w: targetIRR must be positive", ErrInvalidInput)
	}
	return nil
}

// presentValue discounts cashFlow received at the end of year at irr percent.
func presentValue(cashFlow float64, year int, irr float64) float64 {
	return cashFlow / math.Pow(1+irr/100, float64(year))
}

// annuityFactor is the level payment per unit of principal for an amortizing
// loan at rate r over n periods. NaN at r == 0 and +Inf at n == 0.
func annuityFactor(r, n float64) float64 {
	growth := math.Pow(1+r, n)
	return r * growth / (growth - 1)
}

// roundHalfUp rounds to the nearest integer, halves toward +Inf.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

func allFinite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func fallbackResult() domain.ValuationResult {
	return domain.ValuationResult{Fallback: true}
}
