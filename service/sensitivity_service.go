package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"solar-valuation/domain"
)

type SensitivityService struct {
	valuationService *ValuationService
}

func NewSensitivityService(valuationService *ValuationService) *SensitivityService {
	return &SensitivityService{valuationService: valuationService}
}

// Sweep values the base asset across a grid of target IRRs and post-FIT prices.
// Points are ordered by price, then IRR ascending.
func (s *SensitivityService) Sweep(
	ctx context.Context,
	input domain.SensitivityInput,
) (domain.SensitivityResult, error) {

	if !allFinite(input.MinIRR, input.MaxIRR, input.IRRStep) {
		return domain.SensitivityResult{}, errors.New("IRR range must be finite")
	}
	if input.MinIRR <= 0 || input.MaxIRR <= 0 {
		return domain.SensitivityResult{}, errors.New("IRR bounds must be positive")
	}
	if input.MinIRR > input.MaxIRR {
		return domain.SensitivityResult{}, errors.New("minIRR is greater than maxIRR")
	}
	if input.IRRStep <= 0 {
		return domain.SensitivityResult{}, errors.New("irrStep must be positive")
	}

	irrs := irrGrid(input.MinIRR, input.MaxIRR, input.IRRStep)
	if len(irrs) > MaxSensitivitySteps {
		return domain.SensitivityResult{}, fmt.Errorf("IRR range exceeds the maximum of %d steps", MaxSensitivitySteps)
	}

	prices := input.PostFitPrices
	if len(prices) == 0 {
		prices = []float64{input.Base.PostFitPrice}
	}
	if len(prices) > MaxSensitivityPrices {
		return domain.SensitivityResult{}, fmt.Errorf("number of post-FIT prices exceeds the maximum of %d", MaxSensitivityPrices)
	}
	for _, p := range prices {
		if !(p > 0) || math.IsInf(p, 0) {
			return domain.SensitivityResult{}, errors.New("post-FIT prices must be positive")
		}
	}

	points := make([]domain.SensitivityPoint, 0, len(prices)*len(irrs))
	for _, price := range prices {
		for _, irr := range irrs {
			if err := ctx.Err(); err != nil {
				return domain.SensitivityResult{}, err
			}

			scenario := input.Base
			scenario.PostFitPrice = price
			scenario.TargetIRR = irr

			result := s.valuationService.Evaluate(ctx, scenario)
			points = append(points, domain.SensitivityPoint{
				TargetIRR:                     irr,
				PostFitPrice:                  price,
				IRRBasedPrice:                 result.IRRBasedPrice,
				FinalPriceMin:                 result.FinalPriceMin,
				FinalPriceMax:                 result.FinalPriceMax,
				MaxBorrowingAmountWithPostFit: result.MaxBorrowingAmountWithPostFit,
				Fallback:                      result.Fallback,
			})
		}
	}

	return domain.SensitivityResult{Points: points}, nil
}

// irrGrid steps from min to max inclusive, building at most
// MaxSensitivitySteps+1 points.
func irrGrid(min, max, step float64) []float64 {
	var grid []float64
	for i := 0; i <= MaxSensitivitySteps; i++ {
		v := min + float64(i)*step
		if v > max+step*1e-9 {
			break
		}
		grid = append(grid, math.Round(v*1e6)/1e6)
	}
	return grid
}
