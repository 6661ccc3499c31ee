package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"solar-valuation/domain"
)

type DebtScheduleService struct {
	valuationService *ValuationService
}

func NewDebtScheduleService(valuationService *ValuationService) *DebtScheduleService {
	return &DebtScheduleService{valuationService: valuationService}
}

// Schedule amortizes a loan over the remaining FIT period and checks each
// year's payment against degraded FIT EBITDA.
func (s *DebtScheduleService) Schedule(
	ctx context.Context,
	input domain.DebtScheduleInput,
) (domain.DebtSchedule, error) {

	if input.Principal < 0 || math.IsNaN(input.Principal) || math.IsInf(input.Principal, 0) {
		return domain.DebtSchedule{}, errors.New("principal must be a non-negative amount")
	}

	breakdown, err := s.valuationService.Breakdown(ctx, input.Inputs)
	if err != nil {
		return domain.DebtSchedule{}, fmt.Errorf("valuation failed: %w", err)
	}

	a := s.valuationService.Engine().Assumptions()
	principal := input.Principal
	if principal == 0 {
		principal = breakdown.Result.MaxBorrowingAmount
	}
	if principal <= 0 {
		return domain.DebtSchedule{}, errors.New("asset supports no borrowing")
	}

	rate := a.InterestRate
	period := breakdown.Inputs.RemainingYears
	payment := principal * breakdown.AnnuityFactor
	years := int(math.Ceil(period))

	schedule := domain.DebtSchedule{
		Principal:       principal,
		InterestRate:    rate,
		LoanPeriodYears: period,
		AnnualPayment:   payment,
		MinDSCR:         math.Inf(1),
		Years:           make([]domain.DebtScheduleYear, 0, years),
	}

	balance := principal
	for year := 1; year <= years; year++ {
		// A period just past a whole year can leave only a sub-tolerance
		// residual, already cleared.
		if balance == 0 {
			break
		}

		interest := balance * rate
		due := balance + interest

		// The last year clears whatever is left, which is a partial payment
		// when the period is fractional.
		pay := math.Min(payment, due)
		if year == years {
			pay = due
		}

		closing := balance + interest - pay
		if math.Abs(closing) < DebtBalanceTolerance {
			closing = 0
		}

		ebitda := breakdown.Result.AnnualEBITDA * (1 - a.DegradationRate*float64(year-1))
		dscr := ebitda / pay

		schedule.Years = append(schedule.Years, domain.DebtScheduleYear{
			Year:           year,
			OpeningBalance: balance,
			Payment:        pay,
			Interest:       interest,
			Principal:      pay - interest,
			ClosingBalance: closing,
			CoverageEBITDA: ebitda,
			DSCR:           dscr,
		})
		schedule.TotalInterest += interest
		schedule.MinDSCR = math.Min(schedule.MinDSCR, dscr)

		balance = closing
	}

	return schedule, nil
}
