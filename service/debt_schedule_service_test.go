package service

import (
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar-valuation/domain"
)

func TestSchedule_DefaultPrincipal(t *testing.T) {
	svc := NewDebtScheduleService(newTestValuationService(nil, nil))

	schedule, err := svc.Schedule(context.Background(), domain.DebtScheduleInput{
		Inputs: scenarioInputs(),
	})
	require.NoError(t, err)

	assert.InEpsilon(t, 336_443_139.85691386, schedule.Principal, relTol)
	assert.InEpsilon(t, 37_575_000.0/1.15, schedule.AnnualPayment, relTol)
	require.Len(t, schedule.Years, 13)

	// full EBITDA in year one covers the payment at exactly the target DSCR
	assert.InEpsilon(t, 1.15, schedule.Years[0].DSCR, relTol)
	assert.InEpsilon(t, 1.0867, schedule.MinDSCR, 1e-4)

	last := schedule.Years[12]
	assert.Zero(t, last.ClosingBalance)
	assert.Less(t, last.Payment, schedule.AnnualPayment)

	var repaid float64
	for i, y := range schedule.Years {
		repaid += y.Principal
		if i > 0 {
			assert.Equal(t, schedule.Years[i-1].ClosingBalance, y.OpeningBalance)
		}
	}
	assert.InEpsilon(t, schedule.Principal, repaid, relTol)
}

func TestSchedule_ExplicitPrincipal(t *testing.T) {
	svc := NewDebtScheduleService(newTestValuationService(nil, nil))

	in := scenarioInputs()
	in.RemainingYears = 10

	schedule, err := svc.Schedule(context.Background(), domain.DebtScheduleInput{
		Inputs:    in,
		Principal: 100_000_000,
	})
	require.NoError(t, err)
	require.Len(t, schedule.Years, 10)

	for _, y := range schedule.Years {
		assert.InEpsilon(t, schedule.AnnualPayment, y.Payment, relTol)
	}
	assert.Zero(t, schedule.Years[9].ClosingBalance)
	assert.Greater(t, schedule.MinDSCR, 1.15)
}

func TestSchedule_InvalidInputs(t *testing.T) {
	svc := NewDebtScheduleService(newTestValuationService(nil, nil))

	in := scenarioInputs()
	in.RemainingYears = 0
	_, err := svc.Schedule(context.Background(), domain.DebtScheduleInput{Inputs: in})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Schedule(context.Background(), domain.DebtScheduleInput{
		Inputs:    scenarioInputs(),
		Principal: -5,
	})
	assert.Error(t, err)
}

func TestSchedule_NoBorrowingCapacity(t *testing.T) {
	svc := NewDebtScheduleService(newTestValuationService(nil, nil))

	in := scenarioInputs().WithOperatingCost(50_000_000)
	_, err := svc.Schedule(context.Background(), domain.DebtScheduleInput{Inputs: in})
	assert.Error(t, err)
}

func TestSchedule_NearWholePeriodStopsAtZeroBalance(t *testing.T) {
	svc := NewDebtScheduleService(newTestValuationService(nil, nil))

	tests := []struct {
		name           string
		remainingYears float64
		wantYears      int
	}{
		{"12 years plus 1e-12", 12.000000000001, 12},
		{"5 years plus 1e-14", 5 + 1e-14, 5},
		{"7 years plus 1e-11", 7 + 1e-11, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := scenarioInputs()
			in.RemainingYears = tt.remainingYears

			schedule, err := svc.Schedule(context.Background(), domain.DebtScheduleInput{Inputs: in})
			require.NoError(t, err)
			require.Len(t, schedule.Years, tt.wantYears)

			for _, y := range schedule.Years {
				assert.Greater(t, y.Payment, 0.0)
				assert.False(t, math.IsInf(y.DSCR, 0) || math.IsNaN(y.DSCR), "year %d DSCR %v", y.Year, y.DSCR)
			}
			assert.Zero(t, schedule.Years[tt.wantYears-1].ClosingBalance)
			assert.False(t, math.IsInf(schedule.MinDSCR, 0))

			_, err = json.Marshal(schedule)
			assert.NoError(t, err)
		})
	}
}
