package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar-valuation/domain"
)

func TestSweep_Grid(t *testing.T) {
	svc := NewSensitivityService(newTestValuationService(nil, nil))

	result, err := svc.Sweep(context.Background(), domain.SensitivityInput{
		Base:          scenarioInputs(),
		MinIRR:        4.5,
		MaxIRR:        6.5,
		IRRStep:       0.5,
		PostFitPrices: []float64{10, 12},
	})
	require.NoError(t, err)
	require.Len(t, result.Points, 10)

	assert.Equal(t, 4.5, result.Points[0].TargetIRR)
	assert.Equal(t, 6.5, result.Points[4].TargetIRR)
	assert.Equal(t, 10.0, result.Points[0].PostFitPrice)
	assert.Equal(t, 12.0, result.Points[5].PostFitPrice)

	// higher required return, lower present value
	for i := 1; i < 5; i++ {
		assert.Less(t, result.Points[i].IRRBasedPrice, result.Points[i-1].IRRBasedPrice)
	}

	// the base scenario appears in the grid unchanged
	base := NewValuationEngine(DefaultAssumptions()).Evaluate(scenarioInputs())
	assert.Equal(t, base.FinalPriceMin, result.Points[7].FinalPriceMin)
}

func TestSweep_DefaultsToBasePrice(t *testing.T) {
	svc := NewSensitivityService(newTestValuationService(nil, nil))

	result, err := svc.Sweep(context.Background(), domain.SensitivityInput{
		Base:    scenarioInputs(),
		MinIRR:  5,
		MaxIRR:  5,
		IRRStep: 1,
	})
	require.NoError(t, err)
	require.Len(t, result.Points, 1)
	assert.Equal(t, 12.0, result.Points[0].PostFitPrice)
}

func TestSweep_StepDriftKeepsLastPoint(t *testing.T) {
	svc := NewSensitivityService(newTestValuationService(nil, nil))

	result, err := svc.Sweep(context.Background(), domain.SensitivityInput{
		Base:    scenarioInputs(),
		MinIRR:  0.1,
		MaxIRR:  1.0,
		IRRStep: 0.1,
	})
	require.NoError(t, err)
	require.Len(t, result.Points, 10)
	assert.Equal(t, 1.0, result.Points[9].TargetIRR)
}

func TestSweep_FallbackPointsAreFlagged(t *testing.T) {
	svc := NewSensitivityService(newTestValuationService(nil, nil))

	base := scenarioInputs()
	base.RemainingYears = 0

	result, err := svc.Sweep(context.Background(), domain.SensitivityInput{
		Base: base, MinIRR: 5, MaxIRR: 6, IRRStep: 1,
	})
	require.NoError(t, err)
	for _, p := range result.Points {
		assert.True(t, p.Fallback)
		assert.Zero(t, p.FinalPriceMax)
	}
}

func TestSweep_InvalidInput(t *testing.T) {
	svc := NewSensitivityService(newTestValuationService(nil, nil))

	tests := []struct {
		name  string
		input domain.SensitivityInput
	}{
		{"zero step", domain.SensitivityInput{MinIRR: 1, MaxIRR: 2, IRRStep: 0}},
		{"inverted range", domain.SensitivityInput{MinIRR: 3, MaxIRR: 2, IRRStep: 0.5}},
		{"non-positive IRR", domain.SensitivityInput{MinIRR: 0, MaxIRR: 2, IRRStep: 0.5}},
		{"too many steps", domain.SensitivityInput{MinIRR: 0.01, MaxIRR: 100, IRRStep: 0.01}},
		{"bad price", domain.SensitivityInput{MinIRR: 1, MaxIRR: 2, IRRStep: 1, PostFitPrices: []float64{-1}}},
		{"too many prices", domain.SensitivityInput{MinIRR: 1, MaxIRR: 2, IRRStep: 1, PostFitPrices: make([]float64, MaxSensitivityPrices+1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.input.Base = scenarioInputs()
			_, err := svc.Sweep(context.Background(), tt.input)
			assert.Error(t, err)
		})
	}
}

func TestSweep_ContextCanceled(t *testing.T) {
	svc := NewSensitivityService(newTestValuationService(nil, nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Sweep(ctx, domain.SensitivityInput{
		Base: scenarioInputs(), MinIRR: 5, MaxIRR: 6, IRRStep: 1,
	})
	assert.ErrorIs(t, err, context.Canceled)
}
