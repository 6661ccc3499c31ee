package service

import "time"

const (
	MaxRemainingYears      = 100.0 // upper bound on the FIT series length
	MaxPostFitHorizonYears = 50

	MaxSensitivitySteps  = 50 // IRR points per sweep
	MaxSensitivityPrices = 20

	DebtBalanceTolerance = 0.01 // residual balance treated as repaid

	DefaultCacheTTL = 10 * time.Minute
	cacheKeyPrefix  = "valuation:"
)
