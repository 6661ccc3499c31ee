package domain

type SensitivityInput struct {
	Base          ValuationInputs `json:"base"`
	MinIRR        float64         `json:"minIRR"`
	MaxIRR        float64         `json:"maxIRR"`
	IRRStep       float64         `json:"irrStep"`
	PostFitPrices []float64       `json:"postFitPrices,omitempty"` // defaults to Base.PostFitPrice
}

type SensitivityPoint struct {
	TargetIRR                     float64 `json:"targetIRR"`
	PostFitPrice                  float64 `json:"postFitPrice"`
	IRRBasedPrice                 float64 `json:"irrBasedPrice"`
	FinalPriceMin                 float64 `json:"finalPriceMin"`
	FinalPriceMax                 float64 `json:"finalPriceMax"`
	MaxBorrowingAmountWithPostFit float64 `json:"maxBorrowingAmountWithPostFit"`
	Fallback                      bool    `json:"fallback,omitempty"`
}

type SensitivityResult struct {
	Points []SensitivityPoint `json:"points"`
}
