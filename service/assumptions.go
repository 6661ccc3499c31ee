package service

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Assumptions are the policy constants of the valuation model.
type Assumptions struct {
	DegradationRate     float64 `yaml:"degradation_rate" json:"degradationRate"`         // output loss per year
	ReferenceTariff     float64 `yaml:"reference_tariff" json:"referenceTariff"`         // currency per kWh implied by FIT revenue
	GenerationDerating  float64 `yaml:"generation_derating" json:"generationDerating"`   // applied to implied generation
	PostFitOpexRatio    float64 `yaml:"post_fit_opex_ratio" json:"postFitOpexRatio"`     // post-FIT opex as share of current
	PostFitHorizonYears int     `yaml:"post_fit_horizon_years" json:"postFitHorizonYears"`
	MultipleMin         float64 `yaml:"multiple_min" json:"multipleMin"` // EV / EBITDA
	MultipleMax         float64 `yaml:"multiple_max" json:"multipleMax"`
	IRRWeight           float64 `yaml:"irr_weight" json:"irrWeight"`
	MultipleWeight      float64 `yaml:"multiple_weight" json:"multipleWeight"`
	InterestRate        float64 `yaml:"interest_rate" json:"interestRate"` // annual, 0.03 = 3%
	TargetDSCR          float64 `yaml:"target_dscr" json:"targetDSCR"`
	DefaultOpexRatio    float64 `yaml:"default_opex_ratio" json:"defaultOpexRatio"` // of annual revenue
}

func DefaultAssumptions() Assumptions {
	return Assumptions{
		DegradationRate:     0.005,
		ReferenceTariff:     35.2,
		GenerationDerating:  0.95,
		PostFitOpexRatio:    0.9,
		PostFitHorizonYears: 10,
		MultipleMin:         8.5,
		MultipleMax:         10.5,
		IRRWeight:           0.6,
		MultipleWeight:      0.4,
		InterestRate:        0.03,
		TargetDSCR:          1.15,
		DefaultOpexRatio:    0.165,
	}
}

// LoadAssumptions overlays the YAML file at path on DefaultAssumptions.
// Unknown keys are rejected.
func LoadAssumptions(path string) (Assumptions, error) {
	a := DefaultAssumptions()

	data, err := os.ReadFile(path)
	if err != nil {
		return a, fmt.Errorf("read assumptions: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&a); err != nil {
		return a, fmt.Errorf("decode assumptions: %w", err)
	}

	if err := a.Validate(); err != nil {
		return a, err
	}
	return a, nil
}

func (a Assumptions) Validate() error {
	var errs []error
	positive := []struct {
		name  string
		value float64
	}{
		{"reference_tariff", a.ReferenceTariff},
		{"generation_derating", a.GenerationDerating},
		{"multiple_min", a.MultipleMin},
		{"multiple_max", a.MultipleMax},
		{"interest_rate", a.InterestRate},
		{"target_dscr", a.TargetDSCR},
	}
	for _, p := range positive {
		if !(p.value > 0) || math.IsInf(p.value, 0) {
			errs = append(errs, fmt.Errorf("%s must be positive", p.name))
		}
	}
	if a.DegradationRate < 0 || a.DegradationRate >= 1 {
		errs = append(errs, errors.New("degradation_rate must be in [0, 1)"))
	}
	if a.PostFitOpexRatio < 0 {
		errs = append(errs, errors.New("post_fit_opex_ratio must not be negative"))
	}
	if a.DefaultOpexRatio < 0 || a.DefaultOpexRatio >= 1 {
		errs = append(errs, errors.New("default_opex_ratio must be in [0, 1)"))
	}
	if a.PostFitHorizonYears < 1 || a.PostFitHorizonYears > MaxPostFitHorizonYears {
		errs = append(errs, fmt.Errorf("post_fit_horizon_years must be between 1 and %d", MaxPostFitHorizonYears))
	}
	if a.MultipleMin > a.MultipleMax {
		errs = append(errs, errors.New("multiple_min must not exceed multiple_max"))
	}
	if a.IRRWeight < 0 || a.MultipleWeight < 0 || math.Abs(a.IRRWeight+a.MultipleWeight-1) > 1e-9 {
		errs = append(errs, errors.New("irr_weight and multiple_weight must be non-negative and sum to 1"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid assumptions: %w", errors.Join(errs...))
	}
	return nil
}

// Hash is a stable SHA-256 of the assumptions, used to namespace cached results.
func (a Assumptions) Hash() string {
	data, _ := json.Marshal(a)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
