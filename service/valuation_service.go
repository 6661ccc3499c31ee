package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"solar-valuation/domain"
	"solar-valuation/logger"
	"solar-valuation/repository"
)

type ValuationService struct {
	engine *ValuationEngine
	cache  repository.CacheRepository
	log    *logger.Logger
	ttl    time.Duration
}

// NewValuationService wires the engine to a result cache. A nil cache disables caching.
func NewValuationService(
	engine *ValuationEngine,
	cache repository.CacheRepository,
	log *logger.Logger,
	ttl time.Duration,
) *ValuationService {
	return &ValuationService{engine: engine, cache: cache, log: log, ttl: ttl}
}

func (s *ValuationService) Engine() *ValuationEngine {
	return s.engine
}

// Evaluate values the asset. Fallback results are logged and never cached.
func (s *ValuationService) Evaluate(ctx context.Context, input domain.ValuationInputs) domain.ValuationResult {
	input = s.engine.ResolveInputs(input)
	key := s.cacheKey(input)

	if s.cache != nil && key != "" {
		if cached, ok := s.cache.Get(ctx, key); ok {
			var result domain.ValuationResult
			if err := json.Unmarshal([]byte(cached), &result); err == nil {
				return result
			}
			s.log.WithField("key", key).Warn("discarding unreadable cached valuation")
		}
	}

	result, err := s.engine.evaluate(input)
	if err != nil {
		s.log.WithError(err).WithFields(map[string]interface{}{
			"annualRevenue":  input.AnnualRevenue,
			"remainingYears": input.RemainingYears,
			"targetIRR":      input.TargetIRR,
		}).Warn("valuation fell back to zero result")
		return result
	}

	if s.cache != nil && key != "" {
		data, err := json.Marshal(result)
		if err == nil {
			err = s.cache.Set(ctx, key, string(data), s.ttl)
		}
		// Caching is best effort.
		if err != nil {
			s.log.WithError(err).Warn("failed to cache valuation")
		}
	}

	return result
}

// Breakdown returns the per-year projection. It is not cached.
func (s *ValuationService) Breakdown(ctx context.Context, input domain.ValuationInputs) (domain.ValuationBreakdown, error) {
	b, err := s.engine.Breakdown(input)
	if err != nil {
		s.log.WithError(err).Debug("breakdown rejected")
		return domain.ValuationBreakdown{}, err
	}
	return b, nil
}

// cacheKey is empty when the inputs cannot be encoded, e.g. NaN fields.
func (s *ValuationService) cacheKey(input domain.ValuationInputs) string {
	data, err := json.Marshal(struct {
		Inputs      domain.ValuationInputs `json:"inputs"`
		Assumptions string                 `json:"assumptions"`
	}{input, s.engine.Assumptions().Hash()})
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
