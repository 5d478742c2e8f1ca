package usecase

import (
	"context"

	"parcelmama/internal/domain/entity"
	"parcelmama/internal/domain/repository"
	"parcelmama/pkg/errors"
	"parcelmama/pkg/logger"
)

const DefaultTopAgents = 3

type RankingUseCase struct {
	userRepo repository.UserRepository
	cache    RankingCache
	opts     Options
}

// NewRankingUseCase accepts a nil cache.
func NewRankingUseCase(userRepo repository.UserRepository, cache RankingCache, opts Options) *RankingUseCase {
	return &RankingUseCase{
		userRepo: userRepo,
		cache:    cache,
		opts:     opts,
	}
}

// TopAgents lists at most n delivery men by delivered parcels, then average rating.
func (uc *RankingUseCase) TopAgents(ctx context.Context, n int) ([]*entity.User, error) {
	if n < 0 {
		return nil, errors.Validation("limit must not be negative", nil)
	}
	if n == 0 {
		n = DefaultTopAgents
	}

	ctx, cancel := context.WithTimeout(ctx, uc.opts.timeout())
	defer cancel()

	if uc.cache != nil {
		users, ok, err := uc.cache.Get(ctx, n)
		if err != nil {
			logger.Warn("Ranking cache read failed: %v", err)
		} else if ok {
			return users, nil
		}
	}

	users, err := uc.userRepo.TopDeliveryMen(ctx, n)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, n, users); err != nil {
			logger.Warn("Ranking cache write failed: %v", err)
		}
	}
	return users, nil
}
