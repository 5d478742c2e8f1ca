package usecase

import (
	"context"
	"fmt"
	"strings"

	"parcelmama/internal/domain/entity"
	"parcelmama/internal/domain/repository"
	"parcelmama/pkg/errors"
	"parcelmama/pkg/logger"
)

type RatingBounds struct {
	Min int
	Max int
}

func DefaultRatingBounds() RatingBounds {
	return RatingBounds{Min: 1, Max: 5}
}

func (b RatingBounds) check(rating int) error {
	if rating < b.Min || rating > b.Max {
		return errors.Validation(fmt.Sprintf("rating must be between %d and %d", b.Min, b.Max), nil)
	}
	return nil
}

type ReviewUseCase struct {
	reviewRepo repository.ReviewRepository
	userRepo   repository.UserRepository
	parcelRepo repository.ParcelRepository
	ranking    RankingCache
	bounds     RatingBounds
	opts       Options
}

func NewReviewUseCase(
	reviewRepo repository.ReviewRepository,
	userRepo repository.UserRepository,
	parcelRepo repository.ParcelRepository,
	ranking RankingCache,
	bounds RatingBounds,
	opts Options,
) *ReviewUseCase {
	return &ReviewUseCase{
		reviewRepo: reviewRepo,
		userRepo:   userRepo,
		parcelRepo: parcelRepo,
		ranking:    ranking,
		bounds:     bounds,
		opts:       opts,
	}
}

type SubmitReviewInput struct {
	DeliveryManID string
	ParcelID      string
	ReviewerName  string
	ReviewerEmail string
	ReviewerImage string
	Rating        int
	Feedback      string
}

type ReviewResult struct {
	Review      *entity.Review `json:"review"`
	DeliveryMan *entity.User   `json:"deliveryMan"`
}

// SubmitReview stores the review and folds its rating into the delivery man's
// running average. When no delivery man is given the parcel's assignee is rated.
// A review whose rating could not be applied is removed again.
func (uc *ReviewUseCase) SubmitReview(ctx context.Context, input SubmitReviewInput) (*ReviewResult, error) {
	if err := uc.bounds.check(input.Rating); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, uc.opts.timeout())
	defer cancel()

	agentID := strings.TrimSpace(input.DeliveryManID)
	if agentID == "" {
		if input.ParcelID == "" {
			return nil, errors.Validation("deliveryMan or parcelId is required", nil)
		}
		parcel, err := uc.parcelRepo.GetByID(ctx, input.ParcelID)
		if err != nil {
			return nil, err
		}
		if parcel.DeliveryManID == "" {
			return nil, errors.NotFound("Delivery man for this parcel", nil)
		}
		agentID = parcel.DeliveryManID
	}

	agent, err := uc.userRepo.GetByID(ctx, agentID)
	if err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			return nil, errors.NotFound("Delivery man", err)
		}
		return nil, err
	}
	if !agent.IsDeliveryMan() {
		return nil, errors.Validation("user "+agent.Email+" is not a delivery man", nil)
	}

	review := &entity.Review{
		DeliveryManID: agent.ID,
		ParcelID:      input.ParcelID,
		ReviewerName:  input.ReviewerName,
		ReviewerEmail: input.ReviewerEmail,
		ReviewerImage: input.ReviewerImage,
		Rating:        input.Rating,
		Feedback:      input.Feedback,
	}
	if err := uc.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	updated, err := uc.userRepo.ApplyRating(ctx, agent.ID, input.Rating)
	if err != nil {
		logger.Error("Rating of %s not applied, withdrawing review %s: %v", agent.ID, review.ID, err)
		uc.withdrawReview(ctx, review.ID)
		return nil, err
	}

	invalidateRanking(ctx, uc.ranking)
	logger.Info("Delivery man %s rated %d (avg %.2f over %d reviews)", updated.Email, input.Rating, updated.AverageRating, updated.ReviewCount)

	return &ReviewResult{Review: review, DeliveryMan: updated}, nil
}

// withdrawReview keeps the review history in step with the aggregate. It runs on
// its own deadline since ctx may be the one that expired.
func (uc *ReviewUseCase) withdrawReview(ctx context.Context, reviewID string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.opts.timeout())
	defer cancel()

	if err := uc.reviewRepo.Delete(ctx, reviewID); err != nil {
		logger.Error("Review %s is stored without its rating and must be removed by hand: %v", reviewID, err)
	}
}

func (uc *ReviewUseCase) RatingsForAgent(ctx context.Context, deliveryManID string) ([]*entity.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.opts.timeout())
	defer cancel()

	return uc.reviewRepo.ListByDeliveryMan(ctx, deliveryManID)
}
