package usecase

import (
	"context"

	"parcelmama/internal/domain/entity"
	"parcelmama/internal/domain/repository"
	"parcelmama/internal/domain/service"
	"parcelmama/pkg/errors"
	"parcelmama/pkg/logger"
)

type SettlementOutcome string

const (
	// OutcomeSettled: the parcel became delivered and its delivery man was credited.
	OutcomeSettled SettlementOutcome = "settled"
	// OutcomeSettledWithoutAgent: the parcel became delivered but nobody was assigned to credit.
	OutcomeSettledWithoutAgent SettlementOutcome = "settled_without_agent"
	// OutcomeAlreadyDelivered: nothing changed.
	OutcomeAlreadyDelivered SettlementOutcome = "already_delivered"
)

type Settlement struct {
	Parcel  *entity.Parcel    `json:"parcel"`
	Agent   *entity.User      `json:"deliveryMan,omitempty"`
	Outcome SettlementOutcome `json:"outcome"`
}

// Partial reports whether the status change went through without its counter side effect.
func (s *Settlement) Partial() bool {
	return s.Outcome == OutcomeSettledWithoutAgent
}

type SettlementUseCase struct {
	parcelRepo repository.ParcelRepository
	userRepo   repository.UserRepository
	ranking    RankingCache
	opts       Options
}

func NewSettlementUseCase(
	parcelRepo repository.ParcelRepository,
	userRepo repository.UserRepository,
	ranking RankingCache,
	opts Options,
) *SettlementUseCase {
	return &SettlementUseCase{
		parcelRepo: parcelRepo,
		userRepo:   userRepo,
		ranking:    ranking,
		opts:       opts,
	}
}

// Complete marks a parcel delivered. The delivery man's credit is claimed in the
// same conditional write, so concurrent completions count once. When the counter
// update fails the credit is handed back and a later Complete retries it.
func (uc *SettlementUseCase) Complete(ctx context.Context, parcelID string) (*Settlement, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.opts.timeout())
	defer cancel()

	var moved, claimed bool
	parcel, changed, err := uc.parcelRepo.Mutate(ctx, parcelID, func(p *entity.Parcel) (bool, error) {
		var err error
		moved, err = p.MarkDelivered()
		if err != nil {
			return false, err
		}
		claimed = p.ClaimCredit()
		return moved || claimed, nil
	})
	if err != nil {
		return nil, err
	}

	if !changed {
		return &Settlement{Parcel: parcel, Outcome: OutcomeAlreadyDelivered}, nil
	}

	if !claimed {
		logger.Warn("Parcel %s delivered with no delivery man assigned; delivered count not updated", parcel.ID)
		uc.notifyDelivered(parcel)
		return &Settlement{Parcel: parcel, Outcome: OutcomeSettledWithoutAgent}, nil
	}

	agent, err := uc.userRepo.IncrementDeliveredParcels(ctx, parcel.DeliveryManID)
	if err != nil {
		logger.Error("Parcel %s delivered but delivery man %s was not credited: %v", parcel.ID, parcel.DeliveryManID, err)
		uc.releaseCredit(ctx, parcel.ID)
		return nil, err
	}

	invalidateRanking(ctx, uc.ranking)
	logger.Info("Parcel %s delivered by %s (%d delivered)", parcel.ID, agent.Email, agent.NumOfDeliveredParcel)
	if moved {
		uc.notifyDelivered(parcel)
	}

	return &Settlement{Parcel: parcel, Agent: agent, Outcome: OutcomeSettled}, nil
}

// releaseCredit runs on its own deadline since ctx may be the one that expired.
func (uc *SettlementUseCase) releaseCredit(ctx context.Context, parcelID string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.opts.timeout())
	defer cancel()

	_, _, err := uc.parcelRepo.Mutate(ctx, parcelID, func(p *entity.Parcel) (bool, error) {
		return p.ReleaseCredit(), nil
	})
	if err != nil {
		logger.Error("Parcel %s: delivery credit could not be restored, delivered count needs a manual fix: %v", parcelID, err)
	}
}

func (uc *SettlementUseCase) notifyDelivered(parcel *entity.Parcel) {
	notifyAsync(uc.opts.notifier(), uc.opts.timeout(), service.Message{
		To:       parcel.Customer.Email,
		Subject:  "Your parcel was delivered",
		Template: service.TemplateParcelDelivered,
		Data: map[string]interface{}{
			"name":     parcel.Customer.Name,
			"parcelId": parcel.ID,
		},
	})
}

func (uc *SettlementUseCase) IncrementBookedCount(ctx context.Context, email string) (*entity.User, error) {
	if email == "" {
		return nil, errors.Validation("Email is required", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, uc.opts.timeout())
	defer cancel()

	return uc.userRepo.IncrementBookedParcels(ctx, email)
}
