package usecase

import (
	"context"
	"strings"

	"parcelmama/internal/domain/entity"
	"parcelmama/internal/domain/repository"
	"parcelmama/internal/domain/service"
	"parcelmama/pkg/errors"
	"parcelmama/pkg/logger"
)

type AssignmentUseCase struct {
	parcelRepo repository.ParcelRepository
	userRepo   repository.UserRepository
	authorizer Authorizer
	opts       Options
}

func NewAssignmentUseCase(
	parcelRepo repository.ParcelRepository,
	userRepo repository.UserRepository,
	authorizer Authorizer,
	opts Options,
) *AssignmentUseCase {
	return &AssignmentUseCase{
		parcelRepo: parcelRepo,
		userRepo:   userRepo,
		authorizer: authorizer,
		opts:       opts,
	}
}

// Assign binds a delivery man and an approximate delivery date to a parcel and
// puts it on the way. Re-assigning a parcel that is already on the way is allowed.
func (uc *AssignmentUseCase) Assign(ctx context.Context, callerEmail, parcelID, deliveryManID, approximateDate string) (*entity.Parcel, error) {
	deliveryManID = strings.TrimSpace(deliveryManID)
	if deliveryManID == "" {
		return nil, errors.Validation("deliveryMan is required", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, uc.opts.timeout())
	defer cancel()

	if err := uc.authorizer.RequireAdmin(ctx, callerEmail); err != nil {
		return nil, err
	}

	if _, err := uc.parcelRepo.GetByID(ctx, parcelID); err != nil {
		return nil, err
	}

	agent, err := uc.userRepo.GetByID(ctx, deliveryManID)
	if err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			return nil, errors.NotFound("Delivery man", err)
		}
		return nil, err
	}
	if !agent.IsDeliveryMan() {
		return nil, errors.Validation("user "+agent.Email+" is not a delivery man", nil)
	}

	parcel, _, err := uc.parcelRepo.Mutate(ctx, parcelID, func(p *entity.Parcel) (bool, error) {
		return p.Assign(agent.ID, approximateDate)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Parcel %s assigned to %s (approx. %s) by %s", parcel.ID, agent.Email, approximateDate, callerEmail)
	notifyAsync(uc.opts.notifier(), uc.opts.timeout(), service.Message{
		To:       parcel.Customer.Email,
		Subject:  "Your parcel is on the way",
		Template: service.TemplateParcelAssigned,
		Data: map[string]interface{}{
			"name":         parcel.Customer.Name,
			"parcelId":     parcel.ID,
			"apprDeliDate": parcel.ApprDeliDate,
		},
	})
	return parcel, nil
}

// AgentForParcel returns the assigned delivery man id, or "" while unassigned.
func (uc *AssignmentUseCase) AgentForParcel(ctx context.Context, parcelID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.opts.timeout())
	defer cancel()

	parcel, err := uc.parcelRepo.GetByID(ctx, parcelID)
	if err != nil {
		return "", err
	}
	return parcel.DeliveryManID, nil
}

func (uc *AssignmentUseCase) ParcelsForAgent(ctx context.Context, deliveryManID string) ([]*entity.Parcel, error) {
	if strings.TrimSpace(deliveryManID) == "" {
		return nil, errors.Validation("delivery man id is required", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, uc.opts.timeout())
	defer cancel()

	return uc.parcelRepo.List(ctx, repository.ParcelFilter{DeliveryManID: deliveryManID})
}
