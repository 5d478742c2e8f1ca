package repository

import (
	"context"

	"parcelmama/internal/domain/entity"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	ListByEmail(ctx context.Context, email string) ([]*entity.Payment, error)
}
