package usecase

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"parcelmama/internal/domain/entity"
	"parcelmama/internal/domain/repository"
	"parcelmama/pkg/errors"
	"parcelmama/pkg/logger"
)

type UserUseCase struct {
	userRepo   repository.UserRepository
	parcelRepo repository.ParcelRepository
	authorizer Authorizer
	ranking    RankingCache
	opts       Options
}

func NewUserUseCase(
	userRepo repository.UserRepository,
	parcelRepo repository.ParcelRepository,
	authorizer Authorizer,
	ranking RankingCache,
	opts Options,
) *UserUseCase {
	return &UserUseCase{
		userRepo:   userRepo,
		parcelRepo: parcelRepo,
		authorizer: authorizer,
		ranking:    ranking,
		opts:       opts,
	}
}

type EnsureUserInput struct {
	Email    string
	Name     string
	PhotoURL string
	Role     string
	Phone    string
}

// EnsureUser returns the user registered under the email, creating it on first login.
// created reports whether a new document was written.
func (uc *UserUseCase) EnsureUser(ctx context.Context, input EnsureUserInput) (*entity.User, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.opts.timeout())
	defer cancel()

	return ensureUser(ctx, uc.userRepo, input)
}

func ensureUser(ctx context.Context, userRepo repository.UserRepository, input EnsureUserInput) (*entity.User, bool, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, false, errors.Validation("Email is required", nil)
	}

	existing, err := userRepo.GetByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, errors.CodeNotFound) {
		return nil, false, err
	}

	role := input.Role
	if role == "" {
		role = entity.RoleUser
	}
	if !entity.ValidRole(role) {
		return nil, false, errors.Validation("Unknown role "+role, nil)
	}
	phone := input.Phone
	if phone == "" {
		phone = entity.DefaultPhone
	}

	user := &entity.User{
		Email:    email,
		Name:     input.Name,
		PhotoURL: input.PhotoURL,
		Role:     role,
		Phone:    phone,
	}
	if err := userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent first login.
		if errors.Is(err, errors.CodeConflict) {
			existing, getErr := userRepo.GetByEmail(ctx, email)
			if getErr != nil {
				return nil, false, getErr
			}
			return existing, false, nil
		}
		return nil, false, err
	}

	logger.Info("User created: %s (%s)", user.Email, user.Role)
	return user, true, nil
}

func (uc *UserUseCase) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.opts.timeout())
	defer cancel()

	return uc.userRepo.GetByEmail(ctx, email)
}

// ListWithSpending returns every user with the sum of the prices of the parcels they booked.
func (uc *UserUseCase) ListWithSpending(ctx context.Context) ([]*entity.UserWithSpending, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.opts.timeout())
	defer cancel()

	var (
		users   []*entity.User
		parcels []*entity.Parcel
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = uc.userRepo.List(gctx, repository.UserFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		parcels, err = uc.parcelRepo.List(gctx, repository.ParcelFilter{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	spent := make(map[string]float64, len(users))
	for _, p := range parcels {
		spent[strings.ToLower(p.Customer.Email)] += p.Price
	}

	out := make([]*entity.UserWithSpending, 0, len(users))
	for _, u := range users {
		out = append(out, &entity.UserWithSpending{
			User:       u,
			TotalSpent: spent[strings.ToLower(u.Email)],
		})
	}
	return out, nil
}

func (uc *UserUseCase) ListDeliveryMen(ctx context.Context) ([]*entity.User, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.opts.timeout())
	defer cancel()

	return uc.userRepo.List(ctx, repository.UserFilter{Role: entity.RoleDeliveryMan})
}

func (uc *UserUseCase) DeliveryManIDByEmail(ctx context.Context, email string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.opts.timeout())
	defer cancel()

	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if !user.IsDeliveryMan() {
		return "", errors.NotFound("Delivery man", nil)
	}
	return user.ID, nil
}

// IsAdmin answers whether the caller is an admin. Callers may only ask about themselves.
func (uc *UserUseCase) IsAdmin(ctx context.Context, callerEmail, email string) (bool, error) {
	if !strings.EqualFold(callerEmail, email) {
		return false, errors.Forbidden("unauthorized access", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, uc.opts.timeout())
	defer cancel()

	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.IsAdmin(), nil
}

func (uc *UserUseCase) ChangeRole(ctx context.Context, callerEmail, userID, role string) (*entity.User, error) {
	if !entity.ValidRole(role) {
		return nil, errors.Validation("Unknown role "+role, nil)
	}

	ctx, cancel := context.WithTimeout(ctx, uc.opts.timeout())
	defer cancel()

	if err := uc.authorizer.RequireAdmin(ctx, callerEmail); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.UpdateRole(ctx, userID, role)
	if err != nil {
		return nil, err
	}

	// Promotions and demotions change who is ranked.
	invalidateRanking(ctx, uc.ranking)
	logger.Info("User %s is now %s (changed by %s)", user.Email, role, callerEmail)
	return user, nil
}
