package usecase

import (
	"context"
	"time"

	"parcelmama/internal/domain/entity"
	"parcelmama/internal/domain/repository"
	"parcelmama/internal/domain/service"
	"parcelmama/pkg/errors"
	"parcelmama/pkg/logger"
)

// DefaultTimeout bounds every persistence round trip a use case makes.
const DefaultTimeout = 5 * time.Second

// Authorizer decides whether a caller may run privileged operations.
type Authorizer interface {
	RequireAdmin(ctx context.Context, callerEmail string) error
}

// RoleAuthorizer grants admin rights from the role stored on the user document.
type RoleAuthorizer struct {
	userRepo repository.UserRepository
}

func NewRoleAuthorizer(userRepo repository.UserRepository) *RoleAuthorizer {
	return &RoleAuthorizer{userRepo: userRepo}
}

func (a *RoleAuthorizer) RequireAdmin(ctx context.Context, callerEmail string) error {
	if callerEmail == "" {
		return errors.Unauthorized("Authentication required", nil)
	}

	user, err := a.userRepo.GetByEmail(ctx, callerEmail)
	if err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			return errors.Unauthorized("Admin privileges required", err)
		}
		return err
	}
	if !user.IsAdmin() {
		return errors.Unauthorized("Admin privileges required", nil)
	}
	return nil
}

// RankingCache is an optional read-through cache for the top deliverymen query.
type RankingCache interface {
	Get(ctx context.Context, limit int) ([]*entity.User, bool, error)
	Set(ctx context.Context, limit int, users []*entity.User) error
	Invalidate(ctx context.Context) error
}

// Options carries what every use case shares.
type Options struct {
	Timeout  time.Duration
	Notifier service.Notifier
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}

func (o Options) notifier() service.Notifier {
	if o.Notifier == nil {
		return service.NoopNotifier{}
	}
	return o.Notifier
}

// notifyAsync sends msg without blocking the caller. The request context may already be
// done by the time the notifier runs, so it gets its own deadline.
func notifyAsync(n service.Notifier, timeout time.Duration, msg service.Message) {
	if msg.To == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := n.Notify(ctx, msg); err != nil {
			logger.Warn("Notification %s to %s failed: %v", msg.Template, msg.To, err)
		}
	}()
}

func invalidateRanking(ctx context.Context, cache RankingCache) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx); err != nil {
		logger.Warn("Failed to invalidate ranking cache: %v", err)
	}
}
