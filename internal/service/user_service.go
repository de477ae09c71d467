package service

import (
	"context"
	stderrors "errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"fintrack/internal/auth"
	"fintrack/internal/cache"
	"fintrack/internal/errors"
	"fintrack/internal/model"
	"fintrack/internal/repository"
)

// UserService exposes account administration.
type UserService interface {
	Me(identity *auth.Identity) *auth.Identity
	ListAll(ctx context.Context, actor auth.Privileged) ([]model.User, error)
	Deactivate(ctx context.Context, username string, actor *auth.Identity) error
}

type userService struct {
	repo       repository.UserRepository
	identities *IdentityCache
	log        *zap.Logger
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client, log *zap.Logger) UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &userService{repo: repo, identities: NewIdentityCache(cache), log: log}
}

// Me returns a copy of the caller's identity.
func (s *userService) Me(identity *auth.Identity) *auth.Identity {
	cp := *identity
	return &cp
}

func (s *userService) ListAll(ctx context.Context, actor auth.Privileged) ([]model.User, error) {
	if actor == nil || !actor.CanListUsers() {
		return nil, fmt.Errorf("%w: listing users requires the admin role", errors.ErrForbidden)
	}
	return s.repo.List(ctx)
}

// Deactivate disables username. Only the user themself or an admin may do so.
//
// The cached identity is overwritten with a disabled entry rather than deleted,
// so a Resolve that loaded the row just before cannot re-cache it as active.
// If that write fails the error is returned; the account is disabled either
// way and the call can be repeated.
func (s *userService) Deactivate(ctx context.Context, username string, actor *auth.Identity) error {
	username = NormalizeUsername(username)
	if actor == nil || !actor.CanManage(username) {
		return fmt.Errorf("%w: cannot deactivate %q", errors.ErrForbidden, username)
	}

	if err := s.repo.SetDisabled(ctx, username, true); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user %q", errors.ErrNotFound, username)
		}
		return fmt.Errorf("deactivate user: %w", err)
	}

	if err := s.identities.Put(ctx, &auth.Identity{Username: username, Disabled: true}); err != nil {
		s.log.Error("identity cache not updated after deactivation", zap.String("username", username), zap.Error(err))
		return fmt.Errorf("deactivate user: %w", err)
	}
	return nil
}
