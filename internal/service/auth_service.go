package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"fintrack/internal/auth"
	"fintrack/internal/cache"
	"fintrack/internal/errors"
	"fintrack/internal/model"
	"fintrack/internal/repository"
)

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, username, fullName, password string) (*model.User, error)
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
	Login(ctx context.Context, username, password string) (*TokenResponse, error)
	Resolve(ctx context.Context, token string) (*auth.Identity, error)
}

type authService struct {
	users         repository.UserRepository
	hasher        *auth.PasswordHasher
	tokens        *auth.JWTService
	identities    *IdentityCache
	log           *zap.Logger
	adminUsername string
}

// NewAuthService creates a new authentication service. cache and log may be nil.
func NewAuthService(
	users repository.UserRepository,
	hasher *auth.PasswordHasher,
	tokens *auth.JWTService,
	cache *cache.Client,
	log *zap.Logger,
	adminUsername string,
) AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &authService{
		users:         users,
		hasher:        hasher,
		tokens:        tokens,
		identities:    NewIdentityCache(cache),
		log:           log,
		adminUsername: NormalizeUsername(adminUsername),
	}
}

// Register creates a new user with a hashed password. Usernames are stored lower case.
func (s *authService) Register(ctx context.Context, username, fullName, password string) (*model.User, error) {
	username = NormalizeUsername(username)
	fullName = strings.TrimSpace(fullName)
	if username == "" || fullName == "" {
		return nil, fmt.Errorf("%w: username and fullname are required", errors.ErrValidation)
	}

	existing, err := s.users.FindByUsername(ctx, username)
	if err == nil && existing != nil {
		return nil, fmt.Errorf("%w: username %q is taken", errors.ErrConflict, username)
	}
	if err != nil && !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		if stderrors.Is(err, auth.ErrEmptyPassword) || stderrors.Is(err, auth.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: %v", errors.ErrValidation, err)
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := auth.RoleUser
	if username == s.adminUsername {
		role = auth.RoleAdmin
	}

	user := &model.User{
		Username: username,
		FullName: fullName,
		Password: hashed,
		Role:     role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: username %q is taken", errors.ErrConflict, username)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Authenticate checks a username and password pair. Unknown users and wrong
// passwords produce the same error.
func (s *authService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	username = NormalizeUsername(username)
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.Password)
	if err != nil {
		s.log.Error("stored password hash unreadable", zap.String("username", username), zap.Error(err))
		return nil, errors.ErrInvalidCredentials
	}
	if !ok {
		return nil, errors.ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates a user and issues an access token.
func (s *authService) Login(ctx context.Context, username, password string) (*TokenResponse, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.tokens.Issue(user.Username, 0)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
	}, nil
}

// Resolve turns a bearer token into the identity of an existing, active user.
func (s *authService) Resolve(ctx context.Context, token string) (*auth.Identity, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		s.log.Warn("token rejected", zap.Error(err))
		return nil, errors.ErrUnauthenticated
	}

	identity, err := s.loadIdentity(ctx, NormalizeUsername(claims.Subject))
	if err != nil {
		return nil, err
	}
	if identity.Disabled {
		return nil, fmt.Errorf("%w: inactive user", errors.ErrForbidden)
	}
	return identity, nil
}

func (s *authService) loadIdentity(ctx context.Context, username string) (*auth.Identity, error) {
	if cached, ok := s.identities.Get(ctx, username); ok {
		return cached, nil
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn("token subject no longer exists", zap.String("username", username))
			return nil, errors.ErrUnauthenticated
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	identity := user.Identity()
	s.identities.Add(ctx, identity)
	return identity, nil
}
