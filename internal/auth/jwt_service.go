package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	// DefaultTokenTTL is used when Issue is called without a positive ttl.
	DefaultTokenTTL = 30 * time.Minute
	// MinSecretLength is the shortest signing key accepted.
	MinSecretLength = 32
)

var (
	// ErrInvalidToken is the single error callers see for any unusable token.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is wrapped with ErrInvalidToken when the expiry has passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenMalformed is wrapped with ErrInvalidToken when the token cannot be decoded.
	ErrTokenMalformed = errors.New("token malformed")
	// ErrTokenSignature is wrapped with ErrInvalidToken when the signature or algorithm is wrong.
	ErrTokenSignature = errors.New("token signature invalid")
	// ErrWeakSecret is returned by NewJWTService for short keys.
	ErrWeakSecret = fmt.Errorf("signing secret must be at least %d bytes", MinSecretLength)
)

// Claims represents JWT claims. ExpiresAtISO mirrors RegisteredClaims.ExpiresAt.
type Claims struct {
	ExpiresAtISO string `json:"expires_at"`
	jwt.RegisteredClaims
}

// JWTService handles JWT token generation and validation.
type JWTService struct {
	secret     []byte
	defaultTTL time.Duration
	parser     *jwt.Parser
	now        func() time.Time
}

// NewJWTService creates a new JWT service with the given secret.
func NewJWTService(secret string, defaultTTL time.Duration) (*JWTService, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrWeakSecret
	}
	if defaultTTL <= 0 {
		defaultTTL = DefaultTokenTTL
	}
	return &JWTService{
		secret:     []byte(secret),
		defaultTTL: defaultTTL,
		// expiry is checked against s.now so that tests can move the clock
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
		now: time.Now,
	}, nil
}

// WithClock returns a copy of the service that reads time from now.
func (s *JWTService) WithClock(now func() time.Time) *JWTService {
	cp := *s
	cp.now = now
	return &cp
}

// Issue signs a token for subject valid for ttl, or the default ttl when ttl <= 0.
func (s *JWTService) Issue(subject string, ttl time.Duration) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, errors.New("subject must not be empty")
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	issuedAt := s.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(ttl)

	claims := &Claims{
		ExpiresAtISO: expiresAt.Format(time.RFC3339),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, expiresAt, nil
}

// Verify validates signature and expiry and returns the claims.
// Every failure wraps ErrInvalidToken together with a more specific cause.
func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := s.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidToken, ErrTokenMalformed)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, ErrTokenSignature)
	}
	if !token.Valid {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, ErrTokenSignature)
	}

	now := s.now()
	if !claims.VerifyExpiresAt(now, true) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, ErrTokenExpired)
	}
	if claims.ExpiresAtISO != "" {
		expiresAt, err := time.Parse(time.RFC3339, claims.ExpiresAtISO)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidToken, ErrTokenMalformed)
		}
		if !now.Before(expiresAt) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidToken, ErrTokenExpired)
		}
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, ErrTokenMalformed)
	}

	return claims, nil
}
