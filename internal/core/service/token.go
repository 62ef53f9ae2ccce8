package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/encore-live/backstage-api/internal/core/domain"
)

const (
	// Token kinds. The kind claim makes access and refresh tokens
	// non-interchangeable: verification checks it explicitly.
	tokenKindAccess  = "access"
	tokenKindRefresh = "refresh"

	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// Claims is the identity payload signed into every token.
type Claims struct {
	UserID   int64       `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     domain.Role `json:"role"`
	Kind     string      `json:"kind"`
	jwt.RegisteredClaims
}

// TokenService mints and verifies HS256-signed access and refresh tokens.
// It is a pure function of its inputs, the shared secret, and the clock;
// expiry is checked against wall-clock time with no skew compensation.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration

	// now is swapped out in tests to simulate clock advance.
	now func() time.Time
}

// NewTokenService returns a TokenService signing with secret. Zero TTLs
// fall back to the defaults (15m access, 7d refresh).
func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	if accessTTL == 0 {
		accessTTL = defaultAccessTTL
	}
	if refreshTTL == 0 {
		refreshTTL = defaultRefreshTTL
	}
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// CreateAccessToken mints a short-lived access token for the account.
func (s *TokenService) CreateAccessToken(acct *domain.Account) (string, error) {
	return s.create(acct, tokenKindAccess, s.accessTTL)
}

// CreateRefreshToken mints a longer-lived refresh token for the account.
func (s *TokenService) CreateRefreshToken(acct *domain.Account) (string, error) {
	return s.create(acct, tokenKindRefresh, s.refreshTTL)
}

// CreatePair mints the access+refresh pair handed out at registration and login.
func (s *TokenService) CreatePair(acct *domain.Account) (*domain.TokenPair, error) {
	access, err := s.CreateAccessToken(acct)
	if err != nil {
		return nil, err
	}
	refresh, err := s.CreateRefreshToken(acct)
	if err != nil {
		return nil, err
	}
	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}

func (s *TokenService) create(acct *domain.Account, kind string, ttl time.Duration) (string, error) {
	now := s.now().UTC()
	claims := Claims{
		UserID:   acct.ID,
		Username: acct.Username,
		Email:    acct.Email,
		Role:     acct.Role,
		Kind:     kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   acct.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// VerifyAccessToken validates raw as an access token and returns its claims.
func (s *TokenService) VerifyAccessToken(raw string) (*Claims, error) {
	return s.verify(raw, tokenKindAccess)
}

// VerifyRefreshToken validates raw as a refresh token and returns its claims.
func (s *TokenService) VerifyRefreshToken(raw string) (*Claims, error) {
	return s.verify(raw, tokenKindRefresh)
}

func (s *TokenService) verify(raw, kind string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, domain.ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, domain.ErrTokenExpired
		default:
			return nil, domain.ErrTokenInvalid
		}
	}
	// A structurally valid token of the wrong kind is rejected outright.
	if claims.Kind != kind {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}
