package authx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Errors.
var (
	ErrNoSigningKey       = errors.New("authx: signing key required")
	ErrInvalidToken       = errors.New("authx: invalid token")
	ErrExpiredToken       = errors.New("authx: token expired")
	ErrInvalidSignature   = errors.New("authx: invalid signature")
	ErrUnexpectedSigning  = errors.New("authx: unexpected signing method")
	ErrInvalidCredentials = errors.New("authx: invalid credentials")
)

// Claims carries the identity encoded into access tokens.
type Claims struct {
	jwt.RegisteredClaims
	Scope string `json:"scope,omitempty"`
}

// TokenService signs and parses HMAC-signed access tokens.
type TokenService struct {
	key      []byte
	issuer   string
	audience string
	ttl      time.Duration
}

// TokenOption configures a TokenService.
type TokenOption func(*TokenService)

// WithIssuer sets the token issuer claim.
func WithIssuer(iss string) TokenOption {
	return func(s *TokenService) {
		s.issuer = iss
	}
}

// WithAudience sets the token audience claim.
func WithAudience(aud string) TokenOption {
	return func(s *TokenService) {
		s.audience = aud
	}
}

// WithTTL sets the token lifetime. Defaults to 15 minutes.
func WithTTL(ttl time.Duration) TokenOption {
	return func(s *TokenService) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// NewTokenService creates a token service using HMAC-SHA256 signing.
// An empty key is a wiring bug and panics.
func NewTokenService(key string, opts ...TokenOption) *TokenService {
	if key == "" {
		panic(ErrNoSigningKey)
	}
	s := &TokenService{
		key: []byte(key),
		ttl: 15 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue creates a signed token for the given subject.
func (s *TokenService) Issue(subject string, scope string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Scope: scope,
	}
	if s.audience != "" {
		claims.Audience = jwt.ClaimStrings{s.audience}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.key)
}

// Parse verifies a token's signature and validity, returning its claims.
func (s *TokenService) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrUnexpectedSigning
		}
		return s.key, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, errors.Join(ErrInvalidToken, err)
		}
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
