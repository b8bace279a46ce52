package middlewares

import (
	"context"

	"github.com/microframe-dev/microframe/internal"
	"github.com/microframe-dev/microframe/pkg/authx"
)

// Context keys for verified token claims and the looked-up user.
const (
	claimsContextKey = "auth_claims"
	userContextKey   = "auth_user"
)

// UserLookupFunc loads the authenticated principal for a token subject.
type UserLookupFunc func(ctx context.Context, subject string) (any, error)

// AuthConfig configures the auth middleware.
type AuthConfig struct {
	Extractor  internal.Extractor
	UserLookup UserLookupFunc
	Scope      string
}

// AuthOption configures AuthConfig.
type AuthOption func(*AuthConfig)

// WithAuthExtractor sets where the token is read from. The default tries the
// Authorization Bearer header only; pass additional sources to also accept,
// say, a signed session cookie.
func WithAuthExtractor(sources ...internal.ExtractorSource) AuthOption {
	return func(cfg *AuthConfig) {
		cfg.Extractor = internal.NewExtractor(sources...)
	}
}

// WithUserLookup loads the user for the token subject after verification and
// stores it on the Context, retrievable via GetUser. A lookup error rejects
// the request with a 401, so revoked accounts fail even with a valid token.
func WithUserLookup(lookup UserLookupFunc) AuthOption {
	return func(cfg *AuthConfig) {
		cfg.UserLookup = lookup
	}
}

// WithRequiredScope rejects tokens whose scope claim does not match.
func WithRequiredScope(scope string) AuthOption {
	return func(cfg *AuthConfig) {
		cfg.Scope = scope
	}
}

// Auth returns middleware that verifies access tokens on every request.
// Verified claims are stored on the Context and retrievable via GetClaims.
// Missing or invalid tokens yield a 401; a scope mismatch yields a 403.
func Auth(tokens *authx.TokenService, opts ...AuthOption) internal.Middleware {
	if tokens == nil {
		panic("middlewares: Auth requires a non-nil token service")
	}

	cfg := &AuthConfig{
		Extractor: internal.NewExtractor(internal.FromBearerToken()),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context, p internal.Params) (any, error) {
			raw, ok := cfg.Extractor.Extract(c)
			if !ok {
				return nil, internal.ErrUnauthorized("authentication required",
					internal.WithErrorCode("missing_token"))
			}

			claims, err := tokens.Parse(raw)
			if err != nil {
				return nil, internal.ErrUnauthorized("invalid or expired token",
					internal.WithErrorCode("invalid_token"),
					internal.WithError(err))
			}

			if cfg.Scope != "" && claims.Scope != cfg.Scope {
				return nil, internal.ErrForbidden("insufficient scope",
					internal.WithErrorCode("insufficient_scope"))
			}

			c.Set(claimsContextKey, claims)

			if cfg.UserLookup != nil {
				user, err := cfg.UserLookup(c, claims.Subject)
				if err != nil {
					return nil, internal.ErrUnauthorized("unknown user",
						internal.WithErrorCode("unknown_user"),
						internal.WithError(err))
				}
				c.Set(userContextKey, user)
			}

			return next(c, p)
		}
	}
}

// GetClaims returns the verified token claims stored by Auth.
// Returns (nil, false) when the request was not authenticated.
func GetClaims(c internal.Context) (*authx.Claims, bool) {
	v, ok := c.Get(claimsContextKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*authx.Claims)
	return claims, ok
}

// GetUser returns the principal stored by Auth's user lookup.
// Returns (nil, false) when no lookup was configured or the request was not
// authenticated.
func GetUser(c internal.Context) (any, bool) {
	return c.Get(userContextKey)
}
