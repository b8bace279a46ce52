package authx_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/microframe-dev/microframe/pkg/authx"
)

func TestTokenService(t *testing.T) {
	t.Parallel()

	t.Run("issue and parse roundtrip", func(t *testing.T) {
		t.Parallel()

		svc := authx.NewTokenService("roundtrip-signing-key",
			authx.WithIssuer("api.example.com"),
			authx.WithAudience("web"),
			authx.WithTTL(time.Hour),
		)

		raw, err := svc.Issue("user-123", "read write")
		require.NoError(t, err)
		require.NotEmpty(t, raw)

		claims, err := svc.Parse(raw)
		require.NoError(t, err)
		require.Equal(t, "user-123", claims.Subject)
		require.Equal(t, "read write", claims.Scope)
		require.Equal(t, "api.example.com", claims.Issuer)
		require.Equal(t, jwt.ClaimStrings{"web"}, claims.Audience)
		require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()

		svc := authx.NewTokenService("expiry-signing-key", authx.WithTTL(time.Nanosecond))

		raw, err := svc.Issue("user-123", "")
		require.NoError(t, err)

		time.Sleep(10 * time.Millisecond)

		_, err = svc.Parse(raw)
		require.ErrorIs(t, err, authx.ErrExpiredToken)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		t.Parallel()

		issuer := authx.NewTokenService("key-one")
		verifier := authx.NewTokenService("key-two")

		raw, err := issuer.Issue("user-123", "")
		require.NoError(t, err)

		_, err = verifier.Parse(raw)
		require.ErrorIs(t, err, authx.ErrInvalidSignature)
	})

	t.Run("unsigned token rejected", func(t *testing.T) {
		t.Parallel()

		svc := authx.NewTokenService("strict-signing-key")

		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "user-123"})
		raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.Parse(raw)
		require.ErrorIs(t, err, authx.ErrInvalidToken)
	})

	t.Run("garbage input", func(t *testing.T) {
		t.Parallel()

		svc := authx.NewTokenService("garbage-signing-key")

		_, err := svc.Parse("not.a.token")
		require.ErrorIs(t, err, authx.ErrInvalidToken)
	})

	t.Run("empty key panics", func(t *testing.T) {
		t.Parallel()

		require.Panics(t, func() {
			authx.NewTokenService("")
		})
	})
}
