// Package cookie provides HTTP cookie management with optional HMAC signing.
//
// The Manager handles plain and signed cookies. Secrets are optional; signed
// operations return [ErrNoSecret] without one.
//
// # Basic Usage
//
// Plain cookies work without a secret:
//
//	import (
//		"net/http"
//
//		"github.com/microframe-dev/microframe/pkg/cookie"
//	)
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//		m := cookie.New()
//		m.Set(w, "theme", "dark", cookie.WithMaxAge(86400))
//		value, err := m.Get(r, "theme")
//		if err != nil {
//			// handle error
//		}
//	}
//
// # With Secret
//
// Enable signing with a 32+ byte secret:
//
//	m := cookie.New(
//		cookie.WithSecret("your-32+-byte-secret-key-here!!"),
//		cookie.WithSecure(true),
//		cookie.WithHTTPOnly(true),
//	)
//
// Signed cookies detect tampering with HMAC-SHA256:
//
//	err := m.SetSigned(w, "session", sessionID, cookie.WithMaxAge(86400))
//	value, err := m.GetSigned(r, "session")
//
// # Configuration
//
// Use options to configure cookie attributes:
//   - [WithSecret]: Set the secret for signing (32+ bytes)
//   - [WithDomain]: Set the cookie domain
//   - [WithPath]: Set the cookie path (default: "/")
//   - [WithMaxAge]: Set the cookie lifetime in seconds (default: session)
//   - [WithSecure]: Set the Secure flag (HTTPS only)
//   - [WithHTTPOnly]: Set the HttpOnly flag (default: true)
//   - [WithSameSite]: Set the SameSite attribute (default: Lax)
//
// Options passed to Set or SetSigned override the manager defaults for that
// cookie only.
//
// # Errors
//
// The package defines these sentinel errors:
//   - [ErrNotFound]: Cookie does not exist
//   - [ErrNoSecret]: Secret required for signed operations
//   - [ErrBadSig]: Signature verification failed (tampering detected)
package cookie
