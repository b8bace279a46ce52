// Package authx provides token issuance and password hashing for
// authentication flows.
//
// TokenService signs and verifies HMAC-SHA256 access tokens:
//
//	tokens := authx.NewTokenService(os.Getenv("AUTH_SECRET"),
//		authx.WithIssuer("api"),
//		authx.WithTTL(30*time.Minute),
//	)
//
//	raw, err := tokens.Issue(user.ID, "read write")
//	claims, err := tokens.Parse(raw)
//
// Passwords are hashed with bcrypt:
//
//	hash, err := authx.HashPassword(password)
//	err = authx.VerifyPassword(hash, password) // ErrInvalidCredentials on mismatch
//
// Pair with the auth middleware to protect routes and expose parsed claims
// to handlers.
package authx
