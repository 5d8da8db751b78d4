package auth

import "prospekt/internal/domain/models"

// TokenVerifier validates bearer tokens issued by the external auth
// collaborator. The core never issues tokens; it only verifies them and
// treats the subject as the opaque owner identity.
type TokenVerifier interface {
	VerifyToken(tokenString string) (*models.AccessClaims, error)

	// Close releases verifier resources (e.g. JWKS refresh loops).
	Close() error
}
