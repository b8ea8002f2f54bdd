// ABOUTME: Access token expiry inspection
// ABOUTME: Decodes the JWT exp claim without signature verification

package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// refreshWindow is how close to expiry a token may get before we consider
// it worth refreshing proactively.
const refreshWindow = 1 * time.Minute

// TokenExpiry returns the exp claim of a JWT access token. The signature is
// not verified; the backend is the authority, we only need the timestamp.
// Returns false for opaque or malformed tokens.
func TokenExpiry(raw string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// NeedsRefresh reports whether the held access token is expired or about to
// expire. Tokens whose expiry cannot be determined never trigger a
// proactive refresh; the 401 path handles those.
func (s *Store) NeedsRefresh() bool {
	token := s.AccessToken()
	if token == "" {
		return false
	}
	exp, ok := TokenExpiry(token)
	if !ok {
		return false
	}
	return time.Until(exp) <= refreshWindow
}
