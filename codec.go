package storefront

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// FallbackTokenPrefix tags tokens synthesized locally when the Google
// exchange is rejected by the upstream. Tokens carrying it are not real
// JWTs and are never sent to verifyToken.
const FallbackTokenPrefix = "google_"

// DecodeToken extracts claims from the payload segment of a JWT without
// verifying its signature. The upstream signed the token; the storefront
// only needs to read it. A failed decode never clears the session, callers
// decide what to do with the error.
func DecodeToken(raw string) (*SessionClaims, error) {
	if raw == "" {
		return nil, ErrTokenDecodeFailed.WithMetadata(map[string]any{
			"reason": "empty token",
		})
	}

	if parts := strings.Split(raw, "."); len(parts) != 3 {
		return nil, ErrTokenDecodeFailed.WithMetadata(map[string]any{
			"reason":   "unexpected segment count",
			"segments": len(parts),
		})
	}

	claims := &SessionClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil, errors.Wrap(err, errors.CategoryAuth, "unable to decode session token").
			WithTextCode(TextCodeTokenDecodeFailed).
			WithCode(errors.CodeUnauthorized)
	}

	if claims.UID == "" {
		return nil, ErrTokenDecodeFailed.WithMetadata(map[string]any{
			"reason": "payload has no user id",
		})
	}

	return claims, nil
}

// IsFallbackToken reports whether the token was synthesized by the OAuth
// fallback rather than issued by the upstream.
func IsFallbackToken(raw string) bool {
	return strings.HasPrefix(raw, FallbackTokenPrefix)
}

// FallbackToken builds the locally synthesized token for a Google ID token
// the upstream refused to exchange.
func FallbackToken(idToken string) string {
	return FallbackTokenPrefix + idToken
}
