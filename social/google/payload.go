package google

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/goliatone/go-errors"
)

// ProviderName tags identities coming out of this bridge.
const ProviderName = "google"

// SyntheticPasswordPrefix scopes the non-real password sent with the
// exchange to the Google subject.
const SyntheticPasswordPrefix = "google_oauth_"

// IdentityPayload is the identity extracted from a Google ID token. It is
// serialized into the google_user cookie when the fallback engages, so the
// field names are part of the browser contract.
type IdentityPayload struct {
	Provider  string `json:"provider"`
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	PhotoURL  string `json:"photoUrl"`
	IDToken   string `json:"idToken"`
}

type googleClaims struct {
	Sub        string `json:"sub"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
}

// DecodeCredential reads the identity out of a Google ID token payload.
// Deliberately independent of the session token codec: only the payload
// segment is touched and nothing is verified, Google already showed the
// token to the user agent over its own channel.
func DecodeCredential(credential string) (*IdentityPayload, error) {
	parts := strings.Split(credential, ".")
	if len(parts) != 3 {
		return nil, ErrCredentialMalformed.WithMetadata(map[string]any{
			"segments": len(parts),
		})
	}

	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "google credential could not be decoded").
			WithTextCode(TextCodeCredentialMalformed).
			WithCode(errors.CodeBadRequest)
	}

	var claims googleClaims
	if err := json.Unmarshal(raw, &claims); err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "google credential payload is not json").
			WithTextCode(TextCodeCredentialMalformed).
			WithCode(errors.CodeBadRequest)
	}

	if claims.Sub == "" {
		return nil, ErrCredentialMalformed.WithMetadata(map[string]any{
			"reason": "payload has no subject",
		})
	}

	return &IdentityPayload{
		Provider:  ProviderName,
		ID:        claims.Sub,
		Email:     claims.Email,
		Name:      claims.Name,
		FirstName: claims.GivenName,
		LastName:  claims.FamilyName,
		PhotoURL:  claims.Picture,
		IDToken:   credential,
	}, nil
}

// SyntheticPassword derives the placeholder password the exchange sends
// upstream for a Google subject.
func SyntheticPassword(sub string) string {
	return SyntheticPasswordPrefix + sub
}
