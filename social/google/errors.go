package google

import "github.com/goliatone/go-errors"

const (
	TextCodeCredentialMalformed = "google_credential_malformed"
	TextCodeExchangeRejected    = "google_exchange_rejected"
)

// ErrCredentialMalformed is returned when the posted Google credential is
// not a decodable ID token.
var ErrCredentialMalformed = errors.New("google credential could not be decoded", errors.CategoryBadInput).
	WithTextCode(TextCodeCredentialMalformed).
	WithCode(errors.CodeBadRequest)
