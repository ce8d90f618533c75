package storefront

import "github.com/goliatone/go-errors"

const (
	TextCodeTokenDecodeFailed  = "session_token_decode_failed"
	TextCodeSessionNotFound    = "session_not_found"
	TextCodeRequestSuperseded  = "request_superseded"
	TextCodeInvalidTransition  = "invalid_session_transition"
	TextCodeVerificationFailed = "session_verification_failed"
)

// ErrTokenDecodeFailed is returned when the session token payload cannot be
// decoded into claims.
var ErrTokenDecodeFailed = errors.New("unable to decode session token", errors.CategoryAuth).
	WithTextCode(TextCodeTokenDecodeFailed).
	WithCode(errors.CodeUnauthorized)

// ErrSessionNotFound is returned when the request carries no token cookie.
var ErrSessionNotFound = errors.New("unable to find session", errors.CategoryAuth).
	WithTextCode(TextCodeSessionNotFound).
	WithCode(errors.CodeUnauthorized)

// ErrRequestSuperseded is returned when a newer request for the same action
// cancelled this one.
var ErrRequestSuperseded = errors.New("request superseded by a newer one", errors.CategoryOperation).
	WithTextCode(TextCodeRequestSuperseded).
	WithCode(errors.CodeConflict)

// ErrInvalidTransition is returned when a requested session state change is
// not allowed.
var ErrInvalidTransition = errors.New("invalid session state transition", errors.CategoryValidation).
	WithTextCode(TextCodeInvalidTransition).
	WithCode(errors.CodeBadRequest)

// ErrVerificationFailed is returned when the upstream rejects a stored
// token at bootstrap.
var ErrVerificationFailed = errors.New("session token rejected by upstream", errors.CategoryAuth).
	WithTextCode(TextCodeVerificationFailed).
	WithCode(errors.CodeUnauthorized)

// IsAuthRejected reports whether err represents an upstream 401. This is
// the trigger for the reactive logout path.
func IsAuthRejected(err error) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return false
	}
	return richErr.Category == errors.CategoryAuth && richErr.Code == errors.CodeUnauthorized
}

// IsDecodeError reports whether err came out of the token codec.
func IsDecodeError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return false
	}
	return richErr.TextCode == TextCodeTokenDecodeFailed
}

// IsSuperseded reports whether err is the in-flight cancellation result.
func IsSuperseded(err error) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return false
	}
	return richErr.TextCode == TextCodeRequestSuperseded
}
