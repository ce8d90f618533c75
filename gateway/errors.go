package gateway

import "github.com/goliatone/go-errors"

const (
	TextCodeAuthRejected        = "commerce_auth_rejected"
	TextCodeUpstreamError       = "commerce_upstream_error"
	TextCodeUpstreamUnreachable = "commerce_upstream_unreachable"
	TextCodeInvalidResponse     = "commerce_invalid_response"
	TextCodeResetCodeRejected   = "commerce_reset_code_rejected"
)

// ErrInvalidResponse is returned when the upstream replies 2xx with a body
// that does not carry what the operation needs.
var ErrInvalidResponse = errors.New("unexpected commerce api response", errors.CategoryOperation).
	WithTextCode(TextCodeInvalidResponse).
	WithCode(errors.CodeInternal)

// ErrResetCodeRejected is returned when the upstream does not confirm a
// password reset code.
var ErrResetCodeRejected = errors.New("reset code was not accepted", errors.CategoryAuth).
	WithTextCode(TextCodeResetCodeRejected).
	WithCode(errors.CodeUnauthorized)
