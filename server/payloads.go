package server

import (
	"errors"
	"regexp"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/nyaruka/phonenumbers"
)

var resetCodePattern = regexp.MustCompile(`^[0-9]{6}$`)

// SignInPayload is the credential sign-in body.
type SignInPayload struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r SignInPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

// SignUpPayload is the registration body. Rules match what the upstream
// enforces so bad input never leaves the process.
type SignUpPayload struct {
	Name       string `form:"name" json:"name"`
	Email      string `form:"email" json:"email"`
	Password   string `form:"password" json:"password"`
	RePassword string `form:"rePassword" json:"rePassword"`
	Phone      string `form:"phone" json:"phone"`
}

// Validate will validate the payload
func (r SignUpPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(3, 200)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.By(ValidatePasswordStrength)),
		validation.Field(
			&r.RePassword,
			validation.Required,
			validation.By(ValidateStringEquals(r.Password)),
		),
		validation.Field(&r.Phone, validation.Required, validation.By(ValidateEgyptianMobile)),
	)
}

// ForgotPasswordPayload starts the reset journey.
type ForgotPasswordPayload struct {
	Email string `form:"email" json:"email"`
}

// Validate will validate the payload
func (r ForgotPasswordPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

// VerifyCodePayload carries the mailed six digit reset code.
type VerifyCodePayload struct {
	ResetCode string `form:"resetCode" json:"resetCode"`
}

// Validate will validate the payload
func (r VerifyCodePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.ResetCode,
			validation.Required,
			validation.Match(resetCodePattern).Error("code must be six digits"),
		),
	)
}

// ResetPasswordPayload finishes the reset journey.
type ResetPasswordPayload struct {
	Email       string `form:"email" json:"email"`
	NewPassword string `form:"newPassword" json:"newPassword"`
}

// Validate will validate the payload
func (r ResetPasswordPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.NewPassword, validation.Required, validation.By(ValidatePasswordStrength)),
	)
}

// ChangePasswordPayload rotates the signed-in user's password.
type ChangePasswordPayload struct {
	CurrentPassword string `form:"currentPassword" json:"currentPassword"`
	Password        string `form:"password" json:"password"`
	RePassword      string `form:"rePassword" json:"rePassword"`
}

// Validate will validate the payload
func (r ChangePasswordPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CurrentPassword, validation.Required),
		validation.Field(&r.Password, validation.Required, validation.By(ValidatePasswordStrength)),
		validation.Field(
			&r.RePassword,
			validation.Required,
			validation.By(ValidateStringEquals(r.Password)),
		),
	)
}

// UpdateProfilePayload rewrites the profile.
type UpdateProfilePayload struct {
	Name  string `form:"name" json:"name"`
	Email string `form:"email" json:"email"`
	Phone string `form:"phone" json:"phone"`
}

// Validate will validate the payload
func (r UpdateProfilePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(3, 200)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Phone, validation.Required, validation.By(ValidateEgyptianMobile)),
	)
}

// GoogleCallbackPayload carries the ID token posted by the Google script.
type GoogleCallbackPayload struct {
	Credential string `form:"credential" json:"credential"`
}

// Validate will validate the payload
func (r GoogleCallbackPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Credential, validation.Required),
	)
}

// ShippingPayload is the delivery address for order creation.
type ShippingPayload struct {
	Details string `form:"details" json:"details"`
	Phone   string `form:"phone" json:"phone"`
	City    string `form:"city" json:"city"`
}

// Validate will validate the payload
func (r ShippingPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Details, validation.Required),
		validation.Field(&r.Phone, validation.Required, validation.By(ValidateEgyptianMobile)),
		validation.Field(&r.City, validation.Required),
	)
}

// CartItemPayload adds a product to cart or wishlist.
type CartItemPayload struct {
	ProductID string `form:"productId" json:"productId"`
}

// Validate will validate the payload
func (r CartItemPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ProductID, validation.Required),
	)
}

// CartCountPayload updates a cart line quantity.
type CartCountPayload struct {
	Count int `form:"count" json:"count"`
}

// Validate will validate the payload
func (r CartCountPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Count, validation.Required, validation.Min(1)),
	)
}

// ValidateStringEquals builds a rule that requires the value to equal str.
func ValidateStringEquals(str string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != str {
			return errors.New("values must match")
		}
		return nil
	}
}

// ValidatePasswordStrength requires at least eight characters with an
// upper, a lower, a digit and a symbol.
func ValidatePasswordStrength(value any) error {
	s, _ := value.(string)
	if len(s) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit || !hasSymbol {
		return errors.New("password must mix upper, lower, digit and symbol")
	}
	return nil
}

// ValidateEgyptianMobile accepts the mobile numbers the upstream accepts:
// Egyptian numbers starting 01 with nine more digits.
func ValidateEgyptianMobile(value any) error {
	s, _ := value.(string)
	num, err := phonenumbers.Parse(s, "EG")
	if err != nil {
		return errors.New("invalid phone number")
	}
	if !phonenumbers.IsValidNumberForRegion(num, "EG") {
		return errors.New("phone must be an Egyptian mobile number")
	}
	return nil
}
