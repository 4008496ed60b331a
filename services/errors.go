package services

import "errors"

// Authentication failures deliberately collapse to ErrInvalidCredentials:
// callers must not learn whether the identifier, the password, or the role
// membership was wrong.
var (
	ErrInvalidCredentials       = errors.New("invalid credentials")
	ErrEmailNotVerified         = errors.New("email not verified")
	ErrEmailAlreadyRegistered   = errors.New("email already registered")
	ErrAccountNotFound          = errors.New("account not found")
	ErrAlreadyVerified          = errors.New("email already verified")
	ErrInvalidOrExpiredToken    = errors.New("invalid or expired token")
	ErrInvalidExternalToken     = errors.New("invalid external identity token")
	ErrEmailNotVerifiedByIssuer = errors.New("email not verified by issuer")
	ErrRoleNotEligible          = errors.New("role not eligible for external login")
	ErrDeliveryFailure          = errors.New("notification delivery failed")
)
