package verification

import "errors"

// Failure categories. A *Failure wraps exactly one of them together with the cause.
var (
	ErrValidation   = errors.New("validation error")
	ErrCrypto       = errors.New("crypto error")
	ErrGateway      = errors.New("gateway error")
	ErrInvariant    = errors.New("invariant violation")
	ErrInvalidState = errors.New("invalid state")
)

// Opaque outcomes of the public operations
var (
	ErrRegistrationFailed = errors.New("registration failed")
	ErrVerificationFailed = errors.New("verification failed")
)

// Failure is the only error AddKey and VerifySignature return.
// Its message never carries the cause; errors.Is and errors.As still reach
// the outcome, the category and the underlying error.
type Failure struct {
	outcome  error
	category error
	cause    error
}

func (f *Failure) Error() string {
	return f.outcome.Error()
}

func (f *Failure) Unwrap() []error {
	return []error{f.outcome, f.category, f.cause}
}

// Category returns the failure category, one of the Err* category sentinels
func (f *Failure) Category() error {
	return f.category
}

// Cause returns the underlying error for diagnostics
func (f *Failure) Cause() error {
	return f.cause
}

func registrationFailure(category, cause error) *Failure {
	return &Failure{outcome: ErrRegistrationFailed, category: category, cause: cause}
}

func verificationFailure(category, cause error) *Failure {
	return &Failure{outcome: ErrVerificationFailed, category: category, cause: cause}
}
