package errs

import "errors"

// Common sentinel errors for cross-layer signaling.
var (
	ErrNotFound = errors.New("not_found")
	ErrConflict = errors.New("conflict")
	ErrInvalid  = errors.New("invalid")
	// ErrUnprocessable is used for semantic validation failures (HTTP 422)
	ErrUnprocessable = errors.New("unprocessable")
	// ErrReferenced means a row is still referenced by splits and cannot be removed.
	ErrReferenced = &UserError{Kind: ErrConflict, Code: "data-integrity", Message: "This row is referenced by existing splits."}
)

// Stable codes carried by user-facing errors.
const (
	CodeInvalidParam        = "invalid-param"
	CodeParameterValidation = "parameter-validation"
	CodeInvalidInput        = "invalid-input"
	CodeInvalidArgument     = "invalid-argument"
	CodeDataIntegrity       = "data-integrity"
)

// UserError is an error meant to be shown to the caller as-is.
// Kind is one of the sentinels above and drives the HTTP status.
type UserError struct {
	Kind    error
	Code    string
	Message string
}

func (e *UserError) Error() string { return e.Code + ": " + e.Message }

func (e *UserError) Unwrap() error { return e.Kind }

// Invalid builds a parameter/input validation error.
func Invalid(code, msg string) error {
	return &UserError{Kind: ErrInvalid, Code: code, Message: msg}
}

// Integrity builds a data-integrity error.
func Integrity(msg string) error {
	return &UserError{Kind: ErrConflict, Code: CodeDataIntegrity, Message: msg}
}

// AsUser returns the UserError in err's chain, if any.
func AsUser(err error) (*UserError, bool) {
	var ue *UserError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}
