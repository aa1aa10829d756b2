package escrow

import "fmt"

// ErrorKind classifies engine failures for callers and the HTTP edge.
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindAuthorization ErrorKind = "authorization"
	KindTiming        ErrorKind = "timing"
	KindState         ErrorKind = "state"
	KindFinancial     ErrorKind = "financial"
)

// Error is the engine's error type: a kind plus a human-readable message.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is matches any *Error of the same kind, so callers can test kinds with
// errors.Is against the exported sentinels below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// Kind sentinels for errors.Is checks.
var (
	ErrValidation    = &Error{Kind: KindValidation}
	ErrAuthorization = &Error{Kind: KindAuthorization}
	ErrTiming        = &Error{Kind: KindTiming}
	ErrState         = &Error{Kind: KindState}
	ErrFinancial     = &Error{Kind: KindFinancial}

	// ErrNothingOwed is returned by Withdraw when the caller has no balance.
	ErrNothingOwed = &Error{Kind: KindState, Message: "nothing owed"}
)

func validationErrf(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func authErrf(format string, args ...interface{}) error {
	return &Error{Kind: KindAuthorization, Message: fmt.Sprintf(format, args...)}
}

func timingErrf(format string, args ...interface{}) error {
	return &Error{Kind: KindTiming, Message: fmt.Sprintf(format, args...)}
}

func stateErrf(format string, args ...interface{}) error {
	return &Error{Kind: KindState, Message: fmt.Sprintf(format, args...)}
}

func financialErrf(format string, args ...interface{}) error {
	return &Error{Kind: KindFinancial, Message: fmt.Sprintf(format, args...)}
}
