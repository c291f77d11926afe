package practice

import "errors"

// Domain-rule violations surface to the transport layer as client errors;
// everything else maps to an opaque internal error.
var (
	ErrInvalidSkill        = errors.New("invalid skill selected")
	ErrSessionNotFound     = errors.New("session not found")
	ErrSkipBudgetExceeded  = errors.New("no skips remaining")
	ErrInvalidAnswerFormat = errors.New("invalid answer format")
	ErrHintBudgetExceeded  = errors.New("no hints remaining")

	// ErrHintGeneration wraps hint-generator failures. Unlike the other
	// errors it indicates a server-side fault, but the session is left
	// unmutated and the client may retry.
	ErrHintGeneration = errors.New("failed to generate hint")
)

// IsClientFault reports whether err is a domain-rule violation the caller
// caused, as opposed to an internal failure.
func IsClientFault(err error) bool {
	return errors.Is(err, ErrInvalidSkill) ||
		errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrSkipBudgetExceeded) ||
		errors.Is(err, ErrInvalidAnswerFormat) ||
		errors.Is(err, ErrHintBudgetExceeded)
}
