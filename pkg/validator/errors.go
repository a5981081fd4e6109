package validator

import "errors"

// Errors returned by Evaluate to tell apart a failure that is not a plain
// predicate rejection. Run folds all of them into false.
var (
	// ErrValidationFailed is returned when validation fails but no specific error is provided.
	ErrValidationFailed = errors.New("validation failed")

	// ErrUnknownRule is returned for a rule name that is not in the catalogue.
	ErrUnknownRule = errors.New("unknown validation rule")

	// ErrNotImplemented is returned by rules that are declared but have no predicate.
	ErrNotImplemented = errors.New("validation rule not implemented")

	// ErrInvalidParams is returned when rule parameters have the wrong shape.
	ErrInvalidParams = errors.New("invalid validation rule parameters")

	// ErrNestingTooDeep is returned when combinators nest beyond MaxDepth.
	ErrNestingTooDeep = errors.New("validation rule nesting too deep")
)
