package planner

import "errors"

// ErrInvalidInput matches every ValidationError.
var ErrInvalidInput = errors.New("invalid input")

// ValidationError reports a request the planner cannot act on. Message is
// safe to show to the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// ErrNoUsers reports a rebalance in a household with no users.
var ErrNoUsers = &ValidationError{Message: "No users found"}
