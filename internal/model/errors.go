package model

import (
	"errors"
	"fmt"
)

// ErrRecordNotFound is returned when no tax record exists for the requested
// (plate, year_payable) key.
var ErrRecordNotFound = errors.New("tax record not found")

// ErrInvalidInput is returned when request parameters are malformed or out
// of range. Wrapped with field detail, matched with errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// InvalidStateTransitionError reports an attempted transition that does not
// match the record's current state. The current state is carried for
// diagnostics and included verbatim in the message.
type InvalidStateTransitionError struct {
	Action  string // "pay" or "validate"
	Current TaxState
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("cannot %s tax; current state %s is inconsistent", e.Action, e.Current)
}
