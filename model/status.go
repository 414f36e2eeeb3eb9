package model

import (
	"errors"
	"fmt"
)

type InvoiceStatus string

const (
	StatusDraft   InvoiceStatus = "draft"
	StatusSent    InvoiceStatus = "sent"
	StatusPaid    InvoiceStatus = "paid"
	StatusOverdue InvoiceStatus = "overdue"
)

var ErrInvalidStatusTransition = errors.New("invalid status transition")

var statusTransitions = map[InvoiceStatus][]InvoiceStatus{
	StatusDraft:   {StatusSent},
	StatusSent:    {StatusDraft, StatusPaid, StatusOverdue},
	StatusOverdue: {StatusPaid},
	StatusPaid:    {},
}

func (s InvoiceStatus) IsValid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// CanTransition reports whether a record in status s may move to next.
func (s InvoiceStatus) CanTransition(next InvoiceStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Transition returns next when the move is allowed. Moving to the same status is a no-op.
func (s InvoiceStatus) Transition(next InvoiceStatus) (InvoiceStatus, error) {
	if s == next {
		return s, nil
	}
	if !s.CanTransition(next) {
		return s, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, s, next)
	}
	return next, nil
}
