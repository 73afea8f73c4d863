package model

import "fmt"

// Booking statuses.  A booking is created pending, becomes confirmed by
// administrative action, and ends in cancelled or completed.  Rows are
// never deleted.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// ValidStatus reports whether s is one of the four booking statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// transitions is the single source of truth for the booking state
// machine.  Both the user-facing confirm endpoint and the admin update
// endpoint consult it; there is no unrestricted path around it.
var transitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted},
	StatusCancelled: {},
	StatusCompleted: {},
}

// CanTransition reports whether a booking may move from one status to
// another.  Same-status updates are rejected; re-confirming a confirmed
// booking is an error, not a no-op.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionError names the guard violated by an illegal move.  The
// message is safe to return to API callers.
func TransitionError(from, to string) error {
	if from == StatusConfirmed && to == StatusConfirmed {
		return fmt.Errorf("booking is already %s", StatusConfirmed)
	}
	if from == StatusCancelled && to == StatusConfirmed {
		return fmt.Errorf("cannot confirm a cancelled booking")
	}
	return fmt.Errorf("cannot change a %s booking to %s", from, to)
}
