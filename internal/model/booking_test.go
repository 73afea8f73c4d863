package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted} {
		assert.True(t, ValidStatus(s), s)
	}
	assert.False(t, ValidStatus("PENDING"))
	assert.False(t, ValidStatus("done"))
	assert.False(t, ValidStatus(""))
}

func TestCanTransition(t *testing.T) {
	allowed := map[[2]string]bool{
		{StatusPending, StatusConfirmed}:   true,
		{StatusPending, StatusCancelled}:   true,
		{StatusConfirmed, StatusCancelled}: true,
		{StatusConfirmed, StatusCompleted}: true,
	}
	statuses := []string{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted}
	for _, from := range statuses {
		for _, to := range statuses {
			got := CanTransition(from, to)
			assert.Equal(t, allowed[[2]string{from, to}], got, "%s -> %s", from, to)
		}
	}
}

func TestTerminalStatesHaveNoExit(t *testing.T) {
	for _, from := range []string{StatusCancelled, StatusCompleted} {
		for _, to := range []string{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted} {
			assert.False(t, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestTransitionErrorMessages(t *testing.T) {
	assert.EqualError(t, TransitionError(StatusConfirmed, StatusConfirmed), "booking is already confirmed")
	assert.EqualError(t, TransitionError(StatusCancelled, StatusConfirmed), "cannot confirm a cancelled booking")
	assert.EqualError(t, TransitionError(StatusCompleted, StatusPending), "cannot change a completed booking to pending")
}
