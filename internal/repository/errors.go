// Package repository implements data access over MySQL.  This file
// defines sentinel errors shared across repositories so handlers can
// map failure scenarios to HTTP responses with errors.Is instead of
// inspecting driver errors.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource owned by someone else.  Handlers translate this into 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an insert or update loses to existing
// state, most importantly when a booking insert hits the unique index
// guarding a yurt/date/slot combination.  Handlers translate this
// into 409.
var ErrConflict = errors.New("conflict")

// ErrYurtNotFound indicates the referenced yurt does not exist.
var ErrYurtNotFound = errors.New("yurt not found")

// ErrBookingNotFound indicates the referenced booking does not exist.
var ErrBookingNotFound = errors.New("booking not found")

// ErrOrderNotFound indicates the referenced order does not exist.
var ErrOrderNotFound = errors.New("order not found")

// ErrMenuItemNotFound indicates the referenced menu item does not exist.
var ErrMenuItemNotFound = errors.New("menu item not found")
