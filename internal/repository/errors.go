package repository

import "errors"

// ErrNotFound is returned when a requested record does not exist in the database.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a unique constraint.
var ErrDuplicate = errors.New("duplicate")

// ErrNotConfirmed is returned when a handover is recorded against a
// donation that is not in the confirmed state.
var ErrNotConfirmed = errors.New("donation not confirmed")

// ErrExceedsRemaining is returned when a handover amount would push the
// donation's handed-over total past its amount. Checked inside the same
// transaction that holds the donation row lock.
var ErrExceedsRemaining = errors.New("handover amount exceeds remaining balance")
