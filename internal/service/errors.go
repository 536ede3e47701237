package service

import "errors"

// ErrForbidden is returned when the caller may not act on the resource.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidTransition is returned when a state change is requested from a
// state that does not permit it.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrValidation wraps all input validation failures. Callers test with
// errors.Is and surface the wrapped message to the client.
var ErrValidation = errors.New("validation failed")
