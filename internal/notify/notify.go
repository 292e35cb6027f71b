package notify

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrPermissionDenied is reported by the desktop channel when the host
	// never granted (or explicitly refused) notification permission.
	ErrPermissionDenied = errors.New("notify: desktop notification permission not granted")
	// ErrMissingDestination is reported by the remote channel when the user
	// has no destination address configured.
	ErrMissingDestination = errors.New("notify: no destination configured")
)

// TransportError wraps a delivery failure on a specific channel. It is
// never fatal to the caller; the reminder engine logs it and moves on.
type TransportError struct {
	Channel string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("notify: %s dispatch failed: %v", e.Channel, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type Notification struct {
	Title string
	Body  string
}

// Dispatcher is one delivery channel. Implementations report failure
// through the error return and never panic; each channel's failure is
// isolated from the others by the caller.
type Dispatcher interface {
	Dispatch(ctx context.Context, n Notification) error
}
