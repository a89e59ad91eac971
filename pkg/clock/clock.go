// Package clock provides an injectable source of time, so that scenarios
// which must produce deterministic content ids (e.g. image creation under a
// fixed clock, per spec scenario 2) can substitute a mock clock in tests.
package clock

import (
	"time"

	"github.com/benbjohnson/clock"
)

// Clock is the interface components depend on instead of calling time.Now
// directly.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// New returns the real wall clock, backed by github.com/benbjohnson/clock.
func New() Clock {
	return clock.New()
}

// NewMock returns a clock whose time only advances when Set/Add is called,
// for use in deterministic tests.
func NewMock() *clock.Mock {
	return clock.NewMock()
}
