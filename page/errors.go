package page

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnsupported is returned by operations the active driver does not
// implement (e.g. Video on a driver that does not record).
var ErrUnsupported = errors.New("page: operation not supported by driver")

// TimeoutError reports that a timeout-bounded operation did not reach
// its condition before the bound elapsed. Retry policy, if any, belongs
// to the caller or the driver's actionability engine, not this layer.
type TimeoutError struct {
	// Op names the operation, e.g. "click" or "waitForResponse".
	Op string
	// Timeout is the bound that elapsed.
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("page: %s: timeout %s exceeded", e.Op, e.Timeout)
}

// IsTimeout reports whether err is (or wraps) a *TimeoutError.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}
