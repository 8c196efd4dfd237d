package collector

import (
	"errors"
	"fmt"

	"github.com/infra-tools/ci-reporter/types"
)

// ProtocolViolationError indicates the driver broke the callback sequence
// contract (e.g. a stop without a matching start). It signals a programmer
// error in the driver, not a recoverable condition; it is never retried.
type ProtocolViolationError struct {
	Identity types.TestIdentity
	Call     string
}

func (e *ProtocolViolationError) Error() string {
	return fmt.Sprintf("callback protocol violation: %s called for %q without a prior OnTestStart", e.Call, e.Identity.String())
}

// IsProtocolViolation checks if the error is or wraps a ProtocolViolationError.
func IsProtocolViolation(err error) bool {
	var pvErr *ProtocolViolationError
	return err != nil && errors.As(err, &pvErr)
}
