// File: api/schemas/errors.go
package schemas

import (
	"errors"
	"fmt"
)

// AutomationError reports that the automation interface could not reach or
// manipulate the target application. It is the only error class that aborts a
// scenario: once the interface fails, the document state is untrustworthy.
type AutomationError struct {
	Op  string // the failed operation, e.g. "InvokeEntryPoint"
	Err error
}

func (e *AutomationError) Error() string {
	return fmt.Sprintf("automation: %s: %v", e.Op, e.Err)
}

func (e *AutomationError) Unwrap() error { return e.Err }

// NewAutomationError wraps err as a fatal automation failure.
func NewAutomationError(op string, err error) *AutomationError {
	return &AutomationError{Op: op, Err: err}
}

// IsAutomationError reports whether err is (or wraps) an AutomationError.
func IsAutomationError(err error) bool {
	var ae *AutomationError
	return errors.As(err, &ae)
}
