package productapplication

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is matched by every ArgumentError.
var ErrInvalidArgument = errors.New("invalid argument")

// ArgumentError reports an application rejected before any underwriting call.
// Field names the offending SellerApplication field.
type ArgumentError struct {
	Field  string
	Reason string
}

func (e *ArgumentError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid argument: %s", e.Field)
	}
	return fmt.Sprintf("invalid argument: %s: %s", e.Field, e.Reason)
}

func (e *ArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}
