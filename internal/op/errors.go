package op

import "errors"

// ErrInvalidDescriptor is wrapped by every error New returns.
var ErrInvalidDescriptor = errors.New("invalid operation descriptor")
