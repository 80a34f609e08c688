package domain

import "errors"

// ErrInvalidInput marks a record the builder refuses to format. Callers render a
// placeholder row for it and move on to the next record.
var ErrInvalidInput = errors.New("invalid input")
