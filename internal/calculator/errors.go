package calculator

import "errors"

// ErrInvalidInput is returned for empty series, bad rates, non-positive
// periods per year and negative prices. It is never retried.
var ErrInvalidInput = errors.New("invalid input")
