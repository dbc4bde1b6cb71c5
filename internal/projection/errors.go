package projection

import "errors"

var (
	ErrInvalidStrength = errors.New("bias strength must be a finite, non-negative number")
	ErrInvalidWeek     = errors.New("target week must be at least 1")
)
