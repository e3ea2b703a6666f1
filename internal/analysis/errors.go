package analysis

import (
	"errors"
	"fmt"
)

// Failure classes of a calculation call. Transport errors are wrapped
// together with ErrNetwork, ErrTimeout or ErrCanceled, so errors.Is works on
// both the class and the cause.
var (
	ErrNetwork   = errors.New("analysis service unreachable")
	ErrTimeout   = errors.New("analysis service timed out")
	ErrCanceled  = errors.New("analysis call canceled")
	ErrMalformed = errors.New("malformed analysis response")
)

// StatusError reports a non-2xx response from the analysis service.
type StatusError struct {
	Code int
	Body string // leading part of the response body, for diagnostics
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("analysis service returned status %d", e.Code)
	}
	return fmt.Sprintf("analysis service returned status %d: %s", e.Code, e.Body)
}
