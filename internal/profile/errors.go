package profile

import (
	"errors"
	"fmt"
)

// ErrInsufficientData reports a profile with no usable skills. It is an
// expected outcome: the user has to add skills before analysis is possible.
var ErrInsufficientData = errors.New("insufficient profile data: no skills on record")

// InsufficientDataMessage is the user-facing text for ErrInsufficientData.
const InsufficientDataMessage = "Insufficient data to provide recommendations. Please add more skills to your profile."

// FetchError represents a failed read of a required profile source
type FetchError struct {
	Source string
	Cause  error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch %s: %v", e.Source, e.Cause)
	}
	return fmt.Sprintf("fetch %s", e.Source)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}
