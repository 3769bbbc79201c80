package heightfield

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter matches every [ParameterError].
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrNumericDomain matches every [NumericDomainError].
	ErrNumericDomain = errors.New("numeric domain error")
)

// ParameterError rejects a [Parameters] field.
type ParameterError struct {
	Name   string
	Value  any
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%v: %s", e.Name, e.Value, e.Reason)
}

func (e *ParameterError) Unwrap() error { return ErrInvalidParameter }

// NumericDomainError reports a non-finite height produced by the noise
// source. Such values are passed through as errors, never sanitized.
type NumericDomainError struct {
	X, Y  int
	Value float64
}

func (e *NumericDomainError) Error() string {
	return fmt.Sprintf("non-finite height %v at (%d, %d)", e.Value, e.X, e.Y)
}

func (e *NumericDomainError) Unwrap() error { return ErrNumericDomain }
