package gosdba

import "fmt"

// ConfigurationError reports an invalid or incompatible parameter. The
// offending parameter name and value are kept so callers can correct the
// configuration without inspecting internals.
type ConfigurationError struct {
	Param string
	Value any
	Msg   string
}

func (e *ConfigurationError) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("invalid configuration: %s", e.Msg)
	}
	return fmt.Sprintf("invalid configuration: %s=%v: %s", e.Param, e.Value, e.Msg)
}

// NotTrainedError reports a call to Adjust before Train.
type NotTrainedError struct {
	Algorithm string
}

func (e *NotTrainedError) Error() string {
	return fmt.Sprintf("%s: adjust called before train", e.Algorithm)
}

// ShapeError reports mismatched lengths or dimensions where an algorithm
// requires alignment.
type ShapeError struct {
	Param string
	Want  int
	Got   int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("shape mismatch: %s: want %d, got %d", e.Param, e.Want, e.Got)
}

// DomainError reports an operation called out of sequence, or a target
// series incompatible with previously fitted state.
type DomainError struct {
	Op  string
	Msg string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

// UnsupportedExtrapolationError reports an extrapolation policy that is not
// implemented.
type UnsupportedExtrapolationError struct {
	Method string
}

func (e *UnsupportedExtrapolationError) Error() string {
	return fmt.Sprintf("unsupported extrapolation method %q", e.Method)
}
