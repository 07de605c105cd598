package units

import "errors"

var (
	// ErrUnknownUnit is returned when a unit name cannot be resolved.
	ErrUnknownUnit = errors.New("unknown unit")
	// ErrUnitExists is returned when a definition would replace a built-in unit.
	ErrUnitExists = errors.New("unit already exists")
	// ErrInvalidUnit is returned for malformed unit names or definitions.
	ErrInvalidUnit = errors.New("invalid unit definition")
	// ErrIncompatible is returned when two quantities have different dimensions.
	ErrIncompatible = errors.New("units do not match")
)
