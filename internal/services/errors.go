package services

import "errors"

var (
	// ErrPathNotFound is returned when the scanned path does not exist
	ErrPathNotFound = errors.New("path does not exist")
	// ErrNotADirectory is returned when the scanned path is not a directory
	ErrNotADirectory = errors.New("path is not a directory")

	// ErrUnsupportedConversion is returned for conversions towards a smaller unit
	ErrUnsupportedConversion = errors.New("unsupported size unit conversion")
	// ErrInvalidUnit is returned when a conversion target is missing or unknown
	ErrInvalidUnit = errors.New("invalid size unit")
	// ErrInconsistentUnits is returned when elements with different units are compared
	ErrInconsistentUnits = errors.New("cannot compare sizes with different units")
)

// IsUserError reports whether err is caused by the path a caller supplied,
// as opposed to a fault inside the scanner.
func IsUserError(err error) bool {
	return errors.Is(err, ErrPathNotFound) || errors.Is(err, ErrNotADirectory)
}
