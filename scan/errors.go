package scan

import "errors"

// Common errors returned by the scan package.
var (
	// ErrReauthLimit is returned when a year's scan keeps hitting expired
	// sessions without making progress past the boundary page.
	ErrReauthLimit = errors.New("reauthentication limit exceeded")

	// ErrNoBoundary indicates a pass finished without observing a
	// non-successful page, which the scanner's stop condition rules out.
	ErrNoBoundary = errors.New("scanning pass finished without a boundary page")
)
