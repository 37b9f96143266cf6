package tonyscale

import "errors"

var (
	// ErrValidation reports input that is not a well-formed, finite numeric
	// array or parameters outside their domain. Nothing has been scanned when
	// it is returned.
	ErrValidation = errors.New("tonyscale: invalid input")

	// ErrResource reports that the histogram buffer could not be allocated.
	ErrResource = errors.New("tonyscale: cannot allocate histogram")
)
