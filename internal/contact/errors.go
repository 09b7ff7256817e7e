package contact

import "errors"

var (
	// ErrMissingBody is returned when a submission arrives without a body.
	ErrMissingBody = errors.New("request body is missing")
	// ErrInvalidJSON is returned when the body is not a JSON object.
	ErrInvalidJSON = errors.New("invalid json body")
	// ErrMissingFields is returned when name, email or message is absent.
	ErrMissingFields = errors.New("missing required fields")
)
