package presigned

import "errors"

var (
	// ErrObjectNotFound signals that a read URL was requested for a missing object.
	ErrObjectNotFound = errors.New("object not found")
	// ErrInvalidTTL is returned for non-positive expiry windows.
	ErrInvalidTTL = errors.New("presign ttl must be positive")
)
