package photo

import "errors"

var (
	// ErrInvalidFilename rejects names that are empty, too long or could escape the upload prefix.
	ErrInvalidFilename = errors.New("invalid filename")
	// ErrInvalidContentType rejects content types that are not media types.
	ErrInvalidContentType = errors.New("invalid content type")
	// ErrInvalidKey signals an object key that cannot be URL-decoded.
	ErrInvalidKey = errors.New("invalid object key")
	// ErrInvalidCursor signals a malformed gallery cursor.
	ErrInvalidCursor = errors.New("invalid cursor")
	// ErrInvalidEventTime marks a notification item whose eventTime is not RFC 3339.
	ErrInvalidEventTime = errors.New("invalid event time")
	// ErrMalformedNotification signals a notification body that is not S3 event JSON.
	ErrMalformedNotification = errors.New("malformed notification")
)
