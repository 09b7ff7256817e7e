package photo

import "time"

// DefaultContentType is assumed when neither the uploader nor the store says otherwise.
const DefaultContentType = "image/jpeg"

// Record is the metadata row written once per stored object.
type Record struct {
	PhotoName   string    `json:"photo_name"`
	BucketName  string    `json:"bucket_name"`
	FileSize    int64     `json:"file_size"`
	UploadTime  time.Time `json:"upload_time"`
	ContentType string    `json:"content_type"`
}

// View is a Record as returned by the gallery, with an optional read URL.
type View struct {
	Record
	ViewURL *string `json:"viewUrl"`
}

// UploadGrant authorizes one direct PUT to the object store. It is never persisted.
type UploadGrant struct {
	Key         string    `json:"key"`
	UploadURL   string    `json:"uploadUrl"`
	ContentType string    `json:"contentType"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// ObjectCreated is one object-store notification as delivered, before decoding.
type ObjectCreated struct {
	EventName   string
	Bucket      string
	Key         string // URL-encoded, '+' for space
	Size        int64
	EventTime   time.Time
	ContentType string

	// decodeErr is set when this item could not be parsed; the Recorder
	// reports it as failed without touching the rest of the batch.
	decodeErr error
}

// ItemFailure names a notification the recorder could not persist.
type ItemFailure struct {
	Key   string `json:"key"`
	Error string `json:"error"`
}

// BatchResult reports the per-notification outcome of one Record call.
type BatchResult struct {
	Recorded []string      `json:"recorded"`
	Skipped  []string      `json:"skipped"`
	Failed   []ItemFailure `json:"failed"`
}

// ListQuery selects one gallery page.
type ListQuery struct {
	Limit        int
	GenerateURLs bool
	Cursor       *Cursor
}

// Page is one gallery page, most recent first.
type Page struct {
	Photos     []View `json:"photos"`
	Count      int    `json:"count"`
	NextCursor string `json:"nextCursor,omitempty"`
}
