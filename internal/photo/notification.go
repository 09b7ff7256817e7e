package photo

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// notificationBody is the S3 event-notification envelope. MinIO webhook
// targets send the same shape plus an object contentType.
type notificationBody struct {
	Records []struct {
		EventName string `json:"eventName"`
		EventTime string `json:"eventTime"`
		S3        struct {
			Bucket struct {
				Name string `json:"name"`
			} `json:"bucket"`
			Object struct {
				Key         string `json:"key"`
				Size        int64  `json:"size"`
				ContentType string `json:"contentType"`
			} `json:"object"`
		} `json:"s3"`
	} `json:"Records"`
}

// DecodeNotification parses an S3/MinIO notification body into ObjectCreated items.
// Keys are left encoded; the Recorder decodes them. Only a body that is not
// notification JSON fails as a whole; a bad field fails its own item.
func DecodeNotification(r io.Reader) ([]ObjectCreated, error) {
	var body notificationBody
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedNotification, err)
	}

	events := make([]ObjectCreated, 0, len(body.Records))
	for _, rec := range body.Records {
		ev := ObjectCreated{
			EventName:   rec.EventName,
			Bucket:      rec.S3.Bucket.Name,
			Key:         rec.S3.Object.Key,
			Size:        rec.S3.Object.Size,
			ContentType: rec.S3.Object.ContentType,
		}
		if ts := strings.TrimSpace(rec.EventTime); ts != "" {
			t, err := time.Parse(time.RFC3339Nano, ts)
			if err != nil {
				ev.decodeErr = fmt.Errorf("%w: eventTime %q: %v", ErrInvalidEventTime, ts, err)
			}
			ev.EventTime = t
		}
		events = append(events, ev)
	}
	return events, nil
}

// IsCreation reports whether the notification announces a new object.
// Notifications without an event name are treated as creations.
func (e ObjectCreated) IsCreation() bool {
	return e.EventName == "" || strings.Contains(e.EventName, "ObjectCreated")
}
