package photo

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const minioWebhookBody = `{
  "EventName": "s3:ObjectCreated:Put",
  "Key": "photo-uploader/uploads/my+photo.jpg",
  "Records": [
    {
      "eventVersion": "2.0",
      "eventSource": "minio:s3",
      "eventTime": "2024-01-01T00:00:00.000Z",
      "eventName": "s3:ObjectCreated:Put",
      "s3": {
        "bucket": {"name": "photo-uploader"},
        "object": {
          "key": "uploads%2Fmy+photo.jpg",
          "size": 12345,
          "contentType": "image/png"
        }
      }
    }
  ]
}`

func TestDecodeNotification(t *testing.T) {
	events, err := DecodeNotification(strings.NewReader(minioWebhookBody))
	if err != nil {
		t.Fatalf("DecodeNotification returned error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected one event, got %d", len(events))
	}

	ev := events[0]
	if ev.Bucket != "photo-uploader" || ev.Size != 12345 || ev.ContentType != "image/png" {
		t.Fatalf("unexpected event %+v", ev)
	}
	if ev.Key != "uploads%2Fmy+photo.jpg" {
		t.Fatalf("key must stay encoded, got %q", ev.Key)
	}
	if !ev.EventTime.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected event time %s", ev.EventTime)
	}
	if !ev.IsCreation() {
		t.Fatalf("expected creation event")
	}

	key, err := DecodeObjectKey(ev.Key)
	if err != nil || key != "uploads/my photo.jpg" {
		t.Fatalf("DecodeObjectKey = %q, %v", key, err)
	}
}

func TestDecodeNotificationRejectsGarbage(t *testing.T) {
	for _, body := range []string{"", "not json", `{"Records":"none"}`} {
		if _, err := DecodeNotification(strings.NewReader(body)); !errors.Is(err, ErrMalformedNotification) {
			t.Fatalf("DecodeNotification(%q): expected ErrMalformedNotification, got %v", body, err)
		}
	}
}

const mixedEventTimeBody = `{"Records":[
  {"eventName":"s3:ObjectCreated:Put","eventTime":"2024-01-01T00:00:00Z",
   "s3":{"bucket":{"name":"photos"},"object":{"key":"uploads/good.jpg","size":10}}},
  {"eventName":"s3:ObjectCreated:Put","eventTime":"not-a-time",
   "s3":{"bucket":{"name":"photos"},"object":{"key":"uploads/bad.jpg","size":20}}}
]}`

func TestDecodeNotificationKeepsItemsWithBadEventTime(t *testing.T) {
	events, err := DecodeNotification(strings.NewReader(mixedEventTimeBody))
	if err != nil {
		t.Fatalf("a bad eventTime must not fail the body: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected two events, got %d", len(events))
	}
	if events[0].decodeErr != nil {
		t.Fatalf("unexpected error on valid item: %v", events[0].decodeErr)
	}
	if !errors.Is(events[1].decodeErr, ErrInvalidEventTime) {
		t.Fatalf("expected ErrInvalidEventTime on second item, got %v", events[1].decodeErr)
	}
}

func TestIsCreation(t *testing.T) {
	cases := map[string]bool{
		"":                                      true,
		"s3:ObjectCreated:Put":                  true,
		"ObjectCreated:CompleteMultipartUpload": true,
		"s3:ObjectRemoved:Delete":               false,
		"s3:ObjectAccessed:Get":                 false,
	}
	for name, want := range cases {
		if got := (ObjectCreated{EventName: name}).IsCreation(); got != want {
			t.Fatalf("IsCreation(%q) = %v, want %v", name, got, want)
		}
	}
}
