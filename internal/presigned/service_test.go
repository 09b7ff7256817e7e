package presigned

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
)

type fakeMinio struct {
	missing map[string]bool
	statErr error

	lastMethod  string
	lastHeaders http.Header
	lastExpiry  time.Duration
}

func (m *fakeMinio) PresignHeader(ctx context.Context, method, bucket, object string, expiry time.Duration, params url.Values, headers http.Header) (*url.URL, error) {
	m.lastMethod = method
	m.lastHeaders = headers
	m.lastExpiry = expiry
	return &url.URL{Scheme: "https", Host: "store.example.com", Path: "/" + bucket + "/" + object}, nil
}

func (m *fakeMinio) PresignedGetObject(ctx context.Context, bucket, object string, expiry time.Duration, params url.Values) (*url.URL, error) {
	m.lastMethod = http.MethodGet
	m.lastExpiry = expiry
	return &url.URL{Scheme: "https", Host: "store.example.com", Path: "/" + bucket + "/" + object}, nil
}

func (m *fakeMinio) StatObject(ctx context.Context, bucket, object string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	if m.statErr != nil {
		return minio.ObjectInfo{}, m.statErr
	}
	if m.missing[object] {
		return minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound}
	}
	return minio.ObjectInfo{Key: object}, nil
}

func TestGeneratePutURLBindsContentType(t *testing.T) {
	client := &fakeMinio{}
	svc := NewService(client, time.Second)

	u, err := svc.GeneratePutURL(context.Background(), "photos", "uploads/cat.png", "image/png", 5*time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if u != "https://store.example.com/photos/uploads/cat.png" {
		t.Fatalf("unexpected url %q", u)
	}
	if client.lastMethod != http.MethodPut {
		t.Fatalf("expected PUT, got %s", client.lastMethod)
	}
	if got := client.lastHeaders.Get("Content-Type"); got != "image/png" {
		t.Fatalf("expected signed content type image/png, got %q", got)
	}
	if client.lastExpiry != 5*time.Minute {
		t.Fatalf("expected 5m expiry, got %s", client.lastExpiry)
	}
}

func TestGenerateGetURLMissingObject(t *testing.T) {
	client := &fakeMinio{missing: map[string]bool{"uploads/gone.jpg": true}}
	svc := NewService(client, time.Second)

	_, err := svc.GenerateGetURL(context.Background(), "photos", "uploads/gone.jpg", time.Hour)
	if !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}
}

func TestGenerateGetURLStatFailure(t *testing.T) {
	client := &fakeMinio{statErr: errors.New("connection refused")}
	svc := NewService(client, time.Second)

	_, err := svc.GenerateGetURL(context.Background(), "photos", "uploads/a.jpg", time.Hour)
	if err == nil || errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("expected a non-not-found error, got %v", err)
	}
}

func TestInvalidTTL(t *testing.T) {
	svc := NewService(&fakeMinio{}, time.Second)

	if _, err := svc.GeneratePutURL(context.Background(), "b", "o", "", 0); !errors.Is(err, ErrInvalidTTL) {
		t.Fatalf("expected ErrInvalidTTL for zero ttl, got %v", err)
	}
	if _, err := svc.GenerateGetURL(context.Background(), "b", "o", 8*24*time.Hour); !errors.Is(err, ErrInvalidTTL) {
		t.Fatalf("expected ErrInvalidTTL for 8 days, got %v", err)
	}
}
