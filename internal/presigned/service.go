package presigned

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
)

const defaultTimeout = 5 * time.Second

// minio caps presigned URLs at seven days.
const maxTTL = 7 * 24 * time.Hour

type objectSigner interface {
	PresignHeader(ctx context.Context, method, bucketName, objectName string, expires time.Duration, reqParams url.Values, extraHeaders http.Header) (*url.URL, error)
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
}

// Service mints time-boxed URLs for direct object store access.
type Service struct {
	client  objectSigner
	timeout time.Duration
}

// NewService wraps a minio client (or anything that signs like one).
func NewService(client objectSigner, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Service{
		client:  client,
		timeout: timeout,
	}
}

// GeneratePutURL signs a PUT for object with contentType bound into the
// signature, so the upload must send the same Content-Type header.
func (s *Service) GeneratePutURL(ctx context.Context, bucket, object, contentType string, ttl time.Duration) (string, error) {
	if err := checkTTL(ttl); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	headers := make(http.Header)
	if contentType != "" {
		headers.Set("Content-Type", contentType)
	}

	u, err := s.client.PresignHeader(ctx, http.MethodPut, bucket, object, ttl, nil, headers)
	if err != nil {
		return "", fmt.Errorf("presign put %s/%s: %w", bucket, object, err)
	}
	return u.String(), nil
}

// GenerateGetURL signs a GET for object after confirming it exists.
func (s *Service) GenerateGetURL(ctx context.Context, bucket, object string, ttl time.Duration) (string, error) {
	if err := checkTTL(ttl); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.client.StatObject(ctx, bucket, object, minio.StatObjectOptions{}); err != nil {
		if isNotFound(err) {
			return "", fmt.Errorf("stat %s/%s: %w", bucket, object, ErrObjectNotFound)
		}
		return "", fmt.Errorf("stat %s/%s: %w", bucket, object, err)
	}

	u, err := s.client.PresignedGetObject(ctx, bucket, object, ttl, make(url.Values))
	if err != nil {
		return "", fmt.Errorf("presign get %s/%s: %w", bucket, object, err)
	}
	return u.String(), nil
}

func checkTTL(ttl time.Duration) error {
	if ttl <= 0 || ttl > maxTTL {
		return fmt.Errorf("%w: %s", ErrInvalidTTL, ttl)
	}
	return nil
}

func isNotFound(err error) bool {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket", "NotFound":
		return true
	}
	return false
}
