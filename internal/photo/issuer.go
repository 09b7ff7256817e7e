package photo

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/lordbaah/photodrop/internal/apperr"
	"github.com/lordbaah/photodrop/internal/logger"
	"github.com/lordbaah/photodrop/internal/metrics"
	"github.com/lordbaah/photodrop/internal/tracing"
)

type uploadSigner interface {
	GeneratePutURL(ctx context.Context, bucket, object, contentType string, ttl time.Duration) (string, error)
}

// Issuer hands out pre-signed PUT URLs so clients upload straight to the object store.
type Issuer struct {
	signer  uploadSigner
	bucket  string
	prefix  string
	ttl     time.Duration
	nowFunc func() time.Time
}

// NewIssuer constructs an Issuer writing under prefix in bucket.
func NewIssuer(signer uploadSigner, bucket, prefix string, ttl time.Duration) *Issuer {
	return &Issuer{
		signer:  signer,
		bucket:  bucket,
		prefix:  prefix,
		ttl:     ttl,
		nowFunc: time.Now,
	}
}

// Issue validates the requested name and returns a grant for prefix+filename.
// A second grant for the same name targets the same key.
func (i *Issuer) Issue(ctx context.Context, filename, contentType string) (grant UploadGrant, err error) {
	const op = "issue upload url"

	ctx, span := tracing.Tracer().Start(ctx, "photo.Issue")
	defer func() { tracing.End(span, err) }()

	name, err := ValidateFilename(filename)
	if err != nil {
		return UploadGrant{}, apperr.Validation(op, err.Error(), err, "filename")
	}
	contentType, err = NormalizeContentType(contentType)
	if err != nil {
		return UploadGrant{}, apperr.Validation(op, err.Error(), err, "contentType")
	}

	key := i.prefix + name
	span.SetAttributes(attribute.String("photo.key", key))

	issuedAt := i.nowFunc()
	uploadURL, err := i.signer.GeneratePutURL(ctx, i.bucket, key, contentType, i.ttl)
	if err != nil {
		logger.FromContext(ctx).Error("generate upload url",
			zap.String("key", key),
			zap.String("content_type", contentType),
			zap.Error(err),
		)
		return UploadGrant{}, apperr.Upstream(op, "Failed to generate upload URL", err)
	}

	metrics.UploadURLIssued()
	return UploadGrant{
		Key:         key,
		UploadURL:   uploadURL,
		ContentType: contentType,
		ExpiresAt:   issuedAt.Add(i.ttl).UTC(),
	}, nil
}
