package photo

import (
	"context"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lordbaah/photodrop/internal/apperr"
	"github.com/lordbaah/photodrop/internal/logger"
	"github.com/lordbaah/photodrop/internal/metrics"
	"github.com/lordbaah/photodrop/internal/tracing"
)

type recordLister interface {
	List(ctx context.Context, limit int, after *Cursor) ([]Record, error)
}

type viewSigner interface {
	GenerateGetURL(ctx context.Context, bucket, object string, ttl time.Duration) (string, error)
}

// GalleryOptions tunes page sizes and URL generation.
type GalleryOptions struct {
	DefaultBucket string
	ViewURLTTL    time.Duration
	DefaultLimit  int
	MaxLimit      int
	Concurrency   int
}

// Gallery lists recorded photos, newest first.
type Gallery struct {
	store  recordLister
	signer viewSigner
	opts   GalleryOptions
}

// NewGallery constructs a Gallery, filling unset options with defaults.
func NewGallery(store recordLister, signer viewSigner, opts GalleryOptions) *Gallery {
	if opts.ViewURLTTL <= 0 {
		opts.ViewURLTTL = time.Hour
	}
	if opts.DefaultLimit < 1 {
		opts.DefaultLimit = 20
	}
	if opts.MaxLimit < opts.DefaultLimit {
		opts.MaxLimit = opts.DefaultLimit
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Gallery{store: store, signer: signer, opts: opts}
}

// List reads one page of records and, when asked, attaches read URLs.
// A record whose URL cannot be generated is returned with a nil ViewURL.
func (g *Gallery) List(ctx context.Context, q ListQuery) (page Page, err error) {
	ctx, span := tracing.Tracer().Start(ctx, "photo.List")
	defer func() { tracing.End(span, err) }()

	limit := g.clampLimit(q.Limit)
	span.SetAttributes(
		attribute.Int("photo.limit", limit),
		attribute.Bool("photo.generate_urls", q.GenerateURLs),
	)

	records, err := g.store.List(ctx, limit, q.Cursor)
	if err != nil {
		logger.FromContext(ctx).Error("list photo metadata", zap.Int("limit", limit), zap.Error(err))
		return Page{}, apperr.Upstream("list photos", "Failed to fetch photos", err)
	}

	views := make([]View, len(records))
	for i, rec := range records {
		if rec.ContentType == "" {
			rec.ContentType = DefaultContentType
		}
		views[i] = View{Record: rec}
	}

	if q.GenerateURLs {
		g.attachViewURLs(ctx, views)
	}

	sort.SliceStable(views, func(i, j int) bool {
		return views[i].UploadTime.After(views[j].UploadTime)
	})

	page = Page{Photos: views, Count: len(views)}
	if len(views) == limit && limit > 0 {
		page.NextCursor = cursorAfter(views[len(views)-1]).Encode()
	}
	return page, nil
}

func (g *Gallery) attachViewURLs(ctx context.Context, views []View) {
	var grp errgroup.Group
	grp.SetLimit(g.opts.Concurrency)

	for i := range views {
		i := i
		grp.Go(func() error {
			bucket := views[i].BucketName
			if bucket == "" {
				bucket = g.opts.DefaultBucket
			}

			u, err := g.signer.GenerateGetURL(ctx, bucket, views[i].PhotoName, g.opts.ViewURLTTL)
			if err != nil {
				logger.FromContext(ctx).Warn("generate view url",
					zap.String("key", views[i].PhotoName),
					zap.String("bucket", bucket),
					zap.Error(err),
				)
				metrics.ViewURLFailed()
				return nil
			}
			views[i].ViewURL = &u
			return nil
		})
	}
	_ = grp.Wait()
}

func (g *Gallery) clampLimit(limit int) int {
	switch {
	case limit < 1:
		return g.opts.DefaultLimit
	case limit > g.opts.MaxLimit:
		return g.opts.MaxLimit
	default:
		return limit
	}
}
