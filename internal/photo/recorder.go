package photo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lordbaah/photodrop/internal/apperr"
	"github.com/lordbaah/photodrop/internal/logger"
	"github.com/lordbaah/photodrop/internal/metrics"
	"github.com/lordbaah/photodrop/internal/tracing"
)

type recordWriter interface {
	Upsert(ctx context.Context, rec Record) error
}

// Recorder persists one metadata record per object-created notification.
type Recorder struct {
	store       recordWriter
	prefix      string
	concurrency int
	nowFunc     func() time.Time
}

// NewRecorder constructs a Recorder. Keys outside prefix are skipped; an empty
// prefix records everything. At most concurrency writes run at once.
func NewRecorder(store recordWriter, prefix string, concurrency int) *Recorder {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Recorder{
		store:       store,
		prefix:      prefix,
		concurrency: concurrency,
		nowFunc:     time.Now,
	}
}

type outcome int

const (
	outcomeRecorded outcome = iota
	outcomeSkipped
	outcomeInvalid
	outcomeWriteFailed
)

// Record handles every notification independently. A failed item never stops
// the others; the returned BatchResult lists each key's outcome. When any
// write was rejected the error is a StoreWrite so the delivering platform
// retries the batch. Undecodable keys or event times are reported but do not
// fail the call, since redelivery cannot fix them.
func (r *Recorder) Record(ctx context.Context, events []ObjectCreated) (result BatchResult, err error) {
	ctx, span := tracing.Tracer().Start(ctx, "photo.Record")
	span.SetAttributes(attribute.Int("photo.batch_size", len(events)))
	defer func() { tracing.End(span, err) }()

	result = BatchResult{Recorded: []string{}, Skipped: []string{}, Failed: []ItemFailure{}}

	var (
		mu        sync.Mutex
		writeErrs []error
		grp       errgroup.Group
	)
	grp.SetLimit(r.concurrency)

	for _, ev := range events {
		ev := ev
		grp.Go(func() error {
			key, res, itemErr := r.recordOne(ctx, ev)

			mu.Lock()
			defer mu.Unlock()
			switch res {
			case outcomeRecorded:
				result.Recorded = append(result.Recorded, key)
				metrics.MetadataRecorded("recorded")
			case outcomeSkipped:
				result.Skipped = append(result.Skipped, key)
				metrics.MetadataRecorded("skipped")
			default:
				result.Failed = append(result.Failed, ItemFailure{Key: key, Error: itemErr.Error()})
				metrics.MetadataRecorded("failed")
				if res == outcomeWriteFailed {
					writeErrs = append(writeErrs, itemErr)
				}
			}
			return nil
		})
	}
	_ = grp.Wait()

	sort.Strings(result.Recorded)
	sort.Strings(result.Skipped)
	sort.Slice(result.Failed, func(i, j int) bool { return result.Failed[i].Key < result.Failed[j].Key })

	if len(writeErrs) > 0 {
		return result, apperr.StoreWrite("record metadata",
			fmt.Sprintf("failed to store metadata for %d of %d objects", len(writeErrs), len(events)),
			errors.Join(writeErrs...))
	}
	return result, nil
}

func (r *Recorder) recordOne(ctx context.Context, ev ObjectCreated) (string, outcome, error) {
	log := logger.FromContext(ctx)

	key, err := DecodeObjectKey(ev.Key)
	if err != nil {
		log.Warn("undecodable object key", zap.String("raw_key", ev.Key), zap.Error(err))
		return ev.Key, outcomeInvalid, err
	}
	if ev.decodeErr != nil {
		log.Warn("undecodable notification item", zap.String("key", key), zap.Error(ev.decodeErr))
		return key, outcomeInvalid, ev.decodeErr
	}
	if !ev.IsCreation() {
		log.Debug("ignoring non-creation event", zap.String("key", key), zap.String("event", ev.EventName))
		return key, outcomeSkipped, nil
	}
	if r.prefix != "" && !strings.HasPrefix(key, r.prefix) {
		log.Debug("ignoring object outside upload prefix", zap.String("key", key))
		return key, outcomeSkipped, nil
	}
	if ev.Size < 0 {
		err := fmt.Errorf("negative object size %d", ev.Size)
		log.Warn("invalid object size", zap.String("key", key), zap.Error(err))
		return key, outcomeInvalid, err
	}

	rec := Record{
		PhotoName:   key,
		BucketName:  ev.Bucket,
		FileSize:    ev.Size,
		UploadTime:  ev.EventTime.UTC(),
		ContentType: ev.ContentType,
	}
	if ev.EventTime.IsZero() {
		rec.UploadTime = r.nowFunc().UTC()
	}
	if rec.ContentType == "" {
		rec.ContentType = DefaultContentType
	}

	if err := r.store.Upsert(ctx, rec); err != nil {
		log.Error("store photo metadata",
			zap.String("key", key),
			zap.String("bucket", ev.Bucket),
			zap.Int64("size", ev.Size),
			zap.Error(err),
		)
		return key, outcomeWriteFailed, err
	}

	log.Info("photo metadata stored", zap.String("key", key), zap.Int64("size", rec.FileSize))
	return key, outcomeRecorded, nil
}
