package photo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// memoryStore is an in-memory recordWriter/recordLister keyed by photo name.
type memoryStore struct {
	mu       sync.Mutex
	records  map[string]Record
	writes   int
	failKeys map[string]error
	listErr  error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		records:  make(map[string]Record),
		failKeys: make(map[string]error),
	}
}

func (m *memoryStore) Upsert(ctx context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failKeys[rec.PhotoName]; ok {
		return err
	}
	m.writes++
	m.records[rec.PhotoName] = rec
	return nil
}

func (m *memoryStore) List(ctx context.Context, limit int, after *Cursor) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}

	all := make([]Record, 0, len(m.records))
	for _, r := range m.records {
		if after != nil && !sortsAfter(r, *after) {
			continue
		}
		all = append(all, r)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].UploadTime.Equal(all[j].UploadTime) {
			return all[i].UploadTime.After(all[j].UploadTime)
		}
		return all[i].PhotoName > all[j].PhotoName
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func sortsAfter(r Record, c Cursor) bool {
	if !r.UploadTime.Equal(c.UploadTime) {
		return r.UploadTime.Before(c.UploadTime)
	}
	return r.PhotoName < c.PhotoName
}

func (m *memoryStore) seed(n int, base time.Time) {
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("uploads/photo-%d.jpg", i)
		m.records[name] = Record{
			PhotoName:   name,
			BucketName:  "photos",
			FileSize:    int64(1000 + i),
			UploadTime:  base.Add(time.Duration(i) * time.Minute),
			ContentType: "image/jpeg",
		}
	}
}

// fakeSigner implements uploadSigner and viewSigner.
type fakeSigner struct {
	mu      sync.Mutex
	putErr  error
	missing map[string]bool
	getErr  error
	calls   int

	lastBucket      string
	lastContentType string
	lastTTL         time.Duration
}

var errObjectMissing = errors.New("object not found")

func (f *fakeSigner) GeneratePutURL(ctx context.Context, bucket, object, contentType string, ttl time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastBucket = bucket
	f.lastContentType = contentType
	f.lastTTL = ttl
	if f.putErr != nil {
		return "", f.putErr
	}
	return "https://store.example.com/" + bucket + "/" + object + "?X-Amz-Signature=put", nil
}

func (f *fakeSigner) GenerateGetURL(ctx context.Context, bucket, object string, ttl time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastBucket = bucket
	f.lastTTL = ttl
	if f.getErr != nil {
		return "", f.getErr
	}
	if f.missing[object] {
		return "", errObjectMissing
	}
	return "https://store.example.com/" + bucket + "/" + object + "?X-Amz-Signature=get", nil
}
