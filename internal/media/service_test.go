package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"community-service/internal/shared/httpx"
)

// fakeStore emulates the object store: create-or-replace puts, bucket
// creation that fails once the bucket exists.
type fakeStore struct {
	mu               sync.Mutex
	exists           bool
	creates          int
	probeErr         error
	firstProbeAbsent bool
	probed           bool
	createErr        error
	putErr           error
	objects          map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}}
}

func (f *fakeStore) BucketExists(context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.probeErr != nil {
		return false, f.probeErr
	}
	if f.firstProbeAbsent && !f.probed {
		f.probed = true
		return false, nil
	}
	return f.exists, nil
}

func (f *fakeStore) MakeBucket(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if f.exists {
		return errors.New("bucket already owned by you")
	}
	f.exists = true
	f.creates++
	return nil
}

func (f *fakeStore) Put(_ context.Context, key, _ string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	f.objects[key] = append([]byte(nil), data...)
	return nil
}

func (f *fakeStore) PublicURL(key string) string {
	return "http://store.local/community-posts/" + key
}

func TestIngestRejectsOversize(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	svc := NewService(store)

	_, err := svc.Ingest(context.Background(), make([]byte, MaxUploadSize+1), "image/png", "big.png")
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("want ErrTooLarge, got %v", err)
	}
	if !errors.Is(err, httpx.ErrValidation) {
		t.Fatalf("oversize must map to a validation error, got %v", err)
	}
	if len(store.objects) != 0 {
		t.Fatalf("no storage write may happen before validation, found %d objects", len(store.objects))
	}
}

func TestIngestRejectsUnsupportedType(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	svc := NewService(store)

	for _, ct := range []string{"application/pdf", "text/html", "image/svg+xml", ""} {
		if _, err := svc.Ingest(context.Background(), []byte("x"), ct, "f.bin"); !errors.Is(err, ErrBadContentType) {
			t.Fatalf("content type %q: want ErrBadContentType, got %v", ct, err)
		}
	}
	if len(store.objects) != 0 {
		t.Fatalf("rejected uploads must not reach storage")
	}
}

func TestIngestRejectsEmpty(t *testing.T) {
	t.Parallel()
	svc := NewService(newFakeStore())
	if _, err := svc.Ingest(context.Background(), nil, "image/png", "f.png"); !errors.Is(err, ErrEmptyUpload) {
		t.Fatalf("want ErrEmptyUpload, got %v", err)
	}
}

func TestIngestStoresAndResolves(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	svc := NewService(store)

	payload := bytes.Repeat([]byte{0x42}, 4<<20)
	url, err := svc.Ingest(context.Background(), payload, "image/png", "photo.PNG")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	key := strings.TrimPrefix(url, "http://store.local/community-posts/")
	if key == url {
		t.Fatalf("url %q not rooted at the public base", url)
	}
	if !strings.HasSuffix(key, ".png") {
		t.Fatalf("generated name %q must keep the original extension", key)
	}
	if strings.Contains(key, "photo") {
		t.Fatalf("generated name %q leaks the original filename", key)
	}
	if !bytes.Equal(store.objects[key], payload) {
		t.Fatalf("stored object does not match uploaded content")
	}
}

func TestIngestNamesAreUnique(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	svc := NewService(store)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		url, err := svc.Ingest(context.Background(), []byte("img"), "image/jpeg", "same.jpg")
		if err != nil {
			t.Fatalf("ingest %d: %v", i, err)
		}
		if seen[url] {
			t.Fatalf("duplicate object name generated: %s", url)
		}
		seen[url] = true
	}
}

func TestIngestUploadFailure(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	store.putErr = errors.New("connection reset")
	svc := NewService(store)

	_, err := svc.Ingest(context.Background(), []byte("img"), "image/webp", "a.webp")
	if err == nil {
		t.Fatal("want upload error")
	}
	if errors.Is(err, httpx.ErrValidation) {
		t.Fatalf("upload failure is not a validation error: %v", err)
	}
}

func TestEnsureBucketCreatesOnce(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	svc := NewService(store)

	if err := svc.EnsureBucket(context.Background()); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if store.creates != 1 {
		t.Fatalf("want exactly one bucket creation, got %d", store.creates)
	}
	// Second call short-circuits on the memoized flag.
	store.probeErr = errors.New("store unreachable")
	if err := svc.EnsureBucket(context.Background()); err != nil {
		t.Fatalf("memoized ensure must not touch the store: %v", err)
	}
}

func TestEnsureBucketConcurrent(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	svc := NewService(store)

	const n = 32
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- svc.EnsureBucket(context.Background())
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("a benign creation race surfaced as an error: %v", err)
		}
	}
	if store.creates != 1 {
		t.Fatalf("want exactly one bucket, got %d creations", store.creates)
	}
}

func TestEnsureBucketLostRaceIsSuccess(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	// Bucket appears between the probe and the create attempt; the create
	// fails with a conflict and the recheck sees the other caller's bucket.
	store.exists = true
	store.firstProbeAbsent = true
	store.createErr = fmt.Errorf("bucket already exists")
	svc := NewService(store)

	if err := svc.EnsureBucket(context.Background()); err != nil {
		t.Fatalf("concurrent creation must count as success: %v", err)
	}
	if store.creates != 0 {
		t.Fatalf("fake should not have recorded a creation, got %d", store.creates)
	}
}

func TestEnsureBucketProbeFailureFallsThroughToCreate(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	store.probeErr = errors.New("transient probe failure")
	svc := NewService(store)

	if err := svc.EnsureBucket(context.Background()); err != nil {
		t.Fatalf("transient probe failure should resolve via creation: %v", err)
	}
	if store.creates != 1 {
		t.Fatalf("want creation attempted after failed probe, got %d", store.creates)
	}
}
