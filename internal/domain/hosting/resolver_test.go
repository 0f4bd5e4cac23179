package hosting

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
)

// storeStub is an in-memory mock for storage.Storage
type storeStub struct {
	baseURL string
	objects map[string][]byte
	puts    int
	failPut bool
}

func newStoreStub() *storeStub {
	return &storeStub{
		baseURL: "https://images.test",
		objects: map[string][]byte{},
	}
}

func (s *storeStub) Put(_ context.Context, key string, r io.Reader, _ string) error {
	s.puts++
	if s.failPut {
		return errors.New("upload rejected")
	}
	data, _ := io.ReadAll(r)
	s.objects[key] = data
	return nil
}

func (s *storeStub) Delete(_ context.Context, key string) error {
	delete(s.objects, key)
	return nil
}

func (s *storeStub) URL(key string) string { return s.baseURL + "/" + key }
func (s *storeStub) BaseURL() string       { return s.baseURL }

func testConfig() *Config {
	userID := uuid.New()
	return &Config{UserID: userID, Prefix: "users/" + userID.String()}
}

func TestResolveUploadsInlineImage(t *testing.T) {
	store := newStoreStub()
	resolver := NewResolver(store)
	cfg := testConfig()

	url, err := resolver.Resolve(context.Background(), cfg, "data:image/png;base64,AAA=", "1700000000000", LabelSource)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expectedKey := cfg.Prefix + "/1700000000000/source.png"
	if url != store.URL(expectedKey) {
		t.Errorf("expected %s, got %s", store.URL(expectedKey), url)
	}
	if _, ok := store.objects[expectedKey]; !ok {
		t.Errorf("expected object stored under %s", expectedKey)
	}
}

func TestResolveHostedURLPassesThrough(t *testing.T) {
	store := newStoreStub()
	resolver := NewResolver(store)
	cfg := testConfig()

	hosted := store.URL("users/x/1/source.png")
	url, err := resolver.Resolve(context.Background(), cfg, hosted, "1", LabelSource)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != hosted {
		t.Errorf("expected hosted URL unchanged, got %s", url)
	}
	if store.puts != 0 {
		t.Errorf("expected zero uploads for a hosted URL, got %d", store.puts)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	store := newStoreStub()
	resolver := NewResolver(store)
	cfg := testConfig()

	first, err := resolver.Resolve(context.Background(), cfg, "data:image/png;base64,AAA=", "1", LabelSource)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Resolving the returned URL again must not touch the upload path
	second, err := resolver.Resolve(context.Background(), cfg, first, "1", LabelSource)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second != first {
		t.Errorf("expected same URL on re-resolution, got %s and %s", first, second)
	}
	if store.puts != 1 {
		t.Errorf("expected exactly one upload, got %d", store.puts)
	}
}

func TestResolveLabelsCannotCollide(t *testing.T) {
	store := newStoreStub()
	resolver := NewResolver(store)
	cfg := testConfig()

	source, err := resolver.Resolve(context.Background(), cfg, "data:image/png;base64,AAA=", "1", LabelSource)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rendered, err := resolver.Resolve(context.Background(), cfg, "data:image/png;base64,BBB=", "1", LabelRendered)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source == rendered {
		t.Errorf("source and rendered keys collided: %s", source)
	}
}

func TestResolveUploadFailure(t *testing.T) {
	store := newStoreStub()
	store.failPut = true
	resolver := NewResolver(store)

	_, err := resolver.Resolve(context.Background(), testConfig(), "data:image/png;base64,AAA=", "1", LabelSource)
	if err == nil {
		t.Fatal("expected error when upload is rejected")
	}
}

func TestResolveEmptyReference(t *testing.T) {
	resolver := NewResolver(newStoreStub())

	_, err := resolver.Resolve(context.Background(), testConfig(), "", "1", LabelSource)
	if !errors.Is(err, ErrEmptyReference) {
		t.Fatalf("expected ErrEmptyReference, got %v", err)
	}
}
