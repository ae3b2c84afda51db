package api

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/aouyang1/repogallery/gallery"
)

// fakeSource is an in-memory Source that counts listing calls.
type fakeSource struct {
	mu        sync.Mutex
	endpoint  string
	names     []string
	images    map[string][]byte
	listErr   error
	listCalls int
}

func newFakeSource(names ...string) *fakeSource {
	images := make(map[string][]byte, len(names))
	for _, name := range names {
		images[name] = pngBytes(name)
	}
	return &fakeSource{
		endpoint: "fake://images",
		names:    names,
		images:   images,
	}
}

func pngBytes(name string) []byte {
	return append([]byte("\x89PNG\r\n\x1a\n"), name...)
}

func (f *fakeSource) Endpoint() string {
	return f.endpoint
}

func (f *fakeSource) ListImages(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return []string{}, fmt.Errorf("%w: %w", gallery.ErrListingFetch, f.listErr)
	}
	return slices.Clone(f.names), nil
}

func (f *fakeSource) FetchImage(ctx context.Context, name string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.images[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s returned 404", gallery.ErrImageFetch, name)
	}
	return data, nil
}

func (f *fakeSource) ImageURL(name string) string {
	return "https://img.test/" + name
}

func (f *fakeSource) setNames(names ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.names = names
}

func (f *fakeSource) setListErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listErr = err
}

func (f *fakeSource) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

func TestNewRemoteManager_NilSource(t *testing.T) {
	if _, err := NewRemoteManager(nil); err == nil {
		t.Fatal("expected an error for a nil source")
	}
}

func TestRemoteManager_MemoizesListing(t *testing.T) {
	src := newFakeSource("a.png", "b.jpg")
	rm, err := NewRemoteManager(src)
	if err != nil {
		t.Fatalf("NewRemoteManager: %v", err)
	}

	ctx := context.Background()
	first, err := rm.ListImages(ctx)
	if err != nil {
		t.Fatalf("ListImages: %v", err)
	}
	second, err := rm.ListImages(ctx)
	if err != nil {
		t.Fatalf("ListImages: %v", err)
	}

	if src.calls() != 1 {
		t.Errorf("source listed %d times, want 1", src.calls())
	}
	if !slices.Equal(first, second) {
		t.Errorf("memoized listing %v differs from first %v", second, first)
	}

	// changes at the source stay invisible until invalidated
	src.setNames("c.gif")
	third, _ := rm.ListImages(ctx)
	if !slices.Equal(third, first) {
		t.Errorf("listing = %v before invalidation, want %v", third, first)
	}
}

func TestRemoteManager_InvalidateRefetches(t *testing.T) {
	src := newFakeSource("a.png", "b.jpg")
	rm, err := NewRemoteManager(src)
	if err != nil {
		t.Fatalf("NewRemoteManager: %v", err)
	}

	ctx := context.Background()
	before, _ := rm.ListImages(ctx)
	rm.Invalidate()
	after, err := rm.ListImages(ctx)
	if err != nil {
		t.Fatalf("ListImages: %v", err)
	}

	if src.calls() != 2 {
		t.Errorf("source listed %d times, want 2", src.calls())
	}
	// an unchanged directory lists the same after a refresh
	if !slices.Equal(before, after) {
		t.Errorf("listing after refresh = %v, want %v", after, before)
	}

	src.setNames("c.gif")
	rm.Invalidate()
	changed, _ := rm.ListImages(ctx)
	if !slices.Equal(changed, []string{"c.gif"}) {
		t.Errorf("listing after second refresh = %v, want [c.gif]", changed)
	}
}

func TestRemoteManager_FailuresAreNotMemoized(t *testing.T) {
	src := newFakeSource("a.png")
	src.setListErr(errors.New("boom"))
	rm, err := NewRemoteManager(src)
	if err != nil {
		t.Fatalf("NewRemoteManager: %v", err)
	}

	ctx := context.Background()
	names, err := rm.ListImages(ctx)
	if !errors.Is(err, gallery.ErrListingFetch) {
		t.Fatalf("error = %v, want ErrListingFetch", err)
	}
	if names == nil || len(names) != 0 {
		t.Fatalf("names = %#v, want an empty non-nil slice", names)
	}

	src.setListErr(nil)
	names, err = rm.ListImages(ctx)
	if err != nil {
		t.Fatalf("ListImages after recovery: %v", err)
	}
	if !slices.Equal(names, []string{"a.png"}) {
		t.Errorf("names = %v, want [a.png]", names)
	}
	if src.calls() != 2 {
		t.Errorf("source listed %d times, want 2", src.calls())
	}
}

func TestRemoteManager_ReturnsCopies(t *testing.T) {
	src := newFakeSource("a.png", "b.jpg")
	rm, err := NewRemoteManager(src)
	if err != nil {
		t.Fatalf("NewRemoteManager: %v", err)
	}

	ctx := context.Background()
	names, _ := rm.ListImages(ctx)
	names[0] = "mutated.png"

	again, _ := rm.ListImages(ctx)
	if again[0] != "a.png" {
		t.Errorf("cached listing was mutated through a returned slice: %v", again)
	}
}

func TestRemoteManager_Passthrough(t *testing.T) {
	src := newFakeSource("a.png")
	rm, err := NewRemoteManager(src)
	if err != nil {
		t.Fatalf("NewRemoteManager: %v", err)
	}

	if got := rm.Endpoint(); got != "fake://images" {
		t.Errorf("Endpoint() = %q", got)
	}
	if got := rm.ImageURL("a.png"); got != "https://img.test/a.png" {
		t.Errorf("ImageURL() = %q", got)
	}

	data, err := rm.FetchImage(context.Background(), "a.png")
	if err != nil {
		t.Fatalf("FetchImage: %v", err)
	}
	if string(data) != string(pngBytes("a.png")) {
		t.Errorf("FetchImage returned %q", data)
	}
	if _, err := rm.FetchImage(context.Background(), "missing.png"); !errors.Is(err, gallery.ErrImageFetch) {
		t.Errorf("error = %v, want ErrImageFetch", err)
	}
}
