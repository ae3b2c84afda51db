package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

const listingCacheSize = 8

// Source is a directory of images that can be listed and downloaded.
type Source interface {
	// Endpoint identifies the listing; it keys the listing memo.
	Endpoint() string
	ListImages(ctx context.Context) ([]string, error)
	FetchImage(ctx context.Context, name string) ([]byte, error)
	// ImageURL is a URL a browser can load the image from directly.
	ImageURL(name string) string
}

// RemoteManager memoizes the listing of a Source per endpoint until
// Invalidate is called.
type RemoteManager struct {
	source Source

	// held across a remote listing so concurrent misses only fetch once
	mu       sync.Mutex
	listings *lru.Cache[string, []string]
}

func NewRemoteManager(source Source) (*RemoteManager, error) {
	if source == nil {
		return nil, errors.New("no image source provided to remote manager")
	}

	listings, err := lru.New[string, []string](listingCacheSize)
	if err != nil {
		return nil, fmt.Errorf("unable to create listing cache, %w", err)
	}

	return &RemoteManager{
		source:   source,
		listings: listings,
	}, nil
}

// ListImages returns a copy of the memoized listing, fetching it on a miss.
// Failed fetches are not memoized and return an empty slice with the error.
func (r *RemoteManager) ListImages(ctx context.Context) ([]string, error) {
	key := r.source.Endpoint()

	r.mu.Lock()
	defer r.mu.Unlock()

	if names, ok := r.listings.Get(key); ok {
		listingCacheHits.Inc()
		return slices.Clone(names), nil
	}

	names, err := r.source.ListImages(ctx)
	if err != nil {
		listingFetches.WithLabelValues("error").Inc()
		slog.Warn("error while listing images", "endpoint", key, "error", err)
		return []string{}, err
	}
	listingFetches.WithLabelValues("ok").Inc()

	if names == nil {
		names = []string{}
	}
	r.listings.Add(key, slices.Clone(names))
	slog.Info("fetched image listing", "endpoint", key, "count", len(names))

	return names, nil
}

// Invalidate clears every memoized listing.
func (r *RemoteManager) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.listings.Purge()
	listingInvalidations.Inc()
	slog.Info("listing cache invalidated")
}

func (r *RemoteManager) FetchImage(ctx context.Context, name string) ([]byte, error) {
	data, err := r.source.FetchImage(ctx, name)
	if err != nil {
		imageFetches.WithLabelValues("error").Inc()
		return nil, err
	}
	imageFetches.WithLabelValues("ok").Inc()
	return data, nil
}

func (r *RemoteManager) ImageURL(name string) string {
	return r.source.ImageURL(name)
}

func (r *RemoteManager) Endpoint() string {
	return r.source.Endpoint()
}
