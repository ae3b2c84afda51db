// Package gallery holds the listing level operations shared by the grid and
// slideshow views.
package gallery

import (
	"errors"
	"math/rand"
)

// GridColumns is the fixed number of columns of the grid view.
const GridColumns = 3

var (
	// ErrListingFetch is returned when the directory listing cannot be fetched
	// or decoded.
	ErrListingFetch = errors.New("listing fetch failed")
	// ErrImageFetch is returned when a single image does not come back with a
	// 200.
	ErrImageFetch = errors.New("image fetch failed")
	// ErrEmptyListing marks a listing with no supported images.
	ErrEmptyListing = errors.New("no images found")
)

type ViewMode string

const (
	ViewGrid      ViewMode = "grid"
	ViewSlideshow ViewMode = "slideshow"
)

// ParseViewMode maps a form value onto a view mode, defaulting to the grid.
func ParseViewMode(s string) ViewMode {
	if ViewMode(s) == ViewSlideshow {
		return ViewSlideshow
	}
	return ViewGrid
}

// Shuffle returns a permutation of names determined by seed. names is left
// untouched so the cached listing is never reordered.
func Shuffle(names []string, seed int64) []string {
	shuffled := make([]string, len(names))
	copy(shuffled, names)
	if len(shuffled) > 1 {
		r := rand.New(rand.NewSource(seed))
		r.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
	}
	return shuffled
}

// NewSeed draws a fresh shuffle seed.
func NewSeed() int64 {
	return rand.Int63()
}

// Columns lays names out over n columns, name i landing in column i mod n.
func Columns(names []string, n int) [][]string {
	if n <= 0 {
		return nil
	}
	cols := make([][]string, n)
	for i, name := range names {
		cols[i%n] = append(cols[i%n], name)
	}
	return cols
}
