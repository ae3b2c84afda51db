// Package util is a set of utility variables or methods
package util

import (
	"path/filepath"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// SupportedExt holds the lowercased image extensions shown by the gallery.
var SupportedExt = mapset.NewSet(
	".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp",
)

// IsSupportedImage reports whether name carries one of the supported image
// extensions, ignoring case.
func IsSupportedImage(name string) bool {
	return SupportedExt.Contains(strings.ToLower(filepath.Ext(name)))
}

// FilterImages keeps the supported image names in their original order and
// drops repeated names.
func FilterImages(names []string) []string {
	seen := mapset.NewThreadUnsafeSet[string]()
	images := make([]string, 0, len(names))
	for _, name := range names {
		if !IsSupportedImage(name) || seen.Contains(name) {
			continue
		}
		seen.Add(name)
		images = append(images, name)
	}
	return images
}
