package api

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aouyang1/repogallery/api/web/templates"
	"github.com/aouyang1/repogallery/gallery"
	"github.com/aouyang1/repogallery/slideshow"
	"github.com/aouyang1/repogallery/store"
	"github.com/gabriel-vasile/mimetype"
)

const noImagesWarning = "No images found in the image directory."

// loadListing returns the listing in the order the session sees it plus the
// warnings to show. An empty listing always carries a warning.
func (ws *WebServer) loadListing(ctx context.Context, sess *store.Session) ([]string, []string) {
	var warnings []string

	names, err := ws.remote.ListImages(ctx)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("Error fetching images: %v", err))
	}
	if len(names) == 0 {
		warnings = append(warnings, noImagesWarning)
		return names, warnings
	}

	if sess.Shuffle {
		names = gallery.Shuffle(names, sess.ShuffleSeed)
	}
	return names, warnings
}

// buildView recomputes the whole view from the current listing and session.
func (ws *WebServer) buildView(ctx context.Context, sess *store.Session) templates.ViewData {
	names, warnings := ws.loadListing(ctx, sess)
	mode := gallery.ParseViewMode(sess.ViewMode)

	data := templates.ViewData{
		Mode:     string(mode),
		Warnings: warnings,
	}
	if len(names) == 0 {
		return data
	}

	switch mode {
	case gallery.ViewSlideshow:
		data.Slide = ws.buildSlide(ctx, names, sess.Position)
	default:
		data.Columns = ws.buildColumns(names)
	}
	return data
}

func (ws *WebServer) buildColumns(names []string) [][]templates.GridCell {
	cols := gallery.Columns(names, gallery.GridColumns)
	cells := make([][]templates.GridCell, len(cols))
	for i, col := range cols {
		cells[i] = make([]templates.GridCell, 0, len(col))
		for _, name := range col {
			cells[i] = append(cells[i], templates.GridCell{
				Name:     name,
				ImageURL: ws.remote.ImageURL(name),
			})
		}
	}
	return cells
}

// buildSlide fetches the image under the clamped position. A failed fetch
// leaves the slide with its caption only.
func (ws *WebServer) buildSlide(ctx context.Context, names []string, position int) *templates.Slide {
	state := slideshow.New(position, len(names))
	idx, ok := state.Index()
	if !ok {
		return nil
	}

	slide := &templates.Slide{
		Name:     names[idx],
		Position: state.Position(),
		Total:    state.Len(),
	}

	data, err := ws.remote.FetchImage(ctx, slide.Name)
	if err != nil {
		slog.Warn("unable to fetch slideshow image", "name", slide.Name, "position", slide.Position, "error", err)
		return slide
	}
	slide.Image = data
	slide.ContentType = mimetype.Detect(data).String()
	return slide
}
