package templates

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// ViewData is everything one render of the view needs.
type ViewData struct {
	Mode     string
	Warnings []string
	// Columns is set for the grid view.
	Columns [][]GridCell
	// Slide is set for the slideshow view.
	Slide *Slide
}

type GridCell struct {
	Name     string
	ImageURL string
}

type Slide struct {
	Name        string
	Position    int
	Total       int
	Image       []byte
	ContentType string
}

// View renders the warnings followed by whichever view the data carries.
func View(data ViewData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := Warnings(data.Warnings).Render(ctx, w); err != nil {
			return err
		}
		switch {
		case data.Slide != nil:
			return Slideshow(*data.Slide).Render(ctx, w)
		case data.Columns != nil:
			return Grid(data.Columns).Render(ctx, w)
		}
		return nil
	})
}

func Warnings(warnings []string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		for _, warning := range warnings {
			fmt.Fprintf(&b, "<div class=\"warning\" role=\"alert\">%s</div>\n", attr(warning))
		}
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func Grid(columns [][]GridCell) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<div class=\"grid\">\n")
		for _, column := range columns {
			b.WriteString("  <div class=\"grid-column\">\n")
			for _, cell := range column {
				b.WriteString("    <figure class=\"grid-cell\">\n")
				fmt.Fprintf(&b, "      <img src=\"%s\" alt=\"%s\" loading=\"lazy\" />\n", urlAttr(cell.ImageURL), attr(cell.Name))
				fmt.Fprintf(&b, "      <figcaption>%s</figcaption>\n", attr(cell.Name))
				fmt.Fprintf(&b, "      <a class=\"download-btn\" href=\"%s\" download=\"%s\">Download</a>\n", urlAttr(downloadURL(cell.Name)), attr(cell.Name))
				b.WriteString("    </figure>\n")
			}
			b.WriteString("  </div>\n")
		}
		b.WriteString("</div>\n")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func Slideshow(slide Slide) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<section class=\"slideshow\">\n")
		b.WriteString("  <h3>Slideshow</h3>\n")
		fmt.Fprintf(&b,
			"  <input type=\"range\" class=\"slider\" name=\"position\" min=\"1\" max=\"%d\" value=\"%d\" step=\"1\" "+
				"hx-post=\"/slideshow/jump\" hx-trigger=\"change\" hx-target=\"#view\" hx-swap=\"innerHTML\" />\n",
			slide.Total, slide.Position,
		)
		fmt.Fprintf(&b, "  <div class=\"slide-position\">%d / %d</div>\n", slide.Position, slide.Total)

		b.WriteString("  <figure class=\"slide\">\n")
		if len(slide.Image) > 0 {
			fmt.Fprintf(&b, "    <img src=\"%s\" alt=\"%s\" />\n", attr(string(imageDataURI(slide.ContentType, slide.Image))), attr(slide.Name))
		}
		fmt.Fprintf(&b, "    <figcaption>%s</figcaption>\n", attr(slide.Name))
		b.WriteString("  </figure>\n")
		if len(slide.Image) > 0 {
			fmt.Fprintf(&b, "  <a class=\"download-btn\" href=\"%s\" download=\"%s\">Download this image</a>\n", urlAttr(downloadURL(slide.Name)), attr(slide.Name))
		}

		b.WriteString("  <div class=\"slide-nav\">\n")
		b.WriteString("    <button class=\"nav-btn\" hx-post=\"/slideshow/previous\" hx-target=\"#view\" hx-swap=\"innerHTML\">Previous</button>\n")
		b.WriteString("    <button class=\"nav-btn\" hx-post=\"/slideshow/next\" hx-target=\"#view\" hx-swap=\"innerHTML\">Next</button>\n")
		b.WriteString("  </div>\n")
		b.WriteString("</section>\n")
		_, err := io.WriteString(w, b.String())
		return err
	})
}
