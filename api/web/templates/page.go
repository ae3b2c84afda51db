package templates

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

type PageData struct {
	Title    string
	Source   string
	ViewMode string
	Shuffle  bool
}

// Page is the full document: sidebar controls plus the #view container the
// view fragments are swapped into.
func Page(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
		b.WriteString("  <meta charset=\"UTF-8\">\n")
		b.WriteString("  <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
		fmt.Fprintf(&b, "  <title>%s</title>\n", attr(data.Title))
		b.WriteString("  <script src=\"https://unpkg.com/htmx.org@1.9.10\"></script>\n")
		b.WriteString("  <link rel=\"stylesheet\" href=\"/static/css/gallery.css\">\n")
		b.WriteString("</head>\n<body>\n")

		b.WriteString("<aside class=\"sidebar\">\n")
		b.WriteString("  <h2>Gallery Controls</h2>\n")
		b.WriteString("  <form class=\"controls\" hx-put=\"/settings\" hx-trigger=\"change\" hx-target=\"#view\" hx-swap=\"innerHTML\">\n")
		b.WriteString("    <fieldset>\n      <legend>View Mode</legend>\n")
		fmt.Fprintf(&b, "      <label><input type=\"radio\" name=\"view_mode\" value=\"grid\"%s> Gallery Grid</label>\n", checked(data.ViewMode != "slideshow"))
		fmt.Fprintf(&b, "      <label><input type=\"radio\" name=\"view_mode\" value=\"slideshow\"%s> Slideshow</label>\n", checked(data.ViewMode == "slideshow"))
		b.WriteString("    </fieldset>\n")
		fmt.Fprintf(&b, "    <label><input type=\"checkbox\" name=\"shuffle\" value=\"true\"%s> Shuffle Images</label>\n", checked(data.Shuffle))
		b.WriteString("  </form>\n")
		b.WriteString("  <button class=\"refresh-btn\" hx-post=\"/refresh\" hx-target=\"#view\" hx-swap=\"innerHTML\">Refresh</button>\n")
		fmt.Fprintf(&b, "  <p class=\"source\">%s</p>\n", attr(data.Source))
		b.WriteString("</aside>\n")

		b.WriteString("<main class=\"container\">\n")
		fmt.Fprintf(&b, "  <h1>%s</h1>\n", attr(data.Title))
		b.WriteString("  <div id=\"view\" class=\"loading\" hx-get=\"/ui/view\" hx-trigger=\"load\" hx-swap=\"innerHTML\">Loading...</div>\n")
		b.WriteString("</main>\n")

		b.WriteString("</body>\n</html>\n")
		_, err := io.WriteString(w, b.String())
		return err
	})
}
