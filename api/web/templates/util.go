package templates

import (
	"encoding/base64"
	"net/url"

	"github.com/a-h/templ"
)

func downloadURL(name string) string {
	return "/images/" + url.PathEscape(name) + "/download"
}

func imageDataURI(contentType string, data []byte) templ.SafeURL {
	return templ.SafeURL("data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data))
}

func attr(s string) string {
	return templ.EscapeString(s)
}

func urlAttr(u string) string {
	return templ.EscapeString(string(templ.URL(u)))
}

func checked(b bool) string {
	if b {
		return " checked"
	}
	return ""
}
