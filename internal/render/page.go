package render

import (
	"io"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// Page wraps an already-rendered document body in a standalone HTML page.
func Page(title, body string) g.Node {
	return h.Doctype(
		h.HTML(h.Lang("en"),
			h.Head(
				h.Meta(h.Charset("utf-8")),
				h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1")),
				h.TitleEl(g.Text(title)),
			),
			h.Body(g.Raw(body)),
		),
	)
}

// WritePage renders a standalone page to w.
func WritePage(w io.Writer, title, body string) error {
	return Page(title, body).Render(w)
}
