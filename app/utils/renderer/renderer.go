package renderer

import (
	"github.com/unrolled/render"
)

// New returns the renderer shared by every handler. Replies are JSON only;
// indent is meant for development.
func New(indent bool) *render.Render {
	return render.New(render.Options{
		IndentJSON:                indent,
		UnEscapeHTML:              true,
		DisableHTTPErrorRendering: true,
		Charset:                   "UTF-8",
	})
}
