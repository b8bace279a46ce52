package ui

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/microframe-dev/microframe/pkg/sanitizer"
)

var (
	mdOnce sync.Once
	md     goldmark.Markdown
)

func markdown() goldmark.Markdown {
	mdOnce.Do(func() {
		md = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		)
	})
	return md
}

// Markdown renders GitHub-flavored markdown to sanitized HTML. The rendered
// output passes through the HTML sanitizer, so untrusted markdown is safe to
// serve.
func Markdown(source string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		if err := markdown().Convert([]byte(source), &buf); err != nil {
			return err
		}
		_, err := io.WriteString(w, sanitizer.SanitizeHTML(buf.String()))
		return err
	})
}
