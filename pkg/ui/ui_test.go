package ui_test

import (
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/require"

	"github.com/microframe-dev/microframe/pkg/ui"
)

func render(t *testing.T, comp templ.Component) string {
	t.Helper()

	var sb strings.Builder
	require.NoError(t, comp.Render(t.Context(), &sb))
	return sb.String()
}

func TestText(t *testing.T) {
	t.Parallel()

	out := render(t, ui.Text(`<script>alert("xss")</script>`))
	require.NotContains(t, out, "<script>")
	require.Contains(t, out, "&lt;script&gt;")
}

func TestRaw(t *testing.T) {
	t.Parallel()

	out := render(t, ui.Raw("<b>trusted</b>"))
	require.Equal(t, "<b>trusted</b>", out)
}

func TestPage(t *testing.T) {
	t.Parallel()

	t.Run("wraps body in a document", func(t *testing.T) {
		t.Parallel()

		out := render(t, ui.Page("Dashboard", ui.Raw("<main>hi</main>")))
		require.True(t, strings.HasPrefix(out, "<!doctype html>"))
		require.Contains(t, out, "<title>Dashboard</title>")
		require.Contains(t, out, "<main>hi</main>")
		require.True(t, strings.HasSuffix(out, "</body></html>"))
	})

	t.Run("escapes the title", func(t *testing.T) {
		t.Parallel()

		out := render(t, ui.Page("<Admin>", nil))
		require.Contains(t, out, "<title>&lt;Admin&gt;</title>")
	})
}

func TestErrorPage(t *testing.T) {
	t.Parallel()

	out := render(t, ui.ErrorPage(404, "page <not> found"))
	require.Contains(t, out, "<title>404</title>")
	require.Contains(t, out, "<h1>404</h1>")
	require.Contains(t, out, "page &lt;not&gt; found")
}

func TestJoin(t *testing.T) {
	t.Parallel()

	out := render(t, ui.Join(ui.Raw("<p>a</p>"), nil, ui.Raw("<p>b</p>")))
	require.Equal(t, "<p>a</p><p>b</p>", out)
}

func TestMarkdown(t *testing.T) {
	t.Parallel()

	t.Run("renders GFM", func(t *testing.T) {
		t.Parallel()

		out := render(t, ui.Markdown("# Title\n\nSome **bold** text."))
		require.Contains(t, out, "<h1")
		require.Contains(t, out, "Title")
		require.Contains(t, out, "<strong>bold</strong>")
	})

	t.Run("strips script injection", func(t *testing.T) {
		t.Parallel()

		out := render(t, ui.Markdown("hello\n\n<script>alert(1)</script>"))
		require.NotContains(t, out, "<script>")
		require.Contains(t, out, "hello")
	})

	t.Run("keeps safe inline HTML", func(t *testing.T) {
		t.Parallel()

		out := render(t, ui.Markdown("a [link](https://example.com)"))
		require.Contains(t, out, `href="https://example.com"`)
	})
}
