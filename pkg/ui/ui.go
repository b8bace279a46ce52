package ui

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"
)

// Raw renders pre-sanitized HTML as-is. The caller is responsible for
// sanitizing untrusted input first.
func Raw(htmlContent string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, htmlContent)
		return err
	})
}

// Text renders escaped plain text.
func Text(s string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, html.EscapeString(s))
		return err
	})
}

// Page wraps body in a minimal HTML document with the given title.
func Page(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, "<!doctype html><html><head><meta charset=\"utf-8\"><title>%s</title></head><body>", html.EscapeString(title)); err != nil {
			return err
		}
		if body != nil {
			if err := body.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</body></html>")
		return err
	})
}

// ErrorPage renders a minimal error document for HTML error responses.
func ErrorPage(status int, message string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, "<main><h1>%d</h1><p>%s</p></main>", status, html.EscapeString(message))
		return err
	})
	return Page(fmt.Sprintf("%d", status), body)
}

// Join renders components in sequence.
func Join(components ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, comp := range components {
			if comp == nil {
				continue
			}
			if err := comp.Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}
