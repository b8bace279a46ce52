// Package ui provides small templ-compatible building blocks for HTML
// responses: raw and escaped fragments, a minimal page shell, an error page,
// and sanitized markdown rendering.
//
// Every helper returns a templ.Component, so handlers can return them
// directly and let the response normalizer render HTML:
//
//	func (h *DocsHandler) show(c microframe.Context, p microframe.Params) (any, error) {
//	    doc, err := h.store.Get(c, p.String("slug"))
//	    if err != nil {
//	        return nil, microframe.ErrNotFound("document not found")
//	    }
//	    return ui.Page(doc.Title, ui.Markdown(doc.Body)), nil
//	}
package ui
