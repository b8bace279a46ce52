package internal

// RouteListing is the JSON shape served by the route listing endpoint.
type RouteListing struct {
	Path        string   `json:"path"`
	Methods     []string `json:"methods"`
	Tags        []string `json:"tags,omitempty"`
	Summary     string   `json:"summary,omitempty"`
	Description string   `json:"description,omitempty"`
	Status      int      `json:"status"`
	Deprecated  bool     `json:"deprecated,omitempty"`
}

// routeListingHandler serves the compiled route table, skipping routes
// hidden from the schema.
func routeListingHandler(a *App) HandlerFunc {
	return func(c Context, _ Params) (any, error) {
		routes := a.Routes()
		out := make([]RouteListing, 0, len(routes))
		for _, r := range routes {
			if !r.IncludeInSchema {
				continue
			}
			out = append(out, RouteListing{
				Path:        r.Path,
				Methods:     r.Methods,
				Tags:        r.Tags,
				Summary:     r.Summary,
				Description: r.Description,
				Status:      r.StatusCode,
				Deprecated:  r.Deprecated,
			})
		}
		return out, nil
	}
}
