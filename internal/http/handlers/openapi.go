package handlers

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
)

//go:embed openapi.json
var openAPISpec []byte

const docsPage = `<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <title>Dataset Generator API</title>
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <style>body { margin: 0; } redoc { display: block; height: 100vh; }</style>
  </head>
  <body>
    <redoc spec-url="/v1/openapi.json"></redoc>
    <script src="https://cdn.jsdelivr.net/npm/redoc@2.2.0/bundles/redoc.standalone.js"></script>
  </body>
</html>`

// OpenAPIJSON serves the embedded document with the PoseID schema narrowed
// to the ids of the loaded catalog.
func (a *App) OpenAPIJSON(w http.ResponseWriter, _ *http.Request) {
	doc, err := a.openAPIDocument()
	if err != nil {
		a.Logger.Error().Err(err).Msg("http: render openapi document")
		a.error(w, http.StatusInternalServerError, "internal", "openapi document unavailable")
		return
	}
	a.json(w, http.StatusOK, doc)
}

func (a *App) OpenAPIDocs(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(docsPage))
}

func (a *App) openAPIDocument() (map[string]any, error) {
	var doc map[string]any
	if err := json.Unmarshal(openAPISpec, &doc); err != nil {
		return nil, fmt.Errorf("decode openapi: %w", err)
	}
	if a.Catalog == nil {
		return doc, nil
	}
	components, _ := doc["components"].(map[string]any)
	schemas, _ := components["schemas"].(map[string]any)
	poseID, ok := schemas["PoseID"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("openapi: PoseID schema missing")
	}
	poses := a.Catalog.Poses()
	ids := make([]string, 0, len(poses))
	for _, p := range poses {
		ids = append(ids, p.ID)
	}
	poseID["enum"] = ids
	return doc, nil
}
