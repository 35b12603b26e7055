package httpapi

import (
	_ "embed"
	"net/http"
	"strconv"
)

//go:embed openapi.yaml
var openAPISpec []byte

// docsPage loads Swagger UI from the CDN and points it at the embedded document.
var docsPage = []byte(`<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>matchday-alerts API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({ url: "/openapi.yaml", dom_id: "#swagger-ui", deepLinking: true });
  </script>
</body>
</html>`)

func (h *Handler) OpenAPI(w http.ResponseWriter, r *http.Request) {
	serveStatic(w, r, "OpenAPI", "application/yaml; charset=utf-8", openAPISpec)
}

func (h *Handler) SwaggerUI(w http.ResponseWriter, r *http.Request) {
	serveStatic(w, r, "SwaggerUI", "text/html; charset=utf-8", docsPage)
}

func serveStatic(w http.ResponseWriter, r *http.Request, op, contentType string, body []byte) {
	_, span := handlerSpan(r.Context(), op)
	defer span.End()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
