package handlers

import (
	"crypto/rand"
	_ "embed"
	"encoding/base64"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

//go:embed openapi.json
var openAPISpec []byte

const (
	swaggerUIVersion = "4.15.5"
	redocVersion     = "2.1.5"
)

// DocsHandler serves the OpenAPI document and the interactive docs pages
type DocsHandler struct {
	logger *zap.Logger
}

// NewDocsHandler creates a new DocsHandler
func NewDocsHandler(logger *zap.Logger) *DocsHandler {
	return &DocsHandler{logger: logger}
}

// HandleOpenAPI handles GET /openapi.json
func (h *DocsHandler) HandleOpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(openAPISpec); err != nil {
		h.logger.Error("failed to write openapi document", zap.Error(err))
	}
}

// HandleSwaggerUI handles GET /docs
func (h *DocsHandler) HandleSwaggerUI(w http.ResponseWriter, r *http.Request) {
	h.servePage(w, func(nonce string) string {
		return fmt.Sprintf(`<!DOCTYPE html>
<html>
	<head>
		<title>Insurance Claims Audit API - Swagger UI</title>
		<meta charset="utf-8"/>
		<meta name="viewport" content="width=device-width, initial-scale=1">
		<link rel="stylesheet" href="https://cdnjs.cloudflare.com/ajax/libs/swagger-ui/%[1]s/swagger-ui.min.css">
	</head>
	<body>
		<div id="swagger-ui"></div>
		<script src="https://cdnjs.cloudflare.com/ajax/libs/swagger-ui/%[1]s/swagger-ui-bundle.min.js" crossorigin></script>
		<script nonce="%[2]s">
		window.onload = function() {
			window.ui = SwaggerUIBundle({
				url: "openapi.json",
				dom_id: "#swagger-ui",
				deepLinking: true,
				presets: [SwaggerUIBundle.presets.apis],
				layout: "BaseLayout"
			})
		}
		</script>
	</body>
</html>`, swaggerUIVersion, nonce)
	})
}

// HandleRedoc handles GET /redoc
func (h *DocsHandler) HandleRedoc(w http.ResponseWriter, r *http.Request) {
	h.servePage(w, func(nonce string) string {
		return fmt.Sprintf(`<!DOCTYPE html>
<html>
	<head>
		<title>Insurance Claims Audit API - ReDoc</title>
		<meta charset="utf-8"/>
		<meta name="viewport" content="width=device-width, initial-scale=1">
		<style nonce="%[2]s">body { margin: 0; padding: 0; }</style>
	</head>
	<body>
		<redoc spec-url="openapi.json"></redoc>
		<script src="https://cdn.jsdelivr.net/npm/redoc@%[1]s/bundles/redoc.standalone.js" crossorigin></script>
	</body>
</html>`, redocVersion, nonce)
	})
}

// servePage writes an HTML page under a per-request nonce Content Security Policy.
// Spec URLs are relative so the pages work under a proxy prefix.
func (h *DocsHandler) servePage(w http.ResponseWriter, render func(nonce string) string) {
	nb := make([]byte, 16)
	if _, err := rand.Read(nb); err != nil {
		http.Error(w, "failed to generate nonce", http.StatusInternalServerError)
		return
	}
	nonce := base64.StdEncoding.EncodeToString(nb)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Security-Policy", fmt.Sprintf(
		"default-src 'self' https:; script-src 'self' 'nonce-%s' https:; style-src 'self' 'nonce-%s' https:; img-src 'self' data: https:; font-src 'self' https:; worker-src 'self' blob:; connect-src 'self' https:",
		nonce, nonce,
	))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(render(nonce))); err != nil {
		h.logger.Error("failed to write docs page", zap.Error(err))
	}
}
