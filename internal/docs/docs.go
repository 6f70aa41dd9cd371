// Package docs serves the OpenAPI description of the API.
package docs

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed openapi.yaml
var openAPISource []byte

// Handler serves the OpenAPI document as JSON and YAML.
type Handler struct {
	json     []byte
	yaml     []byte
	notFound http.HandlerFunc
}

// NewHandler renders the embedded document with serverURL as its only server.
// Unknown paths under /api-docs are answered by notFound.
func NewHandler(serverURL string, notFound http.HandlerFunc) (*Handler, error) {
	var document map[string]any
	if err := yaml.Unmarshal(openAPISource, &document); err != nil {
		return nil, fmt.Errorf("failed to parse openapi document: %w", err)
	}

	if serverURL != "" {
		servers, ok := document["servers"].([]any)
		if !ok || len(servers) == 0 {
			return nil, errors.New("openapi document has no servers")
		}
		server, ok := servers[0].(map[string]any)
		if !ok {
			return nil, errors.New("openapi server entry is not an object")
		}
		server["url"] = serverURL
	}

	jsonDoc, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to render openapi document as json: %w", err)
	}
	yamlDoc, err := yaml.Marshal(document)
	if err != nil {
		return nil, fmt.Errorf("failed to render openapi document as yaml: %w", err)
	}

	return &Handler{json: jsonDoc, yaml: yamlDoc, notFound: notFound}, nil
}

// ServeHTTP answers /api-docs and /api-docs/openapi.json with JSON and
// /api-docs/openapi.yaml with YAML.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch strings.TrimSuffix(r.URL.Path, "/") {
	case "/api-docs", "/api-docs/openapi.json":
		h.write(w, "application/json; charset=utf-8", h.json)
	case "/api-docs/openapi.yaml":
		h.write(w, "application/yaml; charset=utf-8", h.yaml)
	default:
		if h.notFound != nil {
			h.notFound(w, r)
			return
		}
		http.NotFound(w, r)
	}
}

func (h *Handler) write(w http.ResponseWriter, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
