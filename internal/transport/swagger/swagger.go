package swagger

import (
	"context"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	httpSwagger "github.com/swaggo/http-swagger"
)

// SpecURL is where the router serves the OpenAPI document.
const SpecURL = "/openapi.yml"

// Load reads the OpenAPI document at path and validates it, so a broken
// document fails at startup instead of in the browser.
func Load(ctx context.Context, path string) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load openapi document %s: %w", path, err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid openapi document %s: %w", path, err)
	}
	return doc, nil
}

// SpecHandler serves the validated document as JSON-compatible YAML.
func SpecHandler(doc *openapi3.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := doc.MarshalJSON()
		if err != nil {
			http.Error(w, "openapi document unavailable", http.StatusInternalServerError)
			return
		}
		// JSON is a YAML subset.
		w.Header().Set("Content-Type", "application/yaml")
		w.Write(body)
	})
}

// Handler serves the Swagger UI pointed at SpecURL.
func Handler() http.Handler {
	return httpSwagger.Handler(
		httpSwagger.URL(SpecURL),
	)
}
