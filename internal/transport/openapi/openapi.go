// Package openapi loads the embedded API document and serves it to the docs UI.
package openapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/frahmantamala/expense-tracker/api"
	"github.com/getkin/kin-openapi/openapi3"
)

// Document is a parsed and validated copy of the API description.
type Document struct {
	raw []byte
	doc *openapi3.T
}

// Load parses the embedded document and rejects it if it is not valid OpenAPI 3.
func Load(ctx context.Context) (*Document, error) {
	return Parse(ctx, api.OpenAPISpec)
}

func Parse(ctx context.Context, data []byte) (*Document, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}
	return &Document{raw: data, doc: doc}, nil
}

// Version is the info.version of the document.
func (d *Document) Version() string {
	if d.doc.Info == nil {
		return ""
	}
	return d.doc.Info.Version
}

// HasOperation reports whether the document describes method on path. Paths use
// the document's template form, e.g. /expenses/{id}.
func (d *Document) HasOperation(method, path string) bool {
	item := d.doc.Paths.Find(path)
	if item == nil {
		return false
	}
	return item.GetOperation(method) != nil
}

// Operations lists every "METHOD path" pair in the document.
func (d *Document) Operations() []string {
	var ops []string
	for path, item := range d.doc.Paths.Map() {
		for method := range item.Operations() {
			ops = append(ops, method+" "+path)
		}
	}
	return ops
}

// ServeHTTP writes the raw YAML document.
func (d *Document) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(d.raw)
}
