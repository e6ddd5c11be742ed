// Package api holds the OpenAPI document describing the HTTP interface.
package api

import _ "embed"

//go:embed openapi.yml
var OpenAPISpec []byte
