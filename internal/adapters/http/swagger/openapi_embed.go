// Package swagger serves the OpenAPI document and a ReDoc viewer for it.
package swagger

import _ "embed"

// OpenAPI contains the embedded OpenAPI YAML specification.
//
//go:embed openapi.yaml
var OpenAPI []byte
