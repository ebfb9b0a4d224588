package servers

import (
	_ "embed"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var openapiDocument []byte

// RawSpec returns the OpenAPI document as embedded.
func RawSpec() []byte {
	return openapiDocument
}

// GetSwagger parses the embedded OpenAPI document. Every call returns a fresh copy.
func GetSwagger() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openapiDocument)
	if err != nil {
		return nil, fmt.Errorf("error loading embedded openapi document: %w", err)
	}
	return doc, nil
}
