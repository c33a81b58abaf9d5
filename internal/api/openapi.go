// SPDX-License-Identifier: MIT

package api

import (
	_ "embed"
	"fmt"
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var openapiSpec []byte

var (
	openapiOnce sync.Once
	openapiDoc  *openapi3.T
	openapiErr  error
)

// OpenAPI parses the embedded command API document.
func OpenAPI() (*openapi3.T, error) {
	openapiOnce.Do(func() {
		doc, err := openapi3.NewLoader().LoadFromData(openapiSpec)
		if err != nil {
			openapiErr = fmt.Errorf("load openapi: %w", err)
			return
		}
		openapiDoc = doc
	})
	return openapiDoc, openapiErr
}

func handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(openapiSpec)
}

func handleOpenAPIJSON(w http.ResponseWriter, r *http.Request) {
	doc, err := OpenAPI()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "openapi_unavailable", Detail: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, doc)
}
