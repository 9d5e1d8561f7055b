// Package zoning serves the fixed OpenAPI descriptor of the Chicago parcel and
// zoning lookup. It performs no lookups itself.
package zoning

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"net/http"
	"strconv"
)

//go:embed zoning_openapi.json
var rawDescriptor []byte

// compact is the served form of the descriptor.
var compact = func() []byte {
	var buf bytes.Buffer
	if err := json.Compact(&buf, rawDescriptor); err != nil {
		panic("zoning: embedded descriptor is not valid JSON: " + err.Error())
	}
	return buf.Bytes()
}()

const (
	allowOrigin  = "*"
	allowMethods = "GET, OPTIONS"
	allowHeaders = "Content-Type"
)

// Descriptor returns a copy of the descriptor document.
func Descriptor() []byte {
	return append([]byte(nil), compact...)
}

// Document decodes the descriptor into a generic JSON object.
func Document() (map[string]interface{}, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(compact, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Handler answers GET with the descriptor and OPTIONS with an empty 204.
func Handler() http.Handler {
	return http.HandlerFunc(serve)
}

func serve(w http.ResponseWriter, r *http.Request) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", allowOrigin)
	h.Set("Access-Control-Allow-Methods", allowMethods)
	h.Set("Access-Control-Allow-Headers", allowHeaders)

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
	case http.MethodGet, http.MethodHead:
		h.Set("Content-Type", "application/json")
		h.Set("Content-Length", strconv.Itoa(len(compact)))
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodGet {
			_, _ = w.Write(compact)
		}
	default:
		h.Set("Allow", "GET, HEAD, OPTIONS")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
