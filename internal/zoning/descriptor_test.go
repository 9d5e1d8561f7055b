package zoning

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertCORS(t *testing.T, h http.Header) {
	t.Helper()
	assert.Equal(t, "*", h.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, OPTIONS", h.Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type", h.Get("Access-Control-Allow-Headers"))
}

func TestHandler_Options(t *testing.T) {
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/openapi/zoning", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.Bytes())
	assertCORS(t, rec.Header())
}

func TestHandler_Get(t *testing.T) {
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/openapi/zoning?address=ignored", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assertCORS(t, rec.Header())

	var doc struct {
		OpenAPI string `json:"openapi"`
		Info    struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths map[string]map[string]struct {
			OperationID string `json:"operationId"`
			Parameters  []struct {
				Name     string `json:"name"`
				In       string `json:"in"`
				Required bool   `json:"required"`
				Schema   struct {
					Type    string `json:"type"`
					Example string `json:"example"`
				} `json:"schema"`
			} `json:"parameters"`
			Responses map[string]json.RawMessage `json:"responses"`
		} `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))

	assert.Equal(t, "3.1.0", doc.OpenAPI)
	assert.Equal(t, "Chicago Parcel and Zoning Lookup API", doc.Info.Title)

	get, ok := doc.Paths["/zoning"]["get"]
	require.True(t, ok)
	assert.Equal(t, "getZoningInfo", get.OperationID)
	require.Len(t, get.Parameters, 1)
	assert.Equal(t, "address", get.Parameters[0].Name)
	assert.Equal(t, "query", get.Parameters[0].In)
	assert.True(t, get.Parameters[0].Required)
	assert.Equal(t, "Willis Tower, Chicago", get.Parameters[0].Schema.Example)
	assert.Contains(t, get.Responses, "200")
	assert.Contains(t, string(get.Responses["400"]), "Address parameter is required")
}

func TestHandler_OtherMethods(t *testing.T) {
	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Handler().ServeHTTP(rec, httptest.NewRequest(method, "/api/openapi/zoning", nil))

			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
			assert.Equal(t, "GET, HEAD, OPTIONS", rec.Header().Get("Allow"))
			assertCORS(t, rec.Header())
		})
	}
}

func TestDocument(t *testing.T) {
	doc, err := Document()
	require.NoError(t, err)

	servers, ok := doc["servers"].([]interface{})
	require.True(t, ok)
	require.Len(t, servers, 1)
	assert.Equal(t, "https://capital-match-ai-platform.vercel.app/api", servers[0].(map[string]interface{})["url"])

	// callers cannot mutate the served bytes
	d := Descriptor()
	d[0] = 'x'
	assert.Equal(t, byte('{'), Descriptor()[0])
}
