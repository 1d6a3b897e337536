package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWriteData(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteData(rec, http.StatusOK, map[string]string{"name": "Acme"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Acme", body["data"].(map[string]interface{})["name"])
	assert.NotContains(t, body, "total")
	assert.NotContains(t, body, "message")
}

func TestWritePage(t *testing.T) {
	rec := httptest.NewRecorder()
	WritePage(rec, []string{"a", "b"}, 42, 2, 10)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(42), body["total"])
	assert.Equal(t, float64(2), body["page"])
	assert.Equal(t, float64(10), body["limit"])
}

func TestWritePage_ZeroTotalStillPresent(t *testing.T) {
	rec := httptest.NewRecorder()
	WritePage(rec, []string{}, 0, 1, 10)

	// Pointer fields keep zero values in the payload instead of omitting
	// them.
	body := decodeBody(t, rec)
	assert.Contains(t, body, "total")
	assert.Equal(t, float64(0), body["total"])
}

func TestWriteErrorVariants(t *testing.T) {
	tests := []struct {
		name        string
		write       func(w http.ResponseWriter)
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "validation",
			write:       func(w http.ResponseWriter) { WriteValidationError(w, "name is required") },
			wantStatus:  http.StatusBadRequest,
			wantMessage: "name is required",
		},
		{
			name:        "not found",
			write:       func(w http.ResponseWriter) { WriteNotFound(w) },
			wantStatus:  http.StatusNotFound,
			wantMessage: "Not found",
		},
		{
			name:        "unauthorized",
			write:       func(w http.ResponseWriter) { WriteUnauthorized(w, "Invalid credentials") },
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Invalid credentials",
		},
		{
			name:        "forbidden",
			write:       func(w http.ResponseWriter) { WriteForbidden(w, "forbidden: insufficient role") },
			wantStatus:  http.StatusForbidden,
			wantMessage: "forbidden: insufficient role",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantMessage, body["message"])
			assert.NotContains(t, body, "data")
		})
	}
}
