package httputil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.com"}`))

	var dest struct {
		Email string `json:"email"`
	}
	require.NoError(t, ParseJSON(req, &dest))
	assert.Equal(t, "a@b.com", dest.Email)
}

func TestParseJSONOrError_BadBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{broken`))
	rec := httptest.NewRecorder()

	var dest map[string]interface{}
	ok := ParseJSONOrError(rec, req, &dest)

	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReadBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Acme"}`))

	raw, err := ReadBody(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Acme"}`, string(raw))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("not json"))
	_, err = ReadBody(req)
	assert.Error(t, err)
}
