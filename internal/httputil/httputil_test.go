package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON_SuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusOK, map[string]string{"name": "library"})

	assert.Equal(t, http.StatusOK, rec.Code)
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Empty(t, env.Error)
}

func TestWriteError_ErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusNotFound, "not_found", "index not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Equal(t, "not_found", env.Error)
	assert.Equal(t, "index not found", env.Message)
	assert.Nil(t, env.Data)
}

func TestReadJSON_DecodesBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
	var dst struct {
		Name string `json:"name"`
	}
	require.NoError(t, ReadJSON(req, &dst))
	assert.Equal(t, "x", dst.Name)
}
