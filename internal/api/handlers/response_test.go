package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name  string `json:"name" validate:"required,max=5"`
	Count int    `json:"count" validate:"gte=1"`
}

func TestDecodeJSON(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"name":"abc","count":2}`, false},
		{"empty", ``, true},
		{"broken", `{"name":`, true},
		{"unknown field", `{"name":"abc","count":2,"extra":1}`, true},
		{"missing required", `{"count":2}`, true},
		{"too long", `{"name":"abcdefgh","count":2}`, true},
		{"count below min", `{"name":"abc","count":0}`, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			var req sampleRequest
			err := DecodeJSON(r, &req)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "abc", req.Name)
		})
	}
}

func TestRespondError(t *testing.T) {
	w := httptest.NewRecorder()
	RespondConflict(w, "слот занят")

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, http.StatusConflict, body.Code)
	assert.Equal(t, "слот занят", body.Message)
}

func TestRespondInternalError_HidesDetails(t *testing.T) {
	w := httptest.NewRecorder()
	RespondInternalError(w)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), msgInternalError)
}

func TestRespondJSON_NilBody(t *testing.T) {
	w := httptest.NewRecorder()
	RespondJSON(w, http.StatusNoContent, nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}
