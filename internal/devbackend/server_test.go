package devbackend

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServer_Errors(t *testing.T) {
	s, _ := newTestStore(t)
	res := register(t, s, "ada@example.com")
	h := NewServer(s, nil).Handler()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		auth   string
		status int
		want   string
	}{
		{"missing bearer", http.MethodGet, "/tasks", "", "", http.StatusUnauthorized, `"missing bearer token"`},
		{"bad bearer", http.MethodGet, "/auth/me", "", "Bearer nope", http.StatusUnauthorized, `"invalid or expired token"`},
		{"bad json", http.MethodPost, "/auth/login", "{", "", http.StatusBadRequest, `"invalid JSON"`},
		{"validation", http.MethodPost, "/tasks", `{"title":""}`, "Bearer " + res.AccessToken, http.StatusBadRequest, `"field":"title"`},
		{"duplicate", http.MethodPost, "/auth/register", `{"name":"Ada","email":"ada@example.com","password":"secret1"}`, "", http.StatusConflict, `"Conflict"`},
		{"not found", http.MethodGet, "/tasks/0b6f0a44-5a2b-4d7e-9a52-6f6c1b0c8e11", "", "Bearer " + res.AccessToken, http.StatusNotFound, `"task not found"`},
		{"bad cursor", http.MethodGet, "/tasks?cursor=zz", "", "Bearer " + res.AccessToken, http.StatusBadRequest, `"invalid cursor"`},
		{"no route", http.MethodGet, "/nope", "", "", http.StatusNotFound, `"no such endpoint"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestServer_Me(t *testing.T) {
	s, _ := newTestStore(t)
	res := register(t, s, "ada@example.com")
	h := NewServer(s, nil).Handler()

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+res.AccessToken)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"ada@example.com"`)
}
