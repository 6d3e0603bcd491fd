package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRowGet(t *testing.T) {
	row := Row{
		"name":   "Ali",
		"age":    float64(12),
		"fee":    125.5,
		"active": true,
		"closed": false,
		"blank":  "",
		"gone":   nil,
	}

	tests := []struct {
		name string
		key  string
		want string
	}{
		{name: "string", key: "name", want: "Ali"},
		{name: "whole number", key: "age", want: "12"},
		{name: "decimal", key: "fee", want: "125.5"},
		{name: "true", key: "active", want: "Yes"},
		{name: "false", key: "closed", want: "No"},
		{name: "empty string", key: "blank", want: Placeholder},
		{name: "nil", key: "gone", want: Placeholder},
		{name: "missing", key: "nope", want: Placeholder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, row.Get(tt.key))
		})
	}
}

func TestListQueryValues(t *testing.T) {
	q := ListQuery{
		Page:     2,
		PageSize: 20,
		Search:   "ali",
		Filters:  map[string]string{"status": "ACTIVE", "empty": ""},
	}
	vals := q.values()
	assert.Equal(t, "2", vals.Get("page"))
	assert.Equal(t, "ali", vals.Get("search"))
	assert.Equal(t, "ACTIVE", vals.Get("status"))
	assert.False(t, vals.Has("empty"))
	// sort_order only travels with an explicit sort column
	assert.False(t, vals.Has("sort_order"))

	q.SortBy = "name"
	q.SortOrder = "desc"
	vals = q.values()
	assert.Equal(t, "name", vals.Get("sort_by"))
	assert.Equal(t, "desc", vals.Get("sort_order"))
}

func TestListEnvelopes(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantRows  int
		wantCount int
	}{
		{name: "results key", body: `{"results": [{"id": "1"}], "count": 41}`, wantRows: 1, wantCount: 41},
		{name: "data key", body: `{"data": [{"id": "1"}, {"id": "2"}], "count": 2}`, wantRows: 2, wantCount: 2},
		{name: "missing count reads as zero", body: `{"results": [{"id": "1"}]}`, wantRows: 1, wantCount: 0},
		{name: "empty envelope", body: `{}`, wantRows: 0, wantCount: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			page, err := New(srv.URL).List(context.Background(), "/v1/things", ListQuery{})
			assert.NoError(t, err)
			assert.Len(t, page.Rows, tt.wantRows)
			assert.Equal(t, tt.wantCount, page.Count)
		})
	}
}

func TestErrorDecoding(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantMsg    string
		wantFields map[string]string
	}{
		{
			name:    "error envelope",
			status:  http.StatusBadRequest,
			body:    `{"error": "invalid credentials"}`,
			wantMsg: "invalid credentials",
		},
		{
			name:       "field map",
			status:     http.StatusBadRequest,
			body:       `{"email": "email is required"}`,
			wantMsg:    "email: email is required",
			wantFields: map[string]string{"email": "email is required"},
		},
		{
			name:    "bare string",
			status:  http.StatusForbidden,
			body:    `"permission denied"`,
			wantMsg: "permission denied",
		},
		{
			name:    "opaque body falls back to status text",
			status:  http.StatusInternalServerError,
			body:    `<html>boom</html>`,
			wantMsg: "Internal Server Error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := New(srv.URL).Get(context.Background(), "/v1/things/1", nil)
			apiErr, ok := err.(*APIError)
			if assert.True(t, ok, "expected *APIError, got %T", err) {
				assert.Equal(t, tt.status, apiErr.StatusCode)
				assert.Equal(t, tt.wantMsg, apiErr.Message)
				assert.Equal(t, tt.wantFields, apiErr.Fields)
			}
		})
	}
}

func TestLoginStoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/users/login" {
			var creds map[string]string
			_ = json.NewDecoder(r.Body).Decode(&creds)
			if creds["username"] != "admin" {
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "authentication failed"})
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok123"})
			return
		}
		// any other path echoes back the auth header
		_ = json.NewEncoder(w).Encode(map[string]string{"auth": r.Header.Get("Authorization")})
	}))
	defer srv.Close()

	c := New(srv.URL)
	assert.Error(t, c.Login(context.Background(), "nobody", "pwd"))

	assert.NoError(t, c.Login(context.Background(), "admin", "pwd"))

	var echo map[string]string
	assert.NoError(t, c.Get(context.Background(), "/v1/users", &echo))
	assert.Equal(t, "Bearer tok123", echo["auth"])
}
