package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
)

// mockServer builds an httptest.Server that checks the request path and
// method before running its handler.
type mockServer struct {
	t          *testing.T
	handler    http.HandlerFunc
	expectPath string
	expectMeth string
}

func newMockServer(t *testing.T) *mockServer {
	t.Helper()
	return &mockServer{t: t}
}

func (m *mockServer) ExpectPath(path string) *mockServer {
	m.expectPath = path
	return m
}

func (m *mockServer) ExpectGET() *mockServer {
	m.expectMeth = http.MethodGet
	return m
}

func (m *mockServer) ExpectPOST() *mockServer {
	m.expectMeth = http.MethodPost
	return m
}

// Handler sets a custom handler, called after path and method checks.
func (m *mockServer) Handler(h func(w http.ResponseWriter, r *http.Request)) *mockServer {
	m.handler = h
	return m
}

func (m *mockServer) RespondJSON(v any) *mockServer {
	return m.RespondJSONStatus(http.StatusOK, v)
}

func (m *mockServer) RespondJSONStatus(code int, v any) *mockServer {
	m.handler = func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		if err := json.NewEncoder(w).Encode(v); err != nil {
			m.t.Errorf("failed to encode JSON response: %v", err)
		}
	}
	return m
}

func (m *mockServer) RespondError(code int, message string) *mockServer {
	m.handler = func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(code)
		_, _ = w.Write([]byte(message))
	}
	return m
}

// Build starts the server and registers its shutdown with t.Cleanup.
func (m *mockServer) Build() *httptest.Server {
	m.t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.expectPath != "" {
			assert.Equal(m.t, m.expectPath, r.URL.Path, "unexpected request path")
		}
		if m.expectMeth != "" {
			assert.Equal(m.t, m.expectMeth, r.Method, "unexpected request method")
		}
		if m.handler != nil {
			m.handler(w, r)
		}
	}))
	m.t.Cleanup(srv.Close)
	return srv
}
