package api_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/helixml/textdiff"
	"github.com/helixml/textdiff/infrastructure/api"
)

func newTestClient(t *testing.T) *textdiff.Client {
	t.Helper()
	tmpDir := t.TempDir()
	client, err := textdiff.New(
		textdiff.WithSQLite(filepath.Join(tmpDir, "test.db")),
		textdiff.WithDataDir(tmpDir),
		textdiff.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestAPIServer_ReadEndpointsOpen_WriteEndpointsProtected(t *testing.T) {
	client := newTestClient(t)
	apiKeys := []string{"test-secret-key"}
	handler := api.NewAPIServer(client, apiKeys).Handler()

	t.Run("GET /api/v1/runs returns 200 without API key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/runs", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
		}
	})

	t.Run("POST /api/v1/runs without key returns 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/runs", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d; body: %s", w.Code, http.StatusUnauthorized, w.Body.String())
		}
	})

	t.Run("POST /api/v1/runs with invalid key returns 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/runs", nil)
		req.Header.Set("X-API-KEY", "wrong-key")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
		}
	})

	t.Run("POST /api/v1/runs with valid key passes auth", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/runs", nil)
		req.Header.Set("X-API-KEY", "test-secret-key")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		// Passes auth; fails later on the missing multipart body.
		if w.Code == http.StatusUnauthorized {
			t.Errorf("status = %d, should not be 401 with valid key", w.Code)
		}
	})

	t.Run("DELETE /api/v1/runs/1 without key returns 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/runs/1", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
		}
	})
}

func TestAPIServer_NoKeysDisablesAuth(t *testing.T) {
	client := newTestClient(t)
	handler := api.NewAPIServer(client, nil).Handler()

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/runs/9999", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	// No auth configured: the request reaches the handler and fails on the
	// missing run instead.
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestServer_Addr(t *testing.T) {
	server := api.NewServer("127.0.0.1:8080", nil)
	if server.Addr() != "127.0.0.1:8080" {
		t.Errorf("Addr() = %q", server.Addr())
	}
}
