package preview

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aiza-Lee/template-builder/internal/logging"
)

func setupTestServer(t *testing.T) *Server {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/docs/library.pdf", []byte("%PDF-1.7 fake"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/docs/mid-output.tex", []byte(`\documentclass{article}`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/docs/notes.txt", []byte("ignored"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/secret.pdf", []byte("secret"), 0o644))
	require.NoError(t, fs.MkdirAll("/docs/sub.pdf", 0o755))

	server, err := NewServer(ServerConfig{
		Dir:     "/docs",
		Bind:    "127.0.0.1",
		Port:    8080,
		Version: "v1",
		Fs:      fs,
		Logger:  logging.Discard(),
	})
	require.NoError(t, err)
	return server
}

func get(t *testing.T, server *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	server := setupTestServer(t)

	w := get(t, server, "/api/v1/health")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestVersion(t *testing.T) {
	server := setupTestServer(t)

	w := get(t, server, "/api/v1/version")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp VersionResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "v1", resp.Version)
}

func TestListDocuments(t *testing.T) {
	server := setupTestServer(t)

	w := get(t, server, "/api/v1/documents")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp ListDocumentsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, "library.pdf", resp.Documents[0].Name)
	assert.Equal(t, "pdf", resp.Documents[0].Kind)
	assert.Equal(t, "/documents/library.pdf", resp.Documents[0].URL)
	assert.Equal(t, int64(len("%PDF-1.7 fake")), resp.Documents[0].Size)
	assert.Equal(t, "mid-output.tex", resp.Documents[1].Name)
}

func TestGetDocument(t *testing.T) {
	server := setupTestServer(t)

	w := get(t, server, "/documents/library.pdf")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, "%PDF-1.7 fake", w.Body.String())

	w = get(t, server, "/documents/mid-output.tex")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
}

func TestGetDocument_NotFound(t *testing.T) {
	server := setupTestServer(t)

	cases := map[string]string{
		"missing file":        "/documents/missing.pdf",
		"unserved extension":  "/documents/notes.txt",
		"directory with .pdf": "/documents/sub.pdf",
	}
	for name, target := range cases {
		t.Run(name, func(t *testing.T) {
			w := get(t, server, target)
			assert.Equal(t, http.StatusNotFound, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, http.StatusNotFound, resp.Code)
		})
	}
}

func TestGetDocument_RejectsTraversal(t *testing.T) {
	server := setupTestServer(t)

	for _, target := range []string{
		"/documents/..%2Fsecret.pdf",
		"/documents/%2E%2E",
		"/documents/..%5Csecret.pdf",
	} {
		t.Run(target, func(t *testing.T) {
			w := get(t, server, target)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.NotContains(t, w.Body.String(), "secret")
		})
	}
}

func TestValidDocumentName(t *testing.T) {
	assert.True(t, validDocumentName("library.pdf"))
	assert.True(t, validDocumentName("my doc.pdf"))
	assert.False(t, validDocumentName(""))
	assert.False(t, validDocumentName(".."))
	assert.False(t, validDocumentName("../x.pdf"))
	assert.False(t, validDocumentName(`..\x.pdf`))
	assert.False(t, validDocumentName("a/b.pdf"))
}

func TestNewServer_Errors(t *testing.T) {
	_, err := NewServer(ServerConfig{Fs: afero.NewMemMapFs(), Logger: logging.Discard()})
	assert.Error(t, err)

	_, err = NewServer(ServerConfig{Dir: "/nope", Fs: afero.NewMemMapFs(), Logger: logging.Discard()})
	assert.Error(t, err)
}

func TestStartWithContext_GracefulShutdown(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/docs", 0o755))
	server, err := NewServer(ServerConfig{Dir: "/docs", Bind: "127.0.0.1", Port: 0, Fs: fs, Logger: logging.Discard()})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:0", server.Addr())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	assert.NoError(t, server.StartWithContext(ctx))
}
