package preview

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/afero"
)

// servedKinds maps the extensions the server exposes to their content types.
var servedKinds = map[string]string{
	".pdf": "application/pdf",
	".tex": "text/plain; charset=utf-8",
	".log": "text/plain; charset=utf-8",
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	fs        afero.Fs
	dir       string
	logger    *slog.Logger
	version   string
	gitCommit string
	buildTime string
}

// NewHandler creates a new Handler serving documents from dir
func NewHandler(fsys afero.Fs, dir string, logger *slog.Logger, version, gitCommit, buildTime string) *Handler {
	return &Handler{
		fs:        fsys,
		dir:       dir,
		logger:    logger,
		version:   version,
		gitCommit: gitCommit,
		buildTime: buildTime,
	}
}

// Health handles GET /api/v1/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Version handles GET /api/v1/version
func (h *Handler) Version(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, VersionResponse{
		Version:   h.version,
		GitCommit: h.gitCommit,
		BuildTime: h.buildTime,
	})
}

// ListDocuments handles GET /api/v1/documents
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	entries, err := afero.ReadDir(h.fs, h.dir)
	if err != nil {
		h.logger.Error("failed to list documents", "dir", h.dir, "error", err)
		respondInternalError(w, "Failed to list documents")
		return
	}

	documents := make([]Document, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := servedKinds[ext]; !ok {
			continue
		}
		documents = append(documents, Document{
			Name:     entry.Name(),
			Kind:     strings.TrimPrefix(ext, "."),
			Size:     entry.Size(),
			Modified: entry.ModTime().UTC(),
			URL:      path.Join("/documents", entry.Name()),
		})
	}
	sort.Slice(documents, func(i, j int) bool { return documents[i].Name < documents[j].Name })

	respondSuccess(w, ListDocumentsResponse{
		Documents: documents,
		Count:     len(documents),
	})
}

// GetDocument handles GET /documents/{name}
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil || !validDocumentName(name) {
		respondBadRequest(w, "Invalid document name")
		return
	}
	contentType, ok := servedKinds[strings.ToLower(filepath.Ext(name))]
	if !ok {
		respondNotFound(w, "Document not found")
		return
	}

	file, err := h.fs.Open(filepath.Join(h.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			respondNotFound(w, "Document not found")
			return
		}
		h.logger.Error("failed to open document", "name", name, "error", err)
		respondInternalError(w, "Failed to open document")
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil || info.IsDir() {
		respondNotFound(w, "Document not found")
		return
	}

	w.Header().Set("Content-Type", contentType)
	http.ServeContent(w, r, name, info.ModTime(), file)
}

// validDocumentName accepts bare file names only.
func validDocumentName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return false
	}
	return filepath.Base(name) == name
}
