package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/wamiq271801/School-Management-sub000/internal/domain"
	"github.com/wamiq271801/School-Management-sub000/internal/matcher"
	"github.com/wamiq271801/School-Management-sub000/internal/repository"
)

// Handler exposes the import pipeline over HTTP. Parsed rows and document
// matches are held in a per-batch review session between upload and commit;
// the persisted batch record carries only lifecycle state.
type Handler struct {
	service        *Service
	maxUploadBytes int64

	mu       sync.Mutex
	sessions map[uuid.UUID]*reviewSession
}

type reviewSession struct {
	result  *ParseResult
	matches []domain.FileMatch
}

// NewHandler wraps the service with HTTP endpoints.
func NewHandler(service *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 64 << 20
	}
	return &Handler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
		sessions:       make(map[uuid.UUID]*reviewSession),
	}
}

// Routes mounts the import endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.createImport)
	r.Get("/", h.listImports)
	r.Route("/{batchID}", func(r chi.Router) {
		r.Get("/", h.getImport)
		r.Patch("/status", h.setStatus)
		r.Post("/documents", h.uploadDocuments)
		r.Post("/commit", h.commit)
		r.Get("/errors", h.downloadErrors)
	})
	return r
}

// sessionState copies the review session fields out under the lock; matches
// may be rewritten by a concurrent document upload.
func (h *Handler) sessionState(id uuid.UUID) (*ParseResult, []domain.FileMatch, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	session, ok := h.sessions[id]
	if !ok {
		return nil, nil, false
	}
	return session.result, session.matches, true
}

func (h *Handler) createImport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		httpError(w, http.StatusBadRequest, fmt.Sprintf("invalid form data: %v", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httpError(w, http.StatusBadRequest, fmt.Sprintf("file required: %v", err))
		return
	}
	defer file.Close()

	result, err := h.service.Parse(header.Filename, file)
	if err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}

	batch, err := h.service.CreateBatch(r.Context(), result)
	if err != nil {
		httpError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.mu.Lock()
	h.sessions[batch.ID] = &reviewSession{result: result}
	h.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{
		"batch": batch,
		"rows":  result.Rows,
	})
}

func (h *Handler) listImports(w http.ResponseWriter, r *http.Request) {
	batches, err := h.service.ListBatches(r.Context(), 50, 0)
	if err != nil {
		httpError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, batches)
}

func (h *Handler) getImport(w http.ResponseWriter, r *http.Request) {
	id, ok := parseBatchID(w, r)
	if !ok {
		return
	}

	batch, err := h.service.GetBatch(r.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repository.ErrNotFound) {
			status = http.StatusNotFound
		}
		httpError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseBatchID(w, r)
	if !ok {
		return
	}

	var body struct {
		Status domain.BatchStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpError(w, http.StatusBadRequest, fmt.Sprintf("invalid body: %v", err))
		return
	}

	batch, err := h.service.SetStatus(r.Context(), id, body.Status)
	if err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

// uploadDocuments accepts either a single archive under "archive" or loose
// files under "files", matches them against the batch rows, and stores the
// matches in the review session for commit.
func (h *Handler) uploadDocuments(w http.ResponseWriter, r *http.Request) {
	id, ok := parseBatchID(w, r)
	if !ok {
		return
	}

	parsed, _, ok := h.sessionState(id)
	if !ok {
		httpError(w, http.StatusNotFound, "no review session for batch; upload the spreadsheet first")
		return
	}

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		httpError(w, http.StatusBadRequest, fmt.Sprintf("invalid form data: %v", err))
		return
	}

	var files []domain.NamedFile

	if archive, header, err := r.FormFile("archive"); err == nil {
		payload, readErr := io.ReadAll(archive)
		archive.Close()
		if readErr != nil {
			httpError(w, http.StatusBadRequest, fmt.Sprintf("failed to read archive: %v", readErr))
			return
		}
		files, err = matcher.ExtractArchive(payload)
		if err != nil {
			httpError(w, http.StatusBadRequest, fmt.Sprintf("failed to extract %s: %v", header.Filename, err))
			return
		}
	} else if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["files"] {
			f, err := header.Open()
			if err != nil {
				httpError(w, http.StatusBadRequest, fmt.Sprintf("failed to open %s: %v", header.Filename, err))
				return
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				httpError(w, http.StatusBadRequest, fmt.Sprintf("failed to read %s: %v", header.Filename, err))
				return
			}
			files = append(files, domain.NamedFile{
				Name:        header.Filename,
				ContentType: matcher.ContentTypeFor(header.Filename),
				Data:        data,
			})
		}
	}

	if len(files) == 0 {
		httpError(w, http.StatusBadRequest, "no files provided")
		return
	}

	result := h.service.MatchDocuments(files, parsed.Rows)

	// The session may have been committed away while matching ran.
	h.mu.Lock()
	if session, ok := h.sessions[id]; ok {
		session.matches = result.Matches
	}
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) commit(w http.ResponseWriter, r *http.Request) {
	id, ok := parseBatchID(w, r)
	if !ok {
		return
	}

	parsed, matches, ok := h.sessionState(id)
	if !ok {
		httpError(w, http.StatusNotFound, "no review session for batch; upload the spreadsheet first")
		return
	}

	result, err := h.service.Commit(r.Context(), id, parsed.Rows, matches, nil)
	if err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.mu.Lock()
	delete(h.sessions, id)
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) downloadErrors(w http.ResponseWriter, r *http.Request) {
	id, ok := parseBatchID(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")

	var (
		payload     []byte
		contentType string
		err         error
	)
	if parsed, _, ok := h.sessionState(id); ok {
		payload, contentType, err = ExportErrors(parsed, format)
	} else {
		// After commit the session is gone; serve the persisted row
		// failures instead.
		if _, getErr := h.service.GetBatch(r.Context(), id); getErr != nil {
			status := http.StatusInternalServerError
			if errors.Is(getErr, repository.ErrNotFound) {
				status = http.StatusNotFound
			}
			httpError(w, status, getErr.Error())
			return
		}
		entries, listErr := h.service.ListErrors(r.Context(), id)
		if listErr != nil {
			httpError(w, http.StatusInternalServerError, listErr.Error())
			return
		}
		payload, contentType, err = ExportCommitErrors(entries, format)
	}
	if err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}

	ext := ExportFormatCSV
	if format == ExportFormatXLSX {
		ext = ExportFormatXLSX
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=import-errors-%s.%s", id, ext))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

func parseBatchID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := strings.TrimSpace(chi.URLParam(r, "batchID"))
	id, err := uuid.Parse(raw)
	if err != nil {
		httpError(w, http.StatusBadRequest, fmt.Sprintf("invalid batch id: %v", err))
		return uuid.Nil, false
	}
	return id, true
}

func httpError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
