package importer

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wamiq271801/School-Management-sub000/internal/domain"
	"github.com/wamiq271801/School-Management-sub000/internal/repository"
)

func newTestHandler(t *testing.T) (*Handler, *serviceHarness) {
	t.Helper()
	h := newServiceHarness(t, nil)
	return NewHandler(h.service, 0), h
}

func multipartBody(t *testing.T, field, fileName string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, fileName)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func uploadSpreadsheet(t *testing.T, handler *Handler, rows ...map[string]string) domain.ImportBatch {
	t.Helper()

	payload, err := io.ReadAll(buildCSV(t, rows...))
	require.NoError(t, err)
	body, contentType := multipartBody(t, "file", "students.csv", payload)

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Batch domain.ImportBatch `json:"batch"`
		Rows  []domain.ParsedRow `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Batch
}

func TestHandlerCreateImport(t *testing.T) {
	t.Parallel()

	handler, _ := newTestHandler(t)
	batch := uploadSpreadsheet(t, handler,
		completeRow(nil),
		completeRow(map[string]string{fieldFirstName: ""}),
	)

	assert.Equal(t, "students.csv", batch.FileName)
	assert.Equal(t, 2, batch.TotalRows)
	assert.Equal(t, 1, batch.ValidRows)
	assert.Equal(t, 1, batch.InvalidRows)
	assert.Equal(t, domain.BatchStatusPending, batch.Status)
}

func TestHandlerCreateImportRejectsMissingFile(t *testing.T) {
	t.Parallel()

	handler, _ := newTestHandler(t)
	body, contentType := multipartBody(t, "wrong-field", "students.csv", []byte("x"))

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerGetImport(t *testing.T) {
	t.Parallel()

	handler, _ := newTestHandler(t)
	batch := uploadSpreadsheet(t, handler, completeRow(nil))

	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/"+batch.ID.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got domain.ImportBatch
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, batch.ID, got.ID)

	rec = httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerSetStatus(t *testing.T) {
	t.Parallel()

	handler, _ := newTestHandler(t)
	batch := uploadSpreadsheet(t, handler, completeRow(nil))

	req := httptest.NewRequest(http.MethodPatch, "/"+batch.ID.String()+"/status",
		strings.NewReader(`{"status":"reviewing"}`))
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got domain.ImportBatch
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, domain.BatchStatusReviewing, got.Status)

	// Terminal states cannot be assigned over the API.
	req = httptest.NewRequest(http.MethodPatch, "/"+batch.ID.String()+"/status",
		strings.NewReader(`{"status":"completed"}`))
	rec = httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerDocumentsAndCommitFlow(t *testing.T) {
	t.Parallel()

	handler, h := newTestHandler(t)
	batch := uploadSpreadsheet(t, handler, completeRow(nil))

	var zipBuf bytes.Buffer
	zw := zip.NewWriter(&zipBuf)
	entry, err := zw.Create("STU-2025-00001_photo.jpg")
	require.NoError(t, err)
	_, err = entry.Write([]byte("jpeg-bytes"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	body, contentType := multipartBody(t, "archive", "documents.zip", zipBuf.Bytes())
	req := httptest.NewRequest(http.MethodPost, "/"+batch.ID.String()+"/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var matchResult struct {
		MatchedFiles int `json:"matchedFiles"`
		TotalFiles   int `json:"totalFiles"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &matchResult))
	assert.Equal(t, 1, matchResult.TotalFiles)
	assert.Equal(t, 1, matchResult.MatchedFiles)

	rec = httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/"+batch.ID.String()+"/commit", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var commit CommitResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &commit))
	assert.Equal(t, 1, commit.Imported)
	assert.Equal(t, 0, commit.Failed)

	students := h.students.Students()
	require.Len(t, students, 1)
	assert.Contains(t, students[0].Documents, domain.DocPhoto)

	// The review session is gone after commit.
	rec = httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/"+batch.ID.String()+"/commit", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerDownloadErrors(t *testing.T) {
	t.Parallel()

	handler, _ := newTestHandler(t)
	batch := uploadSpreadsheet(t, handler,
		completeRow(nil),
		completeRow(map[string]string{fieldDOB: "bad"}),
	)

	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/"+batch.ID.String()+"/errors?format=csv", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, rec.Body.String(), "Row Number")
}

func TestHandlerDownloadErrorsAfterCommit(t *testing.T) {
	t.Parallel()

	inner := repository.NewMemoryStudentRepository()
	students := &flakyStudents{inner: inner, rejects: map[string]bool{"Student2": true}}
	h := newServiceHarness(t, students)
	handler := NewHandler(h.service, 0)

	batch := uploadSpreadsheet(t, handler, rowFixtures(3)...)

	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/"+batch.ID.String()+"/commit", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// The session is gone; the report now comes from the persisted ledger.
	rec = httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/"+batch.ID.String()+"/errors", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))

	records, err := csv.NewReader(bytes.NewReader(rec.Body.Bytes())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"Row Number", "Error"}, records[0])
	// Student2 sits on spreadsheet row 3.
	assert.Equal(t, "3", records[1][0])
	assert.Contains(t, records[1][1], "Student2")

	// An unknown batch still 404s.
	rec = httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/"+uuid.NewString()+"/errors", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerConcurrentUploadAndCommit(t *testing.T) {
	t.Parallel()

	handler, h := newTestHandler(t)
	batch := uploadSpreadsheet(t, handler, completeRow(nil))

	var zipBuf bytes.Buffer
	zw := zip.NewWriter(&zipBuf)
	entry, err := zw.Create("STU-2025-00001_photo.jpg")
	require.NoError(t, err)
	_, err = entry.Write([]byte("jpeg-bytes"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	body, contentType := multipartBody(t, "archive", "documents.zip", zipBuf.Bytes())

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		req := httptest.NewRequest(http.MethodPost, "/"+batch.ID.String()+"/documents", body)
		req.Header.Set("Content-Type", contentType)
		handler.Routes().ServeHTTP(httptest.NewRecorder(), req)
	}()
	go func() {
		defer wg.Done()
		req := httptest.NewRequest(http.MethodPost, "/"+batch.ID.String()+"/commit", nil)
		handler.Routes().ServeHTTP(httptest.NewRecorder(), req)
	}()
	wg.Wait()

	// Whichever request wins, the batch reaches a terminal state with the row
	// committed exactly once.
	final, err := h.service.GetBatch(context.Background(), batch.ID)
	require.NoError(t, err)
	assert.True(t, final.Terminal())
	assert.Len(t, h.students.Students(), 1)
}

func TestHandlerListImports(t *testing.T) {
	t.Parallel()

	handler, _ := newTestHandler(t)
	uploadSpreadsheet(t, handler, completeRow(nil))
	uploadSpreadsheet(t, handler, completeRow(map[string]string{
		fieldAdmissionNumber: "STU-2025-00099",
	}))

	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var batches []domain.ImportBatch
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &batches))
	assert.Len(t, batches, 2)
}
