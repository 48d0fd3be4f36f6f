package service

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bistro-urbain/invoice-analyzer/internal/extraction"
	"github.com/bistro-urbain/invoice-analyzer/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubAnalyze fabricates one product per file so handler tests do not need
// real PDF bytes.
func stubAnalyze(ctx context.Context, fileName string, data []byte) store.FileResult {
	if strings.HasPrefix(fileName, "broken") {
		return store.FileResult{FileName: fileName, Error: "open PDF reader: malformed file"}
	}
	return store.FileResult{
		FileName: fileName,
		Summary: extraction.InvoiceSummary{
			SourceFile:    fileName,
			Supplier:      "Metro",
			InvoiceNumber: "FAC-1",
			TotalHT:       10,
			ProductCount:  1,
		},
		Products: []extraction.ProductRecord{{
			Supplier:    "Metro",
			Designation: "TOMATE GRAPPE",
			Category:    "Légumes",
			TotalHT:     10,
			SourceFile:  fileName,
		}},
	}
}

func newTestServer(t *testing.T) (*Server, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	srv := NewServer(st, extraction.NewEngine(), WithAnalyzeFunc(stubAnalyze))
	return srv, st
}

func multipartUpload(t *testing.T, fileNames ...string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, name := range fileNames {
		part, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("%PDF-1.4 fake"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestAnalyzeUpload(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	body, contentType := multipartUpload(t, "a.pdf", "b.pdf")
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var batch store.Batch
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &batch))
	assert.NotEmpty(t, batch.ID)
	require.Len(t, batch.Files, 2)
	assert.Equal(t, "a.pdf", batch.Files[0].FileName)
	assert.Equal(t, "b.pdf", batch.Files[1].FileName)
	require.Len(t, batch.Products, 2)
	assert.Equal(t, "a.pdf", batch.Products[0].SourceFile)
}

func TestAnalyzeUploadPartialFailure(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	body, contentType := multipartUpload(t, "broken.pdf", "ok.pdf")
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var batch store.Batch
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &batch))
	require.Len(t, batch.Files, 2)
	assert.NotEmpty(t, batch.Files[0].Error)
	assert.Empty(t, batch.Files[1].Error)
	require.Len(t, batch.Products, 1)
}

func TestAnalyzeNoFiles(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetBatch(t *testing.T) {
	srv, st := newTestServer(t)
	router := srv.Router()

	batch := &store.Batch{Files: []store.FileResult{{FileName: "x.pdf"}}}
	require.NoError(t, st.CreateBatch(context.Background(), batch))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/batches/"+batch.ID, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got store.Batch
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, batch.ID, got.ID)
}

func TestGetBatchNotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/batches/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteBatch(t *testing.T) {
	srv, st := newTestServer(t)
	router := srv.Router()

	batch := &store.Batch{}
	require.NoError(t, st.CreateBatch(context.Background(), batch))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/batches/"+batch.ID, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/batches/"+batch.ID, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListBatches(t *testing.T) {
	srv, st := newTestServer(t)
	router := srv.Router()

	require.NoError(t, st.CreateBatch(context.Background(), &store.Batch{}))
	require.NoError(t, st.CreateBatch(context.Background(), &store.Batch{}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/batches?pageSize=1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Batches       []store.Batch `json:"batches"`
		NextPageToken string        `json:"nextPageToken"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Batches, 1)
	assert.NotEmpty(t, resp.NextPageToken)
}

func TestExportXLSX(t *testing.T) {
	srv, st := newTestServer(t)
	router := srv.Router()

	fr := stubAnalyze(context.Background(), "a.pdf", nil)
	batch := &store.Batch{Files: []store.FileResult{fr}, Products: fr.Products}
	require.NoError(t, st.CreateBatch(context.Background(), batch))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/batches/"+batch.ID+"/export.xlsx", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), batch.ID)
	// XLSX is a zip container
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))
}

func TestExportCSV(t *testing.T) {
	srv, st := newTestServer(t)
	router := srv.Router()

	fr := stubAnalyze(context.Background(), "a.pdf", nil)
	batch := &store.Batch{Files: []store.FileResult{fr}, Products: fr.Products}
	require.NoError(t, st.CreateBatch(context.Background(), batch))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/batches/"+batch.ID+"/export.csv", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "Fournisseur;"))
	assert.Contains(t, body, "TOMATE GRAPPE")
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
