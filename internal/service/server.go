// Package service exposes the extraction engine over HTTP: upload a batch of
// invoice PDFs, read the stored results back, download them as XLSX or CSV.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/bistro-urbain/invoice-analyzer/internal/export"
	"github.com/bistro-urbain/invoice-analyzer/internal/extraction"
	"github.com/bistro-urbain/invoice-analyzer/internal/pdfio"
	"github.com/bistro-urbain/invoice-analyzer/internal/store"
)

const (
	defaultMaxWorkers  = 4
	maxUploadBytes     = 32 << 20 // per request
	defaultListPageLen = 50
)

// AnalyzeFunc turns one uploaded file into a FileResult. It is a field so
// tests can swap the PDF pipeline for a stub.
type AnalyzeFunc func(ctx context.Context, fileName string, data []byte) store.FileResult

// Server carries the HTTP handlers and their dependencies.
type Server struct {
	store      store.Store
	analyze    AnalyzeFunc
	logger     *slog.Logger
	maxWorkers int
}

// Option configures a Server.
type Option func(*Server)

// WithAnalyzeFunc replaces the default PDF analysis pipeline.
func WithAnalyzeFunc(fn AnalyzeFunc) Option {
	return func(s *Server) { s.analyze = fn }
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithMaxWorkers bounds the per-request extraction concurrency.
func WithMaxWorkers(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxWorkers = n
		}
	}
}

// NewServer wires a Server around a store and an extraction engine.
func NewServer(st store.Store, engine *extraction.Engine, opts ...Option) *Server {
	s := &Server{
		store:      st,
		logger:     slog.Default(),
		maxWorkers: defaultMaxWorkers,
	}
	s.analyze = func(ctx context.Context, fileName string, data []byte) store.FileResult {
		analysis := pdfio.Analyze(data)
		if analysis.Err != nil {
			return store.FileResult{FileName: fileName, Error: analysis.Err.Error()}
		}
		result := engine.Process(analysis.Document(fileName))
		return store.FileResult{
			FileName: fileName,
			Summary:  result.Summary,
			Products: result.Products,
			Warnings: result.Warnings,
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.MaxMultipartMemory = maxUploadBytes

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.POST("/analyze", s.handleAnalyze)
	api.GET("/batches", s.handleListBatches)
	api.GET("/batches/:id", s.handleGetBatch)
	api.DELETE("/batches/:id", s.handleDeleteBatch)
	api.GET("/batches/:id/export.xlsx", s.handleExportXLSX)
	api.GET("/batches/:id/export.csv", s.handleExportCSV)

	return r
}

// handleAnalyze accepts a multipart upload under the "files" field, runs
// extraction on each file concurrently and stores the batch. Files are
// independent, so per-file failures land in the file's Error field instead
// of failing the request.
func (s *Server) handleAnalyze(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("read multipart form: %v", err)})
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files uploaded, expected multipart field \"files\""})
		return
	}

	results := make([]store.FileResult, len(files))
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.SetLimit(s.maxWorkers)
	for i, fh := range files {
		i, fh := i, fh
		g.Go(func() error {
			data, err := readUpload(fh)
			if err != nil {
				results[i] = store.FileResult{FileName: fh.Filename, Error: err.Error()}
				return nil
			}
			results[i] = s.analyze(ctx, fh.Filename, data)
			return nil
		})
	}
	_ = g.Wait()

	batch := &store.Batch{Files: results}
	for _, fr := range results {
		batch.Products = append(batch.Products, fr.Products...)
	}
	if err := s.store.CreateBatch(c.Request.Context(), batch); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("store batch: %v", err)})
		return
	}

	s.logger.Info("batch analyzed",
		"batch_id", batch.ID,
		"files", len(files),
		"products", len(batch.Products))
	c.JSON(http.StatusCreated, batch)
}

func (s *Server) handleGetBatch(c *gin.Context) {
	batch, ok := s.loadBatch(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, batch)
}

func (s *Server) handleDeleteBatch(c *gin.Context) {
	err := s.store.DeleteBatch(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "batch not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("delete batch: %v", err)})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleListBatches(c *gin.Context) {
	pageSize := defaultListPageLen
	if raw := c.Query("pageSize"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pageSize"})
			return
		}
		pageSize = n
	}

	batches, nextToken, err := s.store.ListBatches(c.Request.Context(), pageSize, c.Query("pageToken"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("list batches: %v", err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"batches": batches, "nextPageToken": nextToken})
}

func (s *Server) handleExportXLSX(c *gin.Context) {
	batch, ok := s.loadBatch(c)
	if !ok {
		return
	}

	summaries := make([]extraction.InvoiceSummary, 0, len(batch.Files))
	for _, fr := range batch.Files {
		if fr.Error != "" {
			continue
		}
		summaries = append(summaries, fr.Summary)
	}

	data, err := export.WorkbookXLSX(summaries, batch.Products)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("build workbook: %v", err)})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=analyse_factures_%s.xlsx", batch.ID))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (s *Server) handleExportCSV(c *gin.Context) {
	batch, ok := s.loadBatch(c)
	if !ok {
		return
	}

	data, err := export.ProductsCSV(batch.Products)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("build csv: %v", err)})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=produits_%s.csv", batch.ID))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

func (s *Server) loadBatch(c *gin.Context) (*store.Batch, bool) {
	batch, err := s.store.GetBatch(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "batch not found"})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("load batch: %v", err)})
		return nil, false
	}
	return batch, true
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return data, nil
}
