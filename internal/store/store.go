// Package store persists analysis batches. A batch is the unit of work the
// service produces: one upload of invoice files, their per-file results and
// the flattened product rows.
package store

import (
	"context"
	"encoding/base64"
	"errors"
	"time"

	"github.com/bistro-urbain/invoice-analyzer/internal/extraction"
)

// ErrNotFound is returned when a batch ID does not exist.
var ErrNotFound = errors.New("batch not found")

// FileResult is the outcome of analyzing one uploaded file.
type FileResult struct {
	FileName string                     `json:"fileName"`
	Summary  extraction.InvoiceSummary  `json:"summary"`
	Products []extraction.ProductRecord `json:"products"`
	Warnings []string                   `json:"warnings,omitempty"`
	Error    string                     `json:"error,omitempty"`
}

// Batch groups the results of one analysis run.
type Batch struct {
	ID        string                     `json:"id"`
	CreatedAt time.Time                  `json:"createdAt"`
	Files     []FileResult               `json:"files"`
	Products  []extraction.ProductRecord `json:"products"`
}

// Store defines the persistence operations used by the service.
type Store interface {
	CreateBatch(ctx context.Context, batch *Batch) error
	GetBatch(ctx context.Context, batchID string) (*Batch, error)
	DeleteBatch(ctx context.Context, batchID string) error
	ListBatches(ctx context.Context, pageSize int, pageToken string) ([]*Batch, string, error)
}

// EncodePageToken encodes a batch ID into an opaque page token.
func EncodePageToken(batchID string) string {
	if batchID == "" {
		return ""
	}
	return base64.URLEncoding.EncodeToString([]byte(batchID))
}

// DecodePageToken decodes a page token back to a batch ID.
func DecodePageToken(token string) (string, error) {
	if token == "" {
		return "", nil
	}
	b, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
