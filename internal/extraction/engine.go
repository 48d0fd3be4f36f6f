package extraction

import (
	"log/slog"
	"strings"
	"time"
)

// Engine is the per-document extraction pipeline: supplier identification,
// header extraction, line-item cascade, record assembly. It holds only
// read-only state and is safe for concurrent use; documents are independent
// of each other.
type Engine struct {
	registry *Registry
	now      func() time.Time
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithRegistry replaces the built-in supplier roster.
func WithRegistry(r *Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithClock injects the time source feeding the default invoice date. Tests
// pin it; production uses time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine builds an engine over the default supplier registry.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		registry: DefaultRegistry(),
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry exposes the engine's supplier roster.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Process extracts one document. It never fails: malformed content degrades
// the result (fewer records, warnings) instead of aborting. Re-running on
// identical input yields identical output, except for the default invoice
// date applied when no date pattern matches.
func (e *Engine) Process(doc Document) Result {
	if strings.TrimSpace(doc.Text) == "" && len(doc.Tables) == 0 {
		e.logger.Warn("empty document", "file", doc.SourceFile)
		return Result{
			Summary: InvoiceSummary{
				SourceFile:  doc.SourceFile,
				Supplier:    SupplierUnknown,
				InvoiceDate: e.now().Format("2006-01-02"),
			},
			Warnings: []string{
				newError(ErrInvalidDocument, "document %s carries no text and no tables", doc.SourceFile).Error(),
			},
		}
	}

	profile := e.registry.Identify(doc.Text)
	header := ExtractHeader(profile, doc.Text, e.now())
	candidates := ExtractLines(profile, doc)
	res := Assemble(profile, header, candidates, doc)

	e.logger.Info("document processed",
		"file", doc.SourceFile,
		"supplier", res.Summary.Supplier,
		"invoice", res.Summary.InvoiceNumber,
		"products", res.Summary.ProductCount,
		"warnings", len(res.Warnings),
	)
	return res
}
