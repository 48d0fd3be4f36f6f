// Package pdfio turns raw PDF bytes into the line-oriented text and rough
// table grids the extraction engine consumes. It never panics: the pdf
// library is unforgiving with malformed files, so every entry point is
// wrapped in recover() and degrades to an empty analysis.
package pdfio

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/bistro-urbain/invoice-analyzer/internal/extraction"
)

const (
	maxTextBytes     = 200 * 1024 // cap on extracted text per document
	scannedThreshold = 50         // chars per page below which the PDF is considered scanned
	cellGapPoints    = 14.0       // horizontal gap that separates two cells on a row
	minTableCells    = 3          // a row needs this many cells to count as tabular
	minTableRows     = 2
)

// Analysis is the result of pre-processing one PDF document.
type Analysis struct {
	PageCount int
	Text      string
	Lines     []string
	Tables    []extraction.RawTable
	IsScanned bool
	Err       error
}

// Analyze extracts text and table grids from PDF bytes. On any error,
// including a panic inside the pdf library, it returns an Analysis with
// Err set and conservative defaults instead of failing.
func Analyze(data []byte) (result *Analysis) {
	result = &Analysis{
		PageCount: 1,
		IsScanned: true,
	}

	defer func() {
		if r := recover(); r != nil {
			result.Err = fmt.Errorf("panic during PDF analysis: %v", r)
			result.IsScanned = true
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		result.Err = fmt.Errorf("open PDF reader: %w", err)
		return result
	}

	result.PageCount = reader.NumPage()
	if result.PageCount < 1 {
		result.PageCount = 1
	}

	var text strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue // skip unreadable pages, keep the rest
		}

		var tableRows []extraction.RawRow
		for _, row := range rows {
			cells := splitCells(row.Content)
			if len(cells) == 0 {
				continue
			}
			line := joinCells(cells)
			if text.Len()+len(line) < maxTextBytes {
				text.WriteString(line)
				text.WriteByte('\n')
			}
			if len(cells) >= minTableCells {
				tableRows = append(tableRows, cells)
			}
		}
		if len(tableRows) >= minTableRows {
			result.Tables = append(result.Tables, extraction.RawTable(tableRows))
		}
	}

	result.Text = text.String()
	for _, line := range strings.Split(result.Text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			result.Lines = append(result.Lines, trimmed)
		}
	}
	result.IsScanned = isLikelyScanned(result.Text, result.PageCount)

	return result
}

// Document packages the analysis for the extraction engine.
func (a *Analysis) Document(sourceFile string) extraction.Document {
	return extraction.Document{
		SourceFile: sourceFile,
		Text:       a.Text,
		Tables:     a.Tables,
	}
}

// splitCells groups the positioned words of one visual row into cells,
// breaking wherever the horizontal gap between two words exceeds
// cellGapPoints. Words inside a cell are joined with single spaces.
func splitCells(words pdf.TextHorizontal) extraction.RawRow {
	if len(words) == 0 {
		return nil
	}
	sorted := make([]pdf.Text, len(words))
	copy(sorted, words)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	var cells extraction.RawRow
	var current strings.Builder
	prevEnd := sorted[0].X

	flush := func() {
		s := strings.TrimSpace(current.String())
		current.Reset()
		if s == "" {
			cells = append(cells, nil)
			return
		}
		cells = append(cells, &s)
	}

	for i, w := range sorted {
		if i > 0 && w.X-prevEnd > cellGapPoints {
			flush()
		} else if i > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(w.S)
		prevEnd = w.X + w.W
	}
	flush()
	return cells
}

func joinCells(cells extraction.RawRow) string {
	parts := make([]string, 0, len(cells))
	for _, c := range cells {
		if c != nil && *c != "" {
			parts = append(parts, *c)
		}
	}
	return strings.Join(parts, " ")
}

// isLikelyScanned reports whether the PDF appears to be a scanned image,
// judged by how little text was extractable per page.
func isLikelyScanned(text string, pages int) bool {
	if pages <= 0 {
		pages = 1
	}
	return len(text)/pages < scannedThreshold
}
