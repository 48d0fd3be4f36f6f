package export

import (
	"bytes"
	stdcsv "encoding/csv"
	"fmt"

	"github.com/gocarina/gocsv"

	"github.com/bistro-urbain/invoice-analyzer/internal/extraction"
)

// ProductsCSV renders the product rows as semicolon-separated CSV, the
// separator French spreadsheet locales expect. Column headers come from the
// csv tags on ProductRecord.
func ProductsCSV(products []extraction.ProductRecord) ([]byte, error) {
	var buf bytes.Buffer

	w := stdcsv.NewWriter(&buf)
	w.Comma = ';'

	if err := gocsv.MarshalCSV(&products, gocsv.NewSafeCSVWriter(w)); err != nil {
		return nil, fmt.Errorf("csv marshal: %w", err)
	}
	return buf.Bytes(), nil
}
