// Package export renders analysis results as downloadable XLSX workbooks and
// CSV files with the French column headers the back office expects.
package export

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/bistro-urbain/invoice-analyzer/internal/extraction"
)

const (
	sheetSummary   = "Résumé Factures"
	sheetProducts  = "Détail Produits"
	sheetSuppliers = "Analyse Fournisseurs"
	sheetTop       = "Top Produits"

	topProductCount = 20
)

var productHeaders = []string{
	"Fournisseur",
	"N° Facture",
	"Date Facture",
	"Code Article",
	"Désignation",
	"Produit",
	"Catégorie",
	"Contenance",
	"Nb Unités",
	"Volume",
	"Volume Unité",
	"Prix Unitaire HT",
	"Montant HT",
	"A Vérifier",
	"Fichier Source",
}

// WorkbookXLSX builds the four-sheet analysis workbook from per-file
// summaries and the flattened product rows, returning the XLSX bytes.
func WorkbookXLSX(summaries []extraction.InvoiceSummary, products []extraction.ProductRecord) ([]byte, error) {
	f := excelize.NewFile()

	if err := writeSummarySheet(f, summaries); err != nil {
		return nil, err
	}
	if err := writeProductSheet(f, products); err != nil {
		return nil, err
	}
	if err := writeSupplierSheet(f, summaries, products); err != nil {
		return nil, err
	}
	if err := writeTopProductSheet(f, products); err != nil {
		return nil, err
	}

	// The default sheet excelize creates is not part of the workbook layout.
	if idx, _ := f.GetSheetIndex(sheetSummary); idx >= 0 {
		f.SetActiveSheet(idx)
	}
	_ = f.DeleteSheet("Sheet1")

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func newSheet(f *excelize.File, name string, headers []string) (func(col, row int, v any), error) {
	if _, err := f.NewSheet(name); err != nil {
		return nil, fmt.Errorf("sheet %s: %w", name, err)
	}
	write := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(name, cell, v)
	}
	for i, h := range headers {
		write(i+1, 1, h)
	}
	return write, nil
}

func writeSummarySheet(f *excelize.File, summaries []extraction.InvoiceSummary) error {
	write, err := newSheet(f, sheetSummary, []string{
		"Fichier", "Fournisseur", "N° Facture", "Date", "Total HT", "TVA", "Total TTC", "Nb Produits",
	})
	if err != nil {
		return err
	}

	for i, s := range summaries {
		row := i + 2
		write(1, row, s.SourceFile)
		write(2, row, s.Supplier)
		write(3, row, s.InvoiceNumber)
		write(4, row, s.InvoiceDate)
		write(5, row, s.TotalHT)
		write(6, row, s.VAT)
		write(7, row, s.TotalTTC)
		write(8, row, s.ProductCount)
	}

	_ = f.SetColWidth(sheetSummary, "A", "A", 32)
	_ = f.SetColWidth(sheetSummary, "B", "C", 22)
	_ = f.SetColWidth(sheetSummary, "D", "H", 14)
	return nil
}

func writeProductSheet(f *excelize.File, products []extraction.ProductRecord) error {
	write, err := newSheet(f, sheetProducts, productHeaders)
	if err != nil {
		return err
	}

	for i, p := range products {
		row := i + 2
		write(1, row, p.Supplier)
		write(2, row, p.InvoiceNumber)
		write(3, row, p.InvoiceDate)
		write(4, row, p.Code)
		write(5, row, p.Designation)
		write(6, row, p.DesignationClean)
		write(7, row, p.Category)
		write(8, row, p.Contenance)
		write(9, row, p.Quantity)
		write(10, row, p.CanonicalVolume)
		write(11, row, string(p.CanonicalUnit))
		write(12, row, p.UnitPriceHT)
		write(13, row, p.TotalHT)
		write(14, row, verifyFlag(p.LowConfidence))
		write(15, row, p.SourceFile)
	}

	_ = f.SetColWidth(sheetProducts, "A", "B", 20)
	_ = f.SetColWidth(sheetProducts, "E", "F", 40)
	_ = f.SetColWidth(sheetProducts, "G", "H", 18)
	_ = f.SetColWidth(sheetProducts, "O", "O", 32)
	return nil
}

// supplierStats aggregates spend per supplier across the batch.
type supplierStats struct {
	Supplier     string
	InvoiceCount int
	ProductCount int
	TotalHT      float64
}

func aggregateSuppliers(summaries []extraction.InvoiceSummary, products []extraction.ProductRecord) []supplierStats {
	byName := make(map[string]*supplierStats)
	get := func(name string) *supplierStats {
		s, ok := byName[name]
		if !ok {
			s = &supplierStats{Supplier: name}
			byName[name] = s
		}
		return s
	}

	for _, sum := range summaries {
		s := get(sum.Supplier)
		s.InvoiceCount++
		s.TotalHT += sum.TotalHT
	}
	for _, p := range products {
		get(p.Supplier).ProductCount++
	}

	out := make([]supplierStats, 0, len(byName))
	for _, s := range byName {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalHT != out[j].TotalHT {
			return out[i].TotalHT > out[j].TotalHT
		}
		return out[i].Supplier < out[j].Supplier
	})
	return out
}

func writeSupplierSheet(f *excelize.File, summaries []extraction.InvoiceSummary, products []extraction.ProductRecord) error {
	write, err := newSheet(f, sheetSuppliers, []string{
		"Fournisseur", "Nb Factures", "Nb Produits", "Total HT",
	})
	if err != nil {
		return err
	}

	for i, s := range aggregateSuppliers(summaries, products) {
		row := i + 2
		write(1, row, s.Supplier)
		write(2, row, s.InvoiceCount)
		write(3, row, s.ProductCount)
		write(4, row, s.TotalHT)
	}

	_ = f.SetColWidth(sheetSuppliers, "A", "A", 28)
	_ = f.SetColWidth(sheetSuppliers, "B", "D", 14)
	return nil
}

func writeTopProductSheet(f *excelize.File, products []extraction.ProductRecord) error {
	write, err := newSheet(f, sheetTop, []string{
		"Produit", "Catégorie", "Fournisseur", "Nb Unités", "Montant HT",
	})
	if err != nil {
		return err
	}

	top := make([]extraction.ProductRecord, len(products))
	copy(top, products)
	sort.SliceStable(top, func(i, j int) bool { return top[i].TotalHT > top[j].TotalHT })
	if len(top) > topProductCount {
		top = top[:topProductCount]
	}

	for i, p := range top {
		row := i + 2
		write(1, row, p.DesignationClean)
		write(2, row, p.Category)
		write(3, row, p.Supplier)
		write(4, row, p.Quantity)
		write(5, row, p.TotalHT)
	}

	_ = f.SetColWidth(sheetTop, "A", "A", 40)
	_ = f.SetColWidth(sheetTop, "B", "C", 22)
	_ = f.SetColWidth(sheetTop, "D", "E", 14)
	return nil
}

func verifyFlag(low bool) string {
	if low {
		return "OUI"
	}
	return ""
}
