// Package extraction turns raw invoice text and table grids into structured
// product line records. The input has no reliable schema: each supplier emits
// its own layout, numbers use comma decimal separators, and packaging data is
// buried inside free-text designations. Everything here is best-effort and
// never fatal - a failed parse degrades the output, it does not abort it.
package extraction

// RawRow is one table row as produced by the upstream PDF table extractor.
// Cells may be nil when the extractor could not read them.
type RawRow []*string

// RawTable is a list of rows belonging to one detected table.
type RawTable []RawRow

// Document is the unit of input: the newline-joined text of every page plus
// any table grids the upstream extractor recovered. The engine never opens
// files itself.
type Document struct {
	SourceFile string
	Text       string
	Tables     []RawTable
}

// LineCandidate is the intermediate form of one product line, produced by an
// extraction strategy before numeric reconciliation and enrichment. A zero
// UnitPrice or Total means the strategy could not recover that field.
type LineCandidate struct {
	Code        string
	Designation string
	Quantity    float64
	Unit        string
	UnitPrice   float64
	Total       float64

	// LowConfidence marks lines whose prices were reconciled by guesswork.
	LowConfidence bool
}

// ProductRecord is the final per-line output. Records are created once by the
// assembler and never mutated afterwards.
type ProductRecord struct {
	Supplier         string    `csv:"Fournisseur" json:"supplier"`
	InvoiceNumber    string    `csv:"N° Facture" json:"invoice_number"`
	InvoiceDate      string    `csv:"Date Facture" json:"invoice_date"`
	Code             string    `csv:"Code Article" json:"code"`
	Designation      string    `csv:"Désignation" json:"designation"`
	DesignationClean string    `csv:"Produit" json:"designation_clean"`
	Category         string    `csv:"Catégorie" json:"category"`
	Contenance       string    `csv:"Contenance" json:"contenance"`
	Quantity         float64   `csv:"Nb Unités" json:"quantity"`
	CanonicalVolume  float64   `csv:"Volume" json:"canonical_volume"`
	CanonicalUnit    BaseUnit  `csv:"Volume Unité" json:"canonical_unit"`
	UnitPriceHT      float64   `csv:"Prix Unitaire HT" json:"unit_price_ht"`
	TotalHT          float64   `csv:"Montant HT" json:"total_ht"`
	LowConfidence    bool      `csv:"A Vérifier" json:"low_confidence"`
	SourceFile       string    `csv:"Fichier Source" json:"source_file"`
	Packaging        Packaging `csv:"-" json:"-"`
}

// InvoiceSummary aggregates the records of one processed document.
type InvoiceSummary struct {
	SourceFile    string  `json:"source_file"`
	Supplier      string  `json:"supplier"`
	InvoiceNumber string  `json:"invoice_number"`
	InvoiceDate   string  `json:"invoice_date"`
	TotalHT       float64 `json:"total_ht"`
	VAT           float64 `json:"vat"`
	TotalTTC      float64 `json:"total_ttc"`
	ProductCount  int     `json:"product_count"`
}

// Result is the output of processing one document.
type Result struct {
	Summary  InvoiceSummary  `json:"summary"`
	Products []ProductRecord `json:"products"`
	Warnings []string        `json:"warnings,omitempty"`
}
