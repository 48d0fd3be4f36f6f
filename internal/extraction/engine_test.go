package extraction

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEngine() *Engine {
	return NewEngine(WithClock(func() time.Time { return testClock }))
}

func TestProcessFougeresInvoice(t *testing.T) {
	doc := Document{
		SourceFile: "facture_fougeres.pdf",
		Text: "FOUGERES BOISSONS\n" +
			"Facture VTE-40221 du 02/05/2024\n" +
			"Net facture 22,51 €\n",
		Tables: []RawTable{{
			row("0024100", "CRÈME DE CASSIS GIFFARD 16% 100CL", "1", "BTL", "6,51", "6,51"),
			row("0031205", "JUS ORANGE PET 6X1L", "2", "CAR", "8,00", "16,00"),
		}},
	}

	res := testEngine().Process(doc)

	assert.Equal(t, "Fougères Boissons", res.Summary.Supplier)
	assert.Equal(t, "VTE-40221", res.Summary.InvoiceNumber)
	assert.Equal(t, "2024-05-02", res.Summary.InvoiceDate)
	assert.Equal(t, 2, res.Summary.ProductCount)
	assert.InDelta(t, 22.51, res.Summary.TotalTTC, 1e-9)
	require.Len(t, res.Products, 2)

	cassis := res.Products[0]
	assert.Equal(t, "0024100", cassis.Code)
	assert.Equal(t, "Boissons Alcoolisées", cassis.Category)
	assert.Equal(t, "100CL", cassis.Contenance)
	assert.InDelta(t, 1.0, cassis.CanonicalVolume, 1e-9)
	assert.Equal(t, BaseLiter, cassis.CanonicalUnit)
	assert.Equal(t, "facture_fougeres.pdf", cassis.SourceFile)

	jus := res.Products[1]
	assert.Equal(t, "Boissons Soft", jus.Category)
	assert.Equal(t, "6x1L", jus.Contenance)
	assert.InDelta(t, 6.0, jus.CanonicalVolume, 1e-9)
	assert.Equal(t, BaseLiter, jus.CanonicalUnit)
}

// A known supplier with no extractable lines but a recognizable grand total
// yields exactly one sentinel record carrying that total.
func TestProcessTotalOnlyFallback(t *testing.T) {
	doc := Document{
		SourceFile: "facture_terreazur.pdf",
		Text: "TERREAZUR BRETAGNE\n" +
			"FACTURE N° 8123456 du 15.03.2024\n" +
			"Net à payer : 432,10 EUR\n",
	}

	res := testEngine().Process(doc)

	require.Len(t, res.Products, 1)
	p := res.Products[0]
	assert.True(t, strings.HasPrefix(p.Designation, "Total invoice"))
	assert.Equal(t, TotalOnlyInvoiceNumber, p.InvoiceNumber)
	assert.InDelta(t, 432.10, p.TotalHT, 1e-9)
	assert.InDelta(t, 1.0, p.Quantity, 1e-9)
	assert.Equal(t, BasePiece, p.CanonicalUnit)
	assert.Equal(t, "1PC", p.Contenance)
	assert.NotEmpty(t, res.Warnings)
}

// No line items and no grand total: zero records plus a warning, never an
// error.
func TestProcessNothingExtractable(t *testing.T) {
	res := testEngine().Process(Document{SourceFile: "vide.pdf", Text: "page blanche"})
	assert.Empty(t, res.Products)
	assert.NotEmpty(t, res.Warnings)
	assert.Equal(t, SupplierUnknown, res.Summary.Supplier)
}

func TestProcessEmptyDocument(t *testing.T) {
	res := testEngine().Process(Document{SourceFile: "vide.pdf"})

	assert.Empty(t, res.Products)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], string(ErrInvalidDocument))
	assert.Equal(t, SupplierUnknown, res.Summary.Supplier)
	assert.Equal(t, "2024-06-01", res.Summary.InvoiceDate)
}

func TestProcessCaveForcedCategoryAndDefaultPackaging(t *testing.T) {
	doc := Document{
		SourceFile: "facture_cave.pdf",
		Text: "CAVE LES 3B\nN°F2024077 Date document : 03/04/2024\n" +
			"LAB20 COTES DE THAU BLANC 6,00 4,75 4,75 28,50 C20\n" +
			"NET A PAYER 28,50 €\n",
	}

	res := testEngine().Process(doc)
	require.Len(t, res.Products, 1)
	p := res.Products[0]
	assert.Equal(t, "LAB20", p.Code)
	assert.Equal(t, "Vins et Spiritueux", p.Category)
	// wine merchant default when the designation states no contenance
	assert.Equal(t, "75CL", p.Contenance)
	assert.InDelta(t, 0.75, p.CanonicalVolume, 1e-9)
	assert.Equal(t, BaseLiter, p.CanonicalUnit)
	assert.InDelta(t, 28.50, p.TotalHT, 1e-9)
	assert.InDelta(t, 4.75, p.UnitPriceHT, 1e-9)
}

// Re-running extraction on identical input must produce identical output:
// no hidden state, no wall-clock dependence once the clock is pinned.
func TestProcessIdempotent(t *testing.T) {
	doc := Document{
		SourceFile: "facture_fougeres.pdf",
		Text: "FOUGERES BOISSONS\nFacture VTE-40221 du 02/05/2024\n" +
			"0024100 CRÈME DE CASSIS GIFFARD 16% 100CL 1 BTL 1 BTL 6.5130\n" +
			"Net facture 6,51 €\n",
	}

	engine := testEngine()
	first := engine.Process(doc)
	second := engine.Process(doc)
	require.Equal(t, first, second)
}
