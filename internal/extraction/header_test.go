package extraction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testClock = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func profileByKey(t *testing.T, key string) *SupplierProfile {
	t.Helper()
	for _, p := range DefaultRegistry().Profiles() {
		if p.Key == key {
			return p
		}
	}
	t.Fatalf("no profile %q", key)
	return nil
}

func TestExtractHeaderTerreAzur(t *testing.T) {
	text := "TERREAZUR BRETAGNE\n" +
		"FACTURE N° 8123456 du 15.03.2024\n" +
		"TOTAL TVA 56,78\n" +
		"Net à payer : 1 234,56 EUR\n"

	h := ExtractHeader(profileByKey(t, "TerreAzur"), text, testClock)
	assert.Equal(t, "8123456", h.InvoiceNumber)
	assert.Equal(t, "2024-03-15", h.InvoiceDate)
	assert.InDelta(t, 1234.56, h.TotalTTC, 1e-9)
	assert.InDelta(t, 56.78, h.VAT, 1e-9)
}

func TestExtractHeaderFougeres(t *testing.T) {
	text := "FOUGERES BOISSONS\nFacture VTE-40221 du 02/05/2024\nNet facture 890,10 €\n"

	h := ExtractHeader(profileByKey(t, "Fougères Boissons"), text, testClock)
	assert.Equal(t, "VTE-40221", h.InvoiceNumber)
	assert.Equal(t, "2024-05-02", h.InvoiceDate)
	assert.InDelta(t, 890.10, h.TotalTTC, 1e-9)
}

func TestExtractHeaderMetroDashDate(t *testing.T) {
	text := "METRO FRANCE\nN° FACTURE 87654321\nDate facture : 12-03-2024\nTotal à payer 410,00\n"

	h := ExtractHeader(profileByKey(t, "Metro"), text, testClock)
	assert.Equal(t, "87654321", h.InvoiceNumber)
	assert.Equal(t, "2024-03-12", h.InvoiceDate)
	assert.InDelta(t, 410.00, h.TotalTTC, 1e-9)
}

func TestExtractHeaderGenericFallback(t *testing.T) {
	text := "BOULANGERIE DUPONT\nFACTURE : A-2024-77\nDate : 07/02/2024\nTOTAL TTC 88,20\n"

	h := ExtractHeader(nil, text, testClock)
	assert.Equal(t, "A-2024-77", h.InvoiceNumber)
	assert.Equal(t, "2024-02-07", h.InvoiceDate)
	assert.InDelta(t, 88.20, h.TotalTTC, 1e-9)
}

// The default invoice date is the single intentionally time-dependent field;
// it must come from the injected clock, not the wall clock.
func TestExtractHeaderDateDefaultsToClock(t *testing.T) {
	h := ExtractHeader(nil, "FACTURE 123 sans date TOTAL 10,00", testClock)
	require.Equal(t, "2024-06-01", h.InvoiceDate)
}
