package pdfio

import (
	"strings"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeInvalidBytes(t *testing.T) {
	result := Analyze([]byte("this is not a pdf"))

	require.NotNil(t, result)
	assert.Error(t, result.Err)
	assert.True(t, result.IsScanned)
	assert.Equal(t, 1, result.PageCount)
	assert.Empty(t, result.Lines)
	assert.Empty(t, result.Tables)
}

func TestAnalyzeEmptyBytes(t *testing.T) {
	result := Analyze(nil)

	require.NotNil(t, result)
	assert.Error(t, result.Err)
	assert.True(t, result.IsScanned)
}

func TestDocumentCarriesSourceFile(t *testing.T) {
	a := &Analysis{Text: "FACTURE 123\n", Lines: []string{"FACTURE 123"}}

	doc := a.Document("facture_mai.pdf")

	assert.Equal(t, "facture_mai.pdf", doc.SourceFile)
	assert.Equal(t, "FACTURE 123\n", doc.Text)
	assert.Empty(t, doc.Tables)
}

func TestSplitCellsGroupsByGap(t *testing.T) {
	words := pdf.TextHorizontal{
		{X: 10, W: 30, S: "CREME"},
		{X: 44, W: 36, S: "CASSIS"},
		{X: 200, W: 10, S: "6"},
		{X: 300, W: 25, S: "12,50"},
	}

	cells := splitCells(words)

	require.Len(t, cells, 3)
	assert.Equal(t, "CREME CASSIS", *cells[0])
	assert.Equal(t, "6", *cells[1])
	assert.Equal(t, "12,50", *cells[2])
}

func TestSplitCellsSortsByX(t *testing.T) {
	words := pdf.TextHorizontal{
		{X: 300, W: 25, S: "12,50"},
		{X: 10, W: 40, S: "TOTAL"},
	}

	cells := splitCells(words)

	require.Len(t, cells, 2)
	assert.Equal(t, "TOTAL", *cells[0])
	assert.Equal(t, "12,50", *cells[1])
}

func TestIsLikelyScanned(t *testing.T) {
	assert.True(t, isLikelyScanned("", 1))
	assert.True(t, isLikelyScanned("short", 3))
	assert.False(t, isLikelyScanned(strings.Repeat("facture ligne produit\n", 20), 1))
}
