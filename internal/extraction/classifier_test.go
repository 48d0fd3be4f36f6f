package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		desc string
		want string
	}{
		{"GIN BEEFEATER 70CL", "Boissons Alcoolisées"},
		{"PERRIER FINES BULLES 6X1L", "Boissons Soft"},
		{"COTE DE BOEUF PIECE", "Viande"},
		{"FILET SAUMON ECOSSE", "Poisson"},
		{"TOMATE GRAPPE EXTRA", "Légumes"},
		{"MANGUE AVION PIECE", "Fruits"},
		{"BEURRE DOUX PLAQUETTE 250G", "Produits Laitiers"},
		{"HUILE OLIVE VIERGE 1L", "Epicerie"},
		{"SERVIETTE PAPIER BLANCHE", CategoryOther},
		{"", CategoryOther},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.desc), "Classify(%q)", tt.desc)
	}
}

// A designation holding keywords from several categories must resolve to the
// earliest registered one: crème de cassis is a liqueur, not a dairy product.
func TestClassifyOrderPrecedence(t *testing.T) {
	assert.Equal(t, "Boissons Alcoolisées", Classify("CRÈME DE CASSIS"))
	assert.Equal(t, "Boissons Alcoolisées", Classify("crème de cassis giffard"))

	// plain crème still lands in dairy
	assert.Equal(t, "Produits Laitiers", Classify("CRÈME FLEURETTE 35%"))

	// substring matching is part of the contract too: "agneau" contains
	// "eau", and soft drinks are registered before meat
	assert.Equal(t, "Boissons Soft", Classify("SOURIS AGNEAU FR"))
}
