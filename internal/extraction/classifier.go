package extraction

import "strings"

// CategoryOther is the sentinel returned when no keyword matches.
const CategoryOther = "Autre"

// category pairs a label with its keyword list. Categories are tested in
// slice order and the first keyword hit wins, so the order below is part of
// the contract: "crème de cassis" must resolve to spirits, not dairy.
type category struct {
	label    string
	keywords []string
}

var categories = []category{
	{"Boissons Alcoolisées", []string{
		"gin", "whisky", "vodka", "rhum", "vin", "champagne", "bière",
		"jack daniel", "jameson", "beefeater", "lillet", "get 27",
		"crème de cassis", "alcool", "cognac",
	}},
	{"Boissons Soft", []string{
		"perrier", "coca", "limonade", "eau", "jus", "soda", "caraibos",
	}},
	{"Viande", []string{
		"boeuf", "porc", "agneau", "poulet", "veau", "souris", "côte",
	}},
	{"Poisson", []string{
		"saumon", "bar", "crevette", "lieu", "cabillaud",
	}},
	{"Légumes", []string{
		"salade", "tomate", "carotte", "champignon", "betterave", "panais",
	}},
	{"Fruits", []string{
		"pomme", "poire", "orange", "mangue", "ananas", "fraise",
	}},
	{"Produits Laitiers", []string{
		"lait", "crème", "beurre", "fromage", "yaourt",
	}},
	{"Epicerie", []string{
		"huile", "vinaigre", "sauce", "pâte", "riz", "farine",
	}},
}

// Classify maps a product designation to one category of the fixed taxonomy.
// Deterministic and order-sensitive; multi-keyword designations resolve to
// the earliest registered category.
func Classify(designation string) string {
	if designation == "" {
		return CategoryOther
	}
	lower := strings.ToLower(designation)
	for _, cat := range categories {
		for _, kw := range cat.keywords {
			if strings.Contains(lower, kw) {
				return cat.label
			}
		}
	}
	return CategoryOther
}
