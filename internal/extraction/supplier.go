package extraction

import (
	"regexp"
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// SupplierUnknown is the key used when no profile signature matches. Unknown
// documents are routed through the generic extraction path.
const SupplierUnknown = "Autre fournisseur"

// LineTemplate is one positional regex for a full product line. Group indices
// name the capture group carrying each field; zero means the template does
// not capture it.
type LineTemplate struct {
	Re          *regexp.Regexp
	Code        int
	Designation int
	Quantity    int
	Unit        int
	UnitPrice   int
	Total       int

	// QtyFromDesignation recovers the quantity from a "6 PC" style token
	// inside the designation when the line itself carries none.
	QtyFromDesignation bool
}

// SupplierProfile is one registry entry: how to recognize a supplier and how
// to pull header fields and product lines out of its layout. Profiles are
// configuration data, immutable after process start; adding a supplier means
// appending an entry here, not touching the extraction algorithms.
type SupplierProfile struct {
	Key        string
	Signatures []string

	InvoiceNumberRe     *regexp.Regexp
	InvoiceNumberPrefix string
	DateRe              *regexp.Regexp
	TotalRe             *regexp.Regexp

	// CodeRe decides whether a table row's first cell is a product code.
	CodeRe *regexp.Regexp

	LineTemplates []LineTemplate

	DefaultUnit string

	// ForcedCategory and DefaultPackaging override classification for
	// suppliers with a known single trade (e.g. a wine merchant).
	ForcedCategory   string
	DefaultPackaging *Packaging
}

// builtinProfiles is the supplier roster, in matching priority order.
// Profiles with the more specific signatures come first so that overlapping
// brand text resolves deterministically.
var builtinProfiles = []*SupplierProfile{
	{
		Key:                 "Fougères Boissons",
		Signatures:          []string{"FOUGERES BOISSONS", "OUEST BOISSONS", "VTE-"},
		InvoiceNumberRe:     regexp.MustCompile(`VTE-(\d+)`),
		InvoiceNumberPrefix: "VTE-",
		DateRe:              regexp.MustCompile(`du\s+(\d{2}/\d{2}/\d{4})`),
		TotalRe:             regexp.MustCompile(`Net facture\s*([\d\s,.]+)\s*€`),
		CodeRe:              regexp.MustCompile(`^\d{7}$`),
		LineTemplates: []LineTemplate{{
			Re:          regexp.MustCompile(`^(\d{7})\s+(.*?)\s+(\d+)\s+(BTL|CAR|CAI|FAR)\s+.*?\s+([\d,.]+)\s*$`),
			Code:        1,
			Designation: 2,
			Quantity:    3,
			Unit:        4,
			Total:       5,
		}},
		DefaultUnit: "BTL",
	},
	{
		Key:             "Metro",
		Signatures:      []string{"METRO.FR", "METRO FRANCE"},
		InvoiceNumberRe: regexp.MustCompile(`(?:FACTURE|N°)\s*(\d{8,})`),
		DateRe:          regexp.MustCompile(`Date facture\s*:\s*(\d{2}-\d{2}-\d{4})`),
		TotalRe:         regexp.MustCompile(`Total à payer\s*([\d\s,.]+)`),
		CodeRe:          regexp.MustCompile(`^\d{10,13}$`),
		LineTemplates: []LineTemplate{{
			Re:                 regexp.MustCompile(`^(\d{10,13})\s+(?:\d{6,}\s+)?(.+?)\s+(\d+[,.]\d{2})\b`),
			Code:               1,
			Designation:        2,
			Total:              3,
			QtyFromDesignation: true,
		}},
		DefaultUnit: "UN",
	},
	{
		Key:             "Promocash",
		Signatures:      []string{"PROMOCASH"},
		InvoiceNumberRe: regexp.MustCompile(`(?:FACTURE|N°)\s*(\d{6,})`),
		DateRe:          regexp.MustCompile(`(\d{2}/\d{2}/\d{4})`),
		TotalRe:         regexp.MustCompile(`(?i)Total.*?([\d\s]+[,.]\d{2})`),
		CodeRe:          regexp.MustCompile(`^\d{5,}$`),
		DefaultUnit:     "UN",
	},
	{
		Key:             "Cave Les 3B",
		Signatures:      []string{"CAVE LES 3B", "SOMMELIERS-CAVISTES"},
		InvoiceNumberRe: regexp.MustCompile(`N°(F\d+)`),
		DateRe:          regexp.MustCompile(`Date document\s*:\s*(\d{2}/\d{2}/\d{4})`),
		TotalRe:         regexp.MustCompile(`NET A PAYER\s*([\d\s,.]+)\s*€`),
		CodeRe:          regexp.MustCompile(`^[A-Z]+\d+`),
		LineTemplates: []LineTemplate{{
			Re:          regexp.MustCompile(`^([A-Z]+\d+)\s+(.*?)\s+([\d,.]+)\s+([\d,.]+)\s+([\d,.]+)\s+([\d,.]+)\s+C\d+`),
			Code:        1,
			Designation: 2,
			Quantity:    3,
			UnitPrice:   4,
			Total:       6,
		}},
		DefaultUnit:      "BTL",
		ForcedCategory:   "Vins et Spiritueux",
		DefaultPackaging: &Packaging{Label: "75CL", Multiplier: 1, UnitSize: 75, Unit: UnitVolumeCL},
	},
	{
		Key:             "TerreAzur",
		Signatures:      []string{"TERREAZUR", "TERRE AZUR", "TA BRETAGNE"},
		InvoiceNumberRe: regexp.MustCompile(`FACTURE\s+N°\s*(\d+)`),
		DateRe:          regexp.MustCompile(`du\s+(\d{2}\.\d{2}\.\d{4})`),
		TotalRe:         regexp.MustCompile(`Net à payer\s*:\s*([\d\s,.]+)\s*EUR`),
		CodeRe:          regexp.MustCompile(`^\d+/\s*\d+`),
		LineTemplates: []LineTemplate{{
			Re:          regexp.MustCompile(`^\d+/\s+(\d+)\s+(.*?)\s+(\d+[,.]\d+)\s+(PCH|KG|COL|SAC|PU|FLT|BQT)\s+.*?\s+([\d,.]+)\s*$`),
			Code:        1,
			Designation: 2,
			Quantity:    3,
			Unit:        4,
			Total:       5,
		}},
		DefaultUnit: "COL",
	},
	{
		Key:             "EpiSaveurs",
		Signatures:      []string{"EPISAVEURS", "EPI SAVEURS"},
		InvoiceNumberRe: regexp.MustCompile(`FACTURE\s+N°\s*(\d+)`),
		DateRe:          regexp.MustCompile(`du\s+(\d{2}\.\d{2}\.\d{4})`),
		TotalRe:         regexp.MustCompile(`Net à payer\s*:\s*([\d\s,.]+)\s*EUR`),
		CodeRe:          regexp.MustCompile(`^\d{5,}$`),
		LineTemplates: []LineTemplate{{
			Re:          regexp.MustCompile(`^\d+/\s+(\d+)\s+(.*?)\s+(\d+[,.]\d+)\s+(BID|PCH|COL|BTL|SAC)\s+.*?\s+([\d,.]+)`),
			Code:        1,
			Designation: 2,
			Quantity:    3,
			Unit:        4,
			Total:       5,
		}},
		DefaultUnit: "COL",
	},
	{
		Key:             "Colin RHD",
		Signatures:      []string{"COLIN RHD"},
		InvoiceNumberRe: regexp.MustCompile(`FACTURE\s+(\w+)`),
		DateRe:          regexp.MustCompile(`Date.*?(\d{2}/\d{2}/\d{4})`),
		TotalRe:         regexp.MustCompile(`NET À PAYER\s*:\s*\*+([\d,.]+)`),
		CodeRe:          regexp.MustCompile(`^T\d+$`),
		LineTemplates: []LineTemplate{{
			Re:          regexp.MustCompile(`^(T\d+)\s+(\d+)\s+(CAR|UN)\s+(.*?)\s+([\d,.]+)\s+([\d,.]+)`),
			Code:        1,
			Quantity:    2,
			Unit:        3,
			Designation: 4,
			UnitPrice:   5,
			Total:       6,
		}},
		DefaultUnit: "CAR",
	},
	{
		Key:             "Passionfroid",
		Signatures:      []string{"PASSIONFROID"},
		InvoiceNumberRe: regexp.MustCompile(`FACTURE\s+N°\s*(\d+)`),
		DateRe:          regexp.MustCompile(`du\s+(\d{2}\.\d{2}\.\d{4})`),
		TotalRe:         regexp.MustCompile(`Net à payer\s*:\s*([\d\s,.]+)\s*EUR`),
		CodeRe:          regexp.MustCompile(`^\d{5,}$`),
		LineTemplates: []LineTemplate{{
			Re:          regexp.MustCompile(`^\d+/\s+(\d+)\s+(.*?)\s+(\d+[,.]\d+)\s+(COL|PU|KG)\s+.*?\s+([\d,.]+)`),
			Code:        1,
			Designation: 2,
			Quantity:    3,
			Unit:        4,
			Total:       5,
		}},
		DefaultUnit: "COL",
	},
	{
		Key:             "SVA Jean Roze",
		Signatures:      []string{"SVA JEAN ROZE"},
		InvoiceNumberRe: regexp.MustCompile(`(?i)(?:FACTURE|N°)\s*[:=]?\s*([A-Z0-9-]+)`),
		DateRe:          regexp.MustCompile(`(\d{2}/\d{2}/\d{4})`),
		TotalRe:         regexp.MustCompile(`(?i)Total.*?([\d\s]+[,.]\d{2})`),
		CodeRe:          regexp.MustCompile(`^\d{3,}`),
		DefaultUnit:     "KG",
	},
}

// Registry holds the supplier profiles plus an Aho-Corasick matcher built
// over every signature, so identification is a single pass over the document
// regardless of roster size. Read-only after construction and therefore safe
// to share across concurrent document workers.
type Registry struct {
	profiles []*SupplierProfile
	matcher  *ahocorasick.Matcher
	sigOwner []int // signature index -> profile index
}

// NewRegistry builds a registry from an ordered profile list.
func NewRegistry(profiles []*SupplierProfile) *Registry {
	var dict []string
	var owner []int
	for i, p := range profiles {
		for _, sig := range p.Signatures {
			dict = append(dict, strings.ToUpper(sig))
			owner = append(owner, i)
		}
	}
	return &Registry{
		profiles: profiles,
		matcher:  ahocorasick.NewStringMatcher(dict),
		sigOwner: owner,
	}
}

// DefaultRegistry returns a registry over the built-in supplier roster.
func DefaultRegistry() *Registry {
	return NewRegistry(builtinProfiles)
}

// Identify scans the full document text for supplier signatures
// (case-insensitive) and returns the earliest-registered matching profile,
// or nil when no supplier is recognized.
func (r *Registry) Identify(fullText string) *SupplierProfile {
	hits := r.matcher.Match([]byte(strings.ToUpper(fullText)))
	best := -1
	for _, h := range hits {
		if p := r.sigOwner[h]; best == -1 || p < best {
			best = p
		}
	}
	if best == -1 {
		return nil
	}
	return r.profiles[best]
}

// Profiles exposes the ordered roster, for reporting.
func (r *Registry) Profiles() []*SupplierProfile {
	return r.profiles
}
