package extraction

import (
	"regexp"
	"strings"
	"time"
)

// Header carries the invoice-level fields extracted from the document text.
type Header struct {
	InvoiceNumber string
	InvoiceDate   string // YYYY-MM-DD
	TotalTTC      float64
	VAT           float64
}

// Generic header patterns, used for unidentified suppliers and as fallback
// when a profile pattern misses.
var (
	genericInvoiceNumberRe = regexp.MustCompile(`(?i)(?:FACTURE|N°|Numéro)\s*[:=]?\s*([A-Z0-9-]{3,})`)
	genericDateRes         = []*regexp.Regexp{
		regexp.MustCompile(`(?:du|Date)\s*:?\s*(\d{2}[/.\-]\d{2}[/.\-]\d{4})`),
		regexp.MustCompile(`(\d{2}[/.\-]\d{2}[/.\-]\d{4})`),
	}
	genericTotalRe = regexp.MustCompile(`(?i)(?:TOTAL|NET|Facturé).*?([\d\s]+[,.]\d{2})`)

	vatRes = []*regexp.Regexp{
		regexp.MustCompile(`TOTAL TVA\s*([\d\s,.]+)`),
		regexp.MustCompile(`Montant TVA\s*([\d\s,.]+)`),
		regexp.MustCompile(`TVA.*?:\s*([\d\s,.]+)\s*€`),
	}
)

// headerDateLayouts are the date shapes suppliers actually print.
var headerDateLayouts = []string{
	"02.01.2006",
	"02-01-2006",
	"02/01/2006",
	"2006-01-02",
}

// ExtractHeader pulls invoice number, date, grand total and VAT out of the
// full text. profile may be nil for unidentified suppliers. The current time
// is injected by the caller: it feeds the one intentionally time-dependent
// default, the invoice date used when no date pattern matches.
func ExtractHeader(profile *SupplierProfile, fullText string, now time.Time) Header {
	h := Header{}

	numberRe := genericInvoiceNumberRe
	prefix := ""
	if profile != nil && profile.InvoiceNumberRe != nil {
		numberRe = profile.InvoiceNumberRe
		prefix = profile.InvoiceNumberPrefix
	}
	if m := numberRe.FindStringSubmatch(fullText); m != nil {
		h.InvoiceNumber = prefix + m[1]
	} else if m := genericInvoiceNumberRe.FindStringSubmatch(fullText); m != nil {
		h.InvoiceNumber = m[1]
	}

	if raw, ok := findDate(profile, fullText); ok {
		h.InvoiceDate = normalizeDate(raw)
	}
	if h.InvoiceDate == "" {
		h.InvoiceDate = now.Format("2006-01-02")
	}

	if v, ok := findTotal(profile, fullText); ok {
		h.TotalTTC = v
	}

	for _, re := range vatRes {
		m := re.FindStringSubmatch(fullText)
		if m == nil {
			continue
		}
		if v, err := ParseDecimal(strings.Trim(m[1], " .")); err == nil {
			h.VAT = v
			break
		}
	}

	return h
}

func findDate(profile *SupplierProfile, text string) (string, bool) {
	if profile != nil && profile.DateRe != nil {
		if m := profile.DateRe.FindStringSubmatch(text); m != nil {
			return m[1], true
		}
	}
	for _, re := range genericDateRes {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1], true
		}
	}
	return "", false
}

func findTotal(profile *SupplierProfile, text string) (float64, bool) {
	if profile != nil && profile.TotalRe != nil {
		if m := profile.TotalRe.FindStringSubmatch(text); m != nil {
			if v, err := ParseDecimal(strings.Trim(m[1], " .")); err == nil {
				return v, true
			}
		}
	}
	if m := genericTotalRe.FindStringSubmatch(text); m != nil {
		if v, err := ParseDecimal(strings.Trim(m[1], " .")); err == nil {
			return v, true
		}
	}
	return 0, false
}

// normalizeDate converts a supplier-printed date to YYYY-MM-DD. Unparseable
// strings pass through unchanged rather than being dropped.
func normalizeDate(raw string) string {
	s := strings.TrimSpace(raw)
	for _, layout := range headerDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}
