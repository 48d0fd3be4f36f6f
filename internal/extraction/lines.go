package extraction

import (
	"regexp"
	"strings"
)

const (
	// minLineYield is the candidate count a strategy must reach before the
	// cascade stops. Short documents are accepted with any non-empty yield.
	minLineYield  = 3
	shortDocLines = 40

	// quantityCeiling separates quantity-like integers from code-like ones
	// when a table cell carries no role label.
	quantityCeiling = 100

	minDesignationLen = 4
)

var (
	integerCellRe = regexp.MustCompile(`^\d+$`)
	decimalCellRe = regexp.MustCompile(`^\d+[,.]\d+$`)
	numericOnlyRe = regexp.MustCompile(`^[\d\s,.]+$`)

	genericCodeRes = []*regexp.Regexp{
		regexp.MustCompile(`^\d{3,}`),
		regexp.MustCompile(`^[A-Z]+\d+`),
	}

	// genericLineRe is the supplier-agnostic last resort: optional leading
	// code, free-text span, small integer quantity, decimal amount, in that
	// relative order.
	genericLineRe = regexp.MustCompile(`^(?:([A-Z]*\d[A-Z0-9/-]*)\s+)?(\D.*?)\s+(\d{1,2})\s+(\d{1,3}(?:\s\d{3})*[,.]\d{2})\b`)

	qtyInDesignationRe = regexp.MustCompile(`(\d+)\s*(?:PC|UN|X)`)
)

// ExtractLines runs the strategy cascade over one document: table-structured
// extraction first, then per-supplier line templates, then the generic
// fallback. Later strategies only run when the accumulated yield is still
// below threshold, and never re-add a product code already claimed. profile
// may be nil for unidentified suppliers.
func ExtractLines(profile *SupplierProfile, doc Document) []LineCandidate {
	lines := splitLines(doc.Text)
	threshold := minLineYield
	if len(lines) < shortDocLines {
		threshold = 1
	}

	candidates := extractFromTables(profile, doc.Tables)
	if len(candidates) >= threshold {
		return candidates
	}

	if profile != nil && len(profile.LineTemplates) > 0 {
		candidates = mergeByCode(candidates, extractFromTemplates(profile, lines))
		if len(candidates) >= threshold {
			return candidates
		}
	}

	candidates = mergeByCode(candidates, extractGeneric(lines))
	return candidates
}

// extractFromTables scans raw table rows. A row qualifies when its first
// cell matches the supplier's code shape; the remaining cells are read
// positionally: small integers as quantity, decimals as price candidates,
// the longest free-text cell as designation.
func extractFromTables(profile *SupplierProfile, tables []RawTable) []LineCandidate {
	var out []LineCandidate
	for _, table := range tables {
		for _, row := range table {
			if len(row) < 3 {
				continue
			}
			code := cellText(row[0])
			if !matchesCodeShape(profile, code) {
				continue
			}

			quantity := 1.0
			designation := ""
			var amounts []float64
			for _, cell := range row[1:] {
				s := cellText(cell)
				switch {
				case s == "":
				case integerCellRe.MatchString(s):
					if v, err := ParseDecimal(s); err == nil && v < quantityCeiling {
						quantity = v
					}
				case decimalCellRe.MatchString(s):
					if v, err := ParseDecimal(s); err == nil && len(amounts) < 2 {
						amounts = append(amounts, v)
					}
				case len(s) > minDesignationLen && !numericOnlyRe.MatchString(s):
					if len(s) > len(designation) {
						designation = s
					}
				}
			}

			unitPrice, total, low := reconcileAmounts(amounts, quantity)
			if total <= 0 || designation == "" {
				continue // row carries no usable price: skip, never fail
			}
			out = append(out, LineCandidate{
				Code:          code,
				Designation:   designation,
				Quantity:      quantity,
				Unit:          defaultUnit(profile),
				UnitPrice:     unitPrice,
				Total:         total,
				LowConfidence: low,
			})
		}
	}
	return out
}

// extractFromTemplates matches each text line against the supplier's ordered
// regex templates; the first template hit per line wins.
func extractFromTemplates(profile *SupplierProfile, lines []string) []LineCandidate {
	var out []LineCandidate
	for _, line := range lines {
		for _, tpl := range profile.LineTemplates {
			m := tpl.Re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			if cand, ok := candidateFromMatch(profile, tpl, m); ok {
				out = append(out, cand)
			}
			break
		}
	}
	return out
}

func candidateFromMatch(profile *SupplierProfile, tpl LineTemplate, m []string) (LineCandidate, bool) {
	cand := LineCandidate{Quantity: 1, Unit: defaultUnit(profile)}

	if tpl.Code > 0 {
		cand.Code = strings.TrimSpace(m[tpl.Code])
	}
	if tpl.Designation > 0 {
		cand.Designation = strings.TrimSpace(m[tpl.Designation])
	}
	if tpl.Quantity > 0 {
		if v, err := ParseDecimal(m[tpl.Quantity]); err == nil && v > 0 {
			cand.Quantity = v
		}
	} else if tpl.QtyFromDesignation {
		if qm := qtyInDesignationRe.FindStringSubmatch(cand.Designation); qm != nil {
			if v, err := ParseDecimal(qm[1]); err == nil && v > 0 {
				cand.Quantity = v
			}
		}
	}
	if tpl.Unit > 0 {
		cand.Unit = m[tpl.Unit]
	}

	var amounts []float64
	if tpl.UnitPrice > 0 {
		if v, err := ParseDecimal(m[tpl.UnitPrice]); err == nil {
			amounts = append(amounts, v)
		}
	}
	if tpl.Total > 0 {
		if v, err := ParseDecimal(m[tpl.Total]); err == nil {
			amounts = append(amounts, v)
		}
	}

	unitPrice, total, low := reconcileAmounts(amounts, cand.Quantity)
	if total <= 0 {
		return LineCandidate{}, false
	}
	cand.UnitPrice = unitPrice
	cand.Total = total
	cand.LowConfidence = low
	return cand, true
}

// extractGeneric is the supplier-agnostic fallback over raw text lines.
func extractGeneric(lines []string) []LineCandidate {
	var out []LineCandidate
	for _, line := range lines {
		m := genericLineRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		designation := strings.TrimSpace(m[2])
		if len(designation) <= minDesignationLen || numericOnlyRe.MatchString(designation) {
			continue
		}
		quantity := 1.0
		if v, err := ParseDecimal(m[3]); err == nil && v > 0 {
			quantity = v
		}
		amount, err := ParseDecimal(m[4])
		if err != nil || amount <= 0 {
			continue
		}
		unitPrice, total, _ := reconcileAmounts([]float64{amount}, quantity)
		out = append(out, LineCandidate{
			Code:        strings.TrimSpace(m[1]),
			Designation: designation,
			Quantity:    quantity,
			Unit:        "UN",
			UnitPrice:   unitPrice,
			Total:       total,
		})
	}
	return out
}

// mergeByCode appends extra candidates whose product code is not already
// claimed. Codeless extras are kept only when nothing was found before,
// since they cannot be deduplicated.
func mergeByCode(base, extra []LineCandidate) []LineCandidate {
	if len(extra) == 0 {
		return base
	}
	baseWasEmpty := len(base) == 0
	seen := make(map[string]bool, len(base))
	for _, c := range base {
		if c.Code != "" {
			seen[c.Code] = true
		}
	}
	for _, c := range extra {
		switch {
		case c.Code == "":
			// codeless candidates cannot be deduplicated; keep them only
			// when the earlier strategies found nothing at all
			if baseWasEmpty {
				base = append(base, c)
			}
		case !seen[c.Code]:
			seen[c.Code] = true
			base = append(base, c)
		}
	}
	return base
}

func matchesCodeShape(profile *SupplierProfile, code string) bool {
	if code == "" {
		return false
	}
	if profile != nil && profile.CodeRe != nil {
		return profile.CodeRe.MatchString(code)
	}
	for _, re := range genericCodeRes {
		if re.MatchString(code) {
			return true
		}
	}
	return false
}

func defaultUnit(profile *SupplierProfile) string {
	if profile != nil && profile.DefaultUnit != "" {
		return profile.DefaultUnit
	}
	return "UN"
}

func cellText(cell *string) string {
	if cell == nil {
		return ""
	}
	return strings.TrimSpace(*cell)
}

func splitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
