package extraction

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Patterns stripped from designations to obtain the bare product name:
// leading article codes, packaging formats, percentages and parenthesised
// supplier codes.
var (
	leadingCodeRe  = regexp.MustCompile(`^\d+\s+`)
	packFormatRe   = regexp.MustCompile(`(?i)\d+[xX*]\d+[,.]?\d*\s*(?:CL|ML|L|KG|G)?`)
	sizeFormatRe   = regexp.MustCompile(`(?i)\d+[,.]?\d*\s*(?:CL|ML|KG)`)
	percentRe      = regexp.MustCompile(`\d+\s*%`)
	packCountTagRe = regexp.MustCompile(`\d+P\s`)
	parenRe        = regexp.MustCompile(`\([^)]*\)`)
)

var titleCaser = cases.Title(language.French)

// CleanDesignation strips codes and packaging noise from a raw designation.
func CleanDesignation(raw string) string {
	s := leadingCodeRe.ReplaceAllString(raw, "")
	s = packFormatRe.ReplaceAllString(s, "")
	s = sizeFormatRe.ReplaceAllString(s, "")
	s = percentRe.ReplaceAllString(s, "")
	s = packCountTagRe.ReplaceAllString(s, "")
	s = parenRe.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

// DisplayName renders a cleaned designation for reports: title case, short
// words upper-cased, capped length.
func DisplayName(raw string) string {
	words := strings.Fields(CleanDesignation(raw))
	for i, w := range words {
		if len(w) > 2 {
			words[i] = titleCaser.String(strings.ToLower(w))
		} else {
			words[i] = strings.ToUpper(w)
		}
	}
	out := strings.Join(words, " ")
	if len(out) > 60 {
		out = out[:60]
	}
	return out
}
