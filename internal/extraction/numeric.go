package extraction

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// UnitKind classifies a measurement unit token found on an invoice line or
// inside a product designation.
type UnitKind int

const (
	UnitNone UnitKind = iota
	UnitVolumeCL
	UnitVolumeML
	UnitVolumeL
	UnitWeightG
	UnitWeightKG
	UnitCountPC   // single piece or unit
	UnitCountCase // case/crate/bottle packaging words
)

// BaseUnit is the canonical physical unit records are reported in.
type BaseUnit string

const (
	BaseLiter BaseUnit = "L"
	BaseKilo  BaseUnit = "KG"
	BasePiece BaseUnit = "PC"
)

// unitTokens maps short alphabetic invoice tokens to their kind. Suppliers use
// a zoo of case words (BTL bottle, CAR carton, CAI crate, FAR bundle, COL
// package, SAC bag, PCH pouch, BQT bunch, FLT punnet, BID canister).
var unitTokens = map[string]UnitKind{
	"CL": UnitVolumeCL,
	"ML": UnitVolumeML,
	"L":  UnitVolumeL,
	"G":  UnitWeightG,
	"KG": UnitWeightKG,

	"PC": UnitCountPC,
	"UN": UnitCountPC,
	"PU": UnitCountPC,

	"BTL": UnitCountCase,
	"BTE": UnitCountCase,
	"CAR": UnitCountCase,
	"CAI": UnitCountCase,
	"FAR": UnitCountCase,
	"COL": UnitCountCase,
	"SAC": UnitCountCase,
	"PCH": UnitCountCase,
	"BQT": UnitCountCase,
	"FLT": UnitCountCase,
	"BID": UnitCountCase,
}

// ParseDecimal parses a locale-formatted numeric token. Both "12,50" and
// "12.50" yield 12.5; thousands may be separated by spaces ("1 234,50").
// Tokens containing letters are rejected.
func ParseDecimal(token string) (float64, error) {
	s := strings.TrimSpace(token)
	if s == "" {
		return 0, newError(ErrNotNumeric, "empty token")
	}
	for _, r := range s {
		if unicode.IsLetter(r) {
			return 0, newError(ErrNotNumeric, "token %q contains letters", token)
		}
	}
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &Error{Code: ErrNotNumeric, Message: "token " + strconv.Quote(token), Cause: err}
	}
	return v, nil
}

// ParseUnitToken classifies a short alphabetic token. Unknown tokens return
// (UnitNone, false) and the caller substitutes the supplier default.
func ParseUnitToken(token string) (UnitKind, bool) {
	kind, ok := unitTokens[strings.ToUpper(strings.TrimSpace(token))]
	return kind, ok
}

// round2 rounds to two decimals, the precision every amount is reported at.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
