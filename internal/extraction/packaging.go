package extraction

import (
	"regexp"
	"strconv"
	"strings"
)

// Packaging is the canonical "contenance" of a product: how many units of
// which size the line refers to, as stated inside the free-text designation.
// Distinct from the ordered quantity.
type Packaging struct {
	Label      string // display form, e.g. "6x75CL" or "1PC"
	Multiplier float64
	UnitSize   float64
	Unit       UnitKind
}

// DefaultPackaging is the fallback when a designation carries no recognizable
// format: one dimensionless piece.
var DefaultPackaging = Packaging{Label: "1PC", Multiplier: 1, UnitSize: 1, Unit: UnitCountPC}

// Ordered packaging patterns, first match wins. Measured contents
// (multiplier x size x unit, then bare size x unit) outrank pack-count
// patterns because designations almost always state liquid or weight contents
// before pack counts.
var (
	packMultRe    = regexp.MustCompile(`(\d+)\s*[X*]\s*(\d+(?:[,.]\d+)?)\s*(CL|ML|L|KG|G)\b`)
	packRevMultRe = regexp.MustCompile(`(\d+(?:[,.]\d+)?)\s*(CL|ML|L|KG|G)\s*[X*]\s*(\d+)\b`)
	packSizeRe    = regexp.MustCompile(`(\d+(?:[,.]\d+)?)\s*(CL|ML|L|KG|G)\b`)
	packCaseRe    = regexp.MustCompile(`(?:CAR|CAISSE|PACK|COLIS)\s*(?:DE\s*)?(\d{1,3})\b`)
	packCountRe   = regexp.MustCompile(`(\d{1,3})\s*(BTL|BTE|PC|UN|CAR|CAI|FAR)\b`)
)

// ExtractPackaging parses the contenance out of a product designation.
// Matching happens against the upper-cased text; unparseable designations
// fall back to DefaultPackaging rather than failing.
func ExtractPackaging(description string) Packaging {
	text := strings.ToUpper(description)

	if m := packMultRe.FindStringSubmatch(text); m != nil {
		mult, err1 := ParseDecimal(m[1])
		size, err2 := ParseDecimal(m[2])
		if err1 == nil && err2 == nil {
			kind, _ := ParseUnitToken(m[3])
			return Packaging{
				Label:      m[1] + "x" + formatSize(size) + m[3],
				Multiplier: mult,
				UnitSize:   size,
				Unit:       kind,
			}
		}
	}

	if m := packRevMultRe.FindStringSubmatch(text); m != nil {
		size, err1 := ParseDecimal(m[1])
		mult, err2 := ParseDecimal(m[3])
		if err1 == nil && err2 == nil {
			kind, _ := ParseUnitToken(m[2])
			return Packaging{
				Label:      m[3] + "x" + formatSize(size) + m[2],
				Multiplier: mult,
				UnitSize:   size,
				Unit:       kind,
			}
		}
	}

	if m := packSizeRe.FindStringSubmatch(text); m != nil {
		if size, err := ParseDecimal(m[1]); err == nil {
			kind, _ := ParseUnitToken(m[2])
			return Packaging{
				Label:      formatSize(size) + m[2],
				Multiplier: 1,
				UnitSize:   size,
				Unit:       kind,
			}
		}
	}

	if m := packCaseRe.FindStringSubmatch(text); m != nil {
		if count, err := ParseDecimal(m[1]); err == nil {
			return Packaging{Label: m[1] + "PC", Multiplier: count, UnitSize: 1, Unit: UnitCountPC}
		}
	}

	if m := packCountRe.FindStringSubmatch(text); m != nil {
		if count, err := ParseDecimal(m[1]); err == nil {
			return Packaging{Label: m[1] + m[2], Multiplier: count, UnitSize: 1, Unit: UnitCountCase}
		}
	}

	return DefaultPackaging
}

// CanonicalVolume converts the packaging to its canonical physical unit:
// liters for volumes, kilograms for weights, a dimensionless piece count for
// everything else.
func (p Packaging) CanonicalVolume() (float64, BaseUnit) {
	total := p.Multiplier * p.UnitSize
	switch p.Unit {
	case UnitVolumeCL:
		return total / 100, BaseLiter
	case UnitVolumeML:
		return total / 1000, BaseLiter
	case UnitVolumeL:
		return total, BaseLiter
	case UnitWeightG:
		return total / 1000, BaseKilo
	case UnitWeightKG:
		return total, BaseKilo
	default:
		return total, BasePiece
	}
}

// TotalPhysicalQuantity is the physical volume or weight covered by a full
// invoice line: ordered quantity times single-unit canonical volume. Used for
// aggregate reporting, never for price computation.
func (p Packaging) TotalPhysicalQuantity(lineQuantity float64) float64 {
	v, _ := p.CanonicalVolume()
	return lineQuantity * v
}

func formatSize(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
