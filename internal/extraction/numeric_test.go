package extraction

import "testing"

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		token   string
		want    float64
		wantErr bool
	}{
		{"12,50", 12.50, false},
		{"12.50", 12.50, false},
		{"1 234,50", 1234.50, false},
		{"1 234.50", 1234.50, false},
		{"6.5130", 6.513, false},
		{"29,98", 29.98, false},
		{"3", 3, false},
		{"0,00", 0, false},
		{"", 0, true},
		{"12a", 0, true},
		{"BTL", 0, true},
		{"12,50 EUR", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseDecimal(tt.token)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseDecimal(%q) = %v, want error", tt.token, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDecimal(%q) unexpected error: %v", tt.token, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDecimal(%q) = %v, want %v", tt.token, got, tt.want)
		}
	}
}

func TestParseDecimalSeparatorEquivalence(t *testing.T) {
	comma, err1 := ParseDecimal("12,50")
	dot, err2 := ParseDecimal("12.50")
	if err1 != nil || err2 != nil {
		t.Fatalf("unexpected errors: %v, %v", err1, err2)
	}
	if comma != dot {
		t.Errorf("separator styles disagree: %v vs %v", comma, dot)
	}
}

func TestParseUnitToken(t *testing.T) {
	tests := []struct {
		token string
		want  UnitKind
		ok    bool
	}{
		{"CL", UnitVolumeCL, true},
		{"cl", UnitVolumeCL, true},
		{"ML", UnitVolumeML, true},
		{"L", UnitVolumeL, true},
		{"KG", UnitWeightKG, true},
		{"G", UnitWeightG, true},
		{"PC", UnitCountPC, true},
		{"UN", UnitCountPC, true},
		{"BTL", UnitCountCase, true},
		{"CAR", UnitCountCase, true},
		{"PCH", UnitCountCase, true},
		{"BQT", UnitCountCase, true},
		{"XYZ", UnitNone, false},
		{"", UnitNone, false},
	}

	for _, tt := range tests {
		got, ok := ParseUnitToken(tt.token)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseUnitToken(%q) = (%v, %v), want (%v, %v)", tt.token, got, ok, tt.want, tt.ok)
		}
	}
}
