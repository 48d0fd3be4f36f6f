package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanDesignation(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"102946 Mangue joue", "Mangue joue"},
		{"CREME CASSIS GIFFARD 16% 100CL", "CREME CASSIS GIFFARD"},
		{"COCA COLA 6X1L", "COCA COLA"},
		{"JUS ORANGE (REF 123)", "JUS ORANGE"},
		{"EAU  GAZEUSE   PET", "EAU GAZEUSE PET"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanDesignation(tt.raw), "CleanDesignation(%q)", tt.raw)
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Creme Cassis Giffard", DisplayName("CREME CASSIS GIFFARD 16% 100CL"))
	assert.Equal(t, "Jus Orange", DisplayName("JUS ORANGE (REF 123)"))
}
