package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeBarcode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"valid EAN-13", "4006381333931", "4006381333931"},
		{"EAN-13 with spaces", "400 638 133 3931", "4006381333931"},
		{"EAN-13 with dashes", "400-6381-333931", "4006381333931"},
		{"UPC-A gets leading zero", "036000291452", "0036000291452"},
		{"EAN-8 zero padded", "96385074", "0000096385074"},
		{"empty", "", ""},
		{"letters only", "abc", ""},
		{"all zeros placeholder", "0000000000000", ""},
		{"bad check digit", "4006381333932", ""},
		{"internal short code kept", "12345", "12345"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeBarcode(tt.input))
		})
	}
}
