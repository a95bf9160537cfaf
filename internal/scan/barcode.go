// Package scan identifies grocery products from barcodes or camera
// captures sent to the vision endpoint.
package scan

import "regexp"

var (
	nonDigitRe    = regexp.MustCompile(`\D`)
	placeholderRe = regexp.MustCompile(`^0+$`)
)

// NormalizeBarcode cleans a scanned barcode for catalog lookup: strips
// non-digits, rejects all-zero placeholders, pads UPC-A and EAN-8 to
// EAN-13 and validates the check digit. Returns "" for unusable codes;
// non-standard lengths pass through as retailer-internal codes.
func NormalizeBarcode(barcode string) string {
	bc := nonDigitRe.ReplaceAllString(barcode, "")
	if bc == "" {
		return ""
	}
	if placeholderRe.MatchString(bc) {
		return ""
	}

	// UPC-A (12 digits) and EAN-8 pad to EAN-13 with leading zeros.
	if len(bc) == 12 {
		bc = "0" + bc
	} else if len(bc) == 8 {
		bc = "00000" + bc
	}

	if len(bc) != 13 {
		// Retailer-internal code, usable as-is for lookup.
		return bc
	}
	if !validEAN13CheckDigit(bc) {
		return ""
	}
	return bc
}

func validEAN13CheckDigit(bc string) bool {
	if len(bc) != 13 {
		return false
	}
	sum := 0
	for i := 0; i < 12; i++ {
		d := int(bc[i] - '0')
		if i%2 == 0 {
			sum += d
		} else {
			sum += d * 3
		}
	}
	check := (10 - sum%10) % 10
	return check == int(bc[12]-'0')
}
