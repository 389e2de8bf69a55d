package domain

import (
	"fmt"
	"strings"
)

// Supported barcode lengths.
const (
	EAN8Length  = 8
	EAN13Length = 13
)

// NormalizeBarcode strips whitespace and common separators from manually
// entered codes.
func NormalizeBarcode(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range strings.TrimSpace(raw) {
		switch r {
		case ' ', '-', '\t':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ValidateBarcode accepts digits-only EAN-8 and EAN-13 codes.
func ValidateBarcode(code string) error {
	if len(code) != EAN8Length && len(code) != EAN13Length {
		return fmt.Errorf("%w: %q must have %d or %d digits", ErrInvalidBarcode, code, EAN8Length, EAN13Length)
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: %q must contain digits only", ErrInvalidBarcode, code)
		}
	}
	return nil
}

// BarcodeChecksumValid reports whether the trailing GS1 check digit matches.
// The code must already pass ValidateBarcode.
func BarcodeChecksumValid(code string) bool {
	if ValidateBarcode(code) != nil {
		return false
	}
	sum := 0
	body := code[:len(code)-1]
	// weights alternate 3,1 starting from the digit next to the check digit
	for i := len(body) - 1; i >= 0; i-- {
		d := int(body[i] - '0')
		if (len(body)-1-i)%2 == 0 {
			d *= 3
		}
		sum += d
	}
	check := (10 - sum%10) % 10
	return check == int(code[len(code)-1]-'0')
}
