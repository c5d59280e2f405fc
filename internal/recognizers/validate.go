package recognizers

import (
	"fmt"
	"math/big"
	"strings"
)

// Validation names an optional checksum gate applied to each pattern match.
// A failing candidate is silently dropped, never an error.
type Validation string

const (
	// ValidationNone accepts every match.
	ValidationNone Validation = ""
	// ValidationLuhn checks the Luhn algorithm (ISO/IEC 7812) over the
	// match's digits. Used for credit cards.
	ValidationLuhn Validation = "luhn"
	// ValidationIBAN checks country-specific length and the MOD-97 check
	// digits per ISO 13616.
	ValidationIBAN Validation = "iban"
)

// Accept reports whether the matched value passes the checksum gate.
func (v Validation) Accept(value string) bool {
	switch v {
	case ValidationLuhn:
		return luhnValid(stripNonDigits(value))
	case ValidationIBAN:
		clean := strings.ReplaceAll(value, " ", "")
		return validIBANLength(clean) && validIBANChecksum(clean)
	default:
		return true
	}
}

// luhnValid checks whether a digit string passes the Luhn algorithm.
func luhnValid(number string) bool {
	n := len(number)
	if n < 2 {
		return false
	}
	sum := 0
	double := false
	for i := n - 1; i >= 0; i-- {
		d := int(number[i] - '0')
		if d < 0 || d > 9 {
			return false
		}
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// validIBANChecksum verifies the MOD-97 check digits: the IBAN is rearranged
// (country+check moved to the end), letters become digits (A=10 .. Z=35),
// and the resulting number mod 97 must equal 1.
func validIBANChecksum(iban string) bool {
	if len(iban) < 5 {
		return false
	}
	rearranged := iban[4:] + iban[:4]
	var numStr strings.Builder
	for _, ch := range rearranged {
		switch {
		case ch >= '0' && ch <= '9':
			numStr.WriteRune(ch)
		case ch >= 'A' && ch <= 'Z':
			numStr.WriteString(fmt.Sprintf("%d", ch-'A'+10))
		default:
			return false
		}
	}
	n, ok := new(big.Int).SetString(numStr.String(), 10)
	if !ok {
		return false
	}
	return new(big.Int).Mod(n, big.NewInt(97)).Int64() == 1
}

// validIBANLength checks the IBAN length for its country code.
func validIBANLength(iban string) bool {
	if len(iban) < 2 {
		return false
	}
	expected, ok := ibanLengths[iban[:2]]
	if !ok {
		return false
	}
	return len(iban) == expected
}

// ibanLengths maps ISO 3166 country codes to their registered IBAN length.
var ibanLengths = map[string]int{
	"AD": 24, "AE": 23, "AL": 28, "AT": 20, "AZ": 28,
	"BA": 20, "BE": 16, "BG": 22, "BH": 22, "BR": 29,
	"CH": 21, "CR": 22, "CY": 28, "CZ": 24, "DE": 22,
	"DK": 18, "DO": 28, "EE": 20, "EG": 29, "ES": 24,
	"FI": 18, "FO": 18, "FR": 27, "GB": 22, "GE": 22,
	"GI": 23, "GL": 18, "GR": 27, "GT": 28, "HR": 21,
	"HU": 28, "IE": 22, "IL": 23, "IS": 26, "IT": 27,
	"JO": 30, "KW": 30, "KZ": 20, "LB": 28, "LI": 21,
	"LT": 20, "LU": 20, "LV": 21, "MC": 27, "MD": 24,
	"ME": 22, "MK": 19, "MT": 31, "MU": 30, "NL": 18,
	"NO": 15, "PK": 24, "PL": 28, "PS": 29, "PT": 25,
	"QA": 29, "RO": 24, "RS": 22, "SA": 24, "SE": 24,
	"SI": 19, "SK": 24, "SM": 27, "TN": 24, "TR": 26,
	"UA": 29, "VG": 24, "XK": 20,
}

// stripNonDigits removes all non-digit characters from s.
func stripNonDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, ch := range s {
		if ch >= '0' && ch <= '9' {
			b.WriteRune(ch)
		}
	}
	return b.String()
}
