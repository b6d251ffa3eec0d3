package utils

import "strings"

// NormalizeISBN strips hyphens and spaces.
func NormalizeISBN(isbn string) string {
	return strings.NewReplacer("-", "", " ", "").Replace(strings.TrimSpace(isbn))
}

func IsValidISBN13(isbn string) bool {
	isbn = NormalizeISBN(isbn)
	if len(isbn) != 13 || !allDigits(isbn) {
		return false
	}
	if !strings.HasPrefix(isbn, "978") && !strings.HasPrefix(isbn, "979") {
		return false
	}
	return gtinCheck(isbn)
}

// IsValidJAN accepts JAN/EAN-13 and EAN-8 codes.
func IsValidJAN(code string) bool {
	code = strings.TrimSpace(code)
	if (len(code) != 13 && len(code) != 8) || !allDigits(code) {
		return false
	}
	return gtinCheck(code)
}

// gtinCheck validates the trailing check digit with the GS1 mod-10 weights,
// counting 3,1,3,1... from the digit left of the check digit.
func gtinCheck(code string) bool {
	sum := 0
	n := len(code)
	for i := n - 2; i >= 0; i-- {
		d := int(code[i] - '0')
		if (n-2-i)%2 == 0 {
			d *= 3
		}
		sum += d
	}
	check := (10 - sum%10) % 10
	return check == int(code[n-1]-'0')
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
