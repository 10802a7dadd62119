package validate

import (
	"github.com/ShiraazMoollatjie/goluhn"
)

const maxOrderNumberLen = 32

// IsOrderNumber reports whether s is a plausible commerce order number: digits only with a valid Luhn check digit.
func IsOrderNumber(s string) bool {
	if s == "" || len(s) > maxOrderNumberLen {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return goluhn.Validate(s) == nil
}
