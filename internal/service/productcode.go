package service

import (
	"regexp"
	"strings"
)

var numericCode = regexp.MustCompile(`^[0-9]+$`)

// CodeCandidates returns the two product_code forms a lookup should try:
// the code as given and, for purely numeric codes, the same value
// left-padded with zeros to three digits.
//
// Catalog codes are stored zero-padded ("001"), but chat transcripts
// often carry the bare number, so "1" must find "001". Non-numeric codes
// get no second form; both candidates are then identical.
func CodeCandidates(code string) (string, string) {
	padded := code
	if numericCode.MatchString(code) && len(code) < 3 {
		padded = strings.Repeat("0", 3-len(code)) + code
	}
	return code, padded
}
