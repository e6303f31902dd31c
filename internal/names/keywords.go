// Package names guesses a candidate's name from the first lines of a résumé.
package names

import "strings"

var defaultUnwanted = []string{
	"cgpa", "gpa", "percentage", "grade", "graduating", "year", "education",
	"university", "college", "institute", "school", "degree", "b.e", "btech",
	"mtech", "msc", "pursuing",
}

var defaultAddress = []string{
	"street", "road", "lane", "city", "state", "pin", "pincode", "zip",
	"mobile", "contact", "email", "phone",
}

// Keywords holds the lower-cased keyword sets used to reject name lines.
// Unwanted keywords skip a line; address keywords end the scan.
type Keywords struct {
	unwanted []string
	address  []string
}

// NewKeywords builds a Keywords value. Entries are lower-cased and copied.
func NewKeywords(unwanted, address []string) Keywords {
	return Keywords{
		unwanted: lowerAll(unwanted),
		address:  lowerAll(address),
	}
}

// DefaultKeywords returns the built-in keyword sets.
func DefaultKeywords() Keywords {
	return NewKeywords(defaultUnwanted, defaultAddress)
}

// Unwanted returns a copy of the unwanted-name keywords.
func (k Keywords) Unwanted() []string {
	return append([]string(nil), k.unwanted...)
}

// Address returns a copy of the address keywords.
func (k Keywords) Address() []string {
	return append([]string(nil), k.address...)
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
