package normalize

import (
	"regexp"
	"strings"
)

// makeAliases maps common abbreviations and misspellings to the canonical
// manufacturer name. Keys are uppercased, trimmed input.
var makeAliases = map[string]string{
	"MERCEDES":      "Mercedes-Benz",
	"MERCEDES BENZ": "Mercedes-Benz",
	"MERCEDES-BENZ": "Mercedes-Benz",
	"MB":            "Mercedes-Benz",
	"VW":            "Volkswagen",
	"CHEVY":         "Chevrolet",
	"LAND ROVER":    "Land Rover",
	"LANDROVER":     "Land Rover",
	"ALFA ROMEO":    "Alfa Romeo",
	"ALFA":          "Alfa Romeo",
	"ASTON MARTIN":  "Aston Martin",
	"ROLLS ROYCE":   "Rolls-Royce",
	"ROLLS-ROYCE":   "Rolls-Royce",
}

// modelAliases normalizes common model naming variants
var modelAliases = map[string]string{
	// BMW
	"3 SERIES": "3 Series",
	"4 SERIES": "4 Series",
	"5 SERIES": "5 Series",
	"7 SERIES": "7 Series",
	// Mercedes
	"C CLASS":   "C-Class",
	"C-CLASS":   "C-Class",
	"E CLASS":   "E-Class",
	"E-CLASS":   "E-Class",
	"S CLASS":   "S-Class",
	"S-CLASS":   "S-Class",
	"GLC CLASS": "GLC-Class",
	"GLC-CLASS": "GLC-Class",
	"GLE CLASS": "GLE-Class",
	"GLE-CLASS": "GLE-Class",
	// Common normalizations
	"CIVIC SI":     "Civic Si",
	"CIVIC TYPE R": "Civic Type R",
	"MUSTANG GT":   "Mustang", // base model
}

// Brands whose names are acronyms and must not be title-cased
var acronymMakes = map[string]string{
	"BMW":  "BMW",
	"GMC":  "GMC",
	"MINI": "MINI",
	"RAM":  "Ram",
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// Make normalizes a manufacturer name to its canonical spelling. Total:
// unrecognized input passes through title-cased, empty stays empty.
func Make(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}

	upper := strings.ToUpper(s)
	if canonical, ok := makeAliases[upper]; ok {
		return canonical
	}
	if canonical, ok := acronymMakes[upper]; ok {
		return canonical
	}

	return titleCase(s)
}

// Model normalizes a model name. Alias hits return the canonical spelling;
// everything else is trimmed with whitespace collapsed.
func Model(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}

	upper := strings.ToUpper(s)
	if canonical, ok := modelAliases[upper]; ok {
		return canonical
	}

	return whitespaceRe.ReplaceAllString(s, " ")
}

// titleCase uppercases the first letter of each space-separated word
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
