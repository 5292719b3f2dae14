package categorizer

import (
	"regexp"
	"strings"

	"fjacquet/receipt-processor/internal/models"
)

// categoryIndex holds the precompiled lookup structures every strategy and
// the scorer share: the vendor-to-category mapping and per-category keyword
// patterns. All text is matched lower-case; keywords match on word
// boundaries only, so "gas" does not fire inside "Las Vegas".
type categoryIndex struct {
	names          []string
	vendorOrder    []string
	vendorCategory map[string]string
	vendorsByName  map[string][]string
	patterns       map[string][]*regexp.Regexp
}

// newCategoryIndex builds the index in definition order. A vendor listed
// under several categories keeps its first position in the scan order but
// maps to the last category that declared it.
func newCategoryIndex(categories []models.CategoryDefinition) *categoryIndex {
	idx := &categoryIndex{
		names:          make([]string, 0, len(categories)),
		vendorCategory: make(map[string]string),
		vendorsByName:  make(map[string][]string, len(categories)),
		patterns:       make(map[string][]*regexp.Regexp, len(categories)),
	}

	for _, def := range categories {
		idx.names = append(idx.names, def.Name)

		vendors := make([]string, 0, len(def.Vendors))
		for _, vendor := range def.Vendors {
			v := strings.ToLower(vendor)
			vendors = append(vendors, v)
			if _, seen := idx.vendorCategory[v]; !seen {
				idx.vendorOrder = append(idx.vendorOrder, v)
			}
			idx.vendorCategory[v] = def.Name
		}
		idx.vendorsByName[def.Name] = vendors

		compiled := make([]*regexp.Regexp, 0, len(def.Keywords))
		for _, keyword := range def.Keywords {
			pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(strings.ToLower(keyword)) + `\b`)
			compiled = append(compiled, pattern)
		}
		idx.patterns[def.Name] = compiled
	}

	return idx
}

// exactVendor returns the category a lower-cased vendor maps to directly.
func (idx *categoryIndex) exactVendor(vendor string) (string, bool) {
	category, ok := idx.vendorCategory[vendor]
	return category, ok
}

// partialVendor returns the first mapping where the known vendor contains
// the record's vendor or vice versa, scanning in definition order.
func (idx *categoryIndex) partialVendor(vendor string) (string, bool) {
	for _, known := range idx.vendorOrder {
		if strings.Contains(known, vendor) || strings.Contains(vendor, known) {
			return idx.vendorCategory[known], true
		}
	}
	return "", false
}

// vendorsOf returns the lower-cased vendors declared for one category.
func (idx *categoryIndex) vendorsOf(category string) []string {
	return idx.vendorsByName[category]
}

// countKeywords returns the number of whole-word keyword occurrences for
// one category in the given lower-cased text.
func (idx *categoryIndex) countKeywords(category, text string) int {
	total := 0
	for _, pattern := range idx.patterns[category] {
		total += len(pattern.FindAllStringIndex(text, -1))
	}
	return total
}

// hasKeywords reports whether a category declares any keywords at all.
func (idx *categoryIndex) hasKeywords(category string) bool {
	return len(idx.patterns[category]) > 0
}
