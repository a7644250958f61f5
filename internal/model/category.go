package model

import "strings"

// DefaultCategories is the category set used when config doesn't override it.
var DefaultCategories = []string{
	"Gifts",
	"Groceries",
	"Eating Out",
	"Education",
	"Rent / Loan",
	"Utilities",
	"Car",
	"Medical",
	"Household",
	"Fun",
	"Clothing",
	"Transport",
	"Parents",
	"Taxes",
	"Investments",
	"Property",
}

// LegacyCategories are the original application's labels with no
// counterpart in DefaultCategories. Imports accept them as they are.
var LegacyCategories = []string{
	"Ketzia",
	"Marcos",
	"Rbk",
	"Voluntariado",
	"Crista",
	"Casa-puerto",
}

var renamedCategories = map[string]string{
	"Inversiones": "Investments",
	"Propiedad":   "Property",
}

// CanonicalCategory maps a renamed label from the original application to
// its current name. Other labels come back trimmed.
func CanonicalCategory(c string) string {
	c = strings.TrimSpace(c)
	if to, ok := renamedCategories[c]; ok {
		return to
	}
	return c
}

// AllowCategory returns categories extended with c when the set is
// restrictive and lacks it. categories is not modified.
func AllowCategory(categories []string, c string) []string {
	if len(categories) == 0 || c == "" || HasCategory(categories, c) {
		return categories
	}
	return append(append([]string(nil), categories...), c)
}

// HasCategory reports whether c is one of categories (exact match).
func HasCategory(categories []string, c string) bool {
	for _, cat := range categories {
		if cat == c {
			return true
		}
	}
	return false
}
