package entities

import (
	"sort"
	"sync"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
)

// formRank orders CLDR plural forms the way numerusform entries are listed.
var formRank = map[plural.Form]int{
	plural.Zero:  0,
	plural.One:   1,
	plural.Two:   2,
	plural.Few:   3,
	plural.Many:  4,
	plural.Other: 5,
}

var languageForms sync.Map // language.Tag -> []plural.Form

// PluralForms returns the plural forms used by tag for integers, in numerusform order.
func PluralForms(tag language.Tag) []plural.Form {
	if v, ok := languageForms.Load(tag); ok {
		return v.([]plural.Form)
	}
	seen := map[plural.Form]bool{}
	for n := 0; n <= 1000; n++ {
		seen[plural.Cardinal.MatchPlural(tag, n, 0, 0, 0, 0)] = true
	}
	forms := make([]plural.Form, 0, len(seen))
	for f := range seen {
		forms = append(forms, f)
	}
	sort.Slice(forms, func(i, j int) bool { return formRank[forms[i]] < formRank[forms[j]] })
	languageForms.Store(tag, forms)
	return forms
}

// NumerusIndex returns which numerusform applies to n in the given language.
func NumerusIndex(tag language.Tag, n int) int {
	if n < 0 {
		n = -n
	}
	form := plural.Cardinal.MatchPlural(tag, n, 0, 0, 0, 0)
	for i, f := range PluralForms(tag) {
		if f == form {
			return i
		}
	}
	return 0
}

// Tag parses the catalog language, returning language.Und when unset or invalid.
func (c *Catalog) Tag() language.Tag {
	tag, err := language.Parse(c.LanguageTag())
	if err != nil {
		return language.Und
	}
	return tag
}

// LookupPlural resolves a numerus message for count n. Non-numerus messages
// behave like Lookup. Missing or empty forms fall back to source.
func (c *Catalog) LookupPlural(context, source string, n int) string {
	if c == nil {
		return source
	}
	m := c.Find(context, source, "")
	if m == nil || !m.Usable() {
		return source
	}
	if !m.Numerus {
		return m.Translation
	}
	i := NumerusIndex(c.Tag(), n)
	if i >= len(m.NumerusForms) {
		i = len(m.NumerusForms) - 1
	}
	if m.NumerusForms[i] == "" {
		return source
	}
	return m.NumerusForms[i]
}
