// Package country provides static lookup tables mapping international
// calling codes, ISO 3166-1 alpha-2/alpha-3 codes, country names, and
// currencies.
package country

import (
	"strings"
	"sync"
)

// CurrencyInfo describes the currency used by a country.
type CurrencyInfo struct {
	Code   string
	Name   string
	Symbol string
}

var (
	tablesOnce    sync.Once
	byISO2        map[string]*Country
	byISO3        map[string]*Country
	byCallingCode map[string]*Country
	maxPrefixLen  int
)

// buildTables derives the lookup maps from the country table. For calling
// codes shared across countries (NANP "1", "7") the last table entry wins;
// the table is ordered so that US and RU claim those codes.
func buildTables() {
	byISO2 = make(map[string]*Country, len(countries))
	byISO3 = make(map[string]*Country, len(countries))
	byCallingCode = make(map[string]*Country, len(countries))
	for i := range countries {
		c := &countries[i]
		byISO2[c.ISO2] = c
		byISO3[c.ISO3] = c
		byCallingCode[c.CallingCode] = c
		if len(c.CallingCode) > maxPrefixLen {
			maxPrefixLen = len(c.CallingCode)
		}
	}
}

// ByISO2 returns the country for an ISO 3166-1 alpha-2 code.
func ByISO2(iso2 string) (Country, bool) {
	tablesOnce.Do(buildTables)
	c, ok := byISO2[normalize(iso2)]
	if !ok {
		return Country{}, false
	}
	return *c, true
}

// ByISO3 returns the country for an ISO 3166-1 alpha-3 code.
func ByISO3(iso3 string) (Country, bool) {
	tablesOnce.Do(buildTables)
	c, ok := byISO3[normalize(iso3)]
	if !ok {
		return Country{}, false
	}
	return *c, true
}

// ISO3ByISO2 converts an alpha-2 code to its alpha-3 equivalent.
func ISO3ByISO2(iso2 string) (string, bool) {
	c, ok := ByISO2(iso2)
	if !ok {
		return "", false
	}
	return c.ISO3, true
}

// ISO2ByISO3 converts an alpha-3 code to its alpha-2 equivalent.
func ISO2ByISO3(iso3 string) (string, bool) {
	c, ok := ByISO3(iso3)
	if !ok {
		return "", false
	}
	return c.ISO2, true
}

// NameByISO2 returns the English short name for an alpha-2 code.
func NameByISO2(iso2 string) (string, bool) {
	c, ok := ByISO2(iso2)
	if !ok {
		return "", false
	}
	return c.Name, true
}

// ISO2ByCallingCode returns the alpha-2 code for the country whose calling
// code is the longest prefix of the given digit string. A leading "+" and
// any separators are stripped first. "1242..." resolves to BS, not US.
func ISO2ByCallingCode(number string) (string, bool) {
	tablesOnce.Do(buildTables)

	digits := normalizeNumber(number)
	if digits == "" {
		return "", false
	}

	limit := maxPrefixLen
	if len(digits) < limit {
		limit = len(digits)
	}
	for l := limit; l >= 1; l-- {
		if c, ok := byCallingCode[digits[:l]]; ok {
			return c.ISO2, true
		}
	}
	return "", false
}

// Currency returns the currency for an alpha-2 code.
func Currency(iso2 string) (CurrencyInfo, bool) {
	c, ok := ByISO2(iso2)
	if !ok {
		return CurrencyInfo{}, false
	}
	return CurrencyInfo{Code: c.CurrencyCode, Name: c.CurrencyName, Symbol: c.CurrencySymbol}, true
}

// All returns a copy of the full country table.
func All() []Country {
	out := make([]Country, len(countries))
	copy(out, countries)
	return out
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// normalizeNumber strips a leading plus sign and common separators, keeping
// digits only.
func normalizeNumber(number string) string {
	var sb strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
