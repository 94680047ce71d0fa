package util

import (
	"strings"
	"unicode"
)

// legalSuffixes is ordered longest and most specific first so that
// "Sp. z o. o." is tried before "Sp. z o.o." and so on.
var legalSuffixes = []string{
	"Spółka z ograniczoną odpowiedzialnością",
	"spółka z ograniczoną odpowiedzialnością",
	"Spółka Akcyjna",
	"spółka akcyjna",
	"Sp. z o. o.",
	"sp. z o. o.",
	"Sp. z o.o.",
	"sp. z o.o.",
	"S.A.",
	"s.a.",
}

// NormalizeCompanyName strips Polish legal-entity suffixes from a scraped
// company name so that every rendering of one employer shares a join key.
//
//	NormalizeCompanyName("Samsung Electronics Polska Sp. z o.o.") == "Samsung Electronics Polska"
//	NormalizeCompanyName("Allegro S.A.") == "Allegro"
//
// Empty or blank input is returned as is.
func NormalizeCompanyName(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return raw
	}

	name := []rune(strings.TrimSpace(raw))
	for _, suffix := range legalSuffixes {
		sfx := []rune(suffix)
		if i := lastIndexFold(name, sfx); i >= 0 {
			name = append(name[:i:i], name[i+len(sfx):]...)
		}
	}

	out := strings.TrimSpace(string(name))
	out = strings.TrimRight(out, ", \t")
	return strings.TrimSpace(out)
}

// lastIndexFold is a rune-wise, case-insensitive strings.LastIndex.
func lastIndexFold(s, sub []rune) int {
	if len(sub) == 0 || len(sub) > len(s) {
		return -1
	}
	for i := len(s) - len(sub); i >= 0; i-- {
		match := true
		for j, r := range sub {
			if unicode.ToLower(s[i+j]) != unicode.ToLower(r) {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// NormalizeLocation collapses whitespace and drops repeated cities from a
// comma-joined location string.
func NormalizeLocation(loc string) string {
	loc = CleanText(loc)
	if loc == "" {
		return ""
	}

	loc = strings.TrimPrefix(loc, "Lokalizacja:")
	loc = strings.TrimPrefix(loc, "Location:")
	loc = strings.TrimSpace(loc)

	parts := strings.Split(loc, ",")
	seen := map[string]bool{}
	var out []string
	for _, p := range parts {
		p = CleanText(p)
		if p == "" {
			continue
		}
		k := strings.ToLower(p)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, p)
	}
	return strings.Join(out, ", ")
}

// NormalizeEmploymentType maps board-specific contract labels onto
// full-time, part-time or contract. Unknown labels pass through cleaned.
func NormalizeEmploymentType(raw string) string {
	m := strings.ToLower(CleanText(raw))
	switch {
	case m == "":
		return ""
	case strings.Contains(m, "pełny etat") || strings.Contains(m, "full"):
		return "full-time"
	case strings.Contains(m, "część etatu") || strings.Contains(m, "part"):
		return "part-time"
	case strings.Contains(m, "b2b") || strings.Contains(m, "zlecenie") ||
		strings.Contains(m, "dzieło") || strings.Contains(m, "kontrakt") || strings.Contains(m, "contract"):
		return "contract"
	case strings.Contains(m, "umowa o pracę"):
		return "full-time"
	default:
		return CleanText(raw)
	}
}
