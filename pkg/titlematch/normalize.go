// Package titlematch resolves media titles against catalog search results
// by normalized fuzzy comparison.
package titlematch

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// romanNumeralRegex matches Roman numerals II-IX when preceded by a space.
// Standalone "I" and "X" are left alone ("I Robot", "American History X"),
// as is a numeral at the start of the string ("VII Days").
var romanNumeralRegex = regexp.MustCompile(`(?i) (ii|iii|iv|v|vi|vii|viii|ix)\b`)

var romanToArabic = map[string]string{
	"II": "2", "III": "3", "IV": "4", "V": "5",
	"VI": "6", "VII": "7", "VIII": "8", "IX": "9",
}

var articles = []string{"the ", "a ", "an "}

func normalizeRomanNumerals(s string) string {
	return romanNumeralRegex.ReplaceAllStringFunc(s, func(match string) string {
		if arabic, ok := romanToArabic[strings.ToUpper(strings.TrimSpace(match))]; ok {
			return " " + arabic
		}
		return match
	})
}

// Clean normalizes a title for comparison: lowercase, no accents or
// punctuation, no leading articles (also after a subtitle colon), Roman
// sequel numerals as digits, single spaces.
func Clean(title string) string {
	s := strings.ToLower(title)
	s = normalizeRomanNumerals(s)
	s = removeAccents(s)

	s = strings.ReplaceAll(s, "&", " and ")
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, ".", " ")

	parts := strings.Split(s, ":")
	for i, part := range parts {
		parts[i] = stripLeadingArticle(strings.TrimSpace(part))
	}
	s = strings.Join(parts, " ")

	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

func stripLeadingArticle(s string) string {
	for _, art := range articles {
		if strings.HasPrefix(s, art) {
			return strings.TrimPrefix(s, art)
		}
	}
	return s
}
