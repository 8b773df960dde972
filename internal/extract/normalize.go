package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/norm"
)

// maxTokenLength is the cutoff above which an inline label is treated as
// prose noise rather than metadata
const maxTokenLength = 50

// tokenSourceSelector lists the small inline elements whose text is split
// into short metadata tokens
const tokenSourceSelector = "span, small, li, dt, dd, b, strong"

// NormalizeText canonicalizes card text for pattern matching: NFKC
// decomposition of compatibility-equivalent forms, every hyphen/dash variant
// folded to ASCII '-', lowercased, trimmed.
func NormalizeText(s string) string {
	s = norm.NFKC.String(s)
	s = foldDashes(s)
	return strings.TrimSpace(strings.ToLower(s))
}

// foldDashes maps visually-similar dash codepoints to a plain ASCII hyphen.
// Covers the U+2010..U+2015 block (hyphen, non-breaking hyphen, figure dash,
// en dash, em dash, horizontal bar), the minus sign and the soft hyphen.
func foldDashes(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '‐' && r <= '―':
			return '-'
		case r == '−' || r == '­':
			return '-'
		}
		return r
	}, s)
}

// cardTokens collects normalized short tokens from a card's inline label
// elements, splitting on bullet/pipe/comma style separators. Long fragments
// are discarded: they are sentences, not labels.
func cardTokens(card *goquery.Selection) []string {
	var tokens []string
	card.Find(tokenSourceSelector).Each(func(_ int, s *goquery.Selection) {
		for _, part := range splitSeparators(s.Text()) {
			tok := NormalizeText(part)
			if tok == "" || len(tok) > maxTokenLength {
				continue
			}
			tokens = append(tokens, tok)
		}
	})
	return tokens
}

func splitSeparators(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		switch r {
		case '•', '·', '|', ',', ';':
			return true
		}
		return false
	})
}
