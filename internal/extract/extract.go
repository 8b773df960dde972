// Package extract turns a rendered listing page into typed study candidates.
// It is pure: document in, candidates out, no I/O. Heuristics are tuned to
// survive partial markup; a card that fails a field degrades that field to a
// default, and only a card without a derivable identity is skipped.
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// studyLinkPattern matches a listing-detail href and captures the
// site-assigned study identity
var studyLinkPattern = regexp.MustCompile(`/studies/([A-Za-z0-9_-]+)`)

// maxAncestorDepth bounds the card search walk above an anchor
const maxAncestorDepth = 6

// fallbackAncestorDepth is the ancestor used when no marker matches
const fallbackAncestorDepth = 3

// cardMarkers are class-name fragments identifying a card container,
// in priority order
var cardMarkers = []string{"card", "study", "listing", "result", "item"}

// maxDescriptionLength caps the free-text description field
const maxDescriptionLength = 500

// Candidate is a study parsed out of the listing page, not yet reconciled
// against the store
type Candidate struct {
	ExternalID  string
	Title       string
	Payout      int
	Duration    string
	StudyType   string
	FormatTag   string
	PostedText  string
	Link        string
	Description string
}

// Studies parses an HTML document and returns its study candidates.
// Candidate order follows document order but is not guaranteed stable across
// fetches of the same listing; callers must not rely on it.
func Studies(html string) ([]Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return FromDocument(doc), nil
}

// FromDocument extracts study candidates from a parsed document.
// Within one pass the first occurrence of an identity wins; a listing pinned
// in two places on the page yields one candidate.
func FromDocument(doc *goquery.Document) []Candidate {
	seen := make(map[string]bool)
	var candidates []Candidate

	doc.Find("a[href]").Each(func(_ int, anchor *goquery.Selection) {
		href, _ := anchor.Attr("href")
		m := studyLinkPattern.FindStringSubmatch(href)
		if m == nil {
			return
		}
		externalID := m[1]
		if seen[externalID] {
			return
		}
		seen[externalID] = true

		card := resolveCard(anchor)
		candidates = append(candidates, parseCard(externalID, href, anchor, card))
	})

	return candidates
}

// resolveCard walks up from an anchor looking for the enclosing card
// container. Marker classes are checked per level in priority order, then
// <li>/<article> elements; if nothing matches within maxAncestorDepth the
// fallback is the fixed-depth ancestor (or the highest one that exists).
func resolveCard(anchor *goquery.Selection) *goquery.Selection {
	fallback := anchor
	node := anchor

	for depth := 1; depth <= maxAncestorDepth; depth++ {
		parent := node.Parent()
		if parent.Length() == 0 {
			break
		}
		node = parent
		if depth <= fallbackAncestorDepth {
			fallback = node
		}

		class, _ := node.Attr("class")
		class = strings.ToLower(class)
		for _, marker := range cardMarkers {
			if strings.Contains(class, marker) {
				return node
			}
		}
		if tag := goquery.NodeName(node); tag == "li" || tag == "article" {
			return node
		}
	}

	return fallback
}

// parseCard assembles a candidate from a card's text. Each field is parsed
// independently; one bad field never poisons the others.
func parseCard(externalID, href string, anchor, card *goquery.Selection) Candidate {
	rawText := card.Text()
	normalized := NormalizeText(rawText)
	tokens := cardTokens(card)

	title := strings.TrimSpace(anchor.Text())
	if title == "" {
		title = strings.TrimSpace(card.Find("h1, h2, h3, h4").First().Text())
	}
	if title == "" {
		title = DefaultTitle
	}

	return Candidate{
		ExternalID:  externalID,
		Title:       title,
		Payout:      parsePayout(rawText),
		Duration:    parseDuration(rawText),
		StudyType:   parseStudyType(normalized, tokens),
		FormatTag:   parseFormatTag(normalized),
		PostedText:  parsePostedText(rawText),
		Link:        href,
		Description: parseDescription(card),
	}
}

// parseDescription takes the first paragraph inside the card, capped at
// maxDescriptionLength runes
func parseDescription(card *goquery.Selection) string {
	text := strings.TrimSpace(card.Find("p").First().Text())
	runes := []rune(text)
	if len(runes) > maxDescriptionLength {
		return string(runes[:maxDescriptionLength])
	}
	return text
}
