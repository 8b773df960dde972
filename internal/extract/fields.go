package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Field defaults used when a pattern finds nothing. A candidate with a valid
// identity is kept and degraded to these, never dropped.
const (
	DefaultDuration  = "Unknown"
	DefaultStudyType = "Unknown"
	DefaultTitle     = "Untitled Study"
)

// Study type values (where the session happens)
const (
	TypeRemote   = "Remote"
	TypeInPerson = "In-Person"
)

var (
	amountPattern   = regexp.MustCompile(`\$\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`)
	durationPattern = regexp.MustCompile(`(?i)\b\d+\s*(?:min(?:ute)?|hour|hr)s?\b`)
	postedPattern   = regexp.MustCompile(`(?i)\b(?:\d+\s*(?:minute|hour|day|week)s?|an?\s+(?:minute|hour|day|week))\s+ago\b`)
)

// parsePayout returns the largest currency amount in the text, rounded to the
// nearest whole unit. A range like "$50 to $200" is a spread, not two offers;
// reporting the maximum is what the listing means. No match yields 0.
func parsePayout(text string) int {
	best := 0.0
	for _, m := range amountPattern.FindAllStringSubmatch(text, -1) {
		raw := strings.ReplaceAll(m[1], ",", "")
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		if v > best {
			best = v
		}
	}
	return int(math.Round(best))
}

// parseDuration returns the first session-length phrase, e.g. "60 min"
func parseDuration(text string) string {
	if m := durationPattern.FindString(text); m != "" {
		return strings.TrimSpace(m)
	}
	return DefaultDuration
}

// parsePostedText returns the first relative-age phrase, e.g. "2 days ago"
// or "an hour ago". Empty when the card carries no age.
func parsePostedText(text string) string {
	return strings.TrimSpace(postedPattern.FindString(text))
}

// parseStudyType classifies remote vs in-person from the normalized text and
// tokens. Remote wins when both appear: hybrid listings are joinable remotely.
func parseStudyType(normalized string, tokens []string) string {
	hasRemote := strings.Contains(normalized, "remote")
	hasInPerson := strings.Contains(normalized, "in-person") || strings.Contains(normalized, "in person")
	for _, tok := range tokens {
		if strings.Contains(tok, "remote") {
			hasRemote = true
		}
		if strings.Contains(tok, "in-person") || strings.Contains(tok, "in person") {
			hasInPerson = true
		}
	}

	switch {
	case hasRemote:
		return TypeRemote
	case hasInPerson:
		return TypeInPerson
	default:
		return DefaultStudyType
	}
}

// formatRule pairs a tag with the substrings that select it
type formatRule struct {
	tag     string
	markers []string
	// excluded vetoes the rule when present, e.g. "unmoderated" contains
	// "moderated" and "video survey" is not a survey
	excluded []string
}

// formatRules is checked in order; the first hit wins. The order is load
// bearing because the marker substrings overlap.
var formatRules = []formatRule{
	{tag: "1:1", markers: []string{"1:1", "1-on-1", "one-on-one", "1 on 1", "one on one"}},
	{tag: "Unmoderated", markers: []string{"unmoderated"}},
	{tag: "Moderated", markers: []string{"moderated"}},
	{tag: "Focus Group", markers: []string{"focus group"}},
	{tag: "Survey", markers: []string{"survey"}, excluded: []string{"video survey"}},
	{tag: "Interview", markers: []string{"interview"}},
	{tag: "Diary Study", markers: []string{"diary", "journal"}},
	{tag: "Usability Test", markers: []string{"usability", "ux test"}},
}

// parseFormatTag picks the study format from normalized text. Empty when no
// rule matches.
func parseFormatTag(normalized string) string {
	for _, rule := range formatRules {
		vetoed := false
		for _, ex := range rule.excluded {
			if strings.Contains(normalized, ex) {
				vetoed = true
				break
			}
		}
		if vetoed {
			continue
		}
		for _, marker := range rule.markers {
			if strings.Contains(normalized, marker) {
				return rule.tag
			}
		}
	}
	return ""
}
