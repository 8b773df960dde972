package extract

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoCardListing = `
<html><body>
	<div class="study-list">
		<div class="study-card">
			<h3><a href="/studies/abc123">Mobile banking feedback</a></h3>
			<span>Remote • 60 min • Unmoderated</span>
			<p>Tell us how you manage money on your phone.</p>
			<div>$150 • Posted 2 days ago</div>
		</div>
		<div class="study-card">
			<h3><a href="/studies/def456">Grocery shopping habits</a></h3>
			<span>In-person • 30 min • Focus group</span>
			<p>A group discussion about weekly shopping.</p>
			<div>$75 • Posted an hour ago</div>
		</div>
	</div>
</body></html>`

func TestStudies_TwoCards(t *testing.T) {
	candidates, err := Studies(twoCardListing)
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	byID := make(map[string]Candidate)
	for _, c := range candidates {
		byID[c.ExternalID] = c
	}

	first, ok := byID["abc123"]
	require.True(t, ok)
	assert.Equal(t, "Mobile banking feedback", first.Title)
	assert.Equal(t, 150, first.Payout)
	assert.Equal(t, "60 min", first.Duration)
	assert.Equal(t, TypeRemote, first.StudyType)
	assert.Equal(t, "Unmoderated", first.FormatTag)
	assert.Equal(t, "2 days ago", first.PostedText)
	assert.Equal(t, "/studies/abc123", first.Link)
	assert.Contains(t, first.Description, "manage money")

	second, ok := byID["def456"]
	require.True(t, ok)
	assert.Equal(t, 75, second.Payout)
	assert.Equal(t, "30 min", second.Duration)
	assert.Equal(t, TypeInPerson, second.StudyType)
	assert.Equal(t, "Focus Group", second.FormatTag)
	assert.Equal(t, "an hour ago", second.PostedText)
}

func TestStudies_IdentityExtractionIsDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		candidates, err := Studies(twoCardListing)
		require.NoError(t, err)
		ids := make([]string, 0, len(candidates))
		for _, c := range candidates {
			ids = append(ids, c.ExternalID)
		}
		assert.ElementsMatch(t, []string{"abc123", "def456"}, ids)
	}
}

func TestStudies_DuplicateAnchorFirstWins(t *testing.T) {
	// The same listing pinned at the top and repeated in the main list
	html := `
	<html><body>
		<div class="card featured"><a href="/studies/abc123">Featured: banking study</a><div>$200</div></div>
		<div class="card"><a href="/studies/abc123">Banking study</a><div>$150</div></div>
	</body></html>`

	candidates, err := Studies(html)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Featured: banking study", candidates[0].Title)
	assert.Equal(t, 200, candidates[0].Payout)
}

func TestStudies_SkipsAnchorsWithoutIdentity(t *testing.T) {
	html := `
	<html><body>
		<div class="card"><a href="/about">About us</a></div>
		<div class="card"><a href="/studies/">All studies</a></div>
		<div class="card"><a href="/studies/xyz789">Real study</a></div>
	</body></html>`

	candidates, err := Studies(html)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "xyz789", candidates[0].ExternalID)
}

func TestStudies_FieldsDegradeToDefaults(t *testing.T) {
	html := `<html><body><div class="card"><a href="/studies/bare1"></a></div></body></html>`

	candidates, err := Studies(html)
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	c := candidates[0]
	assert.Equal(t, "bare1", c.ExternalID)
	assert.Equal(t, DefaultTitle, c.Title)
	assert.Equal(t, 0, c.Payout)
	assert.Equal(t, DefaultDuration, c.Duration)
	assert.Equal(t, DefaultStudyType, c.StudyType)
	assert.Equal(t, "", c.FormatTag)
	assert.Equal(t, "", c.PostedText)
	assert.Equal(t, "", c.Description)
}

func TestStudies_MalformedInputNeverErrors(t *testing.T) {
	inputs := []string{
		"",
		"not html at all",
		"<div><a href='/studies/ok1'>unclosed",
		"<html><body><a>no href</a></body></html>",
	}
	for _, html := range inputs {
		_, err := Studies(html)
		assert.NoError(t, err)
	}
}

func TestStudies_DescriptionTruncated(t *testing.T) {
	long := strings.Repeat("x", 700)
	html := fmt.Sprintf(
		`<html><body><div class="card"><a href="/studies/long1">Long</a><p>%s</p></div></body></html>`, long)

	candidates, err := Studies(html)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Len(t, candidates[0].Description, 500)
}

func TestResolveCard_FallsBackWithoutMarkers(t *testing.T) {
	// No card-like class anywhere: the fixed-depth ancestor still scopes the
	// fields to this listing's surroundings
	html := `
	<html><body>
		<div><div><div>
			<a href="/studies/plain1">Plain study</a>
			<span>$90 • 45 min • remote</span>
		</div></div></div>
	</body></html>`

	candidates, err := Studies(html)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, 90, candidates[0].Payout)
	assert.Equal(t, "45 min", candidates[0].Duration)
	assert.Equal(t, TypeRemote, candidates[0].StudyType)
}

func TestStudies_NonBreakingHyphenTitle(t *testing.T) {
	html := "<html><body><div class=\"card\">" +
		"<a href=\"/studies/nb1\">Follow‑up session</a>" +
		"<span>1‑on‑1 • remote • $60</span>" +
		"</div></body></html>"

	candidates, err := Studies(html)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "1:1", candidates[0].FormatTag)
	assert.Equal(t, TypeRemote, candidates[0].StudyType)
}
