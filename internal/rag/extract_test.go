package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExtractor() *Extractor {
	return NewExtractor(DefaultGazetteers())
}

func TestExtractCompanyCandidates(t *testing.T) {
	x := newTestExtractor()

	e := x.Extract("Tell me about Flipkart")

	require.Equal(t, []string{"Tell", "Flipkart"}, e.Companies)
	assert.True(t, e.Types[TypeCompany])
	assert.False(t, e.Comparison)
	assert.False(t, e.TopQuery)
}

func TestExtractComparisonDiscardsShortTokens(t *testing.T) {
	x := newTestExtractor()

	e := x.Extract("Compare CRED and PhonePe")

	assert.True(t, e.Comparison)
	// "and" is three characters, below the candidate threshold;
	// "Compare" is sentence-initial capitalized and stays a candidate.
	assert.Equal(t, []string{"Compare", "CRED", "PhonePe"}, e.Companies)
}

func TestExtractGazetteerMatches(t *testing.T) {
	x := newTestExtractor()

	e := x.Extract("Which fintech companies did Sequoia back in Bangalore?")

	assert.Equal(t, []string{"Fintech"}, e.Sectors)
	assert.Equal(t, []string{"Sequoia"}, e.Investors)
	assert.Equal(t, []string{"Bangalore"}, e.Locations)
	assert.True(t, e.Types[TypeSector])
	assert.True(t, e.Types[TypeInvestor])
	assert.True(t, e.Types[TypeLocation])
}

func TestExtractCount(t *testing.T) {
	x := newTestExtractor()

	e := x.Extract("Which fintech companies did Sequoia back in Bangalore?")

	assert.Equal(t, len(e.Companies)+len(e.Investors)+len(e.Sectors)+len(e.Locations), e.Count())
	assert.True(t, e.HasEntities())

	empty := x.Extract("hello")
	assert.Zero(t, empty.Count())
	assert.False(t, empty.HasEntities())
}

func TestExtractContextKeywords(t *testing.T) {
	x := newTestExtractor()

	cases := []struct {
		query string
		typ   EntityType
	}{
		{"which funds backed the biggest startups", TypeInvestor},
		{"vc activity in india", TypeInvestor},
		{"how is capital deployed across startups", TypeInvestor},
		{"which segment grew fastest", TypeSector},
		{"where is Zomato", TypeLocation},
	}
	for _, tc := range cases {
		e := x.Extract(tc.query)
		assert.True(t, e.Types[tc.typ], tc.query)
	}
}

func TestExtractGazetteerOrderFollowsQuery(t *testing.T) {
	x := newTestExtractor()

	e := x.Extract("edtech or fintech, which sector is bigger?")

	assert.Equal(t, []string{"Edtech", "Fintech"}, e.Sectors)

	e = x.Extract("fintech or edtech, which sector is bigger?")
	assert.Equal(t, []string{"Fintech", "Edtech"}, e.Sectors)
}

func TestExtractMultiWordGazetteerPhrase(t *testing.T) {
	x := newTestExtractor()

	e := x.Extract("what has tiger global invested in")

	assert.Equal(t, []string{"Tiger Global"}, e.Investors)
	// Gazetteer terms never double as company candidates.
	assert.Empty(t, e.Companies)
}

func TestExtractVsDoesNotFireOnInvestors(t *testing.T) {
	x := newTestExtractor()

	e := x.Extract("Who are the top investors?")

	assert.False(t, e.Comparison, "\"vs\" must match whole tokens only")
	assert.True(t, e.TopQuery)
	assert.True(t, e.Types[TypeInvestor])
}

func TestExtractShapeFlags(t *testing.T) {
	x := newTestExtractor()

	assert.True(t, x.Extract("CRED vs PhonePe").Comparison)
	assert.True(t, x.Extract("how many unicorns are there").Aggregation)
	assert.True(t, x.Extract("total valuation across sectors").Aggregation)
	assert.True(t, x.Extract("biggest startups").TopQuery)
}

func TestExtractIsDeterministic(t *testing.T) {
	x := newTestExtractor()
	q := "Compare fintech and edtech companies from Mumbai backed by Sequoia"

	first := x.Extract(q)
	second := x.Extract(q)

	assert.Equal(t, first, second)
}

func TestExtractStripsPunctuation(t *testing.T) {
	x := newTestExtractor()

	e := x.Extract(`What is "Zerodha"?`)

	assert.Contains(t, e.Companies, "Zerodha")
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Tiger Global", titleCase("tiger global"))
	assert.Equal(t, "E-Commerce", titleCase("e-commerce"))
	assert.Equal(t, "D2C", titleCase("d2c"))
	assert.Equal(t, "Bangalore", titleCase("bangalore"))
}
