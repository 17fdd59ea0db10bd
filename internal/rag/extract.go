package rag

import (
	"sort"
	"strings"
	"unicode"
)

// EntityType tags the kind of information a query is asking about.
type EntityType string

const (
	TypeCompany  EntityType = "company"
	TypeInvestor EntityType = "investor"
	TypeSector   EntityType = "sector"
	TypeLocation EntityType = "location"
)

// ExtractedEntities is the result of a lexical pass over one query.
// Slices hold display-cased entity mentions in the order they first
// appear in the query; Types collects the entity kinds the query
// touches, whether named explicitly or implied by context words.
type ExtractedEntities struct {
	Companies []string
	Investors []string
	Sectors   []string
	Locations []string
	Types     map[EntityType]bool

	Comparison  bool
	Aggregation bool
	TopQuery    bool
}

// Count returns the number of concrete entity mentions across all
// four kinds.
func (e ExtractedEntities) Count() int {
	return len(e.Companies) + len(e.Investors) + len(e.Sectors) + len(e.Locations)
}

// HasEntities reports whether any concrete entity mention was found.
func (e ExtractedEntities) HasEntities() bool {
	return e.Count() > 0
}

// Query-shape keyword sets. Single words match whole tokens of the
// lower-cased query ("vs" must not fire on "investors"); multi-word
// phrases match as substrings.
var (
	comparisonWords  = []string{"compare", "vs", "versus", "difference", "between"}
	aggregationWords = []string{"total", "sum", "average", "count", "how many"}
	topWords         = []string{"top", "best", "highest", "largest", "biggest", "most"}

	// Context keyword families. A query containing any of these as a
	// substring gets the corresponding type tag even without a
	// gazetteer hit ("fund" also covers "funds" and "funding").
	investorContext = []string{"investor", "invested", "portfolio", "fund", "vc", "capital", "backed"}
	sectorContext   = []string{"sector", "industry", "segment", "vertical"}
	locationContext = []string{"located", "based", "city", "where"}
)

// tokenPunct is stripped from both ends of every whitespace token.
const tokenPunct = `?,.'"!()`

// Extractor performs the lexical extraction pass. It holds no state
// beyond the vocabularies and is safe for concurrent use.
type Extractor struct {
	gaz Gazetteers
}

func NewExtractor(gaz Gazetteers) *Extractor {
	return &Extractor{gaz: gaz}
}

// Extract scans one query for entity mentions and shape keywords. The
// scan is purely lexical: substring matches against the vocabularies,
// plus capitalized unknown tokens as company candidates. Gazetteer
// mentions are ordered by their first occurrence in the query.
func (x *Extractor) Extract(query string) ExtractedEntities {
	lower := strings.ToLower(query)
	tokens := tokenize(query)

	lowerTokens := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		lowerTokens[strings.ToLower(t)] = struct{}{}
	}

	out := ExtractedEntities{
		Types:       make(map[EntityType]bool),
		Comparison:  matchesAny(lower, lowerTokens, comparisonWords),
		Aggregation: matchesAny(lower, lowerTokens, aggregationWords),
		TopQuery:    matchesAny(lower, lowerTokens, topWords),
	}

	if containsAny(lower, investorContext) {
		out.Types[TypeInvestor] = true
	}
	if containsAny(lower, sectorContext) {
		out.Types[TypeSector] = true
	}
	if containsAny(lower, locationContext) {
		out.Types[TypeLocation] = true
	}

	out.Investors = scanGazetteer(lower, x.gaz.Investors)
	if len(out.Investors) > 0 {
		out.Types[TypeInvestor] = true
	}
	out.Sectors = scanGazetteer(lower, x.gaz.Sectors)
	if len(out.Sectors) > 0 {
		out.Types[TypeSector] = true
	}
	out.Locations = scanGazetteer(lower, x.gaz.Locations)
	if len(out.Locations) > 0 {
		out.Types[TypeLocation] = true
	}

	out.Companies = x.companyCandidates(tokens)
	if len(out.Companies) > 0 {
		out.Types[TypeCompany] = true
	}

	return out
}

func tokenize(query string) []string {
	fields := strings.Fields(query)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if t := strings.Trim(f, tokenPunct); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// matchesAny checks shape keywords: multi-word phrases as substrings,
// single words as whole tokens.
func matchesAny(lower string, tokens map[string]struct{}, words []string) bool {
	for _, w := range words {
		if strings.Contains(w, " ") {
			if strings.Contains(lower, w) {
				return true
			}
			continue
		}
		if _, ok := tokens[w]; ok {
			return true
		}
	}
	return false
}

func containsAny(lower string, words []string) bool {
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// scanGazetteer returns display-cased phrases found as substrings of
// the lower-cased query, ordered by first occurrence position with the
// phrase itself as tiebreaker so results are deterministic.
func scanGazetteer(lower string, phrases []string) []string {
	type hit struct {
		pos    int
		phrase string
	}
	var hits []hit
	for _, p := range phrases {
		if i := strings.Index(lower, p); i >= 0 {
			hits = append(hits, hit{pos: i, phrase: p})
		}
	}
	sort.Slice(hits, func(a, b int) bool {
		if hits[a].pos != hits[b].pos {
			return hits[a].pos < hits[b].pos
		}
		return hits[a].phrase < hits[b].phrase
	})
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = titleCase(h.phrase)
	}
	return out
}

// companyCandidates collects capitalized tokens that look like proper
// names: longer than three characters and absent from every
// vocabulary. Tokens keep their original casing; a name mentioned
// twice is reported once.
func (x *Extractor) companyCandidates(tokens []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, word := range tokens {
		runes := []rune(word)
		if len(runes) <= 3 || !unicode.IsUpper(runes[0]) {
			continue
		}
		lower := strings.ToLower(word)
		if x.gaz.Known(lower) {
			continue
		}
		if _, dup := seen[lower]; dup {
			continue
		}
		seen[lower] = struct{}{}
		out = append(out, word)
	}
	return out
}

// titleCase upper-cases the first letter of each alphabetic run, so
// "tiger global" becomes "Tiger Global" and "e-commerce" becomes
// "E-Commerce".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	startOfWord := true
	for _, r := range s {
		if !unicode.IsLetter(r) {
			startOfWord = true
			b.WriteRune(r)
			continue
		}
		if startOfWord {
			b.WriteRune(unicode.ToUpper(r))
			startOfWord = false
		} else {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
