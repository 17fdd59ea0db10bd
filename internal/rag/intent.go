package rag

// Intent is the single classified purpose of a query, drawn from a
// closed set. It selects which graph lookups the builder runs.
type Intent string

const (
	IntentComparison   Intent = "comparison"
	IntentAggregation  Intent = "aggregation"
	IntentTopRanking   Intent = "top_ranking"
	IntentInvestorInfo Intent = "investor_info"
	IntentSectorInfo   Intent = "sector_info"
	IntentLocationInfo Intent = "location_info"
	IntentCompanyInfo  Intent = "company_info"
	IntentGeneral      Intent = "general"
)

// intentRules is the priority cascade: rules are evaluated in order
// and the first match wins, regardless of how many other signals are
// present. A query containing both "compare" and a sector word is a
// comparison query, not a sector query.
var intentRules = []struct {
	match  func(ExtractedEntities) bool
	intent Intent
}{
	{func(e ExtractedEntities) bool { return e.Comparison }, IntentComparison},
	{func(e ExtractedEntities) bool { return e.Aggregation }, IntentAggregation},
	{func(e ExtractedEntities) bool { return e.TopQuery }, IntentTopRanking},
	{func(e ExtractedEntities) bool { return e.Types[TypeInvestor] }, IntentInvestorInfo},
	{func(e ExtractedEntities) bool { return e.Types[TypeSector] }, IntentSectorInfo},
	{func(e ExtractedEntities) bool { return e.Types[TypeLocation] }, IntentLocationInfo},
	{func(e ExtractedEntities) bool { return e.Types[TypeCompany] }, IntentCompanyInfo},
}

// ClassifyIntent maps extracted entities and shape flags to exactly
// one intent.
func ClassifyIntent(entities ExtractedEntities) Intent {
	for _, rule := range intentRules {
		if rule.match(entities) {
			return rule.intent
		}
	}
	return IntentGeneral
}
