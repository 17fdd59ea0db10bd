// Package models defines the flat record shapes returned by the graph
// query layer. Every value is a read-only snapshot of graph data; the
// pipeline never mutates these.
package models

// Company is a basic company search hit.
type Company struct {
	Company   string   `json:"company"`
	Valuation *float64 `json:"valuation"`
	Sector    *string  `json:"sector"`
	Locations []string `json:"locations"`
}

// CompanyDetails carries the full relationship fan-out for one company.
type CompanyDetails struct {
	Company        string   `json:"company"`
	Valuation      *float64 `json:"valuation"`
	EntryValuation *float64 `json:"entry_valuation"`
	EntryDate      *string  `json:"entry_date"`
	Rank           *int     `json:"rank"`
	Sector         *string  `json:"sector"`
	SubSector      *string  `json:"subsector"`
	Locations      []string `json:"locations"`
	Investors      []string `json:"investors"`
}

// PortfolioEntry is one investor-to-company investment row.
type PortfolioEntry struct {
	Investor  string   `json:"investor"`
	Company   string   `json:"company"`
	Valuation *float64 `json:"valuation"`
	Sector    *string  `json:"sector"`
}

// InvestorActivity summarizes an investor by investment count.
type InvestorActivity struct {
	Investor       string  `json:"investor"`
	Investments    int     `json:"investments"`
	PortfolioValue float64 `json:"portfolio_value"`
}

// CoInvestor is an investor sharing portfolio companies with another.
type CoInvestor struct {
	CoInvestor        string   `json:"co_investor"`
	SharedInvestments int      `json:"shared_investments"`
	SampleCompanies   []string `json:"sample_companies"`
}

// SectorCompany is one company row scoped to a sector lookup.
type SectorCompany struct {
	Company   string   `json:"company"`
	Valuation *float64 `json:"valuation"`
	SubSector *string  `json:"subsector"`
}

// CityCompany is one company row scoped to a city lookup.
type CityCompany struct {
	Company   string   `json:"company"`
	Valuation *float64 `json:"valuation"`
	Sector    *string  `json:"sector"`
}

// SectorStat aggregates companies and valuation per sector.
type SectorStat struct {
	Sector       string  `json:"sector"`
	CompanyCount int     `json:"company_count"`
	TotalValue   float64 `json:"total_valuation"`
	AvgValue     float64 `json:"avg_valuation"`
}

// LocationStat aggregates companies and valuation per city.
type LocationStat struct {
	City         string  `json:"city"`
	CompanyCount int     `json:"company_count"`
	TotalValue   float64 `json:"total_valuation"`
}

// SectorListing is a sector with its subsectors.
type SectorListing struct {
	Sector     string   `json:"sector"`
	SubSectors []string `json:"subsectors"`
}

// GrowthEntry is a company with its valuation growth since entry.
type GrowthEntry struct {
	Company        string  `json:"company"`
	EntryValuation float64 `json:"entry_valuation"`
	CurrentValue   float64 `json:"current_valuation"`
	GrowthPercent  float64 `json:"growth_percent"`
}

// SimilarCompany is a similarity hit scored by shared
// sector/location/investor overlap with a target company.
type SimilarCompany struct {
	Company         string   `json:"company"`
	Valuation       *float64 `json:"valuation"`
	SimilarityScore int      `json:"similarity_score"`
}

// GraphStats holds the whole-graph node and relationship counts.
type GraphStats struct {
	Companies     int `json:"companies"`
	Investors     int `json:"investors"`
	Sectors       int `json:"sectors"`
	Locations     int `json:"locations"`
	Relationships int `json:"relationships"`
}
