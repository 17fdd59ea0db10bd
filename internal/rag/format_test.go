package rag

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/devpatil/unigraph/internal/models"
)

func fp(v float64) *float64 { return &v }
func sp(s string) *string   { return &s }

func TestFormatCompanyDetails(t *testing.T) {
	got := FormatCompanyDetails(models.CompanyDetails{
		Company:        "Flipkart",
		Valuation:      fp(37.6),
		EntryValuation: fp(1),
		EntryDate:      sp("2012"),
		Sector:         sp("E-commerce"),
		SubSector:      sp("Marketplace"),
		Locations:      []string{"Bangalore"},
		Investors:      []string{"Tiger Global", "Accel", "SoftBank"},
	})

	want := "**Company: Flipkart**\n" +
		"- Sector: E-commerce (Marketplace)\n" +
		"- Current Valuation: $37.6B\n" +
		"- Entry Valuation: $1B\n" +
		"- Entry Date: 2012\n" +
		"- Locations: Bangalore\n" +
		"- Key Investors: Tiger Global, Accel, SoftBank"
	assert.Equal(t, want, got)
}

func TestFormatCompanyDetailsMissingFields(t *testing.T) {
	got := FormatCompanyDetails(models.CompanyDetails{Company: "Stealth"})

	assert.Contains(t, got, "- Sector: N/A")
	assert.Contains(t, got, "- Current Valuation: N/A")
	assert.Contains(t, got, "- Entry Date: N/A")
	assert.Contains(t, got, "- Locations: N/A")
	assert.Contains(t, got, "- Key Investors: N/A")
}

func TestFormatCompanyDetailsTruncatesInvestors(t *testing.T) {
	investors := make([]string, 10)
	for i := range investors {
		investors[i] = fmt.Sprintf("Fund%d", i+1)
	}

	got := FormatCompanyDetails(models.CompanyDetails{Company: "Meesho", Investors: investors})

	assert.Contains(t, got, "Fund7 (+3 more)")
	assert.NotContains(t, got, "Fund8")
}

func TestFormatInvestorPortfolio(t *testing.T) {
	got := FormatInvestorPortfolio("Sequoia", []models.PortfolioEntry{
		{Investor: "Sequoia", Company: "BYJU'S", Valuation: fp(22), Sector: sp("Edtech")},
		{Investor: "Sequoia", Company: "CRED", Valuation: nil, Sector: nil},
	})

	want := "**Investor: Sequoia**\n" +
		"- Portfolio (2 companies): BYJU'S ($22B - Edtech), CRED (N/A - N/A)"
	assert.Equal(t, want, got)
}

func TestFormatCoInvestors(t *testing.T) {
	got := FormatCoInvestors("Sequoia", []models.CoInvestor{
		{CoInvestor: "Tiger Global", SharedInvestments: 4},
	})

	assert.Equal(t, "**Co-investors of Sequoia:**\n- Tiger Global: 4 shared investments", got)
}

func TestFormatTopCompaniesNumbering(t *testing.T) {
	got := FormatTopCompanies([]models.Company{
		{Company: "Flipkart", Valuation: fp(37.6), Sector: sp("E-commerce")},
		{Company: "BYJU'S", Valuation: fp(22), Sector: sp("Edtech")},
	})

	lines := strings.Split(got, "\n")
	assert.Equal(t, "**Top Unicorns by Valuation:**", lines[0])
	assert.Equal(t, "1. Flipkart - $37.6B (E-commerce)", lines[1])
	assert.Equal(t, "2. BYJU'S - $22B (Edtech)", lines[2])
}

func TestFormatTopInvestors(t *testing.T) {
	got := FormatTopInvestors([]models.InvestorActivity{
		{Investor: "Sequoia", Investments: 12, PortfolioValue: 88.5},
	})

	assert.Equal(t, "**Most Active Investors:**\n1. Sequoia - 12 investments ($88.5B total)", got)
}

func TestFormatStatsCapRows(t *testing.T) {
	stats := make([]models.SectorStat, 12)
	for i := range stats {
		stats[i] = models.SectorStat{Sector: fmt.Sprintf("Sector%d", i+1), CompanyCount: 1, TotalValue: 1}
	}

	got := FormatSectorStats(stats)

	assert.Contains(t, got, "Sector8")
	assert.NotContains(t, got, "Sector9")
}

func TestFormatGraphStats(t *testing.T) {
	got := FormatGraphStats(models.GraphStats{
		Companies: 100, Investors: 250, Sectors: 15, Locations: 14, Relationships: 900,
	})

	want := "**Indian Unicorn Startups Database:**\n" +
		"- Total Companies: 100\n" +
		"- Total Investors: 250\n" +
		"- Sectors: 15\n" +
		"- Locations: 14\n" +
		"- Total Relationships: 900"
	assert.Equal(t, want, got)
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "N/A", money(nil))
	assert.Equal(t, "$5.6B", money(fp(5.6)))
	assert.Equal(t, "$1B", money(fp(1.0)))
}
