package rag

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/devpatil/unigraph/internal/models"
)

// Formatting is pure string assembly: one function per result shape,
// each producing a labeled block. Blocks are joined by the builder
// with a blank line between them, in production order.

const maxInvestorNames = 7
const maxStatRows = 8

// money renders a nullable valuation in billions, "$5.6B" style.
func money(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return "$" + strconv.FormatFloat(*v, 'f', -1, 64) + "B"
}

func moneyVal(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', -1, 64) + "B"
}

func orNA(s *string) string {
	if s == nil || *s == "" {
		return "N/A"
	}
	return *s
}

// FormatCompanyDetails renders the full profile block for one company.
func FormatCompanyDetails(d models.CompanyDetails) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Company: %s**\n", d.Company)

	sector := orNA(d.Sector)
	if d.SubSector != nil && *d.SubSector != "" {
		fmt.Fprintf(&b, "- Sector: %s (%s)\n", sector, *d.SubSector)
	} else {
		fmt.Fprintf(&b, "- Sector: %s\n", sector)
	}

	fmt.Fprintf(&b, "- Current Valuation: %s\n", money(d.Valuation))
	fmt.Fprintf(&b, "- Entry Valuation: %s\n", money(d.EntryValuation))
	fmt.Fprintf(&b, "- Entry Date: %s\n", orNA(d.EntryDate))

	locations := "N/A"
	if len(d.Locations) > 0 {
		locations = strings.Join(d.Locations, ", ")
	}
	fmt.Fprintf(&b, "- Locations: %s\n", locations)

	investors := "N/A"
	if len(d.Investors) > 0 {
		shown := d.Investors
		extra := 0
		if len(shown) > maxInvestorNames {
			extra = len(shown) - maxInvestorNames
			shown = shown[:maxInvestorNames]
		}
		investors = strings.Join(shown, ", ")
		if extra > 0 {
			investors += fmt.Sprintf(" (+%d more)", extra)
		}
	}
	fmt.Fprintf(&b, "- Key Investors: %s", investors)

	return b.String()
}

// FormatInvestorPortfolio renders one investor's holdings inline.
func FormatInvestorPortfolio(investor string, portfolio []models.PortfolioEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Investor: %s**\n", investor)
	entries := make([]string, len(portfolio))
	for i, p := range portfolio {
		sector := "N/A"
		if p.Sector != nil && *p.Sector != "" {
			sector = *p.Sector
		}
		entries[i] = fmt.Sprintf("%s (%s - %s)", p.Company, money(p.Valuation), sector)
	}
	fmt.Fprintf(&b, "- Portfolio (%d companies): %s", len(portfolio), strings.Join(entries, ", "))
	return b.String()
}

// FormatCoInvestors lists investors sharing portfolio companies with
// the named investor.
func FormatCoInvestors(investor string, coInvestors []models.CoInvestor) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Co-investors of %s:**", investor)
	for _, c := range coInvestors {
		fmt.Fprintf(&b, "\n- %s: %d shared investments", c.CoInvestor, c.SharedInvestments)
	}
	return b.String()
}

// FormatSectorCompanies renders a sector's companies inline.
func FormatSectorCompanies(sector string, companies []models.SectorCompany) string {
	entries := make([]string, len(companies))
	for i, c := range companies {
		entries[i] = fmt.Sprintf("%s (%s)", c.Company, money(c.Valuation))
	}
	return fmt.Sprintf("**%s Sector Companies:**\n%s", sector, strings.Join(entries, ", "))
}

// FormatCityCompanies renders a city's companies inline.
func FormatCityCompanies(city string, companies []models.CityCompany) string {
	entries := make([]string, len(companies))
	for i, c := range companies {
		sector := "N/A"
		if c.Sector != nil && *c.Sector != "" {
			sector = *c.Sector
		}
		entries[i] = fmt.Sprintf("%s (%s, %s)", c.Company, sector, money(c.Valuation))
	}
	return fmt.Sprintf("**Companies in %s:**\n%s", city, strings.Join(entries, ", "))
}

// FormatTopCompanies renders a numbered valuation-descending list; the
// input order is preserved, the query layer already sorts.
func FormatTopCompanies(companies []models.Company) string {
	var b strings.Builder
	b.WriteString("**Top Unicorns by Valuation:**")
	for i, c := range companies {
		sector := "N/A"
		if c.Sector != nil && *c.Sector != "" {
			sector = *c.Sector
		}
		fmt.Fprintf(&b, "\n%d. %s - %s (%s)", i+1, c.Company, money(c.Valuation), sector)
	}
	return b.String()
}

// FormatTopInvestors renders a numbered investment-count-descending
// list.
func FormatTopInvestors(investors []models.InvestorActivity) string {
	var b strings.Builder
	b.WriteString("**Most Active Investors:**")
	for i, inv := range investors {
		fmt.Fprintf(&b, "\n%d. %s - %d investments (%s total)",
			i+1, inv.Investor, inv.Investments, moneyVal(inv.PortfolioValue))
	}
	return b.String()
}

// FormatSectorStats renders per-sector aggregates, at most eight rows.
func FormatSectorStats(stats []models.SectorStat) string {
	var b strings.Builder
	b.WriteString("**Sector Statistics:**")
	for i, s := range stats {
		if i == maxStatRows {
			break
		}
		fmt.Fprintf(&b, "\n- %s: %d companies, %s total", s.Sector, s.CompanyCount, moneyVal(s.TotalValue))
	}
	return b.String()
}

// FormatLocationStats renders per-city aggregates, at most eight rows.
func FormatLocationStats(stats []models.LocationStat) string {
	var b strings.Builder
	b.WriteString("**Location Statistics:**")
	for i, s := range stats {
		if i == maxStatRows {
			break
		}
		fmt.Fprintf(&b, "\n- %s: %d companies, %s total", s.City, s.CompanyCount, moneyVal(s.TotalValue))
	}
	return b.String()
}

// FormatGraphStats renders the whole-graph summary block.
func FormatGraphStats(stats models.GraphStats) string {
	return fmt.Sprintf(
		"**Indian Unicorn Startups Database:**\n"+
			"- Total Companies: %d\n"+
			"- Total Investors: %d\n"+
			"- Sectors: %d\n"+
			"- Locations: %d\n"+
			"- Total Relationships: %d",
		stats.Companies, stats.Investors, stats.Sectors, stats.Locations, stats.Relationships)
}
