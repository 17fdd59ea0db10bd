package db

import (
	"context"
	"fmt"
	"math"

	"github.com/devpatil/unigraph/internal/models"
	"github.com/surrealdb/surrealdb.go"
)

// The query layer. Every textual match is case-insensitive substring
// containment; every list-returning lookup takes a server-side LIMIT.
// A term that matches nothing yields an empty result, never an error.
// Company lists order by descending valuation with nulls lowest, which
// is why sort keys coalesce with `?? 0.0`.

// rows extracts the first statement's result from a query response.
func rows[T any](results *[]surrealdb.QueryResult[[]T]) []T {
	if results == nil || len(*results) == 0 {
		return nil
	}
	return (*results)[0].Result
}

// round1 rounds to one decimal, matching the presentation precision of
// aggregate valuations.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// SearchCompanies finds companies by name substring.
func (c *Client) SearchCompanies(ctx context.Context, term string, limit int) ([]models.Company, error) {
	results, err := surrealdb.Query[[]models.Company](ctx, c.db, `
		SELECT name AS company,
		       current_valuation AS valuation,
		       (->operates_in->sector.name)[0] AS sector,
		       array::distinct(->located_in->location.city) AS locations,
		       current_valuation ?? 0.0 AS sort_val
		FROM company
		WHERE string::lowercase(name) CONTAINS string::lowercase($term)
		ORDER BY sort_val DESC
		LIMIT $limit
	`, map[string]any{"term": term, "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("search companies: %w", err)
	}
	return rows(results), nil
}

// CompanyDetails returns the full relationship fan-out for the first
// company matching the name substring, or nil if nothing matches.
func (c *Client) CompanyDetails(ctx context.Context, name string) (*models.CompanyDetails, error) {
	results, err := surrealdb.Query[[]models.CompanyDetails](ctx, c.db, `
		SELECT name AS company,
		       current_valuation AS valuation,
		       entry_valuation,
		       entry_date,
		       rank,
		       (->operates_in->sector.name)[0] AS sector,
		       (->specializes_in->subsector.name)[0] AS subsector,
		       array::distinct(->located_in->location.city) AS locations,
		       array::distinct(<-invested_in<-investor.name) AS investors
		FROM company
		WHERE string::lowercase(name) CONTAINS string::lowercase($name)
		LIMIT 1
	`, map[string]any{"name": name})
	if err != nil {
		return nil, fmt.Errorf("company details: %w", err)
	}

	matched := rows(results)
	if len(matched) == 0 {
		return nil, nil
	}
	return &matched[0], nil
}

// TopCompanies returns companies by descending current valuation.
func (c *Client) TopCompanies(ctx context.Context, limit int) ([]models.Company, error) {
	results, err := surrealdb.Query[[]models.Company](ctx, c.db, `
		SELECT name AS company,
		       current_valuation AS valuation,
		       (->operates_in->sector.name)[0] AS sector
		FROM company
		WHERE current_valuation != NONE
		ORDER BY current_valuation DESC
		LIMIT $limit
	`, map[string]any{"limit": limit})
	if err != nil {
		return nil, fmt.Errorf("top companies: %w", err)
	}
	return rows(results), nil
}

// ValuationGrowth returns companies ranked by percentage growth from
// entry valuation to current valuation.
func (c *Client) ValuationGrowth(ctx context.Context, limit int) ([]models.GrowthEntry, error) {
	results, err := surrealdb.Query[[]models.GrowthEntry](ctx, c.db, `
		SELECT name AS company,
		       entry_valuation,
		       current_valuation,
		       math::round((current_valuation / entry_valuation - 1) * 100) AS growth_percent
		FROM company
		WHERE entry_valuation != NONE AND current_valuation != NONE
		ORDER BY growth_percent DESC
		LIMIT $limit
	`, map[string]any{"limit": limit})
	if err != nil {
		return nil, fmt.Errorf("valuation growth: %w", err)
	}
	return rows(results), nil
}

// InvestorPortfolio returns companies an investor has invested in,
// matched by investor name substring.
func (c *Client) InvestorPortfolio(ctx context.Context, investor string, limit int) ([]models.PortfolioEntry, error) {
	results, err := surrealdb.Query[[]models.PortfolioEntry](ctx, c.db, `
		SELECT in.name AS investor,
		       out.name AS company,
		       out.current_valuation AS valuation,
		       (out->operates_in->sector.name)[0] AS sector,
		       out.current_valuation ?? 0.0 AS sort_val
		FROM invested_in
		WHERE string::lowercase(in.name) CONTAINS string::lowercase($name)
		ORDER BY sort_val DESC
		LIMIT $limit
	`, map[string]any{"name": investor, "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("investor portfolio: %w", err)
	}
	return rows(results), nil
}

// TopInvestors returns the most active investors by investment count.
func (c *Client) TopInvestors(ctx context.Context, limit int) ([]models.InvestorActivity, error) {
	results, err := surrealdb.Query[[]models.InvestorActivity](ctx, c.db, `
		SELECT in.name AS investor,
		       count() AS investments,
		       math::sum(out.current_valuation ?? 0.0) AS portfolio_value
		FROM invested_in
		GROUP BY investor
		ORDER BY investments DESC
		LIMIT $limit
	`, map[string]any{"limit": limit})
	if err != nil {
		return nil, fmt.Errorf("top investors: %w", err)
	}

	activity := rows(results)
	for i := range activity {
		activity[i].PortfolioValue = round1(activity[i].PortfolioValue)
	}
	return activity, nil
}

// CoInvestors finds investors sharing portfolio companies with the
// investor matching the name substring.
func (c *Client) CoInvestors(ctx context.Context, investor string, limit int) ([]models.CoInvestor, error) {
	results, err := surrealdb.Query[[]models.CoInvestor](ctx, c.db, `
		LET $target = (SELECT VALUE id FROM investor
			WHERE string::lowercase(name) CONTAINS string::lowercase($name) LIMIT 1)[0];
		LET $portfolio = (SELECT VALUE out FROM invested_in WHERE in = $target);
		SELECT in.name AS co_investor,
		       count() AS shared_investments,
		       array::slice(array::group([out.name]), 0, 5) AS sample_companies
		FROM invested_in
		WHERE out IN $portfolio AND in != $target
		GROUP BY co_investor
		ORDER BY shared_investments DESC
		LIMIT $limit;
	`, map[string]any{"name": investor, "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("co-investors: %w", err)
	}

	// Multi-statement query: the SELECT is the final statement.
	if results == nil || len(*results) == 0 {
		return nil, nil
	}
	return (*results)[len(*results)-1].Result, nil
}

// SectorCompanies returns companies operating in sectors matching the
// name substring.
func (c *Client) SectorCompanies(ctx context.Context, sector string, limit int) ([]models.SectorCompany, error) {
	results, err := surrealdb.Query[[]models.SectorCompany](ctx, c.db, `
		SELECT in.name AS company,
		       in.current_valuation AS valuation,
		       (in->specializes_in->subsector.name)[0] AS subsector,
		       in.current_valuation ?? 0.0 AS sort_val
		FROM operates_in
		WHERE string::lowercase(out.name) CONTAINS string::lowercase($sector)
		ORDER BY sort_val DESC
		LIMIT $limit
	`, map[string]any{"sector": sector, "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("sector companies: %w", err)
	}
	return rows(results), nil
}

// SectorStats aggregates company count and valuation per sector,
// ordered by descending total valuation.
func (c *Client) SectorStats(ctx context.Context) ([]models.SectorStat, error) {
	results, err := surrealdb.Query[[]models.SectorStat](ctx, c.db, `
		SELECT out.name AS sector,
		       count() AS company_count,
		       math::sum(in.current_valuation ?? 0.0) AS total_valuation,
		       math::mean(in.current_valuation ?? 0.0) AS avg_valuation
		FROM operates_in
		GROUP BY sector
		ORDER BY total_valuation DESC
	`, nil)
	if err != nil {
		return nil, fmt.Errorf("sector stats: %w", err)
	}

	stats := rows(results)
	for i := range stats {
		stats[i].TotalValue = round1(stats[i].TotalValue)
		stats[i].AvgValue = round1(stats[i].AvgValue)
	}
	return stats, nil
}

// AllSectors lists every sector with its subsectors, by name.
func (c *Client) AllSectors(ctx context.Context) ([]models.SectorListing, error) {
	results, err := surrealdb.Query[[]models.SectorListing](ctx, c.db, `
		SELECT name AS sector,
		       array::distinct(->has_subsector->subsector.name) AS subsectors
		FROM sector
		ORDER BY sector ASC
	`, nil)
	if err != nil {
		return nil, fmt.Errorf("all sectors: %w", err)
	}
	return rows(results), nil
}

// CityCompanies returns companies located in cities matching the
// substring.
func (c *Client) CityCompanies(ctx context.Context, city string, limit int) ([]models.CityCompany, error) {
	results, err := surrealdb.Query[[]models.CityCompany](ctx, c.db, `
		SELECT in.name AS company,
		       in.current_valuation AS valuation,
		       (in->operates_in->sector.name)[0] AS sector,
		       in.current_valuation ?? 0.0 AS sort_val
		FROM located_in
		WHERE string::lowercase(out.city) CONTAINS string::lowercase($city)
		ORDER BY sort_val DESC
		LIMIT $limit
	`, map[string]any{"city": city, "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("city companies: %w", err)
	}
	return rows(results), nil
}

// LocationStats aggregates company count and valuation per city,
// ordered by descending company count.
func (c *Client) LocationStats(ctx context.Context) ([]models.LocationStat, error) {
	results, err := surrealdb.Query[[]models.LocationStat](ctx, c.db, `
		SELECT out.city AS city,
		       count() AS company_count,
		       math::sum(in.current_valuation ?? 0.0) AS total_valuation
		FROM located_in
		GROUP BY city
		ORDER BY company_count DESC
	`, nil)
	if err != nil {
		return nil, fmt.Errorf("location stats: %w", err)
	}

	stats := rows(results)
	for i := range stats {
		stats[i].TotalValue = round1(stats[i].TotalValue)
	}
	return stats, nil
}

// GraphStats returns whole-graph node and relationship counts.
func (c *Client) GraphStats(ctx context.Context) (*models.GraphStats, error) {
	results, err := surrealdb.Query[models.GraphStats](ctx, c.db, `
		RETURN {
			companies: ((SELECT count() AS c FROM company GROUP ALL)[0].c ?? 0),
			investors: ((SELECT count() AS c FROM investor GROUP ALL)[0].c ?? 0),
			sectors: ((SELECT count() AS c FROM sector GROUP ALL)[0].c ?? 0),
			locations: ((SELECT count() AS c FROM location GROUP ALL)[0].c ?? 0),
			relationships: ((SELECT count() AS c FROM operates_in GROUP ALL)[0].c ?? 0)
				+ ((SELECT count() AS c FROM specializes_in GROUP ALL)[0].c ?? 0)
				+ ((SELECT count() AS c FROM has_subsector GROUP ALL)[0].c ?? 0)
				+ ((SELECT count() AS c FROM located_in GROUP ALL)[0].c ?? 0)
				+ ((SELECT count() AS c FROM invested_in GROUP ALL)[0].c ?? 0)
		}
	`, nil)
	if err != nil {
		return nil, fmt.Errorf("graph stats: %w", err)
	}

	if results == nil || len(*results) == 0 {
		return nil, nil
	}
	stats := (*results)[0].Result
	return &stats, nil
}

// similarTarget is the attribute fan-out of the similarity target.
type similarTarget struct {
	ID        any   `json:"id"`
	Sectors   []any `json:"sectors"`
	Locations []any `json:"locations"`
	Investors []any `json:"investors"`
}

// SimilarCompanies scores candidates by shared sector, shared location,
// and shared investor overlap with the target company (one point each).
// Zero-score candidates are excluded; ties break by descending valuation.
func (c *Client) SimilarCompanies(ctx context.Context, name string, limit int) ([]models.SimilarCompany, error) {
	targets, err := surrealdb.Query[[]similarTarget](ctx, c.db, `
		SELECT id,
		       ->operates_in->sector AS sectors,
		       ->located_in->location AS locations,
		       <-invested_in<-investor AS investors
		FROM company
		WHERE string::lowercase(name) CONTAINS string::lowercase($name)
		LIMIT 1
	`, map[string]any{"name": name})
	if err != nil {
		return nil, fmt.Errorf("similar companies: resolve target: %w", err)
	}

	matched := rows(targets)
	if len(matched) == 0 {
		return nil, nil
	}
	target := matched[0]

	results, err := surrealdb.Query[[]models.SimilarCompany](ctx, c.db, `
		SELECT * FROM (
			SELECT name AS company,
			       current_valuation AS valuation,
			       (IF array::len(array::intersect(->operates_in->sector, $sectors)) > 0 THEN 1 ELSE 0 END)
			       + (IF array::len(array::intersect(->located_in->location, $locations)) > 0 THEN 1 ELSE 0 END)
			       + (IF array::len(array::intersect(<-invested_in<-investor, $investors)) > 0 THEN 1 ELSE 0 END)
			       AS similarity_score,
			       current_valuation ?? 0.0 AS sort_val
			FROM company
			WHERE id != $target
		)
		WHERE similarity_score > 0
		ORDER BY similarity_score DESC, sort_val DESC
		LIMIT $limit
	`, map[string]any{
		"target":    target.ID,
		"sectors":   target.Sectors,
		"locations": target.Locations,
		"investors": target.Investors,
		"limit":     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("similar companies: %w", err)
	}
	return rows(results), nil
}
