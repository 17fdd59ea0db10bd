package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/devpatil/unigraph/internal/models"
)

// GraphReader is the slice of the graph query layer the builder needs.
// Satisfied by *db.Client; tests substitute a fake.
type GraphReader interface {
	CompanyDetails(ctx context.Context, name string) (*models.CompanyDetails, error)
	TopCompanies(ctx context.Context, limit int) ([]models.Company, error)
	InvestorPortfolio(ctx context.Context, investor string, limit int) ([]models.PortfolioEntry, error)
	TopInvestors(ctx context.Context, limit int) ([]models.InvestorActivity, error)
	CoInvestors(ctx context.Context, investor string, limit int) ([]models.CoInvestor, error)
	SectorCompanies(ctx context.Context, sector string, limit int) ([]models.SectorCompany, error)
	SectorStats(ctx context.Context) ([]models.SectorStat, error)
	CityCompanies(ctx context.Context, city string, limit int) ([]models.CityCompany, error)
	LocationStats(ctx context.Context) ([]models.LocationStat, error)
	GraphStats(ctx context.Context) (*models.GraphStats, error)
}

// RetrievalResult is the assembled grounding context for one query.
// EntitiesFound is a coarse activity tally (1 per matched detail
// lookup plus the row count of each list result), not a deduplicated
// entity count.
type RetrievalResult struct {
	Context       string
	Intent        Intent
	Entities      ExtractedEntities
	EntitiesFound int
	Sources       []string
	RetrievalTime time.Duration
}

// block is one labeled unit of retrieved text plus its source tag.
type block struct {
	source string
	text   string
}

// Builder turns a raw query into a bounded grounding context. It
// extracts entities, classifies intent, runs the intent's lookup plan
// against the graph, and joins the formatted blocks under a character
// cap. Plans that retrieve nothing degrade to the general summary.
type Builder struct {
	graph     GraphReader
	extractor *Extractor
	maxChars  int
	logger    *slog.Logger
}

func NewBuilder(graph GraphReader, extractor *Extractor, maxChars int, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{graph: graph, extractor: extractor, maxChars: maxChars, logger: logger}
}

// BuildContext runs the full retrieval pass for one query. Empty
// results are never errors; only store connectivity failures surface.
func (b *Builder) BuildContext(ctx context.Context, query string) (RetrievalResult, error) {
	start := time.Now()

	entities := b.extractor.Extract(query)
	intent := ClassifyIntent(entities)

	b.logger.Debug("classified query",
		slog.String("intent", string(intent)),
		slog.Int("mentions", entities.Count()))

	blocks, found, err := b.runPlan(ctx, intent, entities)
	if err != nil {
		return RetrievalResult{}, fmt.Errorf("retrieval plan %s: %w", intent, err)
	}

	// Any plan that produced nothing falls back to the general
	// summary, whatever the classified intent was.
	if len(blocks) == 0 && intent != IntentGeneral {
		blocks, found, err = b.generalPlan(ctx)
		if err != nil {
			return RetrievalResult{}, fmt.Errorf("general fallback: %w", err)
		}
	}

	text, sources := joinBlocks(blocks, b.maxChars)

	return RetrievalResult{
		Context:       text,
		Intent:        intent,
		Entities:      entities,
		EntitiesFound: found,
		Sources:       sources,
		RetrievalTime: time.Since(start),
	}, nil
}

func (b *Builder) runPlan(ctx context.Context, intent Intent, e ExtractedEntities) ([]block, int, error) {
	switch intent {
	case IntentComparison:
		return b.comparisonPlan(ctx, e)
	case IntentAggregation:
		return b.aggregationPlan(ctx)
	case IntentTopRanking:
		return b.topRankingPlan(ctx, e)
	case IntentInvestorInfo:
		return b.investorPlan(ctx, e)
	case IntentSectorInfo:
		return b.sectorPlan(ctx, e)
	case IntentLocationInfo:
		return b.locationPlan(ctx, e)
	case IntentCompanyInfo:
		return b.companyPlan(ctx, e)
	default:
		return b.generalPlan(ctx)
	}
}

func (b *Builder) comparisonPlan(ctx context.Context, e ExtractedEntities) ([]block, int, error) {
	var blocks []block
	found := 0

	for _, name := range head(e.Companies, 5) {
		details, err := b.graph.CompanyDetails(ctx, name)
		if err != nil {
			return nil, 0, err
		}
		if details == nil {
			continue
		}
		blocks = append(blocks, block{"company:" + details.Company, FormatCompanyDetails(*details)})
		found++
	}

	for _, sector := range head(e.Sectors, 3) {
		companies, err := b.graph.SectorCompanies(ctx, sector, 5)
		if err != nil {
			return nil, 0, err
		}
		if len(companies) == 0 {
			continue
		}
		blocks = append(blocks, block{"sector:" + sector, FormatSectorCompanies(sector, companies)})
		found += len(companies)
	}

	for _, city := range head(e.Locations, 3) {
		companies, err := b.graph.CityCompanies(ctx, city, 5)
		if err != nil {
			return nil, 0, err
		}
		if len(companies) == 0 {
			continue
		}
		blocks = append(blocks, block{"city:" + city, FormatCityCompanies(city, companies)})
		found += len(companies)
	}

	return blocks, found, nil
}

func (b *Builder) topRankingPlan(ctx context.Context, e ExtractedEntities) ([]block, int, error) {
	var blocks []block
	found := 0

	top, err := b.graph.TopCompanies(ctx, 10)
	if err != nil {
		return nil, 0, err
	}
	if len(top) > 0 {
		blocks = append(blocks, block{"top_companies", FormatTopCompanies(top)})
		found += len(top)
	}

	investors, err := b.graph.TopInvestors(ctx, 10)
	if err != nil {
		return nil, 0, err
	}
	if len(investors) > 0 {
		blocks = append(blocks, block{"top_investors", FormatTopInvestors(investors)})
		found += len(investors)
	}

	for _, sector := range head(e.Sectors, 2) {
		companies, err := b.graph.SectorCompanies(ctx, sector, 5)
		if err != nil {
			return nil, 0, err
		}
		if len(companies) == 0 {
			continue
		}
		blocks = append(blocks, block{"sector:" + sector, FormatSectorCompanies(sector, companies)})
	}

	return blocks, found, nil
}

func (b *Builder) aggregationPlan(ctx context.Context) ([]block, int, error) {
	var blocks []block
	found := 0

	stats, err := b.graph.GraphStats(ctx)
	if err != nil {
		return nil, 0, err
	}
	if stats != nil {
		blocks = append(blocks, block{"graph_stats", FormatGraphStats(*stats)})
		found++
	}

	sectorStats, err := b.graph.SectorStats(ctx)
	if err != nil {
		return nil, 0, err
	}
	if len(sectorStats) > 0 {
		blocks = append(blocks, block{"sector_stats", FormatSectorStats(sectorStats)})
		found += len(sectorStats)
	}

	locationStats, err := b.graph.LocationStats(ctx)
	if err != nil {
		return nil, 0, err
	}
	if len(locationStats) > 0 {
		blocks = append(blocks, block{"location_stats", FormatLocationStats(head(locationStats, 10))})
	}

	return blocks, found, nil
}

func (b *Builder) investorPlan(ctx context.Context, e ExtractedEntities) ([]block, int, error) {
	var blocks []block
	found := 0

	for _, investor := range head(e.Investors, 3) {
		portfolio, err := b.graph.InvestorPortfolio(ctx, investor, 10)
		if err != nil {
			return nil, 0, err
		}
		if len(portfolio) > 0 {
			blocks = append(blocks, block{"investor:" + investor, FormatInvestorPortfolio(investor, portfolio)})
			found += len(portfolio)
		}

		coInvestors, err := b.graph.CoInvestors(ctx, investor, 5)
		if err != nil {
			return nil, 0, err
		}
		if len(coInvestors) > 0 {
			blocks = append(blocks, block{"co_investors:" + investor, FormatCoInvestors(investor, coInvestors)})
		}
	}

	if len(e.Investors) == 0 {
		investors, err := b.graph.TopInvestors(ctx, 10)
		if err != nil {
			return nil, 0, err
		}
		if len(investors) > 0 {
			blocks = append(blocks, block{"top_investors", FormatTopInvestors(investors)})
			found += len(investors)
		}
	}

	return blocks, found, nil
}

func (b *Builder) sectorPlan(ctx context.Context, e ExtractedEntities) ([]block, int, error) {
	var blocks []block
	found := 0

	for _, sector := range head(e.Sectors, 3) {
		companies, err := b.graph.SectorCompanies(ctx, sector, 10)
		if err != nil {
			return nil, 0, err
		}
		if len(companies) == 0 {
			continue
		}
		blocks = append(blocks, block{"sector:" + sector, FormatSectorCompanies(sector, companies)})
		found += len(companies)
	}

	stats, err := b.graph.SectorStats(ctx)
	if err != nil {
		return nil, 0, err
	}
	if len(stats) > 0 {
		blocks = append(blocks, block{"sector_stats", FormatSectorStats(stats)})
	}

	return blocks, found, nil
}

func (b *Builder) locationPlan(ctx context.Context, e ExtractedEntities) ([]block, int, error) {
	var blocks []block
	found := 0

	for _, city := range head(e.Locations, 3) {
		companies, err := b.graph.CityCompanies(ctx, city, 10)
		if err != nil {
			return nil, 0, err
		}
		if len(companies) == 0 {
			continue
		}
		blocks = append(blocks, block{"city:" + city, FormatCityCompanies(city, companies)})
		found += len(companies)
	}

	stats, err := b.graph.LocationStats(ctx)
	if err != nil {
		return nil, 0, err
	}
	if len(stats) > 0 {
		blocks = append(blocks, block{"location_stats", FormatLocationStats(head(stats, 10))})
	}

	return blocks, found, nil
}

func (b *Builder) companyPlan(ctx context.Context, e ExtractedEntities) ([]block, int, error) {
	var blocks []block
	found := 0

	for _, name := range head(e.Companies, 3) {
		details, err := b.graph.CompanyDetails(ctx, name)
		if err != nil {
			return nil, 0, err
		}
		if details == nil {
			continue
		}
		blocks = append(blocks, block{"company:" + details.Company, FormatCompanyDetails(*details)})
		found++
	}

	for _, investor := range e.Investors {
		portfolio, err := b.graph.InvestorPortfolio(ctx, investor, 5)
		if err != nil {
			return nil, 0, err
		}
		if len(portfolio) == 0 {
			continue
		}
		blocks = append(blocks, block{"investor:" + investor, FormatInvestorPortfolio(investor, portfolio)})
		found += len(portfolio)
	}

	return blocks, found, nil
}

func (b *Builder) generalPlan(ctx context.Context) ([]block, int, error) {
	var blocks []block

	stats, err := b.graph.GraphStats(ctx)
	if err != nil {
		return nil, 0, err
	}
	if stats != nil {
		blocks = append(blocks, block{"graph_stats", FormatGraphStats(*stats)})
	}

	top, err := b.graph.TopCompanies(ctx, 5)
	if err != nil {
		return nil, 0, err
	}
	if len(top) > 0 {
		blocks = append(blocks, block{"top_companies", FormatTopCompanies(top)})
	}

	return blocks, len(top), nil
}

// joinBlocks concatenates blocks with blank lines, in production
// order, dropping whole trailing blocks once the character cap would
// be exceeded. The first block is always kept.
func joinBlocks(blocks []block, maxChars int) (string, []string) {
	var b strings.Builder
	var sources []string
	for i, blk := range blocks {
		add := len(blk.text)
		if i > 0 {
			add += 2
		}
		if maxChars > 0 && i > 0 && b.Len()+add > maxChars {
			break
		}
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(blk.text)
		sources = append(sources, blk.source)
	}
	return b.String(), sources
}

func head[T any](s []T, n int) []T {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
