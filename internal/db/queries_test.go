// Package db provides integration tests for SurrealDB graph queries.
package db

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var testDB *Client
var testContainer testcontainers.Container

// TestMain sets up the SurrealDB container, the schema, and a fixed
// graph fixture shared by all tests in this package.
func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		log.Println("skipping integration tests in short mode")
		os.Exit(0)
	}

	// Disable ryuk (cleanup container) as it can cause issues in some environments
	os.Setenv("TESTCONTAINERS_RYUK_DISABLED", "true")

	ctx := context.Background()

	var err error
	testContainer, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "surrealdb/surrealdb:v3.0.0-beta.1",
			ExposedPorts: []string{"8000/tcp"},
			Cmd:          []string{"start", "--log", "info", "--user", "root", "--pass", "root"},
			WaitingFor:   wait.ForLog("Started web server").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		log.Fatalf("Failed to start SurrealDB container: %v", err)
	}

	host, err := testContainer.Host(ctx)
	if err != nil {
		log.Fatalf("Failed to get container host: %v", err)
	}
	// Workaround: testcontainers may return "null" as host in some environments
	if host == "" || host == "null" {
		host = "localhost"
	}
	mappedPort, err := testContainer.MappedPort(ctx, "8000")
	if err != nil {
		log.Fatalf("Failed to get mapped port: %v", err)
	}

	testDB, err = NewClient(ctx, Config{
		URL:       fmt.Sprintf("ws://%s:%s/rpc", host, mappedPort.Port()),
		Namespace: "test",
		Database:  "test",
		Username:  "root",
		Password:  "root",
		AuthLevel: "root",
	}, nil)
	if err != nil {
		log.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := testDB.InitSchema(ctx); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	if err := seedFixture(ctx); err != nil {
		log.Fatalf("Failed to seed fixture: %v", err)
	}

	code := m.Run()

	_ = testDB.Close(ctx)
	_ = testContainer.Terminate(ctx)

	os.Exit(code)
}

func fpt(v float64) *float64 { return &v }
func spt(s string) *string   { return &s }
func ipt(n int) *int         { return &n }

// seedFixture loads a small but relationship-rich graph:
// seven companies, three cities, four sectors, five investors.
func seedFixture(ctx context.Context) error {
	rows := []CompanyRow{
		{
			Name: "Flipkart", Rank: ipt(1),
			CurrentValuation: fpt(37.6), EntryValuation: fpt(1), EntryDate: spt("2012"),
			Sector: spt("E-commerce"), SubSector: spt("Marketplace"),
			Locations: []string{"Bangalore"},
			Investors: []string{"Tiger Global", "Accel", "SoftBank"},
		},
		{
			Name: "BYJU'S", Rank: ipt(2),
			CurrentValuation: fpt(22), EntryValuation: fpt(1), EntryDate: spt("2017"),
			Sector:    spt("Edtech"),
			Locations: []string{"Bangalore"},
			Investors: []string{"Sequoia", "General Atlantic"},
		},
		{
			Name: "PhonePe", Rank: ipt(3),
			CurrentValuation: fpt(12), EntryValuation: fpt(5.5), EntryDate: spt("2018"),
			Sector: spt("Fintech"), SubSector: spt("Payments"),
			Locations: []string{"Bangalore"},
			Investors: []string{"Tiger Global"},
		},
		{
			Name: "CRED", Rank: ipt(4),
			CurrentValuation: fpt(6.4), EntryValuation: fpt(2.2), EntryDate: spt("2021"),
			Sector: spt("Fintech"), SubSector: spt("Payments"),
			Locations: []string{"Bangalore"},
			Investors: []string{"Sequoia", "Tiger Global"},
		},
		{
			// Bootstrapped: no valuation on record.
			Name:   "Zerodha",
			Sector: spt("Fintech"), SubSector: spt("Broking"),
			Locations: []string{"Bangalore"},
		},
		{
			Name: "Meesho", Rank: ipt(6),
			CurrentValuation: fpt(4.9), EntryValuation: fpt(2.1), EntryDate: spt("2021"),
			Sector:    spt("E-commerce"),
			Locations: []string{"Bangalore"},
			Investors: []string{"SoftBank", "Sequoia"},
		},
		{
			Name: "Delhivery", Rank: ipt(7),
			CurrentValuation: fpt(4), EntryValuation: fpt(1.5), EntryDate: spt("2019"),
			Sector:    spt("Logistics"),
			Locations: []string{"Gurgaon", "Delhi"},
			Investors: []string{"Tiger Global", "SoftBank"},
		},
	}

	for _, row := range rows {
		if err := testDB.LoadCompany(ctx, row); err != nil {
			return fmt.Errorf("load %s: %w", row.Name, err)
		}
	}
	return nil
}

func TestPing(t *testing.T) {
	assert.NoError(t, testDB.Ping(context.Background()))
}

func TestSearchCompaniesCaseInsensitive(t *testing.T) {
	ctx := context.Background()

	lower, err := testDB.SearchCompanies(ctx, "flipkart", 10)
	require.NoError(t, err)
	upper, err := testDB.SearchCompanies(ctx, "FLIPKART", 10)
	require.NoError(t, err)

	require.Len(t, lower, 1)
	assert.Equal(t, lower, upper, "matching is case-insensitive")
	assert.Equal(t, "Flipkart", lower[0].Company)
}

func TestSearchCompaniesSubstring(t *testing.T) {
	ctx := context.Background()

	// Substring, not exact match.
	results, err := testDB.SearchCompanies(ctx, "phone", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "PhonePe", results[0].Company)
}

func TestSearchCompaniesCap(t *testing.T) {
	ctx := context.Background()

	// "e" matches many companies; the cap truncates server-side.
	results, err := testDB.SearchCompanies(ctx, "e", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearchCompaniesNoMatch(t *testing.T) {
	results, err := testDB.SearchCompanies(context.Background(), "quantumtech", 10)
	require.NoError(t, err, "no match is an empty list, never an error")
	assert.Empty(t, results)
}

func TestCompanyDetails(t *testing.T) {
	ctx := context.Background()

	details, err := testDB.CompanyDetails(ctx, "flipkart")
	require.NoError(t, err)
	require.NotNil(t, details)

	assert.Equal(t, "Flipkart", details.Company)
	require.NotNil(t, details.Valuation)
	assert.Equal(t, 37.6, *details.Valuation)
	require.NotNil(t, details.Sector)
	assert.Equal(t, "E-commerce", *details.Sector)
	require.NotNil(t, details.SubSector)
	assert.Equal(t, "Marketplace", *details.SubSector)
	assert.Equal(t, []string{"Bangalore"}, details.Locations)
	assert.ElementsMatch(t, []string{"Tiger Global", "Accel", "SoftBank"}, details.Investors)
}

func TestCompanyDetailsNoMatch(t *testing.T) {
	details, err := testDB.CompanyDetails(context.Background(), "nonexistent")
	require.NoError(t, err)
	assert.Nil(t, details)
}

func TestTopCompaniesOrdering(t *testing.T) {
	ctx := context.Background()

	top, err := testDB.TopCompanies(ctx, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)

	assert.Equal(t, "Flipkart", top[0].Company)
	assert.Equal(t, "BYJU'S", top[1].Company)
	assert.Equal(t, "PhonePe", top[2].Company)
}

func TestTopCompaniesExcludesUnvalued(t *testing.T) {
	ctx := context.Background()

	top, err := testDB.TopCompanies(ctx, 20)
	require.NoError(t, err)
	for _, c := range top {
		assert.NotEqual(t, "Zerodha", c.Company, "companies without a valuation are not ranked")
	}
}

func TestInvestorPortfolioOrderingAndCap(t *testing.T) {
	ctx := context.Background()

	portfolio, err := testDB.InvestorPortfolio(ctx, "tiger", 10)
	require.NoError(t, err)
	require.Len(t, portfolio, 4)

	// Valuation-descending.
	assert.Equal(t, "Flipkart", portfolio[0].Company)
	assert.Equal(t, "PhonePe", portfolio[1].Company)
	assert.Equal(t, "CRED", portfolio[2].Company)
	assert.Equal(t, "Delhivery", portfolio[3].Company)

	capped, err := testDB.InvestorPortfolio(ctx, "tiger", 2)
	require.NoError(t, err)
	assert.Len(t, capped, 2)
}

func TestTopInvestors(t *testing.T) {
	ctx := context.Background()

	investors, err := testDB.TopInvestors(ctx, 10)
	require.NoError(t, err)
	require.NotEmpty(t, investors)

	assert.Equal(t, "Tiger Global", investors[0].Investor)
	assert.Equal(t, 4, investors[0].Investments)
	assert.Positive(t, investors[0].PortfolioValue)

	for i := 1; i < len(investors); i++ {
		assert.LessOrEqual(t, investors[i].Investments, investors[i-1].Investments,
			"ordered by descending investment count")
	}
}

func TestCoInvestors(t *testing.T) {
	ctx := context.Background()

	coInvestors, err := testDB.CoInvestors(ctx, "sequoia", 10)
	require.NoError(t, err)
	require.NotEmpty(t, coInvestors)

	names := make([]string, len(coInvestors))
	for i, c := range coInvestors {
		names[i] = c.CoInvestor
		assert.NotEqual(t, "Sequoia", c.CoInvestor, "the investor itself is excluded")
		assert.Positive(t, c.SharedInvestments)
	}
	assert.Contains(t, names, "Tiger Global")
	assert.Contains(t, names, "SoftBank")
}

func TestSectorCompaniesNullsSortLast(t *testing.T) {
	ctx := context.Background()

	companies, err := testDB.SectorCompanies(ctx, "fintech", 10)
	require.NoError(t, err)
	require.Len(t, companies, 3)

	assert.Equal(t, "PhonePe", companies[0].Company)
	assert.Equal(t, "CRED", companies[1].Company)
	assert.Equal(t, "Zerodha", companies[2].Company, "missing valuations sort below any value")
	assert.Nil(t, companies[2].Valuation)
}

func TestSectorCompaniesCap(t *testing.T) {
	companies, err := testDB.SectorCompanies(context.Background(), "fintech", 2)
	require.NoError(t, err)
	assert.Len(t, companies, 2)
}

func TestSectorStats(t *testing.T) {
	ctx := context.Background()

	stats, err := testDB.SectorStats(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, stats)

	byName := make(map[string]int)
	for i, s := range stats {
		byName[s.Sector] = i
	}
	require.Contains(t, byName, "Fintech")
	fintech := stats[byName["Fintech"]]
	assert.Equal(t, 3, fintech.CompanyCount)
	assert.InDelta(t, 18.4, fintech.TotalValue, 0.01)

	for i := 1; i < len(stats); i++ {
		assert.LessOrEqual(t, stats[i].TotalValue, stats[i-1].TotalValue,
			"ordered by descending aggregate total")
	}
}

func TestAllSectors(t *testing.T) {
	ctx := context.Background()

	sectors, err := testDB.AllSectors(ctx)
	require.NoError(t, err)

	found := false
	for _, s := range sectors {
		if s.Sector == "Fintech" {
			found = true
			assert.ElementsMatch(t, []string{"Payments", "Broking"}, s.SubSectors)
		}
	}
	require.True(t, found)
}

func TestCityCompanies(t *testing.T) {
	ctx := context.Background()

	companies, err := testDB.CityCompanies(ctx, "BANGALORE", 10)
	require.NoError(t, err)
	require.Len(t, companies, 6)
	assert.Equal(t, "Flipkart", companies[0].Company)

	capped, err := testDB.CityCompanies(ctx, "bangalore", 3)
	require.NoError(t, err)
	assert.Len(t, capped, 3)
}

func TestLocationStats(t *testing.T) {
	ctx := context.Background()

	stats, err := testDB.LocationStats(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, stats)

	assert.Equal(t, "Bangalore", stats[0].City)
	assert.Equal(t, 6, stats[0].CompanyCount)
}

func TestGraphStats(t *testing.T) {
	ctx := context.Background()

	stats, err := testDB.GraphStats(ctx)
	require.NoError(t, err)
	require.NotNil(t, stats)

	assert.Equal(t, 7, stats.Companies)
	assert.Equal(t, 5, stats.Investors)
	assert.Equal(t, 4, stats.Sectors)
	assert.Equal(t, 3, stats.Locations)
	assert.Positive(t, stats.Relationships)
}

func TestValuationGrowth(t *testing.T) {
	ctx := context.Background()

	growth, err := testDB.ValuationGrowth(ctx, 5)
	require.NoError(t, err)
	require.NotEmpty(t, growth)

	assert.Equal(t, "Flipkart", growth[0].Company)
	assert.InDelta(t, 3660.0, growth[0].GrowthPercent, 1.0)

	for i := 1; i < len(growth); i++ {
		assert.LessOrEqual(t, growth[i].GrowthPercent, growth[i-1].GrowthPercent)
	}
}

func TestSimilarCompanies(t *testing.T) {
	ctx := context.Background()

	similar, err := testDB.SimilarCompanies(ctx, "cred", 10)
	require.NoError(t, err)
	require.NotEmpty(t, similar)

	names := make([]string, len(similar))
	for i, s := range similar {
		names[i] = s.Company
		assert.NotEqual(t, "CRED", s.Company, "the target itself is excluded")
		assert.Positive(t, s.SimilarityScore, "zero-overlap candidates are excluded")
	}
	// PhonePe shares sector, city, and an investor with CRED.
	assert.Equal(t, "PhonePe", names[0])
}

func TestSimilarCompaniesNoTarget(t *testing.T) {
	similar, err := testDB.SimilarCompanies(context.Background(), "nonexistent", 10)
	require.NoError(t, err)
	assert.Empty(t, similar)
}

func TestLoadCompanyIdempotent(t *testing.T) {
	ctx := context.Background()

	before, err := testDB.GraphStats(ctx)
	require.NoError(t, err)

	err = testDB.LoadCompany(ctx, CompanyRow{
		Name:             "Flipkart",
		Rank:             ipt(1),
		CurrentValuation: fpt(37.6),
		EntryValuation:   fpt(1),
		EntryDate:        spt("2012"),
		Sector:           spt("E-commerce"),
		SubSector:        spt("Marketplace"),
		Locations:        []string{"Bangalore"},
		Investors:        []string{"Tiger Global", "Accel", "SoftBank"},
	})
	require.NoError(t, err, "reloading the same row must not fail")

	after, err := testDB.GraphStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after, "reloading the same row changes nothing")
}

// Runs last in this file: wiping the fixture would break the tests
// above if ordering ever changes, so it restores the fixture after.
func TestWipeData(t *testing.T) {
	ctx := context.Background()

	require.NoError(t, testDB.WipeData(ctx))

	stats, err := testDB.GraphStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Companies)
	assert.Equal(t, 0, stats.Relationships)

	require.NoError(t, seedFixture(ctx))
}
