// Package ingest parses the unicorn-startups CSV export into graph
// load rows.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/devpatil/unigraph/internal/db"
)

// Expected header names in the source CSV.
const (
	colRank           = "No."
	colCompany        = "Company"
	colValuation      = "Valuation ($B)"
	colEntryValuation = "Entry Valuation^^ ($B)"
	colEntryDate      = "Entry"
	colLocation       = "Location"
	colSector         = "Sector"
	colInvestors      = "Select Investors"
)

// ParseFile reads the CSV at path and returns one load row per data
// line.
func ParseFile(path string) ([]db.CompanyRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads CSV data. The first line must be the header; unknown
// columns are ignored, missing required columns are an error. Rows
// without a company name are skipped.
func Parse(r io.Reader) ([]db.CompanyRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	if _, ok := cols[colCompany]; !ok {
		return nil, fmt.Errorf("csv missing %q column", colCompany)
	}

	var rows []db.CompanyRow
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}

		name := field(record, cols, colCompany)
		if name == "" {
			continue
		}

		sector, subSector := parseSector(field(record, cols, colSector))
		rows = append(rows, db.CompanyRow{
			Name:             name,
			Rank:             parseRank(field(record, cols, colRank)),
			EntryValuation:   parseValuation(field(record, cols, colEntryValuation)),
			CurrentValuation: parseValuation(field(record, cols, colValuation)),
			EntryDate:        optional(field(record, cols, colEntryDate)),
			Sector:           sector,
			SubSector:        subSector,
			Locations:        splitList(field(record, cols, colLocation), "/"),
			Investors:        splitList(field(record, cols, colInvestors), ","),
		})
	}

	return rows, nil
}

func field(record []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// parseSector splits "Fintech - Payments" into sector and subsector.
func parseSector(s string) (*string, *string) {
	if s == "" {
		return nil, nil
	}
	parts := strings.SplitN(s, " - ", 2)
	sector := strings.TrimSpace(parts[0])
	if len(parts) == 1 {
		return optional(sector), nil
	}
	return optional(sector), optional(strings.TrimSpace(parts[1]))
}

// parseValuation reads "$5.6" or "5.6" as billions; blanks and
// non-numbers are absent values.
func parseValuation(s string) *float64 {
	s = strings.TrimSpace(strings.TrimPrefix(s, "$"))
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseRank(s string) *int {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// splitList splits a delimited cell into trimmed, non-empty items.
// Investor cells are quoted comma lists; location cells use "/".
func splitList(s, sep string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(s, sep) {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
