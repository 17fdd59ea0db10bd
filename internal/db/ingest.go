package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
)

// Write path for the one-shot CSV seeder. Nothing on the query path
// calls into this file; the serving pipeline treats the graph as
// read-only.

// CompanyRow is one dataset row ready to be merged into the graph.
type CompanyRow struct {
	Name             string
	Rank             *int
	EntryValuation   *float64
	CurrentValuation *float64
	EntryDate        *string
	Sector           *string
	SubSector        *string
	Locations        []string
	Investors        []string
}

// LoadCompany upserts one company with all of its related nodes and
// edges. Safe to re-run: nodes merge on their unique keys and duplicate
// edges are ignored.
func (c *Client) LoadCompany(ctx context.Context, row CompanyRow) error {
	_, err := surrealdb.Query[any](ctx, c.db, `
		UPSERT type::thing("company", string::slug($name)) SET
			name = $name,
			rank = $rank,
			entry_valuation = $entry_valuation,
			current_valuation = $current_valuation,
			entry_date = $entry_date
	`, map[string]any{
		"name":              row.Name,
		"rank":              row.Rank,
		"entry_valuation":   row.EntryValuation,
		"current_valuation": row.CurrentValuation,
		"entry_date":        row.EntryDate,
	})
	if err != nil {
		return fmt.Errorf("upsert company %q: %w", row.Name, err)
	}

	if row.Sector != nil {
		if err := c.upsertNamed(ctx, "sector", "name", *row.Sector); err != nil {
			return err
		}
		if err := c.relate(ctx, "company", row.Name, "operates_in", "sector", *row.Sector); err != nil {
			return err
		}
	}

	if row.SubSector != nil {
		if err := c.upsertNamed(ctx, "subsector", "name", *row.SubSector); err != nil {
			return err
		}
		if err := c.relate(ctx, "company", row.Name, "specializes_in", "subsector", *row.SubSector); err != nil {
			return err
		}
		if row.Sector != nil {
			if err := c.relate(ctx, "sector", *row.Sector, "has_subsector", "subsector", *row.SubSector); err != nil {
				return err
			}
		}
	}

	for _, city := range row.Locations {
		if err := c.upsertNamed(ctx, "location", "city", city); err != nil {
			return err
		}
		if err := c.relate(ctx, "company", row.Name, "located_in", "location", city); err != nil {
			return err
		}
	}

	for _, investor := range row.Investors {
		if err := c.upsertNamed(ctx, "investor", "name", investor); err != nil {
			return err
		}
		if err := c.relate(ctx, "investor", investor, "invested_in", "company", row.Name); err != nil {
			return err
		}
	}

	return nil
}

// upsertNamed merges a single-key node (sector/subsector/location/investor).
func (c *Client) upsertNamed(ctx context.Context, table, field, value string) error {
	sql := fmt.Sprintf(
		`UPSERT type::thing("%s", string::slug($value)) SET %s = $value`,
		table, field,
	)
	if _, err := surrealdb.Query[any](ctx, c.db, sql, map[string]any{"value": value}); err != nil {
		return fmt.Errorf("upsert %s %q: %w", table, value, err)
	}
	return nil
}

// relate creates one edge, tolerating duplicates via the unique_key index.
func (c *Client) relate(ctx context.Context, fromTable, from, rel, toTable, to string) error {
	sql := fmt.Sprintf(
		`RELATE (type::thing("%s", string::slug($from)))->%s->(type::thing("%s", string::slug($to)))`,
		fromTable, rel, toTable,
	)
	_, err := surrealdb.Query[any](ctx, c.db, sql, map[string]any{"from": from, "to": to})
	if err != nil {
		if errors.Is(wrapQueryError(err), ErrAlreadyExists) {
			return nil
		}
		return fmt.Errorf("relate %s %q -> %q: %w", rel, from, to, err)
	}
	return nil
}
