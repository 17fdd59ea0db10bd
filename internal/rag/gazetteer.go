// Package rag implements the retrieval pipeline: lexical entity
// extraction, intent classification, and knowledge-graph context
// assembly for LLM grounding.
package rag

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Gazetteers are the static vocabularies used for lexical matching.
// They are built once at process start and never mutated; extraction
// treats them as immutable.
type Gazetteers struct {
	Investors []string `yaml:"investors"`
	Sectors   []string `yaml:"sectors"`
	Locations []string `yaml:"locations"`

	investorSet map[string]struct{}
	sectorSet   map[string]struct{}
	locationSet map[string]struct{}
}

// Known entity vocabularies for the Indian unicorn dataset. Phrases are
// canonical lower-case; multi-word entries match as whole substrings of
// the query.
var (
	defaultInvestors = []string{
		"tiger global", "softbank", "sequoia", "accel", "matrix",
		"temasek", "tencent", "alibaba", "lightspeed", "elevation",
		"nexus", "kalaari", "chiratae", "bessemer", "general atlantic",
	}
	defaultSectors = []string{
		"fintech", "edtech", "e-commerce", "ecommerce", "saas",
		"foodtech", "healthtech", "proptech", "logistics", "gaming",
		"d2c", "b2b", "marketplace", "mobility", "adtech",
	}
	defaultLocations = []string{
		"bangalore", "bengaluru", "mumbai", "delhi", "gurgaon",
		"gurugram", "noida", "pune", "chennai", "hyderabad",
		"jaipur", "thane", "goa", "kolkata",
	}
)

// DefaultGazetteers returns the built-in vocabularies.
func DefaultGazetteers() Gazetteers {
	g := Gazetteers{
		Investors: defaultInvestors,
		Sectors:   defaultSectors,
		Locations: defaultLocations,
	}
	g.index()
	return g
}

// LoadGazetteers reads vocabulary overrides from a YAML file. Lists
// missing from the file keep their built-in values.
func LoadGazetteers(path string) (Gazetteers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Gazetteers{}, fmt.Errorf("read gazetteer file: %w", err)
	}

	var override Gazetteers
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Gazetteers{}, fmt.Errorf("parse gazetteer file: %w", err)
	}

	g := DefaultGazetteers()
	if len(override.Investors) > 0 {
		g.Investors = normalize(override.Investors)
	}
	if len(override.Sectors) > 0 {
		g.Sectors = normalize(override.Sectors)
	}
	if len(override.Locations) > 0 {
		g.Locations = normalize(override.Locations)
	}
	g.index()
	return g, nil
}

func normalize(phrases []string) []string {
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (g *Gazetteers) index() {
	g.investorSet = toSet(g.Investors)
	g.sectorSet = toSet(g.Sectors)
	g.locationSet = toSet(g.Locations)
}

func toSet(phrases []string) map[string]struct{} {
	set := make(map[string]struct{}, len(phrases))
	for _, p := range phrases {
		set[p] = struct{}{}
	}
	return set
}

// Known reports whether a lower-cased word is a canonical phrase in any
// vocabulary. Used to keep gazetteer terms out of the company-candidate
// list.
func (g *Gazetteers) Known(word string) bool {
	if _, ok := g.investorSet[word]; ok {
		return true
	}
	if _, ok := g.sectorSet[word]; ok {
		return true
	}
	_, ok := g.locationSet[word]
	return ok
}
