package db

// SchemaSQL contains the graph schema initialization SQL.
//
// Node tables mirror the source dataset: companies with nullable
// valuations, sectors with optional subsectors, locations keyed by
// city, investors keyed by name. Edges are RELATION tables so graph
// idioms (->operates_in->sector) work in queries. Name/city keys carry
// unique indexes; lookups are still substring matches, so a term can
// legitimately hit several records.
const SchemaSQL = `
    -- ==========================================================================
    -- NODE TABLES
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS company SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS name ON company TYPE string;
    DEFINE FIELD IF NOT EXISTS current_valuation ON company TYPE option<float>;
    DEFINE FIELD IF NOT EXISTS entry_valuation ON company TYPE option<float>;
    DEFINE FIELD IF NOT EXISTS entry_date ON company TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS rank ON company TYPE option<int>;
    DEFINE INDEX IF NOT EXISTS company_name ON company FIELDS name UNIQUE;

    DEFINE TABLE IF NOT EXISTS sector SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS name ON sector TYPE string;
    DEFINE INDEX IF NOT EXISTS sector_name ON sector FIELDS name UNIQUE;

    DEFINE TABLE IF NOT EXISTS subsector SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS name ON subsector TYPE string;
    DEFINE INDEX IF NOT EXISTS subsector_name ON subsector FIELDS name UNIQUE;

    DEFINE TABLE IF NOT EXISTS location SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS city ON location TYPE string;
    DEFINE INDEX IF NOT EXISTS location_city ON location FIELDS city UNIQUE;

    DEFINE TABLE IF NOT EXISTS investor SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS name ON investor TYPE string;
    DEFINE INDEX IF NOT EXISTS investor_name ON investor FIELDS name UNIQUE;

    -- ==========================================================================
    -- RELATION TABLES (directed, many-to-many, no attributes)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS operates_in TYPE RELATION IN company OUT sector SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS unique_key ON operates_in VALUE <string>string::concat(<string>in, "|", <string>out);
    DEFINE INDEX IF NOT EXISTS operates_in_unique ON operates_in FIELDS unique_key UNIQUE;

    DEFINE TABLE IF NOT EXISTS specializes_in TYPE RELATION IN company OUT subsector SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS unique_key ON specializes_in VALUE <string>string::concat(<string>in, "|", <string>out);
    DEFINE INDEX IF NOT EXISTS specializes_in_unique ON specializes_in FIELDS unique_key UNIQUE;

    DEFINE TABLE IF NOT EXISTS has_subsector TYPE RELATION IN sector OUT subsector SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS unique_key ON has_subsector VALUE <string>string::concat(<string>in, "|", <string>out);
    DEFINE INDEX IF NOT EXISTS has_subsector_unique ON has_subsector FIELDS unique_key UNIQUE;

    DEFINE TABLE IF NOT EXISTS located_in TYPE RELATION IN company OUT location SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS unique_key ON located_in VALUE <string>string::concat(<string>in, "|", <string>out);
    DEFINE INDEX IF NOT EXISTS located_in_unique ON located_in FIELDS unique_key UNIQUE;

    DEFINE TABLE IF NOT EXISTS invested_in TYPE RELATION IN investor OUT company SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS unique_key ON invested_in VALUE <string>string::concat(<string>in, "|", <string>out);
    DEFINE INDEX IF NOT EXISTS invested_in_unique ON invested_in FIELDS unique_key UNIQUE;
`
