package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iroha-tools/modbot/app/config"
	"github.com/iroha-tools/modbot/app/storage/engine"
	"github.com/iroha-tools/modbot/lib/modfilter"
)

// Catalog keeps moderation catalogs (options, restricted pairs and translation table) per group
type Catalog struct {
	*engine.SQL
	engine.RWLocker
}

// CatalogStats returns counts of stored catalog entries
type CatalogStats struct {
	Pairs        int       `db:"pairs"`
	Translations int       `db:"translations"`
	UpdatedAt    time.Time `db:"-"`
}

// String provides a string representation of the catalog stats
func (s *CatalogStats) String() string {
	return fmt.Sprintf("pairs: %d, translations: %d", s.Pairs, s.Translations)
}

// pairRecord is a single trigger row, pairs stored as json array
type pairRecord struct {
	Position int    `db:"position"`
	Word     string `db:"word"`
	Pairs    string `db:"pairs"`
}

type translationRecord struct {
	Source string `db:"source"`
	Target string `db:"target"`
}

// all catalog queries
const (
	CmdCreatePairsTable engine.DBCmd = iota + 300
	CmdCreatePairsIndexes
	CmdCreateTranslationsTable
	CmdCreateTranslationsIndexes
	CmdCreateOptionsTable
	CmdSetOptions
)

var catalogQueries = engine.NewQueryMap().
	Add(CmdCreatePairsTable, engine.Query{
		Sqlite: `CREATE TABLE IF NOT EXISTS restricted_pairs (
			id INTEGER PRIMARY KEY,
			gid TEXT NOT NULL DEFAULT '',
			position INTEGER NOT NULL,
			word TEXT NOT NULL,
			pairs TEXT NOT NULL,
			UNIQUE(gid, word)
		)`,
		Postgres: `CREATE TABLE IF NOT EXISTS restricted_pairs (
			id SERIAL PRIMARY KEY,
			gid TEXT NOT NULL DEFAULT '',
			position INTEGER NOT NULL,
			word TEXT NOT NULL,
			pairs TEXT NOT NULL,
			UNIQUE(gid, word)
		)`,
	}).
	AddSame(CmdCreatePairsIndexes, `CREATE INDEX IF NOT EXISTS idx_restricted_pairs_gid_position ON restricted_pairs(gid, position)`).
	Add(CmdCreateTranslationsTable, engine.Query{
		Sqlite: `CREATE TABLE IF NOT EXISTS translations (
			id INTEGER PRIMARY KEY,
			gid TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL,
			target TEXT NOT NULL,
			UNIQUE(gid, source)
		)`,
		Postgres: `CREATE TABLE IF NOT EXISTS translations (
			id SERIAL PRIMARY KEY,
			gid TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL,
			target TEXT NOT NULL,
			UNIQUE(gid, source)
		)`,
	}).
	AddSame(CmdCreateTranslationsIndexes, `CREATE INDEX IF NOT EXISTS idx_translations_gid ON translations(gid)`).
	AddSame(CmdCreateOptionsTable, `CREATE TABLE IF NOT EXISTS moderation_options (
			gid TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`).
	Add(CmdSetOptions, engine.Query{
		Sqlite: `INSERT INTO moderation_options (gid, data, updated_at) VALUES (?, ?, ?)
			ON CONFLICT (gid) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		Postgres: `INSERT INTO moderation_options (gid, data, updated_at) VALUES (?, ?, ?)
			ON CONFLICT (gid) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
	})

// NewCatalog creates catalog storage and its tables
func NewCatalog(ctx context.Context, db *engine.SQL) (*Catalog, error) {
	if db == nil {
		return nil, fmt.Errorf("no db provided")
	}
	res := &Catalog{SQL: db, RWLocker: db.MakeLock()}

	tables := []engine.TableConfig{
		{Name: "restricted_pairs", CreateTable: CmdCreatePairsTable, CreateIndexes: CmdCreatePairsIndexes, QueriesMap: catalogQueries},
		{Name: "translations", CreateTable: CmdCreateTranslationsTable, CreateIndexes: CmdCreateTranslationsIndexes,
			QueriesMap: catalogQueries},
		{Name: "moderation_options", CreateTable: CmdCreateOptionsTable, QueriesMap: catalogQueries},
	}
	for _, cfg := range tables {
		if err := engine.InitTable(ctx, db, cfg); err != nil {
			return nil, fmt.Errorf("failed to init %s table: %w", cfg.Name, err)
		}
	}
	return res, nil
}

// Import replaces all catalogs of the group with the given ones in a single transaction
func (c *Catalog) Import(ctx context.Context, catalogs config.Catalogs) (*CatalogStats, error) {
	// validate before touching stored data
	if _, err := modfilter.NewCatalog(catalogs.Pairs...); err != nil {
		return nil, fmt.Errorf("invalid restricted pairs: %w", err)
	}
	options, err := json.Marshal(catalogs.Options)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal options: %w", err)
	}
	setOptions, err := c.Pick(catalogQueries, CmdSetOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to get set options query: %w", err)
	}

	c.Lock()
	defer c.Unlock()

	tx, err := c.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if c.Type() == engine.Postgres {
		// serialize imports of the same group, unique constraints fail otherwise
		if _, err = tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", c.GID()); err != nil {
			return nil, fmt.Errorf("failed to lock group %s: %w", c.GID(), err)
		}
	}

	for _, table := range []string{"restricted_pairs", "translations"} {
		if _, err = tx.ExecContext(ctx, c.Adopt("DELETE FROM "+table+" WHERE gid = ?"), c.GID()); err != nil {
			return nil, fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	insertPair := c.Adopt("INSERT INTO restricted_pairs (gid, position, word, pairs) VALUES (?, ?, ?, ?)")
	for i, e := range catalogs.Pairs {
		pairs := e.Pairs
		if pairs == nil {
			pairs = []string{}
		}
		data, err := json.Marshal(pairs)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal pairs of %q: %w", e.Trigger, err)
		}
		trigger := modfilter.Lower(strings.TrimSpace(e.Trigger))
		if _, err = tx.ExecContext(ctx, insertPair, c.GID(), i, trigger, string(data)); err != nil {
			return nil, fmt.Errorf("failed to insert trigger %q: %w", trigger, err)
		}
	}

	insertTranslation := c.Adopt("INSERT INTO translations (gid, source, target) VALUES (?, ?, ?)")
	for src, dst := range catalogs.Translation {
		if _, err = tx.ExecContext(ctx, insertTranslation, c.GID(), string(src), dst); err != nil {
			return nil, fmt.Errorf("failed to insert translation for %U: %w", src, err)
		}
	}

	if _, err = tx.ExecContext(ctx, setOptions, c.GID(), string(options), time.Now()); err != nil {
		return nil, fmt.Errorf("failed to set options: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &CatalogStats{Pairs: len(catalogs.Pairs), Translations: len(catalogs.Translation)}, nil
}

// Pairs returns restricted pairs in stored order
func (c *Catalog) Pairs(ctx context.Context) ([]modfilter.Entry, error) {
	c.RLock()
	defer c.RUnlock()

	var records []pairRecord
	query := c.Adopt("SELECT position, word, pairs FROM restricted_pairs WHERE gid = ? ORDER BY position")
	if err := c.SelectContext(ctx, &records, query, c.GID()); err != nil {
		return nil, fmt.Errorf("failed to get restricted pairs: %w", err)
	}

	res := make([]modfilter.Entry, 0, len(records))
	for _, r := range records {
		var pairs []string
		if err := json.Unmarshal([]byte(r.Pairs), &pairs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal pairs of %q: %w", r.Word, err)
		}
		res = append(res, modfilter.Entry{Trigger: r.Word, Pairs: pairs})
	}
	return res, nil
}

// Translation returns the stored translation table
func (c *Catalog) Translation(ctx context.Context) (modfilter.TranslationTable, error) {
	c.RLock()
	defer c.RUnlock()

	var records []translationRecord
	query := c.Adopt("SELECT source, target FROM translations WHERE gid = ?")
	if err := c.SelectContext(ctx, &records, query, c.GID()); err != nil {
		return nil, fmt.Errorf("failed to get translations: %w", err)
	}

	res := make(modfilter.TranslationTable, len(records))
	for _, r := range records {
		src := []rune(r.Source)
		if len(src) != 1 {
			return nil, fmt.Errorf("invalid translation source %q", r.Source)
		}
		res[src[0]] = r.Target
	}
	return res, nil
}

// Options returns stored moderation options, defaults if nothing stored for the group
func (c *Catalog) Options(ctx context.Context) (config.ModerationConfig, error) {
	c.RLock()
	defer c.RUnlock()

	res := config.New()
	var data string
	err := c.GetContext(ctx, &data, c.Adopt("SELECT data FROM moderation_options WHERE gid = ?"), c.GID())
	if errors.Is(err, sql.ErrNoRows) {
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("failed to get options: %w", err)
	}
	if err = json.Unmarshal([]byte(data), &res); err != nil {
		return res, fmt.Errorf("failed to unmarshal options: %w", err)
	}
	if res.Threshold <= 0 {
		res.Threshold = modfilter.DefaultThreshold
	}
	return res, nil
}

// Load returns all catalogs of the group
func (c *Catalog) Load(ctx context.Context) (config.Catalogs, error) {
	options, err := c.Options(ctx)
	if err != nil {
		return config.Catalogs{}, err
	}
	pairs, err := c.Pairs(ctx)
	if err != nil {
		return config.Catalogs{}, err
	}
	translation, err := c.Translation(ctx)
	if err != nil {
		return config.Catalogs{}, err
	}
	return config.Catalogs{Options: options, Pairs: pairs, Translation: translation}, nil
}

// Stats returns counts of stored entries and the last import time
func (c *Catalog) Stats(ctx context.Context) (*CatalogStats, error) {
	c.RLock()
	defer c.RUnlock()

	var res CatalogStats
	query := c.Adopt(`SELECT
		(SELECT COUNT(*) FROM restricted_pairs WHERE gid = ?) AS pairs,
		(SELECT COUNT(*) FROM translations WHERE gid = ?) AS translations`)
	if err := c.GetContext(ctx, &res, query, c.GID(), c.GID()); err != nil {
		return nil, fmt.Errorf("failed to get catalog stats: %w", err)
	}

	err := c.GetContext(ctx, &res.UpdatedAt, c.Adopt("SELECT updated_at FROM moderation_options WHERE gid = ?"), c.GID())
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get options update time: %w", err)
	}
	return &res, nil
}
