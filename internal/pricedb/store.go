// Package pricedb implements the persistent price database for pricebook.
//
// It uses SQLite to store a small normalized schema (items, stores, and
// append-only price observations) with foreign keys enforced on every
// connection. All queries return statically-typed rows; there is no
// dynamic column mapping anywhere.
package pricedb

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// ─── Types ───────────────────────────────────────────────────────────────────

// Item is a trackable product type. Identity is the unique name.
type Item struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Unit     string `json:"unit"`
}

// Store is a market location, optionally geo-located. Identity is the
// (name, city) pair; city may be absent.
type Store struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	City      *string  `json:"city,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Observation holds the input for logging one price observation.
type Observation struct {
	ItemID   int64   `json:"item_id"`
	StoreID  *int64  `json:"store_id,omitempty"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	Quantity float64 `json:"quantity"`
	Date     string  `json:"date"`
}

// PriceRow is the denormalized join of a price observation with its item
// and (optional) store dimensions. Store and City are nil for observations
// logged without a store.
type PriceRow struct {
	ID       int64   `json:"id"`
	Item     string  `json:"item"`
	Unit     string  `json:"unit"`
	Store    *string `json:"store,omitempty"`
	City     *string `json:"city,omitempty"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	Quantity float64 `json:"quantity"`
	Date     string  `json:"date"`
}

// ─── Config ──────────────────────────────────────────────────────────────────

// Config holds price database configuration. The path is resolved once at
// startup by the caller; nothing in this package reaches for a well-known
// location.
type Config struct {
	Path string
}

// ─── DB ──────────────────────────────────────────────────────────────────────

// DB is the price database handle.
type DB struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite database at cfg.Path,
// enables foreign key enforcement, and runs the idempotent schema
// migration.
func Open(cfg Config) (*DB, error) {
	if cfg.Path == "" {
		return nil, errors.New("pricedb: database path is empty")
	}
	if dir := filepath.Dir(cfg.Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("pricedb: create data dir: %w", err)
		}
	}

	db, err := openDB("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("pricedb: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("pricedb: pragma %q: %w", p, err)
		}
	}

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pricedb: migration: %w", err)
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// ─── Migration ───────────────────────────────────────────────────────────────

func (d *DB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS item (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			name     TEXT NOT NULL UNIQUE,
			category TEXT NOT NULL DEFAULT 'general',
			unit     TEXT NOT NULL DEFAULT 'unit'
		);

		CREATE TABLE IF NOT EXISTS store (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			name      TEXT NOT NULL,
			city      TEXT,
			latitude  REAL,
			longitude REAL
		);

		CREATE TABLE IF NOT EXISTS price (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			item_id  INTEGER NOT NULL,
			store_id INTEGER,
			price    REAL NOT NULL CHECK (price >= 0),
			currency TEXT NOT NULL DEFAULT 'USD',
			quantity REAL NOT NULL DEFAULT 1,
			date     TEXT NOT NULL,
			FOREIGN KEY (item_id)  REFERENCES item(id),
			FOREIGN KEY (store_id) REFERENCES store(id)
		);

		CREATE INDEX IF NOT EXISTS idx_price_item  ON price(item_id);
		CREATE INDEX IF NOT EXISTS idx_price_store ON price(store_id);
		CREATE INDEX IF NOT EXISTS idx_price_date  ON price(date DESC);
		CREATE INDEX IF NOT EXISTS idx_store_name  ON store(name, city);
	`
	if _, err := d.db.Exec(schema); err != nil {
		return err
	}
	return nil
}

// ─── Items ───────────────────────────────────────────────────────────────────

// GetOrCreateItem looks an item up by exact (trimmed) name, creating it
// with defaulted category and unit when absent. When the stored unit is
// blank and the supplied one is not, the unit is backfilled. Safe to call
// repeatedly with identical inputs.
func (d *DB) GetOrCreateItem(name, unit string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, errors.New("pricedb: item name is empty")
	}
	unit = strings.TrimSpace(unit)

	var id int64
	err := d.db.QueryRow(`SELECT id FROM item WHERE name = ?`, name).Scan(&id)
	if err == nil {
		if unit != "" {
			if _, err := d.db.Exec(
				`UPDATE item SET unit = COALESCE(NULLIF(unit, ''), ?) WHERE id = ?`,
				unit, id,
			); err != nil {
				return 0, fmt.Errorf("pricedb: backfill unit for item %d: %w", id, err)
			}
		}
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("pricedb: lookup item %q: %w", name, err)
	}

	if unit == "" {
		unit = "unit"
	}
	res, err := d.db.Exec(
		`INSERT INTO item (name, category, unit) VALUES (?, 'general', ?)`,
		name, unit,
	)
	if err != nil {
		return 0, fmt.Errorf("pricedb: insert item %q: %w", name, err)
	}
	return res.LastInsertId()
}

// AddItem inserts an item with explicit category and unit, ignoring the
// insert when the name already exists. The second return reports whether
// a new row was created.
func (d *DB) AddItem(name, category, unit string) (int64, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, false, errors.New("pricedb: item name is empty")
	}
	category = strings.TrimSpace(category)
	if category == "" {
		category = "general"
	}
	unit = strings.TrimSpace(unit)
	if unit == "" {
		unit = "unit"
	}

	res, err := d.db.Exec(
		`INSERT OR IGNORE INTO item (name, category, unit) VALUES (?, ?, ?)`,
		name, category, unit,
	)
	if err != nil {
		return 0, false, fmt.Errorf("pricedb: insert item %q: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		id, err := res.LastInsertId()
		return id, true, err
	}

	var id int64
	if err := d.db.QueryRow(`SELECT id FROM item WHERE name = ?`, name).Scan(&id); err != nil {
		return 0, false, fmt.Errorf("pricedb: lookup item %q: %w", name, err)
	}
	return id, false, nil
}

// Items returns all items ordered by name.
func (d *DB) Items() ([]Item, error) {
	rows, err := d.db.Query(`SELECT id, name, category, unit FROM item ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("pricedb: list items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Category, &it.Unit); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ─── Stores ──────────────────────────────────────────────────────────────────

// GetOrCreateStore looks a store up by (name, city), creating it when
// absent. A blank name returns a nil id — the observation simply has no
// store, which is an allowed state, not an error. A blank city matches a
// NULL city.
func (d *DB) GetOrCreateStore(name, city string) (*int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	city = strings.TrimSpace(city)

	var id int64
	err := d.db.QueryRow(
		`SELECT id FROM store WHERE name = ? AND COALESCE(city, '') = ?`,
		name, city,
	).Scan(&id)
	if err == nil {
		return &id, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("pricedb: lookup store %q/%q: %w", name, city, err)
	}

	res, err := d.db.Exec(
		`INSERT INTO store (name, city) VALUES (?, ?)`,
		name, nullableString(city),
	)
	if err != nil {
		return nil, fmt.Errorf("pricedb: insert store %q: %w", name, err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// AddStore inserts a store with optional coordinates and returns its id.
func (d *DB) AddStore(name, city string, lat, lon *float64) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, errors.New("pricedb: store name is empty")
	}
	res, err := d.db.Exec(
		`INSERT INTO store (name, city, latitude, longitude) VALUES (?, ?, ?, ?)`,
		name, nullableString(strings.TrimSpace(city)), lat, lon,
	)
	if err != nil {
		return 0, fmt.Errorf("pricedb: insert store %q: %w", name, err)
	}
	return res.LastInsertId()
}

// Stores returns all stores ordered by name.
func (d *DB) Stores() ([]Store, error) {
	rows, err := d.db.Query(`SELECT id, name, city, latitude, longitude FROM store ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("pricedb: list stores: %w", err)
	}
	defer rows.Close()

	var stores []Store
	for rows.Next() {
		var st Store
		if err := rows.Scan(&st.ID, &st.Name, &st.City, &st.Latitude, &st.Longitude); err != nil {
			return nil, err
		}
		stores = append(stores, st)
	}
	return stores, rows.Err()
}

// ─── Prices ──────────────────────────────────────────────────────────────────

// AddPrice inserts one price observation. Observations are append-only:
// there is no dedup, no update, no delete. Referenced item and store ids
// must exist — a foreign key failure here indicates a logic bug upstream.
func (d *DB) AddPrice(o Observation) (int64, error) {
	if o.Price < 0 {
		return 0, fmt.Errorf("pricedb: negative price %v", o.Price)
	}
	currency := strings.TrimSpace(o.Currency)
	if currency == "" {
		currency = "USD"
	}
	quantity := o.Quantity
	if quantity == 0 {
		quantity = 1
	}
	date := strings.TrimSpace(o.Date)
	if date == "" {
		date = Today()
	}

	res, err := d.db.Exec(
		`INSERT INTO price (item_id, store_id, price, currency, quantity, date)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		o.ItemID, o.StoreID, o.Price, currency, quantity, date,
	)
	if err != nil {
		return 0, fmt.Errorf("pricedb: insert price: %w", err)
	}
	return res.LastInsertId()
}

const priceJoin = `
	SELECT
	  p.id,
	  i.name AS item,
	  i.unit AS unit,
	  s.name AS store,
	  s.city AS city,
	  p.price,
	  p.currency,
	  p.quantity,
	  p.date
	FROM price p
	JOIN item i ON i.id = p.item_id
	LEFT JOIN store s ON s.id = p.store_id
`

// Prices returns joined price rows ordered most recent first. A limit
// of zero or less returns everything.
func (d *DB) Prices(limit int) ([]PriceRow, error) {
	query := priceJoin + ` ORDER BY p.date DESC, i.name`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return d.queryPriceRows(query, args...)
}

// PricesForItem returns all observations for one item, matched by name
// case-insensitively. An empty result is not an error.
func (d *DB) PricesForItem(name string) ([]PriceRow, error) {
	return d.queryPriceRows(
		priceJoin+` WHERE lower(i.name) = lower(?)`,
		strings.TrimSpace(name),
	)
}

// PricesForItems returns all observations for any of the given item
// names, matched case-insensitively.
func (d *DB) PricesForItems(names []string) ([]PriceRow, error) {
	var cleaned []string
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			cleaned = append(cleaned, strings.ToLower(n))
		}
	}
	if len(cleaned) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(cleaned))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(cleaned))
	for i, n := range cleaned {
		args[i] = n
	}
	return d.queryPriceRows(
		priceJoin+` WHERE lower(i.name) IN (`+placeholders+`)`,
		args...,
	)
}

func (d *DB) queryPriceRows(query string, args ...any) ([]PriceRow, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("pricedb: query prices: %w", err)
	}
	defer rows.Close()

	var result []PriceRow
	for rows.Next() {
		var r PriceRow
		if err := rows.Scan(
			&r.ID, &r.Item, &r.Unit, &r.Store, &r.City,
			&r.Price, &r.Currency, &r.Quantity, &r.Date,
		); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// IsForeignKeyViolation checks if an error is a SQLite foreign key
// constraint failure.
func IsForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// Today returns the current date formatted for the price table.
func Today() string {
	return time.Now().Format("2006-01-02")
}
