// Package csvio handles the denormalized CSV interchange format: bulk
// import into the normalized schema and synthetic sample generation.
//
// Import is deliberately lenient: rows with unparseable prices are
// skipped, quantities default to 1, and unparseable dates are kept as
// raw text. Every silently-handled row is counted so callers can
// detect data loss.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/araddon/dateparse"
	"github.com/shopspring/decimal"

	"pricebook/internal/pricedb"
)

// RequiredColumns is the mandatory header of the interchange format, one
// denormalized row per price observation.
var RequiredColumns = []string{"item", "unit", "store", "city", "price", "currency", "quantity", "date"}

// Report summarizes one import run.
type Report struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
	BadDates int `json:"bad_dates"`
}

// Import reads the CSV at path and loads it into db, upserting items and
// stores per row and inserting price observations. A limit > 0 caps the
// number of data rows considered. The whole import aborts only when the
// file is unreadable or required columns are missing; per-row problems
// skip the row and continue.
func Import(db *pricedb.DB, path string, limit int) (Report, error) {
	var rep Report

	f, err := os.Open(path)
	if err != nil {
		return rep, fmt.Errorf("csvio: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return rep, fmt.Errorf("csvio: read header of %s: %w", path, err)
	}
	idx, err := columnIndex(header)
	if err != nil {
		return rep, err
	}

	field := func(rec []string, col string) string {
		i := idx[col]
		if i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}

	seen := 0
	for {
		if limit > 0 && seen >= limit {
			break
		}
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed row (e.g. a stray quote). The reader resumes on
			// the next line, so skip and count rather than truncate.
			rep.Skipped++
			seen++
			continue
		}
		seen++

		itemName := field(rec, "item")
		if itemName == "" {
			rep.Skipped++
			continue
		}

		// Dimensions are upserted even when the price later fails to
		// parse, so the item and store catalogs still grow.
		itemID, err := db.GetOrCreateItem(itemName, field(rec, "unit"))
		if err != nil {
			return rep, err
		}
		storeID, err := db.GetOrCreateStore(field(rec, "store"), field(rec, "city"))
		if err != nil {
			return rep, err
		}

		priceDec, err := decimal.NewFromString(field(rec, "price"))
		if err != nil || priceDec.IsNegative() {
			rep.Skipped++
			continue
		}

		quantity := 1.0
		if q, err := strconv.ParseFloat(field(rec, "quantity"), 64); err == nil {
			quantity = q
		}

		date := field(rec, "date")
		if date != "" {
			if t, err := dateparse.ParseAny(date); err == nil {
				date = t.Format("2006-01-02")
			} else {
				rep.BadDates++ // keep the raw text rather than block ingestion
			}
		}

		if _, err := db.AddPrice(pricedb.Observation{
			ItemID:   itemID,
			StoreID:  storeID,
			Price:    priceDec.InexactFloat64(),
			Currency: field(rec, "currency"),
			Quantity: quantity,
			Date:     date,
		}); err != nil {
			return rep, err
		}
		rep.Inserted++
	}

	return rep, nil
}

// columnIndex maps required column names to header positions, failing
// with the full missing set when the header is incomplete.
func columnIndex(header []string) (map[string]int, error) {
	pos := map[string]int{}
	for i, h := range header {
		pos[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var missing []string
	idx := map[string]int{}
	for _, col := range RequiredColumns {
		i, ok := pos[col]
		if !ok {
			missing = append(missing, col)
			continue
		}
		idx[col] = i
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("csvio: missing required columns %v (got %v)", missing, header)
	}
	return idx, nil
}
