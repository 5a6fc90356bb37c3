package csvio_test

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pricebook/internal/csvio"
	"pricebook/internal/pricedb"
)

func newTestDB(t *testing.T) *pricedb.DB {
	t.Helper()
	d, err := pricedb.Open(pricedb.Config{Path: filepath.Join(t.TempDir(), "prices.db")})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

// writeCSV writes content to a temp file and returns its path.
func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const header = "item,unit,store,city,price,currency,quantity,date\n"

// ─── Import ─────────────────────────────────────────────────────────────────

func TestImport_Basic(t *testing.T) {
	d := newTestDB(t)
	path := writeCSV(t, header+
		"Milk,liter,Market 1,Helsinki,1.30,EUR,1,2025-01-02\n"+
		"Bread,loaf,Market 2,Berlin,1.10,EUR,1,2025-01-03\n")

	rep, err := csvio.Import(d, path, 0)
	if err != nil {
		t.Fatalf("Import error: %v", err)
	}
	if rep.Inserted != 2 || rep.Skipped != 0 || rep.BadDates != 0 {
		t.Errorf("report = %+v, want 2 inserted", rep)
	}

	rows, err := d.Prices(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("price count = %d, want 2", len(rows))
	}
	items, err := d.Items()
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Errorf("item count = %d, want 2", len(items))
	}
	stores, err := d.Stores()
	if err != nil {
		t.Fatal(err)
	}
	if len(stores) != 2 {
		t.Errorf("store count = %d, want 2", len(stores))
	}
}

func TestImport_MissingColumnsAborts(t *testing.T) {
	d := newTestDB(t)
	path := writeCSV(t, "item,price\nMilk,1.30\n")

	_, err := csvio.Import(d, path, 0)
	if err == nil {
		t.Fatal("expected error for incomplete header")
	}
	if !strings.Contains(err.Error(), "missing required columns") {
		t.Errorf("error = %v, want missing-columns message", err)
	}
	// None of the partial data landed.
	if rows, _ := d.Prices(0); len(rows) != 0 {
		t.Errorf("price count = %d, want 0 after abort", len(rows))
	}
}

func TestImport_SkipsBadRows(t *testing.T) {
	d := newTestDB(t)
	path := writeCSV(t, header+
		",liter,Market 1,Helsinki,1.30,EUR,1,2025-01-02\n"+ // no item
		"Milk,liter,Market 1,Helsinki,abc,EUR,1,2025-01-02\n"+ // bad price
		"Milk,liter,Market 1,Helsinki,-2,EUR,1,2025-01-02\n"+ // negative price
		"Milk,liter,Market 1,Helsinki,1.30,EUR,1,2025-01-02\n")

	rep, err := csvio.Import(d, path, 0)
	if err != nil {
		t.Fatalf("Import error: %v", err)
	}
	if rep.Inserted != 1 || rep.Skipped != 3 {
		t.Errorf("report = %+v, want 1 inserted, 3 skipped", rep)
	}

	// Bad-price rows still grew the catalogs.
	items, err := d.Items()
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].Name != "Milk" {
		t.Errorf("items = %+v, want Milk upserted despite bad price rows", items)
	}
}

func TestImport_MalformedRowDoesNotTruncate(t *testing.T) {
	d := newTestDB(t)
	path := writeCSV(t, header+
		"Milk,liter,Market 1,Helsinki,1.30,EUR,1,2025-01-02\n"+
		"Br\"ead,loaf,Market 2,Berlin,1.10,EUR,1,2025-01-03\n"+ // stray quote
		"Eggs,dozen,Market 3,Paris,2.00,EUR,1,2025-01-04\n"+
		"Rice,kg,Market 4,Rome,3.10,EUR,1,2025-01-05\n")

	rep, err := csvio.Import(d, path, 0)
	if err != nil {
		t.Fatalf("Import error: %v", err)
	}
	// Rows after the malformed one must still import.
	if rep.Inserted != 3 || rep.Skipped != 1 {
		t.Errorf("report = %+v, want 3 inserted, 1 skipped", rep)
	}
	rows, err := d.Prices(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Errorf("price count = %d, want 3", len(rows))
	}
}

func TestImport_DefaultQuantityAndCurrency(t *testing.T) {
	d := newTestDB(t)
	path := writeCSV(t, header+
		"Milk,liter,,,1.30,,,2025-01-02\n")

	rep, err := csvio.Import(d, path, 0)
	if err != nil {
		t.Fatalf("Import error: %v", err)
	}
	if rep.Inserted != 1 {
		t.Fatalf("report = %+v, want 1 inserted", rep)
	}

	rows, err := d.Prices(0)
	if err != nil {
		t.Fatal(err)
	}
	r := rows[0]
	if r.Quantity != 1 {
		t.Errorf("quantity = %v, want default 1", r.Quantity)
	}
	if r.Currency != "USD" {
		t.Errorf("currency = %q, want default USD", r.Currency)
	}
	if r.Store != nil {
		t.Errorf("store = %v, want nil for blank store column", r.Store)
	}
}

func TestImport_NormalizesDates(t *testing.T) {
	d := newTestDB(t)
	path := writeCSV(t, header+
		"Milk,liter,Market 1,Helsinki,1.30,EUR,1,02/01/2025\n"+
		"Milk,liter,Market 1,Helsinki,1.40,EUR,1,not-a-date\n")

	rep, err := csvio.Import(d, path, 0)
	if err != nil {
		t.Fatalf("Import error: %v", err)
	}
	if rep.Inserted != 2 || rep.BadDates != 1 {
		t.Errorf("report = %+v, want 2 inserted with 1 bad date", rep)
	}

	rows, err := d.Prices(0)
	if err != nil {
		t.Fatal(err)
	}
	var dates []string
	for _, r := range rows {
		dates = append(dates, r.Date)
	}
	found := map[string]bool{}
	for _, dt := range dates {
		found[dt] = true
	}
	if !found["2025-02-01"] {
		t.Errorf("dates = %v, want parseable date normalized to 2025-02-01", dates)
	}
	if !found["not-a-date"] {
		t.Errorf("dates = %v, want unparseable date kept as raw text", dates)
	}
}

func TestImport_Limit(t *testing.T) {
	d := newTestDB(t)
	var sb strings.Builder
	sb.WriteString(header)
	for i := 0; i < 10; i++ {
		sb.WriteString("Milk,liter,Market 1,Helsinki,1.30,EUR,1,2025-01-02\n")
	}
	path := writeCSV(t, sb.String())

	rep, err := csvio.Import(d, path, 3)
	if err != nil {
		t.Fatalf("Import error: %v", err)
	}
	if rep.Inserted != 3 {
		t.Errorf("inserted = %d, want 3 with limit", rep.Inserted)
	}
}

func TestImport_MissingFile(t *testing.T) {
	d := newTestDB(t)
	if _, err := csvio.Import(d, filepath.Join(t.TempDir(), "nope.csv"), 0); err == nil {
		t.Fatal("expected error for missing file")
	}
}

// ─── WriteSample ────────────────────────────────────────────────────────────

func TestWriteSample_Reproducible(t *testing.T) {
	dir := t.TempDir()
	p1 := filepath.Join(dir, "a.csv")
	p2 := filepath.Join(dir, "b.csv")

	n1, err := csvio.WriteSample(p1, 50, 42)
	if err != nil {
		t.Fatalf("WriteSample error: %v", err)
	}
	n2, err := csvio.WriteSample(p2, 50, 42)
	if err != nil {
		t.Fatalf("WriteSample error: %v", err)
	}
	if n1 != 50 || n2 != 50 {
		t.Errorf("rows = %d, %d; want 50 each", n1, n2)
	}

	b1, err := os.ReadFile(p1)
	if err != nil {
		t.Fatal(err)
	}
	b2, err := os.ReadFile(p2)
	if err != nil {
		t.Fatal(err)
	}
	if string(b1) != string(b2) {
		t.Error("same seed produced different output")
	}
}

func TestWriteSample_RoundTripsThroughImport(t *testing.T) {
	d := newTestDB(t)
	path := filepath.Join(t.TempDir(), "sample.csv")

	n, err := csvio.WriteSample(path, 100, 7)
	if err != nil {
		t.Fatalf("WriteSample error: %v", err)
	}

	// Header must be exactly the interchange format.
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	rec, err := csv.NewReader(f).Read()
	f.Close()
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(rec, ",") != strings.Join(csvio.RequiredColumns, ",") {
		t.Errorf("header = %v, want %v", rec, csvio.RequiredColumns)
	}

	rep, err := csvio.Import(d, path, 0)
	if err != nil {
		t.Fatalf("Import error: %v", err)
	}
	if rep.Inserted != n || rep.Skipped != 0 || rep.BadDates != 0 {
		t.Errorf("report = %+v, want all %d rows inserted cleanly", rep, n)
	}
}

func TestWriteSample_DefaultRowCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.csv")
	n, err := csvio.WriteSample(path, 0, 1)
	if err != nil {
		t.Fatalf("WriteSample error: %v", err)
	}
	if n != 1000 {
		t.Errorf("rows = %d, want default 1000", n)
	}
}
