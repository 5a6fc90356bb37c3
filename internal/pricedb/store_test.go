package pricedb_test

import (
	"path/filepath"
	"testing"

	"pricebook/internal/pricedb"
)

// newTestDB creates a DB backed by a temp directory for isolation.
func newTestDB(t *testing.T) *pricedb.DB {
	t.Helper()
	d, err := pricedb.Open(pricedb.Config{Path: filepath.Join(t.TempDir(), "prices.db")})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func ptr[T any](v T) *T { return &v }

// ─── Open / Migration ───────────────────────────────────────────────────────

func TestOpen_EmptyPath(t *testing.T) {
	if _, err := pricedb.Open(pricedb.Config{}); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestOpen_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "prices.db")
	d, err := pricedb.Open(pricedb.Config{Path: path})
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	d.Close()
}

func TestOpen_IdempotentReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.db")

	// Open, insert, close
	d1, err := pricedb.Open(pricedb.Config{Path: path})
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if _, err := d1.GetOrCreateItem("Milk", "liter"); err != nil {
		t.Fatalf("create item: %v", err)
	}
	d1.Close()

	// Reopen — data should persist
	d2, err := pricedb.Open(pricedb.Config{Path: path})
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer d2.Close()

	items, err := d2.Items()
	if err != nil {
		t.Fatalf("Items error: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Milk" {
		t.Errorf("items after reopen = %+v, want one item named Milk", items)
	}
}

// ─── Items ──────────────────────────────────────────────────────────────────

func TestGetOrCreateItem_Idempotent(t *testing.T) {
	d := newTestDB(t)

	id1, err := d.GetOrCreateItem("Milk", "liter")
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	id2, err := d.GetOrCreateItem("Milk", "liter")
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if id1 != id2 {
		t.Errorf("ids differ: %d vs %d", id1, id2)
	}

	items, err := d.Items()
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("item count = %d, want 1", len(items))
	}
	if items[0].Category != "general" {
		t.Errorf("category = %q, want %q", items[0].Category, "general")
	}
	if items[0].Unit != "liter" {
		t.Errorf("unit = %q, want %q", items[0].Unit, "liter")
	}
}

func TestGetOrCreateItem_EmptyName(t *testing.T) {
	d := newTestDB(t)
	if _, err := d.GetOrCreateItem("   ", "kg"); err == nil {
		t.Fatal("expected error for blank name")
	}
}

func TestGetOrCreateItem_KeepsExistingUnit(t *testing.T) {
	d := newTestDB(t)

	// Created without a unit — falls back to the default.
	id, err := d.GetOrCreateItem("Bread", "")
	if err != nil {
		t.Fatal(err)
	}

	// Only blank stored units are backfilled; the default is kept.
	if _, err := d.GetOrCreateItem("Bread", "loaf"); err != nil {
		t.Fatal(err)
	}

	items, err := d.Items()
	if err != nil {
		t.Fatal(err)
	}
	if items[0].ID != id {
		t.Fatalf("unexpected item id %d", items[0].ID)
	}
	if items[0].Unit != "unit" {
		t.Errorf("unit = %q, want default %q kept", items[0].Unit, "unit")
	}
}

func TestAddItem_ReportsCreated(t *testing.T) {
	d := newTestDB(t)

	id1, created, err := d.AddItem("Eggs", "dairy", "dozen")
	if err != nil {
		t.Fatalf("AddItem error: %v", err)
	}
	if !created {
		t.Error("first insert should report created")
	}

	id2, created, err := d.AddItem("Eggs", "other", "pack")
	if err != nil {
		t.Fatalf("duplicate AddItem error: %v", err)
	}
	if created {
		t.Error("duplicate insert should not report created")
	}
	if id1 != id2 {
		t.Errorf("ids differ: %d vs %d", id1, id2)
	}

	items, err := d.Items()
	if err != nil {
		t.Fatal(err)
	}
	// Duplicate insert is ignored wholesale, original fields win.
	if items[0].Category != "dairy" || items[0].Unit != "dozen" {
		t.Errorf("item = %+v, want original category/unit preserved", items[0])
	}
}

func TestAddItem_Defaults(t *testing.T) {
	d := newTestDB(t)

	if _, _, err := d.AddItem("Rice", "", ""); err != nil {
		t.Fatal(err)
	}
	items, err := d.Items()
	if err != nil {
		t.Fatal(err)
	}
	if items[0].Category != "general" || items[0].Unit != "unit" {
		t.Errorf("item = %+v, want defaulted category/unit", items[0])
	}
}

func TestItems_SortedByName(t *testing.T) {
	d := newTestDB(t)
	for _, name := range []string{"Zucchini", "Apples", "Milk"} {
		if _, err := d.GetOrCreateItem(name, ""); err != nil {
			t.Fatal(err)
		}
	}
	items, err := d.Items()
	if err != nil {
		t.Fatal(err)
	}
	got := []string{items[0].Name, items[1].Name, items[2].Name}
	want := []string{"Apples", "Milk", "Zucchini"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

// ─── Stores ─────────────────────────────────────────────────────────────────

func TestGetOrCreateStore_BlankNameIsNil(t *testing.T) {
	d := newTestDB(t)
	id, err := d.GetOrCreateStore("", "Helsinki")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != nil {
		t.Errorf("id = %v, want nil for blank store name", *id)
	}
}

func TestGetOrCreateStore_Idempotent(t *testing.T) {
	d := newTestDB(t)

	id1, err := d.GetOrCreateStore("Market", "Helsinki")
	if err != nil {
		t.Fatal(err)
	}
	id2, err := d.GetOrCreateStore("Market", "Helsinki")
	if err != nil {
		t.Fatal(err)
	}
	if *id1 != *id2 {
		t.Errorf("ids differ: %d vs %d", *id1, *id2)
	}
}

func TestGetOrCreateStore_CityDistinguishes(t *testing.T) {
	d := newTestDB(t)

	id1, err := d.GetOrCreateStore("Market", "Helsinki")
	if err != nil {
		t.Fatal(err)
	}
	id2, err := d.GetOrCreateStore("Market", "Tallinn")
	if err != nil {
		t.Fatal(err)
	}
	if *id1 == *id2 {
		t.Error("same store name in different cities should get distinct ids")
	}

	// Blank city matches a NULL city, not any city.
	id3, err := d.GetOrCreateStore("Market", "")
	if err != nil {
		t.Fatal(err)
	}
	if *id3 == *id1 || *id3 == *id2 {
		t.Error("city-less store should be a new row")
	}
	id4, err := d.GetOrCreateStore("Market", "")
	if err != nil {
		t.Fatal(err)
	}
	if *id4 != *id3 {
		t.Errorf("city-less lookup not idempotent: %d vs %d", *id4, *id3)
	}
}

func TestAddStore_Coordinates(t *testing.T) {
	d := newTestDB(t)

	if _, err := d.AddStore("Harbor Market", "Oslo", ptr(59.91), ptr(10.75)); err != nil {
		t.Fatalf("AddStore error: %v", err)
	}
	stores, err := d.Stores()
	if err != nil {
		t.Fatal(err)
	}
	if len(stores) != 1 {
		t.Fatalf("store count = %d, want 1", len(stores))
	}
	st := stores[0]
	if st.City == nil || *st.City != "Oslo" {
		t.Errorf("city = %v, want Oslo", st.City)
	}
	if st.Latitude == nil || *st.Latitude != 59.91 {
		t.Errorf("latitude = %v, want 59.91", st.Latitude)
	}
}

func TestAddStore_EmptyName(t *testing.T) {
	d := newTestDB(t)
	if _, err := d.AddStore("", "Oslo", nil, nil); err == nil {
		t.Fatal("expected error for blank store name")
	}
}

// ─── Prices ─────────────────────────────────────────────────────────────────

func TestAddPrice_Defaults(t *testing.T) {
	d := newTestDB(t)

	itemID, err := d.GetOrCreateItem("Milk", "liter")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.AddPrice(pricedb.Observation{ItemID: itemID, Price: 1.3}); err != nil {
		t.Fatalf("AddPrice error: %v", err)
	}

	rows, err := d.Prices(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("row count = %d, want 1", len(rows))
	}
	r := rows[0]
	if r.Currency != "USD" {
		t.Errorf("currency = %q, want USD", r.Currency)
	}
	if r.Quantity != 1 {
		t.Errorf("quantity = %v, want 1", r.Quantity)
	}
	if r.Date != pricedb.Today() {
		t.Errorf("date = %q, want today", r.Date)
	}
	if r.Store != nil || r.City != nil {
		t.Errorf("store/city = %v/%v, want nil for store-less observation", r.Store, r.City)
	}
}

func TestAddPrice_NegativeRejected(t *testing.T) {
	d := newTestDB(t)
	itemID, err := d.GetOrCreateItem("Milk", "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.AddPrice(pricedb.Observation{ItemID: itemID, Price: -1}); err == nil {
		t.Fatal("expected error for negative price")
	}
}

func TestAddPrice_UnknownStoreID(t *testing.T) {
	d := newTestDB(t)
	itemID, err := d.GetOrCreateItem("Milk", "")
	if err != nil {
		t.Fatal(err)
	}
	_, err = d.AddPrice(pricedb.Observation{ItemID: itemID, StoreID: ptr(int64(999)), Price: 1})
	if err == nil {
		t.Fatal("expected foreign key error")
	}
	if !pricedb.IsForeignKeyViolation(err) {
		t.Errorf("IsForeignKeyViolation(%v) = false, want true", err)
	}
}

func TestPrices_JoinAndOrder(t *testing.T) {
	d := newTestDB(t)

	milk, err := d.GetOrCreateItem("Milk", "liter")
	if err != nil {
		t.Fatal(err)
	}
	storeID, err := d.GetOrCreateStore("Market", "Helsinki")
	if err != nil {
		t.Fatal(err)
	}
	for _, o := range []pricedb.Observation{
		{ItemID: milk, StoreID: storeID, Price: 1.2, Currency: "EUR", Quantity: 1, Date: "2024-01-01"},
		{ItemID: milk, StoreID: storeID, Price: 1.4, Currency: "EUR", Quantity: 1, Date: "2024-03-01"},
	} {
		if _, err := d.AddPrice(o); err != nil {
			t.Fatal(err)
		}
	}

	rows, err := d.Prices(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("row count = %d, want 2", len(rows))
	}
	if rows[0].Date != "2024-03-01" {
		t.Errorf("first row date = %q, want most recent first", rows[0].Date)
	}
	r := rows[0]
	if r.Item != "Milk" || r.Unit != "liter" {
		t.Errorf("item/unit = %q/%q, want Milk/liter", r.Item, r.Unit)
	}
	if r.Store == nil || *r.Store != "Market" {
		t.Errorf("store = %v, want Market", r.Store)
	}
	if r.City == nil || *r.City != "Helsinki" {
		t.Errorf("city = %v, want Helsinki", r.City)
	}
}

func TestPrices_Limit(t *testing.T) {
	d := newTestDB(t)
	itemID, err := d.GetOrCreateItem("Milk", "")
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		if _, err := d.AddPrice(pricedb.Observation{ItemID: itemID, Price: 1, Date: "2024-01-01"}); err != nil {
			t.Fatal(err)
		}
	}
	rows, err := d.Prices(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Errorf("row count = %d, want 3", len(rows))
	}
}

func TestPricesForItem_CaseInsensitive(t *testing.T) {
	d := newTestDB(t)
	itemID, err := d.GetOrCreateItem("Milk", "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.AddPrice(pricedb.Observation{ItemID: itemID, Price: 1.3, Date: "2024-01-01"}); err != nil {
		t.Fatal(err)
	}

	rows, err := d.PricesForItem("mIlK")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("row count = %d, want 1", len(rows))
	}

	rows, err = d.PricesForItem("Bread")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Errorf("unknown item returned %d rows, want 0", len(rows))
	}
}

func TestPricesForItems_NameSet(t *testing.T) {
	d := newTestDB(t)
	for _, name := range []string{"Milk", "Bread", "Eggs"} {
		id, err := d.GetOrCreateItem(name, "")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := d.AddPrice(pricedb.Observation{ItemID: id, Price: 1, Date: "2024-01-01"}); err != nil {
			t.Fatal(err)
		}
	}

	rows, err := d.PricesForItems([]string{"MILK", " bread ", ""})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("row count = %d, want 2", len(rows))
	}

	rows, err = d.PricesForItems(nil)
	if err != nil {
		t.Fatal(err)
	}
	if rows != nil {
		t.Errorf("empty name set returned %d rows, want none", len(rows))
	}
}
