package csvio

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// sampleItems are the synthetic catalog with per-item base unit prices.
var sampleItems = []struct {
	Name string
	Unit string
	Base float64
}{
	{"Milk", "liter", 1.3},
	{"Bread", "loaf", 1.2},
	{"Eggs", "dozen", 2.0},
	{"Rice", "kg", 3.0},
	{"Apples", "kg", 2.5},
	{"Sugar", "kg", 2.2},
	{"Coffee", "pack", 4.5},
	{"Butter", "pack", 2.8},
}

var sampleCities = []string{"Helsinki", "Berlin", "Paris", "Madrid", "Warsaw", "Rome", "Lisbon"}

// WriteSample writes rows of synthetic denormalized price data to path in
// the interchange format, prices jittered around each item's base and
// rounded to cents. The seed makes output reproducible; pass 0 to seed
// from the clock. Returns the number of data rows written.
func WriteSample(path string, rows int, seed int64) (int, error) {
	if rows <= 0 {
		rows = 1000
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("csvio: create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("csvio: create %s: %w", path, err)
	}
	defer f.Close()

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 10, 25, 0, 0, 0, 0, time.UTC)
	days := int(end.Sub(start).Hours() / 24)

	w := csv.NewWriter(f)
	if err := w.Write(RequiredColumns); err != nil {
		return 0, fmt.Errorf("csvio: write header: %w", err)
	}
	for i := 0; i < rows; i++ {
		it := sampleItems[rng.Intn(len(sampleItems))]
		city := sampleCities[rng.Intn(len(sampleCities))]
		store := "Market " + strconv.Itoa(1+rng.Intn(7))
		date := start.AddDate(0, 0, rng.Intn(days+1))
		price := decimal.NewFromFloat(it.Base * (0.9 + 0.4*rng.Float64())).Round(2)

		rec := []string{it.Name, it.Unit, store, city, price.String(), "EUR", "1", date.Format("2006-01-02")}
		if err := w.Write(rec); err != nil {
			return 0, fmt.Errorf("csvio: write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return 0, fmt.Errorf("csvio: flush %s: %w", path, err)
	}
	return rows, nil
}
