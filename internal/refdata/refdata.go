// Package refdata serves the static vehicle brand/model/color lookup data
// from CSV files. The tables are loaded once into memory and are read-only
// after initialization.
package refdata

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// Table holds the in-memory lookup data. Safe for concurrent reads; the
// load is guarded so concurrent first calls do not race.
type Table struct {
	carsPath   string
	colorsPath string

	mu            sync.Mutex
	loaded        bool
	brands        []string
	modelsByBrand map[string][]string
	colors        []string
}

// New creates a table backed by the given CSV files. Nothing is read until
// the first lookup.
func New(carsPath, colorsPath string) *Table {
	return &Table{carsPath: carsPath, colorsPath: colorsPath}
}

// ensureLoaded performs the one-time load under the lock. A missing or
// malformed file leaves empty tables rather than failing lookups.
func (t *Table) ensureLoaded() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.loaded {
		return
	}
	t.loaded = true
	t.modelsByBrand = make(map[string][]string)

	if err := t.loadCars(); err != nil {
		fmt.Fprintf(os.Stderr, "refdata: failed to load %s: %v\n", t.carsPath, err)
	}
	if err := t.loadColors(); err != nil {
		fmt.Fprintf(os.Stderr, "refdata: failed to load %s: %v\n", t.colorsPath, err)
	}
}

func (t *Table) loadCars() error {
	records, header, err := readCSV(t.carsPath)
	if err != nil {
		return err
	}

	brandCol, ok := header["company names"]
	if !ok {
		return fmt.Errorf("missing 'Company Names' column")
	}
	modelCol, ok := header["cars names"]
	if !ok {
		return fmt.Errorf("missing 'Cars Names' column")
	}

	seen := make(map[string]map[string]bool)
	for _, record := range records {
		if brandCol >= len(record) || modelCol >= len(record) {
			continue
		}
		brand := titleCase(strings.TrimSpace(record[brandCol]))
		carModel := strings.TrimSpace(record[modelCol])
		if brand == "" || carModel == "" {
			continue
		}
		if seen[brand] == nil {
			seen[brand] = make(map[string]bool)
		}
		seen[brand][carModel] = true
	}

	for brand, models := range seen {
		t.brands = append(t.brands, brand)
		list := make([]string, 0, len(models))
		for m := range models {
			list = append(list, m)
		}
		sort.Strings(list)
		t.modelsByBrand[brand] = list
	}
	sort.Strings(t.brands)
	return nil
}

func (t *Table) loadColors() error {
	records, header, err := readCSV(t.colorsPath)
	if err != nil {
		return err
	}
	nameCol, ok := header["name"]
	if !ok {
		return fmt.Errorf("missing 'name' column")
	}

	seen := make(map[string]bool)
	for _, record := range records {
		if nameCol >= len(record) {
			continue
		}
		color := strings.TrimSpace(record[nameCol])
		if color != "" && !seen[color] {
			seen[color] = true
			t.colors = append(t.colors, color)
		}
	}
	sort.Strings(t.colors)
	return nil
}

// readCSV returns data rows and a lowercased header-name -> index map.
func readCSV(path string) ([][]string, map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("empty csv")
	}

	header := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		header[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return rows[1:], header, nil
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Brands returns all known vehicle brands, sorted.
func (t *Table) Brands() []string {
	t.ensureLoaded()
	return t.brands
}

// ModelsForBrand returns the models of one brand; the lookup is
// case-insensitive on the brand name.
func (t *Table) ModelsForBrand(brand string) []string {
	t.ensureLoaded()
	return t.modelsByBrand[titleCase(strings.TrimSpace(brand))]
}

// Colors returns all known vehicle colors, sorted.
func (t *Table) Colors() []string {
	t.ensureLoaded()
	return t.colors
}
