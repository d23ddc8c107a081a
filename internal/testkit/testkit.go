// Package testkit builds deterministic sample datasets for tests and demos.
package testkit

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"time"

	"tabscope/domain/table"
)

var (
	products = []string{"Laptop", "Phone", "Tablet", "Monitor", "Keyboard"}
	regions  = []string{"North", "South", "East", "West"}
)

// SalesDataset generates a seeded daily sales dataset starting 2024-01-01
// with date, categorical and numeric columns.
func SalesDataset(rows int, seed int64) *table.Dataset {
	rng := rand.New(rand.NewSource(seed))
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	dates := make([]string, rows)
	product := make([]string, rows)
	region := make([]string, rows)
	sales := make([]float64, rows)
	quantity := make([]float64, rows)
	discount := make([]float64, rows)
	revenue := make([]float64, rows)

	for i := 0; i < rows; i++ {
		dates[i] = start.AddDate(0, 0, i).Format("2006-01-02")
		product[i] = products[rng.Intn(len(products))]
		region[i] = regions[rng.Intn(len(regions))]
		sales[i] = float64(1000 + rng.Intn(9000))
		quantity[i] = float64(1 + rng.Intn(49))
		discount[i] = float64(rng.Intn(31)) / 100
		revenue[i] = sales[i] * quantity[i] * (1 - discount[i])
	}

	nulls := make([]bool, rows)
	return table.New([]table.Column{
		{Name: "Date", Kind: table.KindCategorical, Strings: dates, Nulls: nulls},
		{Name: "Product", Kind: table.KindCategorical, Strings: product, Nulls: nulls},
		{Name: "Region", Kind: table.KindCategorical, Strings: region, Nulls: nulls},
		{Name: "Sales", Kind: table.KindNumeric, Numbers: sales, Nulls: nulls},
		{Name: "Quantity", Kind: table.KindNumeric, Numbers: quantity, Nulls: nulls},
		{Name: "Discount", Kind: table.KindNumeric, Numbers: discount, Nulls: nulls},
		{Name: "Revenue", Kind: table.KindNumeric, Numbers: revenue, Nulls: nulls},
	})
}

// NumericColumn builds a single numeric column dataset from literal values.
func NumericColumn(name string, values []float64) *table.Dataset {
	return table.New([]table.Column{{
		Name:    name,
		Kind:    table.KindNumeric,
		Numbers: values,
		Nulls:   make([]bool, len(values)),
	}})
}

// CategoricalColumn builds a single categorical column dataset.
func CategoricalColumn(name string, values []string) *table.Dataset {
	return table.New([]table.Column{{
		Name:    name,
		Kind:    table.KindCategorical,
		Strings: values,
		Nulls:   make([]bool, len(values)),
	}})
}

// WriteSampleCSV writes a seeded sales dataset to path for CLI demos.
func WriteSampleCSV(path string, rows int) error {
	ds := SalesDataset(rows, 42)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create sample file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(ds.ColumnNames()); err != nil {
		return err
	}
	for i := 0; i < ds.Rows(); i++ {
		rec := make([]string, ds.Cols())
		for j := range ds.Columns {
			rec[j] = ds.Columns[j].CellString(i)
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
