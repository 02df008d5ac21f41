package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/vendo-labs/vendo/internal/money"
)

// csvHeader matches the column layout of the terminal's historical export.
var csvHeader = []string{"Item Number", "Item Name", "Price (PHP)", "Stock Left"}

// ExportCSV writes the catalog snapshot as CSV: one row per item, prices with
// two decimals.
func (c *Catalog) ExportCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, it := range c.ListAll() {
		row := []string{
			strconv.Itoa(it.ID),
			it.Name,
			money.Format(it.Price),
			strconv.Itoa(it.Stock),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row for item %d: %w", it.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
