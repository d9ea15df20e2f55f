package catalog

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/HerbHall/phonedex/pkg/models"
)

// csvHeaders returns the CSV column headers.
func csvHeaders() []string {
	return []string{
		"id", "name", "brand", "model", "category", "release_date",
		"price", "currency", "rating", "camera", "performance", "battery",
		"ram_gb", "storage_gb", "display_inches", "os",
	}
}

// phoneToCSVRow converts a phone to a CSV row (matching csvHeaders order).
// The price is read in currency c.
func phoneToCSVRow(p models.Phone, c models.Currency) []string {
	storage := make([]string, len(p.Specs.Storage))
	for i, s := range p.Specs.Storage {
		storage[i] = strconv.Itoa(s)
	}
	return []string{
		p.ID,
		p.Name,
		p.Brand,
		p.Model,
		string(p.Category),
		p.ReleaseDate.String(),
		formatFloat(p.Prices.In(c)),
		string(c),
		formatFloat(p.Ratings.Overall),
		formatFloat(p.Ratings.Camera),
		formatFloat(p.Ratings.Performance),
		formatFloat(p.Ratings.Battery),
		strconv.Itoa(p.Specs.RAM),
		strings.Join(storage, ";"),
		formatFloat(p.Specs.Display.Size),
		p.Specs.OS,
	}
}

// WriteCSV writes phones with a header row, prices in currency c.
func WriteCSV(w io.Writer, phones []models.Phone, c models.Currency) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeaders()); err != nil {
		return err
	}
	for i := range phones {
		if err := cw.Write(phoneToCSVRow(phones[i], c)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
