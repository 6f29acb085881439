package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/sadopc/reviewdash/internal/review"
)

// CSVHeader is the column layout shared by both export formats.
var CSVHeader = []string{"Date", "Rating", "Category", "Length", "Text"}

func ToCSV(records []review.Record, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(CSVHeader); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			r.DateKey,
			formatRating(r.Rating),
			string(r.Category),
			strconv.Itoa(r.TextLength),
			r.Text,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// formatRating prints the shortest form that round-trips, so 4 stays "4".
func formatRating(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
