package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/reviewdash/internal/review"
)

type jsonExport struct {
	ExportedAt string         `json:"exported_at"`
	Filter     string         `json:"filter,omitempty"`
	Count      int            `json:"count"`
	Categories map[string]int `json:"categories"`
	Records    []jsonRecord   `json:"records"`
}

type jsonRecord struct {
	Date     string  `json:"date"`
	Rating   float64 `json:"rating"`
	Category string  `json:"category"`
	Length   int     `json:"length"`
	Text     string  `json:"text,omitempty"`
}

// ToJSON writes records with a header carrying the filter summary that
// produced them.
func ToJSON(records []review.Record, summary string, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Filter:     summary,
		Count:      len(records),
		Categories: map[string]int{},
	}

	for _, r := range records {
		export.Categories[string(r.Category)]++
		export.Records = append(export.Records, jsonRecord{
			Date:     r.DateKey,
			Rating:   r.Rating,
			Category: string(r.Category),
			Length:   r.TextLength,
			Text:     r.Text,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
