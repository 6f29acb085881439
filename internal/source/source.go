// Package source reads the review dataset from a CSV file or URL.
package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/sadopc/reviewdash/internal/review"
)

// ErrFetch is returned when a remote dataset cannot be retrieved.
var ErrFetch = errors.New("fetch dataset")

// ReadCSV parses a header-keyed CSV into raw rows. Header names are trimmed
// and a leading BOM is removed. Rows may be shorter or longer than the
// header; missing fields are absent from the row.
func ReadCSV(r io.Reader) ([]review.RawRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i, h := range header {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		header[i] = h
	}

	var rows []review.RawRow
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return rows, fmt.Errorf("read csv row %d: %w", len(rows)+2, err)
		}
		row := make(review.RawRow, len(header))
		for i, v := range rec {
			if i >= len(header) {
				break
			}
			row[header[i]] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// LoadFile reads rows from a CSV file on disk.
func LoadFile(ctx context.Context, path string) ([]review.RawRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// LoadURL fetches and parses a CSV over HTTP. A nil client uses
// http.DefaultClient.
func LoadURL(ctx context.Context, client *http.Client, url string) ([]review.RawRow, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %s", ErrFetch, url, resp.Status)
	}
	return ReadCSV(resp.Body)
}

// IsURL reports whether location should be fetched over HTTP.
func IsURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// Load reads rows from a file path or http(s) URL.
func Load(ctx context.Context, location string) ([]review.RawRow, error) {
	if IsURL(location) {
		return LoadURL(ctx, nil, location)
	}
	return LoadFile(ctx, location)
}
