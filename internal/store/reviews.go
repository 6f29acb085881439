package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sadopc/reviewdash/internal/review"
)

// ReplaceReviews swaps the stored dataset for rows in one transaction.
// Rows are stored raw; derivation happens on load.
func (s *Store) ReplaceReviews(source string, rows []review.RawRow) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM reviews`); err != nil {
		return fmt.Errorf("clear reviews: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO reviews (review_date, rating, review_description) VALUES (?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range rows {
		if _, err := stmt.Exec(row[review.FieldDate], row[review.FieldRating], row[review.FieldText]); err != nil {
			return fmt.Errorf("insert review %d: %w", i, err)
		}
	}

	if _, err := tx.Exec(
		`INSERT INTO imports (source, row_count, imported_at) VALUES (?, ?, ?)`,
		source, len(rows), time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("record import: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}

// ListRawRows returns stored rows in import order.
func (s *Store) ListRawRows() ([]review.RawRow, error) {
	rows, err := s.db.Query(
		`SELECT review_date, rating, review_description FROM reviews ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var out []review.RawRow
	for rows.Next() {
		var date, rating, text string
		if err := rows.Scan(&date, &rating, &text); err != nil {
			return nil, err
		}
		out = append(out, review.RawRow{
			review.FieldDate:   date,
			review.FieldRating: rating,
			review.FieldText:   text,
		})
	}
	return out, rows.Err()
}

func (s *Store) ReviewCount() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM reviews`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count reviews: %w", err)
	}
	return n, nil
}

// LastImport returns the most recent import, or nil if none.
func (s *Store) LastImport() (*Import, error) {
	imp := &Import{}
	var importedAt string
	err := s.db.QueryRow(
		`SELECT id, source, row_count, imported_at FROM imports ORDER BY id DESC LIMIT 1`,
	).Scan(&imp.ID, &imp.Source, &imp.RowCount, &importedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last import: %w", err)
	}
	imp.ImportedAt, _ = time.Parse(time.RFC3339, importedAt)
	return imp, nil
}
