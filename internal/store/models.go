package store

import "time"

type Setting struct {
	Key   string
	Value string
}

// Import records one dataset import.
type Import struct {
	ID         int64
	Source     string
	RowCount   int
	ImportedAt time.Time
}
