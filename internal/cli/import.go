package cli

import (
	"context"
	"fmt"

	"github.com/sadopc/reviewdash/internal/review"
	"github.com/sadopc/reviewdash/internal/source"
	"github.com/spf13/cobra"
)

func newImportCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <csv-file|url>",
		Short: "Load a review CSV into the local database",
		Long: `Import reads a CSV from a file or http(s) URL and replaces the stored
reviews with it. The dashboard uses the stored reviews when no dataset is
given on the command line or in the config file.

Rows whose date or rating does not parse are counted and skipped when the
dataset is loaded.

Examples:
  reviewdash import reviews.csv
  reviewdash import https://example.com/reviews.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, o, args[0])
		},
	}
}

func runImport(cmd *cobra.Command, o *rootOptions, location string) error {
	e, err := setup(cmd, o)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), e.cfg.Data.Timeout)
	defer cancel()

	rows, err := source.Load(ctx, location)
	if err != nil {
		return fmt.Errorf("import %s: %w", location, err)
	}

	records, dropped := review.DeriveRecords(rows)
	if len(records) == 0 {
		return fmt.Errorf("import %s: no usable rows (%d dropped)", location, dropped)
	}

	if err := e.store.ReplaceReviews(location, rows); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d reviews from %s (%d dropped)\n", len(records), location, dropped)
	return nil
}
