package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/sadopc/reviewdash/internal/export"
	"github.com/sadopc/reviewdash/internal/filter"
	"github.com/sadopc/reviewdash/internal/review"
	"github.com/sadopc/reviewdash/internal/session"
	"github.com/spf13/cobra"
)

var nowFunc = time.Now

type exportOptions struct {
	data       string
	from       string
	to         string
	categories []string
	drill      string
}

func newExportCmd(o *rootOptions) *cobra.Command {
	eo := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export <csv|json> <output>",
		Short: "Filter the dataset and write the working set to a file",
		Long: `Export applies the same filters as the dashboard without opening it and
writes the matching reviews as CSV or JSON.

Dates are YYYY-MM-DD and inclusive. Without --from/--to the full date extent
of the dataset is used.

Examples:
  reviewdash export csv positive.csv --category Positive
  reviewdash export json jan.json --from 2024-01-01 --to 2024-01-31
  reviewdash export csv neg.csv --drill Negative --data reviews.csv`,
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"csv", "json"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, o, eo, args[0], args[1])
		},
	}

	f := cmd.Flags()
	f.StringVar(&eo.data, "data", "", "Dataset path or URL (default: config data.source, then imported reviews)")
	f.StringVar(&eo.from, "from", "", "First day to include (YYYY-MM-DD)")
	f.StringVar(&eo.to, "to", "", "Last day to include (YYYY-MM-DD)")
	f.StringSliceVar(&eo.categories, "category", nil, "Category to include (repeatable: Positive, Neutral, Negative)")
	f.StringVar(&eo.drill, "drill", "", "Drill down to a single category")
	return cmd
}

func runExport(cmd *cobra.Command, o *rootOptions, eo *exportOptions, format, out string) error {
	format = strings.ToLower(format)
	if format != "csv" && format != "json" {
		return fmt.Errorf("unknown export format %q (want csv or json)", format)
	}

	filters, err := eo.parse()
	if err != nil {
		return err
	}

	e, err := setup(cmd, o)
	if err != nil {
		return err
	}
	defer e.Close()

	ds, err := e.loadDataset(cmd.Context(), eo.data)
	if err != nil {
		return err
	}
	if ds.Synthetic {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: no usable rows, exporting synthetic data")
	}

	sess := session.New(ds)
	for _, in := range filters.intents(sess.State()) {
		sess.Dispatch(in)
	}

	working := sess.Working()
	if format == "csv" {
		err = export.ToCSV(working, out)
	} else {
		err = export.ToJSON(working, sess.State().Summary(), out)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d of %d reviews to %s\n", len(working), len(ds.Records), out)
	return nil
}

// exportFilters are the parsed filter flags.
type exportFilters struct {
	start, end *time.Time
	categories []review.Category
	drill      *review.Category
}

func (eo *exportOptions) parse() (exportFilters, error) {
	var f exportFilters
	var err error

	if f.start, err = parseDay(eo.from); err != nil {
		return f, err
	}
	if f.end, err = parseDay(eo.to); err != nil {
		return f, err
	}

	for _, s := range eo.categories {
		c, err := parseCategory(s)
		if err != nil {
			return f, err
		}
		f.categories = append(f.categories, c)
	}

	if eo.drill != "" {
		c, err := parseCategory(eo.drill)
		if err != nil {
			return f, err
		}
		f.drill = &c
	}
	return f, nil
}

// intents turns the filters into session intents. A bound that was not
// given keeps the value from initial.
func (f exportFilters) intents(initial *filter.State) []session.Intent {
	var out []session.Intent

	if f.start != nil || f.end != nil {
		start, end := initial.DateRange()
		if f.start != nil {
			start = f.start
		}
		if f.end != nil {
			end = f.end
		}
		out = append(out, session.SetDateRange{Start: start, End: end})
	}
	if len(f.categories) > 0 {
		out = append(out, session.SetActiveCategories{Categories: f.categories})
	}
	if f.drill != nil {
		out = append(out, session.Drill{Category: *f.drill})
	}
	return out
}

// parseDay parses a YYYY-MM-DD flag value; empty means unset.
func parseDay(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(review.DateKeyLayout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return &t, nil
}

// parseCategory matches a category name case-insensitively.
func parseCategory(s string) (review.Category, error) {
	for _, c := range review.Categories {
		if strings.EqualFold(strings.TrimSpace(s), string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q (want Positive, Neutral or Negative)", s)
}
