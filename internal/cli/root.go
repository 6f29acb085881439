// Package cli contains the reviewdash commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/sadopc/reviewdash/internal/config"
	"github.com/sadopc/reviewdash/internal/logging"
	"github.com/sadopc/reviewdash/internal/review"
	"github.com/sadopc/reviewdash/internal/source"
	"github.com/sadopc/reviewdash/internal/store"
	"github.com/sadopc/reviewdash/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Version is the current version of reviewdash
var Version = "0.1.0"

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	dbPath     string
	bins       int
	debugLog   string
}

// NewRootCmd builds the command tree. Each call returns fresh flag state.
func NewRootCmd() *cobra.Command {
	o := &rootOptions{}

	root := &cobra.Command{
		Use:   "reviewdash [dataset]",
		Short: "Terminal analytics dashboard for product reviews",
		Long: `reviewdash loads a CSV of product reviews (review_date, rating,
review_description) and shows a category breakdown, a rating histogram and a
date vs text length scatter plot. All three views share one set of filters:
date range, categories, a category drill-down and a scatter brush.

The dataset is taken from the argument, then the config file's data.source,
then the reviews stored by 'reviewdash import'. If none of those yield usable
rows a synthetic sample is shown instead.

Examples:
  reviewdash reviews.csv
  reviewdash https://example.com/reviews.csv
  reviewdash import reviews.csv && reviewdash
  reviewdash export json out.json --category Positive --from 2024-01-01`,
		Version:      Version,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			location := ""
			if len(args) == 1 {
				location = args[0]
			}
			return runDashboard(cmd, o, location)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&o.configPath, "config", "", "Path to config file (default: ~/.config/reviewdash/config.yaml)")
	pf.StringVar(&o.dbPath, "db", "", "Path to the SQLite database (default: ~/.config/reviewdash/reviewdash.db)")
	pf.IntVar(&o.bins, "bins", 0, "Histogram bin count, 1-50 (default: saved setting)")
	pf.StringVar(&o.debugLog, "debug", "", "Write a debug log to this file")

	root.AddCommand(
		newImportCmd(o),
		newExportCmd(o),
		newStatsCmd(o),
	)
	return root
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env is what every command needs once flags are parsed.
type env struct {
	cfg     *config.Config
	store   *store.Store
	cleanup func()
}

func setup(cmd *cobra.Command, o *rootOptions) (*env, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	logFile := cfg.Log.File
	if o.debugLog != "" {
		logFile = o.debugLog
	}
	cleanup, err := logging.SetupLogging(logFile)
	if err != nil {
		return nil, err
	}
	logging.Debugf("%s flags: %s", cmd.Name(), describeFlags(cmd.Flags()))

	dbPath := o.dbPath
	if dbPath == "" {
		dbPath = cfg.Store.Path
	}
	if dbPath == "" {
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			cleanup()
			return nil, err
		}
	}

	s, err := store.New(dbPath)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("opening database: %w", err)
	}

	return &env{cfg: cfg, store: s, cleanup: cleanup}, nil
}

func (e *env) Close() {
	e.store.Close()
	e.cleanup()
}

// describeFlags lists the flags the user actually set.
func describeFlags(fs *pflag.FlagSet) string {
	var parts []string
	fs.Visit(func(f *pflag.Flag) {
		parts = append(parts, f.Name+"="+f.Value.String())
	})
	if len(parts) == 0 {
		return "(defaults)"
	}
	return strings.Join(parts, " ")
}

// histogramBins picks the bin count: an explicit flag, then the saved
// setting, then the config file.
func (e *env) histogramBins(fs *pflag.FlagSet, flagValue int) (int, error) {
	if fs.Changed("bins") {
		if flagValue < 1 || flagValue > 50 {
			return 0, fmt.Errorf("--bins must be between 1 and 50, got %d", flagValue)
		}
		return flagValue, nil
	}
	return e.store.GetIntSetting(store.SettingHistBins, e.cfg.Histogram.Bins), nil
}

// loader resolves where rows come from: location, then data.source, then
// the stored import.
func (e *env) loader(location string) tui.LoadFunc {
	if location == "" {
		location = e.cfg.Data.Source
	}
	return func(ctx context.Context) ([]review.RawRow, string, error) {
		if location != "" {
			rows, err := source.Load(ctx, location)
			return rows, location, err
		}
		rows, err := e.store.ListRawRows()
		return rows, "store", err
	}
}

// loadDataset runs the loader under the configured timeout. Load errors are
// returned; an empty result becomes the synthetic dataset.
func (e *env) loadDataset(ctx context.Context, location string) (review.Dataset, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.Data.Timeout)
	defer cancel()

	rows, src, err := e.loader(location)(ctx)
	if err != nil {
		return review.Dataset{}, err
	}
	ds := review.Load(rows, src, nowFunc(), review.NewRand(e.cfg.Fallback.Seed))
	if ds.Dropped > 0 {
		logging.Infof("dropped %d malformed rows from %s", ds.Dropped, src)
	}
	return ds, nil
}

func runDashboard(cmd *cobra.Command, o *rootOptions, location string) error {
	e, err := setup(cmd, o)
	if err != nil {
		return err
	}
	defer e.Close()

	bins, err := e.histogramBins(cmd.Flags(), o.bins)
	if err != nil {
		return err
	}
	marker, _ := e.store.GetSetting(store.SettingScatterMarker)

	zone.NewGlobal()

	app := tui.NewApp(e.store, tui.Options{
		Load:    e.loader(location),
		Timeout: e.cfg.Data.Timeout,
		Seed:    e.cfg.Fallback.Seed,
		Bins:    bins,
		Marker:  marker,
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseAllMotion())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running dashboard: %w", err)
	}
	return nil
}
