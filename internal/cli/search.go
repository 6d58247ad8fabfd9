package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pkgscout/pkgscout/pkg/errors"
	"github.com/pkgscout/pkgscout/pkg/search"
)

// searchOpts holds the command-line flags for the search command.
type searchOpts struct {
	concurrency int  // worker-pool override, 0 keeps the config value
	noProgress  bool // suppress the live progress bar
	jsonOut     bool // emit the raw report as JSON instead of styled text
}

// searchCommand creates the search command, the main entry point of the
// tool. It exits non-zero when any query came back empty.
func (c *CLI) searchCommand() *cobra.Command {
	opts := searchOpts{}

	cmd := &cobra.Command{
		Use:   "search <package>...",
		Short: "Search package registries for one or more packages",
		Long: `Search all configured registries for the given package names in parallel.

Examples:
  pkgscout search numpy
  pkgscout search samtools bwa --no-cache
  pkgscout search requests --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSearch(cmd, args, opts)
		},
	}

	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "worker pool size (overrides config)")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "disable the progress bar")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print the report as JSON")

	return cmd
}

func (c *CLI) runSearch(cmd *cobra.Command, args []string, opts searchOpts) error {
	for _, name := range args {
		if err := errors.ValidatePackageName(name); err != nil {
			return err
		}
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if opts.concurrency > 0 {
		cfg.Concurrency = opts.concurrency
	}

	var extra []search.Option
	var ui *progressUI
	if !opts.noProgress && !opts.jsonOut {
		ui = startProgress()
		extra = append(extra, search.WithProgress(ui.Tick))
	}

	searcher, cleanup, err := c.newSearcher(cmd.Context(), cfg, extra...)
	if err != nil {
		if ui != nil {
			ui.Stop()
		}
		return err
	}
	defer cleanup()

	timer := newStopwatch(c.Logger)
	report := searcher.Search(cmd.Context(), args)
	if ui != nil {
		ui.Stop()
	}
	timer.done(fmt.Sprintf("Searched %d registries", len(cfg.Sources)))

	if opts.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		renderReport(args, report)
	}

	if !report.AllFound() {
		return errors.New(errors.ErrCodePackageNotFound, "some packages were not found")
	}
	return nil
}
