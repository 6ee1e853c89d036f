// Package report implements the iplreport command line tool. It runs the
// same views as the HTTP API against a local data directory and prints
// them as tables, JSON or YAML.
package report

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/iplstats/internal/adapters/repository"
	service "github.com/okian/iplstats/internal/app"
	"github.com/okian/iplstats/internal/config"
	"github.com/okian/iplstats/internal/domain/alias"
	"github.com/okian/iplstats/internal/domain/filter"
	"github.com/okian/iplstats/pkg/logger"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// cli holds the flag values shared by every subcommand.
type cli struct {
	dataDir string
	seasons []string
	teams   []string
	venues  []string
	format  string
	debug   bool

	out io.Writer
	cfg *config.Config
	svc *service.Service
}

// Option configures the root command.
type Option func(*cli)

// WithOutput redirects command output. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(c *cli) {
		if w != nil {
			c.out = w
		}
	}
}

// NewRootCommand builds the iplreport command tree.
func NewRootCommand(opts ...Option) *cobra.Command {
	c := &cli{out: os.Stdout}
	for _, opt := range opts {
		opt(c)
	}

	root := &cobra.Command{
		Use:           "iplreport",
		Short:         "Print IPL analytics views from the match and delivery tables",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(c.out)

	f := root.PersistentFlags()
	f.StringVar(&c.dataDir, "data-dir", "", "directory holding matches.csv and deliveries.csv (overrides config)")
	// StringArray rather than StringSlice: venue names contain commas.
	f.StringArrayVar(&c.seasons, "season", nil, "restrict to a season (repeatable)")
	f.StringArrayVar(&c.teams, "team", nil, "restrict to matches a team played (repeatable)")
	f.StringArrayVar(&c.venues, "venue", nil, "restrict to a venue (repeatable)")
	f.StringVarP(&c.format, "format", "o", FormatTable, "output format: table, json or yaml")
	f.BoolVar(&c.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		c.optionsCmd(),
		c.summaryCmd(),
		c.viewCmd(),
		c.viewsCmd(),
		c.dashboardCmd(),
		c.playerCmd(),
		c.compareCmd(),
		c.smokeCmd(),
	)
	return root
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// setup loads configuration and builds the service. Logs go to stderr so
// they never mix with rendered output.
func (c *cli) setup(cmd *cobra.Command) error {
	switch c.format {
	case FormatTable, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, c.format)
	}

	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}
	if c.dataDir != "" {
		cfg.DataDir = c.dataDir
	}
	level := "warn"
	if c.debug {
		level = "debug"
	}
	if err := logger.Init(logger.WithOutput(os.Stderr), logger.WithFormat(cfg.LogFormat)); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if err := logger.SetLevelString(level); err != nil {
		return err
	}

	src := repository.NewCSVSource(cfg.DataDir,
		repository.WithFiles(cfg.MatchesFile, cfg.DeliveriesFile),
		repository.WithAliases(alias.New(cfg.TeamAliases)),
		repository.WithOverIndexBase(cfg.OverIndexBase),
	)
	store := repository.NewCachedStore(src)
	if err := store.Refresh(cmd.Context()); err != nil {
		return err
	}

	c.cfg = cfg
	c.svc = service.New(store,
		service.WithTopN(cfg.TopN),
		service.WithVenueTopN(cfg.VenueTopN),
		service.WithMinMatches(cfg.MinMatches),
	)
	return nil
}

func (c *cli) selection() filter.Selection {
	return filter.Selection{Seasons: c.seasons, Teams: c.teams, Venues: c.venues}.Normalize()
}
