package report

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	service "github.com/okian/iplstats/internal/app"
	"github.com/okian/iplstats/internal/domain/stats"
)

func (c *cli) optionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List the seasons, teams and venues present in the data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.setup(cmd); err != nil {
				return err
			}
			opts, err := c.svc.Options(cmd.Context())
			if err != nil {
				return err
			}
			if c.format != FormatTable {
				return c.render(opts)
			}
			t := stats.Table{Columns: []string{"Selector", "Choices"}}
			t.Rows = [][]any{
				{"Seasons", strings.Join(opts.Seasons, ", ")},
				{"Default seasons", strings.Join(opts.DefaultSeasons, ", ")},
				{"Teams", strings.Join(opts.Teams, ", ")},
				{"Venues", len(opts.Venues)},
				{"Players", len(opts.Players)},
			}
			return c.renderTable("", t)
		},
	}
}

func (c *cli) summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print the headline totals for the selection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runView(cmd, service.ViewSummary)
		},
	}
}

func (c *cli) viewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view <name>",
		Short: "Print one view; see 'iplreport views' for names",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runView(cmd, args[0])
		},
	}
}

func (c *cli) viewsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "views",
		Short: "List view names",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			for _, name := range service.Views() {
				fmt.Fprintln(c.out, name)
			}
			return nil
		},
	}
}

func (c *cli) dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Print every view for the selection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.setup(cmd); err != nil {
				return err
			}
			d, err := c.svc.Dashboard(cmd.Context(), c.selection())
			if err != nil {
				return err
			}
			if c.format != FormatTable {
				return c.render(d)
			}
			fmt.Fprintf(c.out, "%d matches\n\n", d.Matches)
			for _, v := range d.Views {
				if err := c.renderTable(v.View, v.Table); err != nil {
					return err
				}
			}
			writeViewErrors(c.out, d.Errors)
			return nil
		},
	}
}

func (c *cli) playerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "player <name>",
		Short: "Print the batting profile of a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.setup(cmd); err != nil {
				return err
			}
			res, err := c.svc.Player(cmd.Context(), c.selection(), args[0])
			if err != nil {
				return err
			}
			return c.renderResult(res)
		},
	}
}

func (c *cli) compareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <team1> <team2>",
		Short: "Print the direct record of two teams",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.setup(cmd); err != nil {
				return err
			}
			res, err := c.svc.Compare(cmd.Context(), c.selection(), args[0], args[1])
			if err != nil {
				return err
			}
			return c.renderResult(res)
		},
	}
}

func (c *cli) runView(cmd *cobra.Command, name string) error {
	if err := c.setup(cmd); err != nil {
		return err
	}
	res, err := c.svc.View(cmd.Context(), name, c.selection())
	if err != nil {
		return err
	}
	return c.renderResult(res)
}

// writeViewErrors prints failed views sorted by name.
func writeViewErrors(w io.Writer, errs map[string]string) {
	for _, name := range slices.Sorted(maps.Keys(errs)) {
		fmt.Fprintf(w, "%s: %s\n", name, errs[name])
	}
}
