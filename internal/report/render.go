package report

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	service "github.com/okian/iplstats/internal/app"
	"github.com/okian/iplstats/internal/domain/stats"
)

func (c *cli) renderResult(res *service.ViewResult) error {
	if c.format == FormatTable {
		return c.renderTable(res.View, res.Table)
	}
	return c.render(res)
}

// render writes v as JSON or YAML.
func (c *cli) render(v any) error {
	switch c.format {
	case FormatJSON:
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(c.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, c.format)
	}
}

func (c *cli) renderTable(title string, t stats.Table) error {
	if title != "" {
		fmt.Fprintln(c.out, title)
	}
	if len(t.Rows) == 0 {
		fmt.Fprintln(c.out, "(no data)")
		fmt.Fprintln(c.out)
		return nil
	}

	tw := tablewriter.NewWriter(c.out)
	tw.SetHeader(t.Columns)
	tw.SetAutoWrapText(false)
	tw.SetAutoFormatHeaders(false)
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = cell(v)
		}
		tw.Append(cells)
	}
	tw.Render()
	fmt.Fprintln(c.out)
	return nil
}

func cell(v any) string {
	switch x := v.(type) {
	case float64:
		return fmt.Sprintf("%.2f", x)
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}
