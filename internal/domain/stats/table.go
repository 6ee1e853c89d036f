// Package stats is the aggregation library. Every function takes a filtered
// dataset, never mutates it, and returns a small result that renders as a
// named-column table. Empty input gives an empty result, and rates with a
// zero denominator are 0.
package stats

import (
	"sort"

	"github.com/okian/iplstats/internal/domain/model"
)

// Table is the presentation contract shared by every result.
type Table struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Tabler is implemented by every aggregation result.
type Tabler interface {
	Table() Table
}

func newTable(columns ...string) Table {
	return Table{Columns: columns, Rows: [][]any{}}
}

func (t *Table) add(cells ...any) {
	t.Rows = append(t.Rows, cells)
}

// Count is one labelled count.
type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Ranking is an ordered list of counts with the column names it is shown under.
type Ranking struct {
	KeyColumn   string  `json:"key_column"`
	CountColumn string  `json:"count_column"`
	Items       []Count `json:"items"`
}

// Table implements Tabler.
func (r Ranking) Table() Table {
	t := newTable(r.KeyColumn, r.CountColumn)
	for _, c := range r.Items {
		t.add(c.Key, c.Count)
	}
	return t
}

// Get returns the count for key, 0 when absent.
func (r Ranking) Get(key string) int {
	for _, c := range r.Items {
		if c.Key == key {
			return c.Count
		}
	}
	return 0
}

// tally counts occurrences of non-empty keys.
type tally map[string]int

func (t tally) inc(key string) {
	t.add(key, 1)
}

func (t tally) add(key string, n int) {
	if key == "" {
		return
	}
	t[key] += n
}

// ranked orders by count descending then key ascending and keeps at most
// limit items. A limit below 1 keeps everything.
func (t tally) ranked(limit int) []Count {
	items := t.items()
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return items[i].Key < items[j].Key
	})
	return truncate(items, limit)
}

// byKey orders by key ascending.
func (t tally) byKey() []Count {
	items := t.items()
	sort.Slice(items, func(i, j int) bool { return items[i].Key < items[j].Key })
	return items
}

func (t tally) items() []Count {
	items := make([]Count, 0, len(t))
	for k, n := range t {
		items = append(items, Count{Key: k, Count: n})
	}
	return items
}

func truncate[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func ranking(keyCol, countCol string, items []Count) Ranking {
	return Ranking{KeyColumn: keyCol, CountColumn: countCol, Items: items}
}

// seasonsByMatch maps match id to season for joins from deliveries.
func seasonsByMatch(ds *model.Dataset) map[int]string {
	out := make(map[int]string, len(ds.Matches))
	for _, m := range ds.Matches {
		out[m.ID] = m.Season
	}
	return out
}

func orEmpty(ds *model.Dataset) *model.Dataset {
	if ds == nil {
		return &model.Dataset{}
	}
	return ds
}
