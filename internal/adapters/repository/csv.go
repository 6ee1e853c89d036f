package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/okian/iplstats/internal/domain/alias"
	"github.com/okian/iplstats/internal/domain/model"
	"github.com/okian/iplstats/pkg/logger"
	"github.com/okian/iplstats/pkg/metrics"
)

// Default table file names.
const (
	DefaultMatchesFile    = "matches.csv"
	DefaultDeliveriesFile = "deliveries.csv"
)

// Date layouts accepted for the match date column, tried in order.
var dateLayouts = []string{"2006-01-02", "02/01/2006", "02/01/06", "2006/01/02"}

var (
	matchColumns = []string{
		"id", "season", "date", "team1", "team2", "toss_winner", "toss_decision",
		"winner", "win_by_runs", "win_by_wickets", "venue",
	}
	deliveryColumns = []string{
		"match_id", "inning", "batting_team", "bowling_team", "over", "ball",
		"batsman", "bowler", "wide_runs", "bye_runs", "legbye_runs", "noball_runs",
		"batsman_runs", "total_runs", "player_dismissed", "dismissal_kind",
	}
)

// CSVSource loads the two tables from a directory of CSV files.
type CSVSource struct {
	dir            string
	matchesFile    string
	deliveriesFile string
	aliases        *alias.Map
	overBase       int
	logger         logger.Logger
}

// NewCSVSource creates a source reading from dir. Team names are normalized
// with the default alias rules unless WithAliases is given.
func NewCSVSource(dir string, opts ...SourceOption) *CSVSource {
	s := &CSVSource{
		dir:            dir,
		matchesFile:    DefaultMatchesFile,
		deliveriesFile: DefaultDeliveriesFile,
		aliases:        alias.New(alias.DefaultRules()),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("repository")
	}
	return s
}

// Load reads both tables. Matches come back sorted by date, most recent
// first, with undated matches last. Deliveries keep file order; those
// referencing an unknown match are dropped.
func (s *CSVSource) Load(ctx context.Context) (*model.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matches, invalid, err := s.readMatches(ctx)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ids := make(map[int]struct{}, len(matches))
	for _, m := range matches {
		ids[m.ID] = struct{}{}
	}
	deliveries, orphans, err := s.readDeliveries(ids)
	if err != nil {
		return nil, err
	}

	if orphans > 0 {
		s.logger.Warn(ctx, "dropped deliveries referencing unknown matches",
			logger.Int("count", orphans),
			logger.String("file", s.deliveriesFile))
	}
	metrics.UpdateDatasetRows("matches", len(matches))
	metrics.UpdateDatasetRows("deliveries", len(deliveries))
	metrics.UpdateDatasetDroppedRows("orphan_delivery", orphans)
	metrics.UpdateDatasetDroppedRows("invalid_match", invalid)

	return &model.Dataset{Matches: matches, Deliveries: deliveries}, nil
}

// table is an open CSV file with its header resolved.
type table struct {
	name   string
	f      *os.File
	r      *csv.Reader
	header map[string]int
	rec    []string
}

func (s *CSVSource) open(name string, required []string) (*table, error) {
	path := filepath.Join(s.dir, name)
	f, err := os.Open(path) //nolint:gosec // path comes from configuration
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDataNotFound, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	head, err := r.Read()
	if err != nil {
		_ = f.Close()
		if errors.Is(err, io.EOF) {
			return nil, &FormatError{File: name, Line: 1, Reason: "missing header"}
		}
		return nil, &FormatError{File: name, Line: 1, Reason: err.Error()}
	}

	t := &table{name: name, f: f, r: r, header: make(map[string]int, len(head))}
	for i, col := range head {
		col = strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))
		t.header[col] = i
	}
	for _, col := range required {
		if _, ok := t.header[col]; !ok {
			_ = f.Close()
			return nil, &FormatError{File: name, Line: 1, Column: col, Reason: "missing required column"}
		}
	}
	return t, nil
}

// next advances to the next record. It returns false at end of file.
func (t *table) next() (bool, error) {
	rec, err := t.r.Read()
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return false, &FormatError{File: t.name, Line: pe.Line, Reason: pe.Err.Error()}
		}
		return false, fmt.Errorf("read %s: %w", t.name, err)
	}
	t.rec = rec
	return true, nil
}

func (t *table) line() int {
	line, _ := t.r.FieldPos(0)
	return line
}

func (t *table) has(col string) bool {
	_, ok := t.header[col]
	return ok
}

// text returns the trimmed cell, empty when the column or cell is absent.
func (t *table) text(col string) string {
	i, ok := t.header[col]
	if !ok || i >= len(t.rec) {
		return ""
	}
	return strings.TrimSpace(t.rec[i])
}

// int parses an integer cell. Empty cells read as 0.
func (t *table) int(col string) (int, error) {
	v := t.text(col)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &FormatError{File: t.name, Line: t.line(), Column: col, Reason: fmt.Sprintf("invalid integer %q", v)}
	}
	return n, nil
}

func (t *table) close() {
	_ = t.f.Close()
}

type intCell struct {
	col string
	dst *int
}

// ints parses several integer columns into their destinations.
func (t *table) ints(cells ...intCell) error {
	for _, c := range cells {
		n, err := t.int(c.col)
		if err != nil {
			return err
		}
		*c.dst = n
	}
	return nil
}

// readMatches also returns how many rows were dropped for breaking the
// match invariants.
func (s *CSVSource) readMatches(ctx context.Context) ([]model.Match, int, error) {
	t, err := s.open(s.matchesFile, matchColumns)
	if err != nil {
		return nil, 0, err
	}
	defer t.close()

	var (
		matches []model.Match
		undated int
		invalid int
	)
	for {
		ok, err := t.next()
		if err != nil {
			return nil, 0, err
		}
		if !ok {
			break
		}

		var m model.Match
		if t.text("id") == "" {
			return nil, 0, &FormatError{File: t.name, Line: t.line(), Column: "id", Reason: "missing match id"}
		}
		var dl int
		if err := t.ints(
			intCell{"id", &m.ID},
			intCell{"win_by_runs", &m.WinByRuns},
			intCell{"win_by_wickets", &m.WinByWickets},
			intCell{"dl_applied", &dl},
		); err != nil {
			return nil, 0, err
		}
		m.DLApplied = dl != 0
		m.Season = t.text("season")
		m.City = t.text("city")
		m.Team1 = s.aliases.Canonical(t.text("team1"))
		m.Team2 = s.aliases.Canonical(t.text("team2"))
		m.TossWinner = s.aliases.Canonical(t.text("toss_winner"))
		m.TossDecision = t.text("toss_decision")
		m.Result = t.text("result")
		m.Winner = s.aliases.Canonical(t.text("winner"))
		m.PlayerOfMatch = t.text("player_of_match")
		m.Venue = t.text("venue")
		if reason := m.Inconsistency(); reason != "" {
			invalid++
			s.logger.Debug(ctx, "dropping inconsistent match",
				logger.Int("id", m.ID),
				logger.Int("line", t.line()),
				logger.String("reason", reason))
			continue
		}
		m.Date = parseDate(t.text("date"))
		if m.Date == nil {
			undated++
		}
		matches = append(matches, m)
	}

	if undated > 0 {
		s.logger.Warn(ctx, "matches with unparseable dates",
			logger.Int("count", undated),
			logger.String("file", s.matchesFile))
	}
	if invalid > 0 {
		s.logger.Warn(ctx, "dropped matches breaking team or result invariants",
			logger.Int("count", invalid),
			logger.String("file", s.matchesFile))
	}
	sortByDateDesc(matches)
	return matches, invalid, nil
}

func (s *CSVSource) readDeliveries(ids map[int]struct{}) ([]model.Delivery, int, error) {
	t, err := s.open(s.deliveriesFile, deliveryColumns)
	if err != nil {
		return nil, 0, err
	}
	defer t.close()

	derivedExtras := !t.has("extra_runs")
	var (
		deliveries []model.Delivery
		orphans    int
	)
	for {
		ok, err := t.next()
		if err != nil {
			return nil, 0, err
		}
		if !ok {
			break
		}

		var (
			d     model.Delivery
			super int
		)
		if err := t.ints(
			intCell{"match_id", &d.MatchID},
			intCell{"inning", &d.Inning},
			intCell{"over", &d.Over},
			intCell{"ball", &d.Ball},
			intCell{"is_super_over", &super},
			intCell{"wide_runs", &d.WideRuns},
			intCell{"bye_runs", &d.ByeRuns},
			intCell{"legbye_runs", &d.LegByeRuns},
			intCell{"noball_runs", &d.NoBallRuns},
			intCell{"penalty_runs", &d.PenaltyRuns},
			intCell{"batsman_runs", &d.BatsmanRuns},
			intCell{"extra_runs", &d.ExtraRuns},
			intCell{"total_runs", &d.TotalRuns},
		); err != nil {
			return nil, 0, err
		}
		if d.TotalRuns < d.BatsmanRuns {
			return nil, 0, &FormatError{
				File: t.name, Line: t.line(), Column: "total_runs",
				Reason: fmt.Sprintf("total_runs %d is less than batsman_runs %d", d.TotalRuns, d.BatsmanRuns),
			}
		}
		d.Over -= s.overBase
		if d.Over < 0 {
			return nil, 0, &FormatError{
				File: t.name, Line: t.line(), Column: "over",
				Reason: fmt.Sprintf("over is below the index base %d", s.overBase),
			}
		}
		if derivedExtras {
			d.ExtraRuns = d.TotalRuns - d.BatsmanRuns
		}
		if _, ok := ids[d.MatchID]; !ok {
			orphans++
			continue
		}

		d.IsSuperOver = super != 0
		d.BattingTeam = s.aliases.Canonical(t.text("batting_team"))
		d.BowlingTeam = s.aliases.Canonical(t.text("bowling_team"))
		d.Batsman = t.text("batsman")
		d.NonStriker = t.text("non_striker")
		d.Bowler = t.text("bowler")
		d.Dismissed = t.text("player_dismissed")
		d.DismissalKind = model.DismissalKind(t.text("dismissal_kind"))
		d.Fielder = t.text("fielder")
		deliveries = append(deliveries, d)
	}
	return deliveries, orphans, nil
}

// parseDate tries each accepted layout and returns nil when none fits.
func parseDate(v string) *time.Time {
	if v == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, v); err == nil {
			return &d
		}
	}
	return nil
}

// sortByDateDesc orders most recent first; undated matches go last and
// ties keep file order.
func sortByDateDesc(matches []model.Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i].Date, matches[j].Date
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
}
