// Package service runs the analytics views over the cached dataset. It is
// the single entry point shared by the HTTP API and the report CLI.
package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/iplstats/internal/adapters/repository"
	"github.com/okian/iplstats/internal/domain/filter"
	"github.com/okian/iplstats/internal/domain/model"
	"github.com/okian/iplstats/internal/domain/stats"
	"github.com/okian/iplstats/pkg/logger"
	"github.com/okian/iplstats/pkg/metrics"
)

// Service computes views. Every call reads the current dataset from the
// store, filters it and recomputes from scratch; nothing is kept between
// calls.
type Service struct {
	store repository.Store
	views []view
	index map[string]viewFunc

	// Configuration
	topN       int
	venueTopN  int
	minMatches int

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTopN sets the length of player and team rankings.
func WithTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topN = n
		}
	}
}

// WithVenueTopN sets the length of venue rankings.
func WithVenueTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.venueTopN = n
		}
	}
}

// WithMinMatches sets the played-match threshold of the consistent-teams view.
func WithMinMatches(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.minMatches = n
		}
	}
}

// New constructs a Service over store.
func New(store repository.Store, opts ...Option) *Service {
	s := &Service{
		store:      store,
		views:      registry,
		index:      registryIndex,
		topN:       10,
		venueTopN:  15,
		minMatches: 10,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	return s
}

// ViewResult is one computed view.
type ViewResult struct {
	View  string       `json:"view"`
	Data  stats.Tabler `json:"data"`
	Table stats.Table  `json:"table"`
}

// Dashboard is every selection-only view computed for one selection.
type Dashboard struct {
	RunID     string            `json:"run_id"`
	Epoch     string            `json:"epoch"`
	Selection filter.Selection  `json:"selection"`
	Matches   int               `json:"matches"`
	Views     []ViewResult      `json:"views"`
	Errors    map[string]string `json:"errors,omitempty"`
}

// Options returns the selector choices over the whole dataset.
func (s *Service) Options(ctx context.Context) (filter.Options, error) {
	ds, err := s.dataset(ctx)
	if err != nil {
		return filter.Options{}, err
	}
	return filter.BuildOptions(ds), nil
}

// View computes a single selection-only view.
func (s *Service) View(ctx context.Context, name string, sel filter.Selection) (*ViewResult, error) {
	fn, ok := s.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownView, name)
	}
	in, err := s.prepare(ctx, sel)
	if err != nil {
		return nil, err
	}
	res, err := s.run(ctx, uuid.NewString(), name, func() stats.Tabler { return fn(in) })
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Dashboard computes every selection-only view. A view that fails is
// reported under Errors and the rest are still returned.
func (s *Service) Dashboard(ctx context.Context, sel filter.Selection) (*Dashboard, error) {
	in, err := s.prepare(ctx, sel)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		RunID:     uuid.NewString(),
		Epoch:     s.store.Info().Epoch,
		Selection: sel.Normalize(),
		Matches:   len(in.ds.Matches),
		Views:     make([]ViewResult, 0, len(s.views)),
	}
	start := time.Now()
	for _, v := range s.views {
		fn := v.fn
		res, err := s.run(ctx, d.RunID, v.name, func() stats.Tabler { return fn(in) })
		if err != nil {
			if d.Errors == nil {
				d.Errors = map[string]string{}
			}
			d.Errors[v.name] = err.Error()
			continue
		}
		d.Views = append(d.Views, res)
	}
	s.logger.Info(ctx, "dashboard computed",
		logger.String("run", d.RunID),
		logger.Int("matches", d.Matches),
		logger.Int("views", len(d.Views)),
		logger.Int("failed", len(d.Errors)),
		logger.Duration("took", time.Since(start)))
	return d, nil
}

// Player computes the batting deep dive of name within the selection.
func (s *Service) Player(ctx context.Context, sel filter.Selection, name string) (*ViewResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: player name is required", ErrInvalidArgument)
	}
	in, err := s.prepare(ctx, sel)
	if err != nil {
		return nil, err
	}
	res, err := s.run(ctx, uuid.NewString(), ViewPlayer, func() stats.Tabler { return stats.Player(in.ds, name) })
	if err != nil {
		return nil, err
	}
	if p, ok := res.Data.(stats.PlayerProfile); ok && !p.Found() {
		return nil, fmt.Errorf("%w: %q", ErrPlayerNotFound, name)
	}
	return &res, nil
}

// Compare computes the direct record of two different teams.
func (s *Service) Compare(ctx context.Context, sel filter.Selection, team1, team2 string) (*ViewResult, error) {
	team1, team2 = strings.TrimSpace(team1), strings.TrimSpace(team2)
	switch {
	case team1 == "" || team2 == "":
		return nil, fmt.Errorf("%w: two teams are required", ErrInvalidArgument)
	case team1 == team2:
		return nil, fmt.Errorf("%w: cannot compare %q with itself", ErrInvalidArgument, team1)
	}
	in, err := s.prepare(ctx, sel)
	if err != nil {
		return nil, err
	}
	res, err := s.run(ctx, uuid.NewString(), ViewCompare, func() stats.Tabler { return stats.Compare(in.ds, team1, team2) })
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	info := s.store.Info()
	return map[string]interface{}{
		"epoch":      info.Epoch,
		"loadedAt":   info.LoadedAt,
		"expiresAt":  info.ExpiresAt,
		"loads":      info.Loads,
		"matches":    info.Matches,
		"deliveries": info.Deliveries,
		"views":      len(s.views),
		"topN":       s.topN,
		"venueTopN":  s.venueTopN,
		"minMatches": s.minMatches,
	}
}

func (s *Service) dataset(ctx context.Context) (*model.Dataset, error) {
	ds, err := s.store.Dataset(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	return ds, nil
}

// prepare filters the current dataset for sel.
func (s *Service) prepare(ctx context.Context, sel filter.Selection) (input, error) {
	full, err := s.dataset(ctx)
	if err != nil {
		return input{}, err
	}
	teams := full.Teams()
	sort.Strings(teams)

	ds := filter.Apply(full, sel.Normalize())
	metrics.RecordFilteredMatches(len(ds.Matches))
	return input{
		ds:         ds,
		teams:      teams,
		topN:       s.topN,
		venueTopN:  s.venueTopN,
		minMatches: s.minMatches,
	}, nil
}

// run computes one view, turning a panic into ErrViewFailed so one broken
// view cannot take down the caller.
func (s *Service) run(ctx context.Context, runID, name string, compute func() stats.Tabler) (res ViewResult, err error) {
	start := time.Now()
	defer func() {
		ms := float64(time.Since(start).Nanoseconds()) / 1e6
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s (run %s): %v", ErrViewFailed, name, runID, r)
			s.logger.Error(ctx, "view panicked",
				logger.String("view", name),
				logger.String("run", runID),
				logger.Any("panic", r))
			metrics.RecordViewComputation(name, "error", ms)
			return
		}
		metrics.RecordViewComputation(name, "ok", ms)
		s.logger.Debug(ctx, "view computed",
			logger.String("view", name),
			logger.String("run", runID),
			logger.Float64("ms", ms))
	}()

	data := compute()
	return ViewResult{View: name, Data: data, Table: data.Table()}, nil
}
