package service

import "github.com/okian/iplstats/internal/domain/stats"

// WithPanickingView appends a view that always panics.
func WithPanickingView(name string) Option {
	return func(s *Service) {
		s.views = append(append([]view{}, s.views...), view{name, func(input) stats.Tabler { panic("boom") }})
		s.index = make(map[string]viewFunc, len(s.views))
		for _, v := range s.views {
			s.index[v.name] = v.fn
		}
	}
}
