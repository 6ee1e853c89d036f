package api

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/okian/iplstats/internal/domain/filter"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// selectionQuery mirrors the repeatable season/team/venue query parameters.
type selectionQuery struct {
	Seasons []string `validate:"max=64,dive,max=16"`
	Teams   []string `validate:"max=64,dive,max=128"`
	Venues  []string `validate:"max=128,dive,max=256"`
}

type compareQuery struct {
	Team1 string `validate:"required,max=128"`
	Team2 string `validate:"required,max=128,nefield=Team1"`
}

// values collects a repeatable parameter. Values are not split on commas
// because venue names contain them.
func values(r *http.Request, key string) []string {
	var out []string
	for _, v := range r.URL.Query()[key] {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// parseSelection reads and validates the filter parameters.
func parseSelection(r *http.Request) (filter.Selection, error) {
	q := selectionQuery{
		Seasons: values(r, "season"),
		Teams:   values(r, "team"),
		Venues:  values(r, "venue"),
	}
	if err := validate.Struct(q); err != nil {
		return filter.Selection{}, err
	}
	return filter.Selection{Seasons: q.Seasons, Teams: q.Teams, Venues: q.Venues}.Normalize(), nil
}

func parseCompare(r *http.Request) (compareQuery, error) {
	q := compareQuery{
		Team1: strings.TrimSpace(r.URL.Query().Get("team1")),
		Team2: strings.TrimSpace(r.URL.Query().Get("team2")),
	}
	return q, validate.Struct(q)
}
