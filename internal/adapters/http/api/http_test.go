package api_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/okian/iplstats/internal/adapters/http/api"
	"github.com/okian/iplstats/internal/adapters/repository"
	service "github.com/okian/iplstats/internal/app"
	"github.com/okian/iplstats/internal/domain/model"
	"github.com/okian/iplstats/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithOutput(io.Discard)); err != nil {
		panic(err)
	}
}

type staticStore struct {
	ds  *model.Dataset
	err error
}

func (s *staticStore) Dataset(context.Context) (*model.Dataset, error) { return s.ds, s.err }

func (s *staticStore) Info() repository.Info {
	return repository.Info{Epoch: "e1", LoadedAt: time.Unix(0, 0)}
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func fixture() *model.Dataset {
	return &model.Dataset{
		Matches: []model.Match{
			{ID: 1, Season: "2017", Team1: "A", Team2: "B", Winner: "A", WinByRuns: 5, Venue: "Punjab Cricket Association Stadium, Mohali"},
			{ID: 2, Season: "2017", Team1: "C", Team2: "A", Winner: "A", WinByWickets: 2, Venue: "Eden Gardens"},
			{ID: 3, Season: "2016", Team1: "B", Team2: "C", Winner: "B", WinByRuns: 1, Venue: "Eden Gardens"},
		},
		Deliveries: []model.Delivery{
			{MatchID: 1, Inning: 1, Batsman: "V Kohli", Bowler: "p", BatsmanRuns: 6, TotalRuns: 6},
			{MatchID: 3, Inning: 1, Over: 10, Batsman: "x", Bowler: "q", Dismissed: "x", DismissalKind: model.DismissalBowled},
		},
	}
}

func newHandler(store repository.Store) http.Handler {
	svc := service.New(store)
	r := api.NewRouter(api.RouterConfig{
		CORSAllowedOrigins: []string{"http://localhost:3000"},
		RateLimitRequests:  1000,
		RateLimitWindow:    time.Minute,
	})
	api.NewServer(svc, &mockStatsProvider{stats: map[string]interface{}{"epoch": "e1"}}).Register(context.Background(), r)
	return r
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func decodeError(w *httptest.ResponseRecorder) errorBody {
	var e errorBody
	_ = json.Unmarshal(w.Body.Bytes(), &e)
	return e
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		h := newHandler(&staticStore{ds: fixture()})

		Convey("Then health serves Prometheus metrics", func() {
			w := get(h, "/healthz")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "ipl_analytics_")
		})

		Convey("Then stats are JSON", func() {
			w := get(h, "/stats")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldEqual, "application/json; charset=utf-8")
			So(w.Body.String(), ShouldContainSubstring, `"epoch":"e1"`)
		})

		Convey("Then the dashboard page is served", func() {
			w := get(h, "/dashboard")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "/api/v1/dashboard")
		})

		Convey("Then responses carry a request id", func() {
			w := get(h, "/api/v1/options")
			So(w.Header().Get("X-Request-Id"), ShouldNotBeEmpty)
		})

		Convey("Then unknown paths are 404", func() {
			So(get(h, "/nope").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Then CORS preflight is answered for allowed origins", func() {
			req := httptest.NewRequest(http.MethodOptions, "/api/v1/options", http.NoBody)
			req.Header.Set("Origin", "http://localhost:3000")
			req.Header.Set("Access-Control-Request-Method", http.MethodGet)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "http://localhost:3000")
		})
	})
}

func TestViews(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		h := newHandler(&staticStore{ds: fixture()})

		Convey("When fetching options", func() {
			w := get(h, "/api/v1/options")
			var body struct {
				Seasons []string `json:"seasons"`
				Teams   []string `json:"teams"`
			}
			So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
			So(body.Seasons, ShouldResemble, []string{"2017", "2016"})
			So(body.Teams, ShouldResemble, []string{"A", "B", "C"})
		})

		Convey("When fetching a view with repeated team parameters", func() {
			w := get(h, "/api/v1/views/wins-by-team?team=B&team=C")
			var body struct {
				View  string `json:"view"`
				Table struct {
					Columns []string `json:"columns"`
					Rows    [][]any  `json:"rows"`
				} `json:"table"`
			}
			So(w.Code, ShouldEqual, http.StatusOK)
			So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)

			Convey("Then all three matches are included", func() {
				So(body.View, ShouldEqual, "wins-by-team")
				So(body.Table.Columns, ShouldResemble, []string{"Team", "Wins"})
				So(len(body.Table.Rows), ShouldEqual, 2)
			})
		})

		Convey("When filtering on a venue containing a comma", func() {
			w := get(h, "/api/v1/views/summary?venue="+url.QueryEscape("Punjab Cricket Association Stadium, Mohali"))
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"matches":1`)
		})

		Convey("When the view is unknown", func() {
			w := get(h, "/api/v1/views/nope")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(decodeError(w).Code, ShouldEqual, "not_found")
		})

		Convey("When a filter value is too long", func() {
			long := make([]byte, 40)
			for i := range long {
				long[i] = '9'
			}
			w := get(h, "/api/v1/views/summary?season="+string(long))
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeError(w).Code, ShouldEqual, "validation_error")
		})

		Convey("When listing views", func() {
			w := get(h, "/api/v1/views")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "head-to-head")
		})

		Convey("When fetching the dashboard", func() {
			w := get(h, "/api/v1/dashboard?season=2017")
			var d struct {
				Matches int               `json:"matches"`
				Errors  map[string]string `json:"errors"`
			}
			So(w.Code, ShouldEqual, http.StatusOK)
			So(json.Unmarshal(w.Body.Bytes(), &d), ShouldBeNil)
			So(d.Matches, ShouldEqual, 2)
			So(d.Errors, ShouldBeEmpty)
		})

		Convey("When fetching a player", func() {
			So(get(h, "/api/v1/players/V%20Kohli").Code, ShouldEqual, http.StatusOK)
			So(get(h, "/api/v1/players/nobody").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When comparing teams", func() {
			w := get(h, "/api/v1/compare?team1=A&team2=B")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"meetings":1`)

			So(get(h, "/api/v1/compare?team1=A&team2=A").Code, ShouldEqual, http.StatusBadRequest)
			So(get(h, "/api/v1/compare?team1=A").Code, ShouldEqual, http.StatusBadRequest)
		})
	})

	Convey("Given a store that cannot load", t, func() {
		h := newHandler(&staticStore{err: repository.ErrDataNotFound})

		Convey("Then data endpoints answer 503", func() {
			w := get(h, "/api/v1/dashboard")
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			So(decodeError(w).Code, ShouldEqual, "data_unavailable")
		})
	})
}
