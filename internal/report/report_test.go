package report

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/okian/iplstats/internal/adapters/http/api"
	"github.com/okian/iplstats/internal/adapters/repository"
	service "github.com/okian/iplstats/internal/app"
	"github.com/okian/iplstats/internal/config"
	"github.com/okian/iplstats/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

const matchesCSV = `id,season,city,date,team1,team2,toss_winner,toss_decision,result,dl_applied,winner,win_by_runs,win_by_wickets,player_of_match,venue
1,2017,Hyderabad,2017-04-05,Sunrisers Hyderabad,Royal Challengers Bangalore,Royal Challengers Bangalore,field,normal,0,Sunrisers Hyderabad,35,0,Yuvraj Singh,Rajiv Gandhi International Stadium
2,2016,Mohali,2016-04-06,Delhi Daredevils,Mumbai Indians,Mumbai Indians,bat,normal,0,Mumbai Indians,10,0,RG Sharma,"Punjab Cricket Association Stadium, Mohali"
`

const deliveriesCSV = `match_id,inning,batting_team,bowling_team,over,ball,batsman,non_striker,bowler,is_super_over,wide_runs,bye_runs,legbye_runs,noball_runs,penalty_runs,batsman_runs,extra_runs,total_runs,player_dismissed,dismissal_kind,fielder
1,1,Sunrisers Hyderabad,Royal Challengers Bangalore,1,1,DA Warner,S Dhawan,TS Mills,0,0,0,0,0,0,4,0,4,,,
1,1,Sunrisers Hyderabad,Royal Challengers Bangalore,1,2,DA Warner,S Dhawan,TS Mills,0,0,0,0,0,0,6,0,6,,,
1,2,Royal Challengers Bangalore,Sunrisers Hyderabad,1,1,CH Gayle,Mandeep Singh,B Kumar,0,0,0,0,0,0,0,0,0,CH Gayle,bowled,
2,1,Mumbai Indians,Delhi Daredevils,1,1,RG Sharma,PA Patel,Sandeep Sharma,0,1,0,0,0,0,0,1,1,,,
`

func dataDir(t *testing.T) string {
	dir := t.TempDir()
	for name, content := range map[string]string{
		repository.DefaultMatchesFile:    matchesCSV,
		repository.DefaultDeliveriesFile: deliveriesCSV,
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func run(args ...string) (string, error) {
	var out bytes.Buffer
	cmd := NewRootCommand(WithOutput(&out))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMain(m *testing.M) {
	_ = os.Unsetenv("IPL_CONFIG")
	if err := logger.Init(logger.WithOutput(io.Discard)); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestCommands(t *testing.T) {
	Convey("Given a data directory", t, func() {
		dir := dataDir(t)

		Convey("When printing the summary as a table", func() {
			out, err := run("--data-dir", dir, "summary")

			Convey("Then the totals are rendered", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "Metric")
				So(out, ShouldContainSubstring, "Matches")
			})
		})

		Convey("When printing a view as JSON", func() {
			out, err := run("--data-dir", dir, "--format", "json", "view", service.ViewWinsByTeam)
			So(err, ShouldBeNil)

			var res struct {
				View  string `json:"view"`
				Table struct {
					Rows [][]any `json:"rows"`
				} `json:"table"`
			}
			So(json.Unmarshal([]byte(out), &res), ShouldBeNil)
			So(res.View, ShouldEqual, service.ViewWinsByTeam)
			So(len(res.Table.Rows), ShouldEqual, 2)
		})

		Convey("When filtering on a venue with a comma", func() {
			out, err := run("--data-dir", dir, "--format", "json",
				"--venue", "Punjab Cricket Association Stadium, Mohali", "summary")
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, `"matches": 1`)
		})

		Convey("When printing the dashboard as YAML", func() {
			out, err := run("--data-dir", dir, "--format", "yaml", "--season", "2017", "dashboard")
			So(err, ShouldBeNil)

			var d map[string]any
			So(yaml.Unmarshal([]byte(out), &d), ShouldBeNil)
			So(d["matches"], ShouldEqual, 1)
		})

		Convey("When comparing two teams", func() {
			out, err := run("--data-dir", dir, "compare", "Sunrisers Hyderabad", "Royal Challengers Bangalore")
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, "Sunrisers Hyderabad")
		})

		Convey("When comparing a team with itself", func() {
			_, err := run("--data-dir", dir, "compare", "Mumbai Indians", "Mumbai Indians")
			So(errors.Is(err, service.ErrInvalidArgument), ShouldBeTrue)
		})

		Convey("When asking for an unknown player", func() {
			_, err := run("--data-dir", dir, "player", "Nobody")
			So(errors.Is(err, service.ErrPlayerNotFound), ShouldBeTrue)
		})

		Convey("When asking for an unknown view", func() {
			_, err := run("--data-dir", dir, "view", "nope")
			So(errors.Is(err, service.ErrUnknownView), ShouldBeTrue)
		})

		Convey("When the format is unknown", func() {
			_, err := run("--data-dir", dir, "--format", "xml", "summary")
			So(errors.Is(err, ErrUnknownFormat), ShouldBeTrue)
		})

		Convey("When listing options with the default aliases", func() {
			out, err := run("--data-dir", dir, "--format", "json", "options")
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, "Delhi Capitals")
			So(out, ShouldNotContainSubstring, "Delhi Daredevils")
		})
	})

	Convey("Given a missing data directory", t, func() {
		_, err := run("--data-dir", filepath.Join(t.TempDir(), "absent"), "summary")
		So(errors.Is(err, repository.ErrDataNotFound), ShouldBeTrue)
	})

	Convey("Given the views command", t, func() {
		out, err := run("views")
		So(err, ShouldBeNil)
		So(out, ShouldStartWith, service.ViewSummary+"\n")
	})
}

func TestRunSmoke(t *testing.T) {
	Convey("Given a running server over the fixture data", t, func() {
		store := repository.NewCachedStore(repository.NewCSVSource(dataDir(t)))
		So(store.Refresh(context.Background()), ShouldBeNil)

		r := api.NewRouter(api.RouterConfig{})
		api.NewServer(service.New(store), service.New(store)).Register(context.Background(), r)
		srv := httptest.NewServer(r)
		defer srv.Close()

		Convey("When running the smoke check", func() {
			st, err := RunSmoke(context.Background(), SmokeConfig{BaseURL: srv.URL, Rounds: 2, Workers: 4})

			Convey("Then every view answers", func() {
				So(err, ShouldBeNil)
				So(st.Failed, ShouldEqual, 0)
				// unfiltered plus one selection per default season
				So(st.Requests, ShouldEqual, int64(2*3*len(service.Views())))
			})
		})

		Convey("When the server is unreachable", func() {
			_, err := RunSmoke(context.Background(), SmokeConfig{BaseURL: "http://127.0.0.1:1", Rounds: 1})
			So(errors.Is(err, ErrSmokeFailed), ShouldBeTrue)
		})
	})
}

func newLimitedServer(t *testing.T, cfg *config.Config) *httptest.Server {
	store := repository.NewCachedStore(repository.NewCSVSource(dataDir(t)))
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	r := api.NewRouter(api.RouterConfig{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitRequests:  cfg.RateLimitRequests,
		RateLimitWindow:    cfg.RateLimitWindow(),
	})
	svc := service.New(store)
	api.NewServer(svc, svc).Register(context.Background(), r)
	return httptest.NewServer(r)
}

func TestRunSmoke_RateLimited(t *testing.T) {
	Convey("Given a server rate limited with the default configuration", t, func() {
		srv := newLimitedServer(t, config.New())
		defer srv.Close()

		Convey("When running the smoke check with the command defaults", func() {
			st, err := RunSmoke(context.Background(), SmokeConfig{
				BaseURL:    srv.URL,
				Rounds:     defaultSmokeRounds,
				Workers:    8,
				MaxRetries: defaultSmokeRetries,
			})

			Convey("Then it stays within the limit and every view answers", func() {
				So(err, ShouldBeNil)
				So(st.Failed, ShouldEqual, 0)
				So(st.Throttled, ShouldEqual, 0)
			})
		})
	})

	Convey("Given a server whose limit is smaller than the smoke run", t, func() {
		cfg := config.New()
		cfg.RateLimitRequests = 30
		cfg.RateLimitWindowSeconds = 1
		srv := newLimitedServer(t, cfg)
		defer srv.Close()

		Convey("When running the smoke check", func() {
			st, err := RunSmoke(context.Background(), SmokeConfig{BaseURL: srv.URL, Workers: 4, MaxRetries: 20})

			Convey("Then throttled requests are retried until they succeed", func() {
				So(err, ShouldBeNil)
				So(st.Failed, ShouldEqual, 0)
				So(st.Requests, ShouldEqual, int64(3*len(service.Views())))
				So(st.Throttled, ShouldBeGreaterThan, 0)
			})
		})

		Convey("When retries are disabled", func() {
			st, err := RunSmoke(context.Background(), SmokeConfig{BaseURL: srv.URL, Workers: 4})

			Convey("Then the throttled requests fail the run", func() {
				So(errors.Is(err, ErrSmokeFailed), ShouldBeTrue)
				So(st.Failed, ShouldBeGreaterThan, 0)
				So(st.Throttled, ShouldEqual, 0)
			})
		})
	})
}

func TestRetryAfter(t *testing.T) {
	Convey("Retry-After is read in seconds", t, func() {
		So(retryAfter("60"), ShouldEqual, time.Minute)
		So(retryAfter(" 2 "), ShouldEqual, 2*time.Second)
		So(retryAfter(""), ShouldEqual, defaultRetryAfter)
		So(retryAfter("soon"), ShouldEqual, defaultRetryAfter)
		So(retryAfter("0"), ShouldEqual, defaultRetryAfter)
		So(retryAfter("86400"), ShouldEqual, maxRetryAfter)
	})
}

func TestWriteViewErrors(t *testing.T) {
	Convey("Failed dashboard views are listed by name", t, func() {
		errs := map[string]string{
			"wins-by-team":   "boom",
			"extras":         "no data",
			"top-run-scorer": "timeout",
			"batting-stats":  "bad row",
		}
		want := "batting-stats: bad row\nextras: no data\ntop-run-scorer: timeout\nwins-by-team: boom\n"
		for range 20 {
			var buf bytes.Buffer
			writeViewErrors(&buf, errs)
			So(buf.String(), ShouldEqual, want)
		}
	})
}
