package testrounds

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/fairway/internal/domain/expected"
	"github.com/okian/fairway/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerator(t *testing.T) {
	Convey("Given two generators with the same seed", t, func() {
		a := New(7, WithHandicap(12))
		b := New(7, WithHandicap(12))

		Convey("Then they produce identical rounds", func() {
			ra := a.Rounds("u1", 3)
			rb := b.Rounds("u1", 3)
			So(ra, ShouldResemble, rb)
		})

		Convey("Then round IDs are stable and unique per index", func() {
			rounds := a.Rounds("u1", 5)
			seen := map[string]bool{}
			for _, r := range rounds {
				So(r.ID, ShouldNotBeEmpty)
				So(seen[r.ID], ShouldBeFalse)
				seen[r.ID] = true
			}
		})
	})

	Convey("Given a generated round", t, func() {
		start := time.Date(2025, 9, 14, 0, 0, 0, 0, time.UTC)
		rounds := New(42, WithStart(start), WithCourse("Dunes")).Rounds("u1", 2)

		Convey("Then rounds are weekly and most recent first", func() {
			So(rounds[0].Date.Equal(start), ShouldBeTrue)
			So(rounds[1].Date.Equal(start.Add(-7*24*time.Hour)), ShouldBeTrue)
			So(rounds[0].Course, ShouldEqual, "Dunes")
		})

		Convey("Then every hole is well formed", func() {
			r := rounds[0]
			So(r.HolesPlanned, ShouldEqual, 18)
			So(r.Holes, ShouldHaveLength, 18)
			So(r.Handicap, ShouldBeNil)
			for i, h := range r.Holes {
				So(h.Number, ShouldEqual, i+1)
				So(h.Par, ShouldBeBetweenOrEqual, 3, 5)
				So(h.Putts, ShouldNotBeEmpty)
				So(len(h.Shots), ShouldBeGreaterThan, 0)
				So(h.Score, ShouldBeGreaterThanOrEqualTo, len(h.Shots)+len(h.Putts))
				if h.Par == 3 {
					So(h.Tee, ShouldBeNil)
				} else {
					So(h.Tee, ShouldNotBeNil)
					So(h.Tee.Landing.Valid(), ShouldBeTrue)
				}
				for _, p := range h.Putts {
					So(p.Bucket, ShouldNotBeNil)
					So(p.Bucket.Valid(), ShouldBeTrue)
				}
			}
		})
	})

	Convey("Given a nine hole generator without bucket coverage", t, func() {
		r := New(3, WithHoles(9), WithCoverage(0), WithRoundHandicap(), WithHandicap(4)).Round("u2", time.Now())

		Convey("Then no distance buckets are recorded", func() {
			So(r.Holes, ShouldHaveLength, 9)
			So(*r.Handicap, ShouldEqual, 4)
			for _, h := range r.Holes {
				for _, p := range h.Putts {
					So(p.Bucket, ShouldBeNil)
				}
			}
		})
	})

	Convey("Given out of range options", t, func() {
		g := New(1, WithHoles(12), WithCoverage(2), WithHandicap(-1))
		So(g.holes, ShouldEqual, defaultHoles)
		So(g.coverage, ShouldEqual, defaultCoverage)
		So(g.handicap, ShouldEqual, defaultHandicap)
	})
}

func TestExpectedRows(t *testing.T) {
	Convey("Given the bundled expected-strokes table", t, func() {
		rows := ExpectedRows()

		Convey("Then it covers every tier, putt bucket and leave bucket", func() {
			So(rows, ShouldHaveLength, len(model.BaselineBuckets)*(len(model.PuttBuckets)+len(model.LeaveBuckets)))
			table := expected.New(rows)
			for _, b := range model.BaselineBuckets {
				for _, p := range model.PuttBuckets {
					_, ok := table.Lookup(b, model.DomainPutt, expected.PuttSituation(p))
					So(ok, ShouldBeTrue)
				}
				for _, l := range model.LeaveBuckets {
					_, ok := table.Lookup(b, model.DomainAround, expected.LeaveSituation(l))
					So(ok, ShouldBeTrue)
				}
			}
		})

		Convey("Then weaker tiers expect more putts", func() {
			table := expected.New(rows)
			strong, _ := table.Lookup(model.Bucket0To5, model.DomainPutt, "putt:8m+")
			weak, _ := table.Lookup(model.Bucket26Plus, model.DomainPutt, "putt:8m+")
			So(weak, ShouldBeGreaterThan, strong)
		})
	})
}

func TestPopulation(t *testing.T) {
	Convey("Given a population of three players", t, func() {
		users, rounds := Population(1, 3, 4)

		So(users, ShouldResemble, []string{"player-001", "player-002", "player-003"})
		So(rounds, ShouldHaveLength, 12)
		So(rounds[0].UserID, ShouldEqual, "player-001")
		So(rounds[11].UserID, ShouldEqual, "player-003")
	})
}

func TestRun(t *testing.T) {
	Convey("Given a server that accepts rounds and analyses players", t, func() {
		var puts atomic.Int64
		mux := http.NewServeMux()
		mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		mux.HandleFunc("PUT /rounds", func(w http.ResponseWriter, r *http.Request) {
			var round model.Round
			if err := json.NewDecoder(r.Body).Decode(&round); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			puts.Add(1)
			w.WriteHeader(http.StatusAccepted)
			_ = json.NewEncoder(w).Encode(ackResponse{Status: "accepted", RoundID: round.ID})
		})
		mux.HandleFunc("GET /users/{id}/analysis", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"user_id": r.PathValue("id"),
				"metrics": []any{map[string]any{}, map[string]any{}},
				"leaks":   []any{map[string]any{"id": "putting"}},
			})
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		cfg := &Config{BaseURL: srv.URL, Users: 2, RoundsPerUser: 2, Workers: 2, Timeout: time.Second, Seed: 5}

		Convey("When running the load", func() {
			stats, err := Run(context.Background(), cfg)

			Convey("Then every round is accepted and every player analysed", func() {
				So(err, ShouldBeNil)
				So(int(puts.Load()), ShouldEqual, 4)
				So(stats.RoundsAccepted, ShouldEqual, 4)
				So(stats.RoundsFailed, ShouldEqual, 0)
				So(stats.Analyses, ShouldEqual, 2)
				So(stats.LeaksFound, ShouldEqual, 2)
			})
		})
	})

	Convey("Given a server that is down", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()

		_, err := Run(context.Background(), &Config{BaseURL: srv.URL, Users: 1, RoundsPerUser: 1, Workers: 1, Timeout: time.Second})
		So(err, ShouldNotBeNil)
		So(strings.Contains(err.Error(), "health check"), ShouldBeTrue)
	})
}

func TestHTTPClientRetries(t *testing.T) {
	Convey("Given a server that fails once before answering", t, func() {
		var calls atomic.Int64
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		}))
		defer srv.Close()

		Convey("When retries are allowed", func() {
			var out map[string]string
			status, err := newHTTPClient(time.Second, 1).do(context.Background(), http.MethodGet, srv.URL, nil, &out)

			Convey("Then the second attempt succeeds", func() {
				So(err, ShouldBeNil)
				So(status, ShouldEqual, http.StatusOK)
				So(out["status"], ShouldEqual, "ok")
				So(calls.Load(), ShouldEqual, 2)
			})
		})

		Convey("When retries are disabled", func() {
			status, err := newHTTPClient(time.Second, 0).do(context.Background(), http.MethodGet, srv.URL, nil, nil)

			Convey("Then the failure status is reported", func() {
				So(err, ShouldNotBeNil)
				So(status, ShouldEqual, http.StatusServiceUnavailable)
			})
		})
	})
}

func TestSubmitRoundsRate(t *testing.T) {
	Convey("Given a rate limited submission", t, func() {
		var puts atomic.Int64
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			puts.Add(1)
			w.WriteHeader(http.StatusAccepted)
			_, _ = w.Write([]byte(`{"status":"accepted"}`))
		}))
		defer srv.Close()

		_, rounds := Population(3, 1, 4)
		cfg := &Config{BaseURL: srv.URL, Workers: 1, Timeout: time.Second, Rate: 20}
		stats := &Stats{}
		start := time.Now()
		submitRounds(context.Background(), cfg, rounds, stats)

		Convey("Then every round is sent at the configured pace", func() {
			So(stats.RoundsAccepted, ShouldEqual, 4)
			So(puts.Load(), ShouldEqual, 4)
			So(time.Since(start) >= 100*time.Millisecond, ShouldBeTrue)
		})
	})
}

func TestVerifyReport(t *testing.T) {
	Convey("Given analysis responses", t, func() {
		ok := analysisResponse{UserID: "u"}
		So(verifyReport("u", 1, ok), ShouldBeNil)

		wrongUser := analysisResponse{UserID: "v"}
		So(verifyReport("u", 1, wrongUser), ShouldNotBeNil)

		tooMany := analysisResponse{UserID: "u"}
		tooMany.Leaks = make([]struct {
			ID string `json:"id"`
		}, 3)
		So(verifyReport("u", 1, tooMany), ShouldNotBeNil)
	})
}
