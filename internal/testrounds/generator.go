// Package testrounds generates deterministic synthetic rounds and the
// bundled expected-strokes table, for tests, demos and load runs.
package testrounds

import (
	"bytes"
	_ "embed"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/okian/fairway/internal/domain/expected"
	"github.com/okian/fairway/internal/domain/model"
)

//go:embed expected_strokes.yaml
var expectedYAML []byte

// ExpectedRows returns the bundled expected-strokes table.
func ExpectedRows() []expected.Row {
	rows, err := expected.DecodeRows(bytes.NewReader(expectedYAML))
	if err != nil {
		panic(fmt.Sprintf("testrounds: bundled table: %v", err))
	}
	return rows
}

// roundNamespace scopes generated round IDs.
var roundNamespace = uuid.MustParse("6f1d8a52-3c1e-4a7b-9d55-0b6e2f1c9a10")

// Standard par 72 layout.
var pars = [18]int{4, 4, 3, 5, 4, 4, 3, 4, 5, 4, 3, 4, 5, 4, 4, 3, 4, 5}

// Generation constants.
const (
	defaultHandicap  = 15.0
	defaultHoles     = 18
	defaultCoverage  = 1.0
	roundInterval    = 7 * 24 * time.Hour
	maxGIRRate       = 0.75
	minGIRRate       = 0.1
	girPerHandicap   = 0.02
	teePenaltyBase   = 0.02
	teePenaltyPerHcp = 0.004
	bunkerBase       = 0.05
	bunkerPerHcp     = 0.002
	roughBase        = 0.25
	roughPerHcp      = 0.01
	threePuttBase    = 0.05
	threePuttPerHcp  = 0.01
	onePuttShort     = 0.5
	scrambleBase     = 0.45
	scramblePerHcp   = 0.015
)

// Generator produces rounds for one skill level. It is not safe for
// concurrent use.
type Generator struct {
	rng      *rand.Rand
	handicap float64
	holes    int
	coverage float64
	course   string
	start    time.Time
	stamp    bool
}

// Option configures a Generator.
type Option func(*Generator)

// WithHandicap sets the simulated playing level.
func WithHandicap(h float64) Option {
	return func(g *Generator) {
		if h >= 0 {
			g.handicap = h
		}
	}
}

// WithHoles sets the planned holes per round, 9 or 18.
func WithHoles(n int) Option {
	return func(g *Generator) {
		if n == 9 || n == 18 {
			g.holes = n
		}
	}
}

// WithCoverage sets the share of putts and ground shots that carry a
// distance bucket.
func WithCoverage(c float64) Option {
	return func(g *Generator) {
		if c >= 0 && c <= 1 {
			g.coverage = c
		}
	}
}

// WithCourse sets the course name.
func WithCourse(name string) Option {
	return func(g *Generator) {
		if name != "" {
			g.course = name
		}
	}
}

// WithStart sets the date of the most recent round.
func WithStart(t time.Time) Option {
	return func(g *Generator) {
		if !t.IsZero() {
			g.start = t.UTC()
		}
	}
}

// WithRoundHandicap records the handicap on every round.
func WithRoundHandicap() Option {
	return func(g *Generator) { g.stamp = true }
}

// New creates a generator. The same seed and options yield the same rounds.
func New(seed uint64, opts ...Option) *Generator {
	g := &Generator{
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		handicap: defaultHandicap,
		holes:    defaultHoles,
		coverage: defaultCoverage,
		course:   "Synthetic Links",
		start:    time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Rounds generates n rounds for userID, one per week, most recent first.
// IDs are derived from userID and the round index.
func (g *Generator) Rounds(userID string, n int) []model.Round {
	out := make([]model.Round, 0, n)
	for i := range n {
		date := g.start.Add(-time.Duration(i) * roundInterval)
		r := g.Round(userID, date)
		r.ID = uuid.NewSHA1(roundNamespace, fmt.Appendf(nil, "%s/%d", userID, i)).String()
		out = append(out, r)
	}
	return out
}

// Round generates one complete round without ID.
func (g *Generator) Round(userID string, date time.Time) model.Round {
	r := model.Round{
		UserID:       userID,
		Course:       g.course,
		Date:         date,
		HolesPlanned: g.holes,
		InputMode:    "serious",
		CreatedAt:    date,
		UpdatedAt:    date,
		Holes:        make([]model.Hole, 0, g.holes),
	}
	if g.stamp {
		r.Handicap = model.FloatPtr(g.handicap)
	}
	for i := range g.holes {
		r.Holes = append(r.Holes, g.hole(i+1, pars[i]))
	}
	return r
}

func (g *Generator) hole(number, par int) model.Hole {
	h := model.Hole{Number: number, Par: par}
	strokes := 0

	// The tee shot of a par 3 is its approach and is recorded as a ground shot.
	approaches := par - 2
	if par > 3 {
		h.Tee = g.tee()
		strokes++
		if h.Tee.Landing != nil && h.Tee.Landing.Penalty() {
			strokes++
		}
		approaches = par - 3
	}

	gir := g.chance(clamp(maxGIRRate-g.handicap*girPerHandicap, minGIRRate, maxGIRRate))
	for i := range approaches {
		shot := model.Shot{Intent: model.IntentApproach, Club: "7i"}
		if i < approaches-1 {
			shot.Intent = model.IntentLayup
			shot.Club = "5w"
		}
		if gir && i == approaches-1 {
			shot.Result = model.ResultGIR
		}
		h.Shots = append(h.Shots, shot)
	}
	strokes += len(h.Shots)

	var first model.PuttBucket
	if gir {
		first = g.pick([]model.PuttBucket{model.Putt2To5m, model.Putt5To8m, model.Putt8mPlus})
	} else {
		leave := g.leave()
		h.Shots = append(h.Shots, model.Shot{Intent: model.IntentARG, Club: "SW", Leave: bucketed(g, leave)})
		strokes++
		switch leave {
		case model.LeaveOn, model.Leave0To2m:
			first = g.pick([]model.PuttBucket{model.Putt0To1m, model.Putt1To2m})
		case model.LeavePenalty:
			strokes++
			first = model.Putt5To8m
		default:
			first = g.pick([]model.PuttBucket{model.Putt2To5m, model.Putt5To8m})
		}
	}

	for _, b := range g.putts(first) {
		h.Putts = append(h.Putts, model.Putt{Bucket: bucketed(g, b)})
	}
	h.Score = strokes + len(h.Putts)
	return h
}

func (g *Generator) tee() *model.TeeResult {
	p := g.rng.Float64()
	penalty := teePenaltyBase + g.handicap*teePenaltyPerHcp
	bunker := penalty + bunkerBase + g.handicap*bunkerPerHcp
	rough := bunker + roughBase + g.handicap*roughPerHcp

	landing := model.LandingFairway
	switch {
	case p < penalty/2:
		landing = model.LandingOB
	case p < penalty:
		landing = model.LandingHazard
	case p < bunker:
		landing = model.LandingBunker
	case p < rough:
		landing = model.LandingRough
	}
	return &model.TeeResult{Landing: &landing, Club: "D"}
}

func (g *Generator) leave() model.LeaveBucket {
	scramble := clamp(scrambleBase-g.handicap*scramblePerHcp, 0.05, scrambleBase)
	p := g.rng.Float64()
	switch {
	case p < scramble*0.3:
		return model.LeaveOn
	case p < scramble:
		return model.Leave0To2m
	case p < scramble+0.3:
		return model.Leave2To5m
	case p < 0.97:
		return model.Leave5mPlus
	default:
		return model.LeavePenalty
	}
}

// putts returns the distance of every putt starting from first.
func (g *Generator) putts(first model.PuttBucket) []model.PuttBucket {
	switch first {
	case model.Putt0To1m:
		return []model.PuttBucket{first}
	case model.Putt1To2m:
		if g.chance(onePuttShort) {
			return []model.PuttBucket{first}
		}
		return []model.PuttBucket{first, model.Putt0To1m}
	}
	if g.chance(threePuttBase + g.handicap*threePuttPerHcp) {
		return []model.PuttBucket{first, model.Putt1To2m, model.Putt0To1m}
	}
	return []model.PuttBucket{first, model.Putt0To1m}
}

// bucketed drops the bucket with probability 1-coverage.
func bucketed[T any](g *Generator, v T) *T {
	if g.coverage < 1 && !g.chance(g.coverage) {
		return nil
	}
	return &v
}

func (g *Generator) pick(options []model.PuttBucket) model.PuttBucket {
	return options[g.rng.IntN(len(options))]
}

func (g *Generator) chance(p float64) bool { return g.rng.Float64() < p }

func clamp(v, lo, hi float64) float64 { return max(lo, min(hi, v)) }
