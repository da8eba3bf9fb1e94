// Package scoring turns one round's shot records into estimated strokes
// gained metrics against a skill baseline.
package scoring

import (
	"time"

	"github.com/okian/fairway/internal/domain/expected"
	"github.com/okian/fairway/internal/domain/model"
)

// Fixed stroke costs of a tee shot outcome.
const (
	penaltyCost = 1.5
	troubleCost = 0.5
)

// Confidence thresholds per domain.
const (
	puttMinHigh   = 20
	puttMinMedium = 10
	aroundMinHigh = 12
	aroundMinMed  = 6
	covHigh       = 0.7
	covMedium     = 0.4
	teeFracHigh   = 0.8
	teeFracMedium = 0.5
)

// Overall coverage weights. The score is always present.
const (
	weightScore  = 0.5
	weightPutt   = 0.2
	weightAround = 0.2
	weightTee    = 0.1
)

const holesPerRound = 18.0

// Lookuper resolves an expected-strokes value. *expected.Table satisfies it.
type Lookuper interface {
	Lookup(bucket model.BaselineBucket, domain model.Domain, situation string) (float64, bool)
}

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithClock sets the clock used to stamp ComputedAt.
func WithClock(now func() time.Time) Option {
	return func(c *Calculator) {
		if now != nil {
			c.now = now
		}
	}
}

// Calculator computes round metrics. It holds no mutable state and is safe
// for concurrent use.
type Calculator struct {
	now func() time.Time
}

// NewCalculator creates a calculator with the given options.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compute is a convenience wrapper around NewCalculator(opts...).Compute.
func Compute(round model.Round, base model.Baseline, table Lookuper, opts ...Option) model.RoundMetrics {
	return NewCalculator(opts...).Compute(round, base, table)
}

// Compute derives metrics for round measured against base. Missing data
// yields nil fields and lower confidence, never an error.
func (c *Calculator) Compute(round model.Round, base model.Baseline, table Lookuper) model.RoundMetrics {
	if table == nil {
		table = (*expected.Table)(nil)
	}
	holes := round.HolesPlayed()
	score := round.ScoreTotal()

	m := model.RoundMetrics{
		RoundID:     round.ID,
		UserID:      round.UserID,
		Course:      round.Course,
		Date:        round.Date,
		ComputedAt:  c.now().UTC(),
		Baseline:    base,
		HolesPlayed: holes,
		ScoreTotal:  score,
		ScorePer18:  per18(float64(score), holes),
	}

	putting(&m, round, base.Bucket, table)
	greens(&m, round)
	tee(&m, round)
	around(&m, round, base.Bucket, table)

	var total float64
	parts := 0
	for _, v := range []*float64{m.ESGPutt, negate(m.AroundCost), m.ESGTee} {
		if v != nil {
			total += *v
			parts++
		}
	}
	if parts > 0 {
		m.ESGTotal = model.FloatPtr(total)
	}

	m.CoverageOverall = weightScore +
		weightPutt*m.CoveragePutt +
		weightAround*m.CoverageAround +
		weightTee*m.CoverageTee
	return m
}

// Confidence is the shared sample-size gate: High needs both enough samples
// and enough coverage, Medium needs either. It is monotone in den and cov.
func Confidence(den, minHigh, minMedium int, covHigh, covMedium, cov float64) model.Confidence {
	switch {
	case den >= minHigh && cov >= covHigh:
		return model.ConfidenceHigh
	case den >= minMedium || cov >= covMedium:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}

func putting(m *model.RoundMetrics, round model.Round, bucket model.BaselineBucket, table Lookuper) {
	total, holesWithPutts, den := 0, 0, 0
	counts := make(map[model.PuttBucket]int, len(model.PuttBuckets))
	expectedSum := 0.0

	for _, h := range round.Holes {
		if len(h.Putts) > 0 {
			total += len(h.Putts)
			holesWithPutts++
		}
		for _, p := range h.Putts {
			if p.Bucket == nil || *p.Bucket == "" {
				continue
			}
			den++
			counts[*p.Bucket]++
			if v, ok := table.Lookup(bucket, model.DomainPutt, expected.PuttSituation(*p.Bucket)); ok {
				expectedSum += v
			}
		}
	}

	if holesWithPutts > 0 {
		m.PuttsTotal = model.IntPtr(total)
		if m.HolesPlayed > 0 {
			m.PuttsPer18 = model.FloatPtr(per18(float64(total), m.HolesPlayed))
		}
	}
	if den > 0 {
		// Every putt counts against the expectation, bucketed or not.
		m.ESGPutt = model.FloatPtr(expectedSum - float64(total))
		m.PuttDen = model.IntPtr(den)
		m.Putt0To1 = model.IntPtr(counts[model.Putt0To1m])
		m.Putt1To2 = model.IntPtr(counts[model.Putt1To2m])
		m.Putt2To5 = model.IntPtr(counts[model.Putt2To5m])
		m.Putt5To8 = model.IntPtr(counts[model.Putt5To8m])
		m.Putt8Up = model.IntPtr(counts[model.Putt8mPlus])
	}
	if total > 0 {
		m.CoveragePutt = float64(den) / float64(total)
	}
	m.ConfidencePutt = Confidence(den, puttMinHigh, puttMinMedium, covHigh, covMedium, m.CoveragePutt)
}

func greens(m *model.RoundMetrics, round model.Round) {
	hits, den := 0, 0
	for _, h := range round.Holes {
		if len(h.Shots) == 0 {
			continue
		}
		den++
		if h.GIR() {
			hits++
		}
	}
	if den == 0 {
		return
	}
	m.GIRCount = model.IntPtr(hits)
	m.GIRDen = model.IntPtr(den)
	m.GIRRate = model.FloatPtr(float64(hits) / float64(den))
}

func tee(m *model.RoundMetrics, round model.Round) {
	penalties, trouble, den := 0, 0, 0
	for _, h := range round.Holes {
		if h.Tee == nil {
			continue
		}
		den++
		if h.Tee.Landing == nil {
			continue
		}
		switch {
		case h.Tee.Landing.Penalty():
			penalties++
		case h.Tee.Landing.Trouble():
			trouble++
		}
	}

	if den > 0 {
		m.TeePenaltyCount = model.IntPtr(penalties)
		m.TeeTroubleCount = model.IntPtr(trouble)
		m.TeeDen = model.IntPtr(den)
		cost := penaltyCost*float64(penalties) + troubleCost*float64(trouble)
		esg := 0.0
		if cost > 0 {
			esg = -cost
		}
		m.ESGTee = model.FloatPtr(esg)
	}
	if m.HolesPlayed > 0 {
		m.CoverageTee = float64(den) / float64(m.HolesPlayed)
	}

	played := float64(m.HolesPlayed)
	switch {
	case float64(den) >= played*teeFracHigh:
		m.ConfidenceTee = model.ConfidenceHigh
	case float64(den) >= played*teeFracMedium:
		m.ConfidenceTee = model.ConfidenceMedium
	default:
		m.ConfidenceTee = model.ConfidenceLow
	}
}

func around(m *model.RoundMetrics, round model.Round, bucket model.BaselineBucket, table Lookuper) {
	inScope, den := 0, 0
	counts := make(map[model.LeaveBucket]int, len(model.LeaveBuckets))
	cost := 0.0

	for _, h := range round.Holes {
		for _, s := range h.Shots {
			if !s.Intent.AroundTheGreen() {
				continue
			}
			inScope++
			if s.Leave == nil || *s.Leave == "" {
				continue
			}
			den++
			counts[*s.Leave]++
			if v, ok := table.Lookup(bucket, model.DomainAround, expected.LeaveSituation(*s.Leave)); ok {
				cost += v
			}
		}
	}

	if den > 0 {
		m.AroundDen = model.IntPtr(den)
		m.AroundCost = model.FloatPtr(cost)
		m.LeaveOn = model.IntPtr(counts[model.LeaveOn])
		m.Leave0To2 = model.IntPtr(counts[model.Leave0To2m])
		m.Leave2To5 = model.IntPtr(counts[model.Leave2To5m])
		m.Leave5Up = model.IntPtr(counts[model.Leave5mPlus])
		m.LeavePen = model.IntPtr(counts[model.LeavePenalty])
	}
	if inScope > 0 {
		m.CoverageAround = float64(den) / float64(inScope)
	}
	m.ConfidenceAround = Confidence(den, aroundMinHigh, aroundMinMed, covHigh, covMedium, m.CoverageAround)
}

// per18 projects a cumulative count to 18 holes. With no holes played the
// raw value is returned.
func per18(v float64, holes int) float64 {
	if holes <= 0 {
		return v
	}
	return v * holesPerRound / float64(holes)
}

func negate(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return model.FloatPtr(-*v)
}
