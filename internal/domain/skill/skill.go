// Package skill estimates a player's skill index from recent rounds.
package skill

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/okian/fairway/internal/domain/baseline"
	"github.com/okian/fairway/internal/domain/model"
)

// Estimation constants.
const (
	maxRounds      = 10
	minRounds      = 4
	trimMinRounds  = 8
	trimEachSide   = 2
	scratchPar     = 72.0
	holesPerRound  = 18.0
	minIndex       = 0.0
	maxIndex       = 30.0
	highShare18    = 0.6
	highCoverage   = 0.7
	mediumCoverage = 0.4

	defaultIndex        = 15.0
	defaultAdjScoreMean = 90.0
)

// Default is the estimate returned when fewer than four rounds qualify.
func Default() model.SkillEstimate {
	return model.SkillEstimate{
		SkillIndex:   defaultIndex,
		Bucket:       model.DefaultBucket,
		Confidence:   model.ConfidenceLow,
		AdjScoreMean: defaultAdjScoreMean,
	}
}

// Estimate derives a skill index from rounds sorted most recent first. Only
// the first ten qualifying rounds are used.
func Estimate(rounds []model.Round) model.SkillEstimate {
	valid := qualifying(rounds)
	if len(valid) < minRounds {
		return Default()
	}
	n := float64(len(valid))

	adj := make([]float64, len(valid))
	holesEquiv := 0
	full := 0
	for i, r := range valid {
		adj[i] = float64(r.ScoreTotal()) * per18(r)
		holesEquiv += r.HolesPlanned
		if r.HolesPlanned == 18 {
			full++
		}
	}
	mean := centralScore(adj)

	var putts, gir, pens []float64
	for _, r := range valid {
		scale := per18(r)
		if v, ok := roundPutts(r); ok {
			putts = append(putts, v*scale)
		}
		if v, ok := roundGIR(r); ok {
			gir = append(gir, v*scale)
		}
		if v, ok := roundPenalties(r); ok {
			pens = append(pens, v*scale)
		}
	}
	puttsPer18 := meanOrNil(putts)
	girPer18 := meanOrNil(gir)
	pensPer18 := meanOrNil(pens)

	si := clamp(mean - scratchPar)
	if puttsPer18 != nil {
		switch {
		case *puttsPer18 >= 36:
			si += 2
		case *puttsPer18 <= 30:
			si--
		}
	}
	if girPer18 != nil {
		switch {
		case *girPer18 >= 10:
			si -= 2
		case *girPer18 <= 4:
			si++
		}
	}
	if pensPer18 != nil {
		switch {
		case *pensPer18 >= 2:
			si += 2
		case *pensPer18 == 0:
			si -= 0.5
		}
	}
	si = clamp(si)

	coverage := 0.5*(n/maxRounds) +
		0.2*(float64(len(putts))/n) +
		0.2*(float64(len(gir))/n) +
		0.1*(float64(len(pens))/n)

	return model.SkillEstimate{
		SkillIndex:      si,
		Bucket:          baseline.BucketFor(si),
		Confidence:      confidence(len(valid), coverage, float64(full)/n),
		NRounds:         len(valid),
		HolesEquiv:      holesEquiv,
		AdjScoreMean:    mean,
		PuttsPer18:      puttsPer18,
		GIRPer18:        girPer18,
		PenaltiesPer18:  pensPer18,
		CoverageOverall: coverage,
	}
}

func qualifying(rounds []model.Round) []model.Round {
	out := make([]model.Round, 0, maxRounds)
	for _, r := range rounds {
		if len(out) == maxRounds {
			break
		}
		if r.HolesPlanned > 0 && r.Scored() {
			out = append(out, r)
		}
	}
	return out
}

func per18(r model.Round) float64 { return holesPerRound / float64(r.HolesPlanned) }

// centralScore is a symmetric trimmed mean for eight or more scores and the
// median otherwise.
func centralScore(scores []float64) float64 {
	sorted := append([]float64(nil), scores...)
	sort.Float64s(sorted)
	if len(sorted) >= trimMinRounds {
		return stat.Mean(sorted[trimEachSide:len(sorted)-trimEachSide], nil)
	}
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func roundPutts(r model.Round) (float64, bool) {
	total := 0
	for _, h := range r.Holes {
		total += len(h.Putts)
	}
	return float64(total), total > 0
}

func roundGIR(r model.Round) (float64, bool) {
	recorded := false
	hits := 0
	for _, h := range r.Holes {
		if len(h.Shots) > 0 {
			recorded = true
		}
		if h.GIR() {
			hits++
		}
	}
	return float64(hits), recorded
}

func roundPenalties(r model.Round) (float64, bool) {
	recorded := false
	pens := 0
	for _, h := range r.Holes {
		if h.Tee == nil {
			continue
		}
		recorded = true
		if h.Tee.Landing != nil && h.Tee.Landing.Penalty() {
			pens++
		}
	}
	return float64(pens), recorded
}

func meanOrNil(xs []float64) *float64 {
	if len(xs) == 0 {
		return nil
	}
	return model.FloatPtr(stat.Mean(xs, nil))
}

func clamp(v float64) float64 { return max(minIndex, min(maxIndex, v)) }

func confidence(n int, coverage, share18 float64) model.Confidence {
	switch {
	case n >= trimMinRounds && coverage >= highCoverage && share18 >= highShare18:
		return model.ConfidenceHigh
	case n >= minRounds || coverage >= mediumCoverage:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}
