// Package leaks ranks the biggest recurring stroke losses across rounds.
package leaks

import (
	"math"
	"sort"

	"github.com/okian/fairway/internal/domain/model"
)

// MaxFindings is the number of leaks reported.
const MaxFindings = 2

// Share of bucketed putts above which a distance band drives the advice.
const dominantShare = 0.25

// Display names and advice.
const (
	nameTee     = "Tee Penalty"
	namePutting = "Putting"
	nameAround  = "Around the Green"

	actionTee         = "Cut OB and hazard tee shots. Club down one to find more fairways."
	actionLongPutt    = "Practise distance control from 8m+ to remove three-putts. Pace matters more than stroke tempo."
	actionShortPutt   = "Make the 1-2m routine consistent. Repeat the same setup on every short putt."
	actionPuttGeneric = "Work on putting distance control to beat the expected putt count."
	actionAround      = "Practise control shots that finish within 5m of the hole. Accuracy matters more than distance."
)

// Rank folds per-round metrics into at most two findings, largest loss
// first. It never returns nil.
func Rank(metrics []model.RoundMetrics) []model.LeakFinding {
	out := make([]model.LeakFinding, 0, 3)
	if len(metrics) == 0 {
		return out
	}
	if f, ok := teePenalty(metrics); ok {
		out = append(out, f)
	}
	if f, ok := putting(metrics); ok {
		out = append(out, f)
	}
	if f, ok := around(metrics); ok {
		out = append(out, f)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return magnitude(out[i]) > magnitude(out[j])
	})
	if len(out) > MaxFindings {
		out = out[:MaxFindings]
	}
	return out
}

// magnitude compares signed losses by size. Around-the-green is already an
// unsigned cost.
func magnitude(f model.LeakFinding) float64 {
	if f.ID == model.LeakAround {
		return f.LossPerRound
	}
	return math.Abs(f.LossPerRound)
}

type tally struct {
	rounds     int
	loss       float64
	coverage   float64
	samples    int
	confidence []model.Confidence
}

func (t *tally) add(loss, coverage float64, samples int, c model.Confidence) {
	t.rounds++
	t.loss += loss
	t.coverage += coverage
	t.samples += samples
	t.confidence = append(t.confidence, c)
}

func (t *tally) finding(id model.LeakID, name, action string) model.LeakFinding {
	n := float64(t.rounds)
	return model.LeakFinding{
		ID:           id,
		Name:         name,
		LossPerRound: t.loss / n,
		SampleRounds: t.rounds,
		TotalSamples: t.samples,
		Coverage:     t.coverage / n,
		Confidence:   model.MinConfidence(t.confidence...),
		Action:       action,
	}
}

func teePenalty(metrics []model.RoundMetrics) (model.LeakFinding, bool) {
	var t tally
	for _, m := range metrics {
		if m.TeeDen == nil || *m.TeeDen == 0 || m.ESGTee == nil {
			continue
		}
		t.add(math.Abs(*m.ESGTee), m.CoverageTee, deref(m.TeePenaltyCount), m.ConfidenceTee)
	}
	// Trouble-only costs are not a penalty leak.
	if t.rounds == 0 || t.samples == 0 {
		return model.LeakFinding{}, false
	}
	return t.finding(model.LeakTeePenalty, nameTee, actionTee), true
}

func putting(metrics []model.RoundMetrics) (model.LeakFinding, bool) {
	var t tally
	long, short := 0, 0
	for _, m := range metrics {
		if m.PuttDen == nil || *m.PuttDen == 0 || m.ESGPutt == nil {
			continue
		}
		t.add(*m.ESGPutt, m.CoveragePutt, *m.PuttDen, m.ConfidencePutt)
		long += deref(m.Putt8Up)
		short += deref(m.Putt1To2)
	}
	if t.rounds == 0 {
		return model.LeakFinding{}, false
	}

	den := float64(t.samples)
	action := actionPuttGeneric
	switch {
	case float64(long)/den > dominantShare:
		action = actionLongPutt
	case float64(short)/den > dominantShare:
		action = actionShortPutt
	}
	return t.finding(model.LeakPutting, namePutting, action), true
}

func around(metrics []model.RoundMetrics) (model.LeakFinding, bool) {
	var t tally
	for _, m := range metrics {
		if m.AroundDen == nil || *m.AroundDen == 0 || m.AroundCost == nil {
			continue
		}
		t.add(*m.AroundCost, m.CoverageAround, *m.AroundDen, m.ConfidenceAround)
	}
	if t.rounds == 0 {
		return model.LeakFinding{}, false
	}
	return t.finding(model.LeakAround, nameAround, actionAround), true
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
