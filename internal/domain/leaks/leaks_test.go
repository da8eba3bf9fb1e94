package leaks_test

import (
	"testing"

	"github.com/okian/fairway/internal/domain/leaks"
	"github.com/okian/fairway/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func ip(v int) *int         { return &v }
func fp(v float64) *float64 { return &v }

func teeRound(penalties, trouble, den int, cov float64, c model.Confidence) model.RoundMetrics {
	esg := -(1.5*float64(penalties) + 0.5*float64(trouble))
	return model.RoundMetrics{
		TeePenaltyCount: ip(penalties),
		TeeTroubleCount: ip(trouble),
		TeeDen:          ip(den),
		ESGTee:          fp(esg),
		CoverageTee:     cov,
		ConfidenceTee:   c,
	}
}

func puttRound(esg float64, den, long, short int, cov float64, c model.Confidence) model.RoundMetrics {
	return model.RoundMetrics{
		PuttDen:        ip(den),
		Putt8Up:        ip(long),
		Putt1To2:       ip(short),
		ESGPutt:        fp(esg),
		CoveragePutt:   cov,
		ConfidencePutt: c,
	}
}

func aroundRound(cost float64, den int, cov float64, c model.Confidence) model.RoundMetrics {
	return model.RoundMetrics{
		AroundDen:        ip(den),
		AroundCost:       fp(cost),
		CoverageAround:   cov,
		ConfidenceAround: c,
	}
}

// merge overlays the non-nil domain fields of parts onto one record.
func merge(parts ...model.RoundMetrics) model.RoundMetrics {
	var m model.RoundMetrics
	for _, p := range parts {
		if p.TeeDen != nil {
			m.TeePenaltyCount, m.TeeTroubleCount, m.TeeDen, m.ESGTee = p.TeePenaltyCount, p.TeeTroubleCount, p.TeeDen, p.ESGTee
			m.CoverageTee, m.ConfidenceTee = p.CoverageTee, p.ConfidenceTee
		}
		if p.PuttDen != nil {
			m.PuttDen, m.Putt8Up, m.Putt1To2, m.ESGPutt = p.PuttDen, p.Putt8Up, p.Putt1To2, p.ESGPutt
			m.CoveragePutt, m.ConfidencePutt = p.CoveragePutt, p.ConfidencePutt
		}
		if p.AroundDen != nil {
			m.AroundDen, m.AroundCost = p.AroundDen, p.AroundCost
			m.CoverageAround, m.ConfidenceAround = p.CoverageAround, p.ConfidenceAround
		}
	}
	return m
}

func TestRankEmpty(t *testing.T) {
	Convey("Given no metrics", t, func() {
		Convey("Then an empty non-nil list is returned", func() {
			got := leaks.Rank(nil)
			So(got, ShouldNotBeNil)
			So(got, ShouldBeEmpty)
			So(leaks.Rank([]model.RoundMetrics{}), ShouldBeEmpty)
		})
	})

	Convey("Given rounds that carry only scores", t, func() {
		So(leaks.Rank([]model.RoundMetrics{{HolesPlayed: 18, ScoreTotal: 90}}), ShouldBeEmpty)
	})
}

func TestRankTeePenalty(t *testing.T) {
	Convey("Given tee data with penalties in two rounds", t, func() {
		got := leaks.Rank([]model.RoundMetrics{
			teeRound(2, 1, 14, 1.0, model.ConfidenceHigh),
			teeRound(1, 0, 8, 0.5, model.ConfidenceMedium),
		})

		So(got, ShouldHaveLength, 1)
		f := got[0]
		So(f.ID, ShouldEqual, model.LeakTeePenalty)
		So(f.Name, ShouldEqual, "Tee Penalty")
		So(f.LossPerRound, ShouldAlmostEqual, (3.5+1.5)/2, 1e-9)
		So(f.SampleRounds, ShouldEqual, 2)
		So(f.TotalSamples, ShouldEqual, 3)
		So(f.Coverage, ShouldAlmostEqual, 0.75, 1e-9)
		So(f.Confidence, ShouldEqual, model.ConfidenceMedium)
		So(f.Action, ShouldNotBeBlank)
	})

	Convey("Given tee data where nobody found a penalty", t, func() {
		got := leaks.Rank([]model.RoundMetrics{
			teeRound(0, 3, 14, 1.0, model.ConfidenceHigh),
			teeRound(0, 0, 18, 1.0, model.ConfidenceHigh),
		})

		Convey("Then no tee-penalty leak is reported", func() {
			for _, f := range got {
				So(f.ID, ShouldNotEqual, model.LeakTeePenalty)
			}
			So(got, ShouldBeEmpty)
		})
	})

	Convey("Given rounds with a zero tee denominator", t, func() {
		m := teeRound(1, 0, 0, 0, model.ConfidenceLow)
		So(leaks.Rank([]model.RoundMetrics{m}), ShouldBeEmpty)
	})
}

func TestRankPutting(t *testing.T) {
	Convey("Given putting data dominated by long putts", t, func() {
		got := leaks.Rank([]model.RoundMetrics{
			puttRound(-2, 30, 10, 5, 0.9, model.ConfidenceHigh),
			puttRound(-4, 10, 2, 1, 0.5, model.ConfidenceLow),
		})

		So(got, ShouldHaveLength, 1)
		f := got[0]
		So(f.ID, ShouldEqual, model.LeakPutting)
		So(f.LossPerRound, ShouldEqual, -3)
		So(f.TotalSamples, ShouldEqual, 40)
		So(f.Coverage, ShouldAlmostEqual, 0.7, 1e-9)
		So(f.Confidence, ShouldEqual, model.ConfidenceLow)
		So(f.Action, ShouldContainSubstring, "8m+")
	})

	Convey("Given putting data dominated by short putts", t, func() {
		got := leaks.Rank([]model.RoundMetrics{puttRound(-1, 20, 2, 8, 1, model.ConfidenceHigh)})
		So(got[0].Action, ShouldContainSubstring, "1-2m")
	})

	Convey("Given exactly a quarter of long putts", t, func() {
		got := leaks.Rank([]model.RoundMetrics{puttRound(-1, 20, 5, 5, 1, model.ConfidenceHigh)})

		Convey("Then the generic advice is given", func() {
			So(got[0].Action, ShouldNotContainSubstring, "8m+")
			So(got[0].Action, ShouldNotContainSubstring, "1-2m")
		})
	})
}

func TestRankAround(t *testing.T) {
	Convey("Given around-the-green costs", t, func() {
		got := leaks.Rank([]model.RoundMetrics{
			aroundRound(6, 10, 0.8, model.ConfidenceMedium),
			aroundRound(4, 8, 0.6, model.ConfidenceHigh),
		})

		So(got, ShouldHaveLength, 1)
		So(got[0].ID, ShouldEqual, model.LeakAround)
		So(got[0].LossPerRound, ShouldEqual, 5)
		So(got[0].TotalSamples, ShouldEqual, 18)
		So(got[0].Confidence, ShouldEqual, model.ConfidenceMedium)
	})
}

func TestRankOrdering(t *testing.T) {
	Convey("Given all three domains", t, func() {
		rounds := []model.RoundMetrics{
			merge(
				teeRound(1, 0, 18, 1, model.ConfidenceHigh),
				puttRound(-4, 30, 0, 0, 1, model.ConfidenceHigh),
				aroundRound(3, 12, 1, model.ConfidenceHigh),
			),
		}
		got := leaks.Rank(rounds)

		Convey("Then only the two largest are kept, by magnitude", func() {
			So(got, ShouldHaveLength, 2)
			So(got[0].ID, ShouldEqual, model.LeakPutting)
			So(got[1].ID, ShouldEqual, model.LeakAround)
		})
	})

	Convey("Given a putting strength larger than the around cost", t, func() {
		got := leaks.Rank([]model.RoundMetrics{merge(
			puttRound(5, 30, 0, 0, 1, model.ConfidenceHigh),
			aroundRound(2, 12, 1, model.ConfidenceHigh),
		)})

		Convey("Then the comparison uses the absolute putting value", func() {
			So(got[0].ID, ShouldEqual, model.LeakPutting)
			So(got[0].LossPerRound, ShouldEqual, 5)
		})
	})

	Convey("Given equal magnitudes", t, func() {
		got := leaks.Rank([]model.RoundMetrics{merge(
			teeRound(2, 0, 18, 1, model.ConfidenceHigh),
			puttRound(-3, 30, 0, 0, 1, model.ConfidenceHigh),
			aroundRound(3, 12, 1, model.ConfidenceHigh),
		)})

		Convey("Then domain order breaks the tie", func() {
			So(got, ShouldHaveLength, 2)
			So(got[0].ID, ShouldEqual, model.LeakTeePenalty)
			So(got[1].ID, ShouldEqual, model.LeakPutting)
		})
	})

	Convey("Given many rounds", t, func() {
		var rounds []model.RoundMetrics
		for i := 0; i < 12; i++ {
			rounds = append(rounds, merge(
				teeRound(i%3, 1, 18, 1, model.ConfidenceHigh),
				puttRound(float64(i)-6, 30, 3, 3, 1, model.ConfidenceMedium),
				aroundRound(float64(i%4), 10, 0.9, model.ConfidenceHigh),
			))
		}
		got := leaks.Rank(rounds)

		Convey("Then the result is sorted and bounded", func() {
			So(len(got), ShouldBeLessThanOrEqualTo, leaks.MaxFindings)
			mag := func(f model.LeakFinding) float64 {
				if f.ID == model.LeakAround || f.LossPerRound >= 0 {
					return f.LossPerRound
				}
				return -f.LossPerRound
			}
			for i := 1; i < len(got); i++ {
				So(mag(got[i-1]), ShouldBeGreaterThanOrEqualTo, mag(got[i]))
			}
		})
	})
}
