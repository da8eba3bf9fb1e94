package model_test

import (
	"testing"

	"github.com/okian/fairway/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestConfidenceOrder(t *testing.T) {
	Convey("Given the three confidence levels", t, func() {
		Convey("Then they are totally ordered Low < Medium < High", func() {
			So(model.ConfidenceLow.Rank(), ShouldBeLessThan, model.ConfidenceMedium.Rank())
			So(model.ConfidenceMedium.Rank(), ShouldBeLessThan, model.ConfidenceHigh.Rank())
		})

		Convey("When reducing a list to its worst level", func() {
			So(model.MinConfidence(model.ConfidenceHigh, model.ConfidenceMedium, model.ConfidenceHigh), ShouldEqual, model.ConfidenceMedium)
			So(model.MinConfidence(model.ConfidenceHigh, model.ConfidenceLow), ShouldEqual, model.ConfidenceLow)
			So(model.MinConfidence(model.ConfidenceHigh), ShouldEqual, model.ConfidenceHigh)
		})

		Convey("When the list is empty", func() {
			So(model.MinConfidence(), ShouldEqual, model.ConfidenceHigh)
		})

		Convey("When the list carries an unknown value", func() {
			So(model.MinConfidence(model.ConfidenceHigh, model.Confidence("bogus")), ShouldEqual, model.ConfidenceLow)
		})
	})
}

func TestParseConfidence(t *testing.T) {
	Convey("Given stored confidence strings of mixed case", t, func() {
		So(model.ParseConfidence("high"), ShouldEqual, model.ConfidenceHigh)
		So(model.ParseConfidence("MEDIUM"), ShouldEqual, model.ConfidenceMedium)
		So(model.ParseConfidence(" Low "), ShouldEqual, model.ConfidenceLow)
		So(model.ParseConfidence(""), ShouldEqual, model.ConfidenceLow)
	})
}

func TestVocabularies(t *testing.T) {
	Convey("Given the closed vocabularies", t, func() {
		Convey("Then known values are valid", func() {
			So(model.IntentARG.Valid(), ShouldBeTrue)
			So(model.Leave5mPlus.Valid(), ShouldBeTrue)
			So(model.Putt8mPlus.Valid(), ShouldBeTrue)
			So(model.LandingHazard.Valid(), ShouldBeTrue)
			So(model.Bucket26Plus.Valid(), ShouldBeTrue)
			So(model.DomainAround.Valid(), ShouldBeTrue)
		})

		Convey("Then unknown values are rejected", func() {
			So(model.Intent("drive").Valid(), ShouldBeFalse)
			So(model.LeaveBucket("10m").Valid(), ShouldBeFalse)
			So(model.PuttBucket("").Valid(), ShouldBeFalse)
			So(model.Landing("Trouble").Valid(), ShouldBeFalse)
			So(model.BaselineBucket("30+").Valid(), ShouldBeFalse)
			So(model.Domain("TEE").Valid(), ShouldBeFalse)
		})

		Convey("Then layups are not around-the-green shots", func() {
			So(model.IntentLayup.AroundTheGreen(), ShouldBeFalse)
			So(model.IntentApproach.AroundTheGreen(), ShouldBeTrue)
			So(model.IntentRecovery.AroundTheGreen(), ShouldBeTrue)
		})

		Convey("Then OB and hazard are penalties and bunker is trouble", func() {
			So(model.LandingOB.Penalty(), ShouldBeTrue)
			So(model.LandingHazard.Penalty(), ShouldBeTrue)
			So(model.LandingBunker.Penalty(), ShouldBeFalse)
			So(model.LandingBunker.Trouble(), ShouldBeTrue)
			So(model.LandingFairway.Trouble(), ShouldBeFalse)
		})
	})
}

func TestHole(t *testing.T) {
	Convey("Given a par 4 hole", t, func() {
		hole := model.Hole{Number: 1, Par: 4, Score: 5}

		Convey("When no ground shots are recorded", func() {
			Convey("Then it never counts as a GIR", func() {
				So(hole.GIR(), ShouldBeFalse)
			})
		})

		Convey("When two ground shots are recorded", func() {
			hole.Shots = []model.Shot{{Intent: model.IntentApproach}, {Intent: model.IntentARG}}
			Convey("Then it counts as a GIR by shot count", func() {
				So(hole.GIR(), ShouldBeTrue)
			})
		})

		Convey("When three shots are recorded and one is tagged GIR", func() {
			hole.Shots = []model.Shot{
				{Intent: model.IntentLayup},
				{Intent: model.IntentApproach, Result: model.ResultGIR},
				{Intent: model.IntentARG},
			}
			So(hole.GIR(), ShouldBeTrue)
		})

		Convey("When three untagged shots are recorded", func() {
			hole.Shots = []model.Shot{{Intent: model.IntentLayup}, {Intent: model.IntentApproach}, {Intent: model.IntentARG}}
			So(hole.GIR(), ShouldBeFalse)
		})

		Convey("When two putts are recorded", func() {
			hole.Putts = []model.Putt{{}, {}}
			Convey("Then only the last one is made", func() {
				So(hole.PuttMade(0), ShouldBeFalse)
				So(hole.PuttMade(1), ShouldBeTrue)
				So(hole.PuttMade(2), ShouldBeFalse)
			})
		})
	})
}

func TestRound(t *testing.T) {
	Convey("Given a round with three holes", t, func() {
		round := model.Round{
			HolesPlanned: 9,
			Holes: []model.Hole{
				{Number: 1, Par: 4, Score: 5},
				{Number: 2, Par: 3, Score: 3},
				{Number: 3, Par: 5, Score: 6},
			},
		}

		So(round.HolesPlayed(), ShouldEqual, 3)
		So(round.ScoreTotal(), ShouldEqual, 14)
		So(round.Scored(), ShouldBeTrue)

		Convey("When no hole has a score", func() {
			empty := model.Round{HolesPlanned: 18, Holes: []model.Hole{{Number: 1, Par: 4}}}
			So(empty.Scored(), ShouldBeFalse)
		})
	})
}
