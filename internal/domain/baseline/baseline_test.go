package baseline_test

import (
	"testing"

	"github.com/okian/fairway/internal/domain/baseline"
	"github.com/okian/fairway/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBucketFor(t *testing.T) {
	Convey("Given handicap values on and around each threshold", t, func() {
		cases := []struct {
			v    float64
			want model.BaselineBucket
		}{
			{-3, model.Bucket0To5},
			{0, model.Bucket0To5},
			{5, model.Bucket0To5},
			{5.1, model.Bucket6To10},
			{10, model.Bucket6To10},
			{15, model.Bucket11To15},
			{15.5, model.Bucket16To20},
			{20, model.Bucket16To20},
			{25, model.Bucket21To25},
			{25.01, model.Bucket26Plus},
			{54, model.Bucket26Plus},
		}
		for _, c := range cases {
			So(baseline.BucketFor(c.v), ShouldEqual, c.want)
		}
	})
}

func TestResolve(t *testing.T) {
	snap := &model.SkillSnapshot{Bucket: model.Bucket21To25, Confidence: "medium"}

	Convey("Given a round handicap", t, func() {
		hcp := 12.4

		Convey("Then the handicap wins regardless of the snapshot", func() {
			withSnap := baseline.Resolve(&hcp, snap)
			without := baseline.Resolve(&hcp, nil)
			So(withSnap, ShouldResemble, without)
			So(withSnap.Bucket, ShouldEqual, model.Bucket11To15)
			So(withSnap.Confidence, ShouldEqual, model.ConfidenceHigh)
			So(withSnap.Source, ShouldEqual, model.SourceRoundHandicap)
		})

		Convey("When the handicap is zero", func() {
			zero := 0.0
			So(baseline.Resolve(&zero, nil).Bucket, ShouldEqual, model.Bucket0To5)
		})
	})

	Convey("Given a negative handicap and a snapshot", t, func() {
		hcp := -1.0
		got := baseline.Resolve(&hcp, snap)

		Convey("Then the snapshot is used with normalized confidence", func() {
			So(got.Bucket, ShouldEqual, model.Bucket21To25)
			So(got.Confidence, ShouldEqual, model.ConfidenceMedium)
			So(got.Source, ShouldEqual, model.SourceSkillIndex)
		})
	})

	Convey("Given neither a handicap nor a snapshot", t, func() {
		got := baseline.Resolve(nil, nil)
		So(got, ShouldResemble, model.Baseline{
			Bucket:     model.Bucket11To15,
			Confidence: model.ConfidenceLow,
			Source:     model.SourceDefault,
		})
	})
}
