// Package baseline picks the skill tier a round is measured against.
package baseline

import "github.com/okian/fairway/internal/domain/model"

// Index range shared by handicaps and skill indexes.
const (
	minIndex = 0
	maxIndex = 30
)

// BucketFor maps a handicap or skill index to its tier. Values are clamped
// to [0, 30] first.
func BucketFor(v float64) model.BaselineBucket {
	v = max(minIndex, min(maxIndex, v))
	switch {
	case v <= 5:
		return model.Bucket0To5
	case v <= 10:
		return model.Bucket6To10
	case v <= 15:
		return model.Bucket11To15
	case v <= 20:
		return model.Bucket16To20
	case v <= 25:
		return model.Bucket21To25
	default:
		return model.Bucket26Plus
	}
}

// Resolve chooses the baseline for a round: the round's own handicap when
// present, then the cached skill snapshot, then the neutral default.
func Resolve(handicap *float64, snapshot *model.SkillSnapshot) model.Baseline {
	if handicap != nil && *handicap >= 0 {
		return model.Baseline{
			Bucket:     BucketFor(*handicap),
			Confidence: model.ConfidenceHigh,
			Source:     model.SourceRoundHandicap,
		}
	}
	if snapshot != nil {
		return model.Baseline{
			Bucket:     snapshot.Bucket,
			Confidence: model.ParseConfidence(string(snapshot.Confidence)),
			Source:     model.SourceSkillIndex,
		}
	}
	return Default()
}

// Default is the baseline used when nothing is known about the player.
func Default() model.Baseline {
	return model.Baseline{
		Bucket:     model.DefaultBucket,
		Confidence: model.ConfidenceLow,
		Source:     model.SourceDefault,
	}
}
