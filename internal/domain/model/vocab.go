// Package model contains domain models passed between layers.
package model

import "strings"

// Intent classifies a ground shot (anything between the tee shot and the putts).
type Intent string

// Ground shot intents.
const (
	IntentApproach Intent = "approach"
	IntentARG      Intent = "arg" // chip or pitch around the green
	IntentLayup    Intent = "layup"
	IntentRecovery Intent = "recovery"
)

// Valid reports whether i is a known intent.
func (i Intent) Valid() bool {
	switch i {
	case IntentApproach, IntentARG, IntentLayup, IntentRecovery:
		return true
	}
	return false
}

// AroundTheGreen reports whether shots with this intent count toward the
// around-the-green domain. Layups never do.
func (i Intent) AroundTheGreen() bool {
	return i == IntentApproach || i == IntentARG || i == IntentRecovery
}

// ResultTag is the situational outcome recorded for a ground shot. The entry
// UI stores it as free text, so unknown tags are kept as-is.
type ResultTag string

// Known result tags.
const (
	ResultGIR          ResultTag = "GIR"
	ResultRough        ResultTag = "Rough"
	ResultBunker       ResultTag = "Bunker"
	ResultShort        ResultTag = "Short"
	ResultLong         ResultTag = "Long"
	ResultLeft         ResultTag = "Left"
	ResultRight        ResultTag = "Right"
	ResultClose        ResultTag = "Close (<2m)"
	ResultMid          ResultTag = "Mid (2-5m)"
	ResultFar          ResultTag = "Long (5m+)"
	ResultOver         ResultTag = "Over"
	ResultFairway      ResultTag = "Fairway"
	ResultPerfectSpot  ResultTag = "Perfect Spot"
	ResultPlayable     ResultTag = "Playable"
	ResultStillTrouble ResultTag = "Still Trouble"
)

// LeaveBucket is how far the ball finished from the hole after a ground shot.
type LeaveBucket string

// Leave distance buckets.
const (
	LeaveOn      LeaveBucket = "ON"
	Leave0To2m   LeaveBucket = "0-2m"
	Leave2To5m   LeaveBucket = "2-5m"
	Leave5mPlus  LeaveBucket = "5m+"
	LeavePenalty LeaveBucket = "PEN"
)

// LeaveBuckets lists every leave bucket in display order.
var LeaveBuckets = []LeaveBucket{LeaveOn, Leave0To2m, Leave2To5m, Leave5mPlus, LeavePenalty}

// Valid reports whether b is a known leave bucket.
func (b LeaveBucket) Valid() bool {
	for _, v := range LeaveBuckets {
		if b == v {
			return true
		}
	}
	return false
}

// PuttBucket is the distance to the hole before a putt.
type PuttBucket string

// Putt distance buckets.
const (
	Putt0To1m  PuttBucket = "0-1m"
	Putt1To2m  PuttBucket = "1-2m"
	Putt2To5m  PuttBucket = "2-5m"
	Putt5To8m  PuttBucket = "5-8m"
	Putt8mPlus PuttBucket = "8m+"
)

// PuttBuckets lists every putt bucket from shortest to longest.
var PuttBuckets = []PuttBucket{Putt0To1m, Putt1To2m, Putt2To5m, Putt5To8m, Putt8mPlus}

// Valid reports whether b is a known putt bucket.
func (b PuttBucket) Valid() bool {
	for _, v := range PuttBuckets {
		if b == v {
			return true
		}
	}
	return false
}

// Landing is where the tee shot finished.
type Landing string

// Tee shot landing zones.
const (
	LandingFairway Landing = "FW"
	LandingRough   Landing = "RO"
	LandingBunker  Landing = "BK"
	LandingHazard  Landing = "HZ"
	LandingOB      Landing = "OB"
)

// Valid reports whether l is a known landing zone.
func (l Landing) Valid() bool {
	switch l {
	case LandingFairway, LandingRough, LandingBunker, LandingHazard, LandingOB:
		return true
	}
	return false
}

// Penalty reports whether the landing costs a penalty stroke.
func (l Landing) Penalty() bool { return l == LandingOB || l == LandingHazard }

// Trouble reports whether the landing leaves a recoverable but costly lie.
func (l Landing) Trouble() bool { return l == LandingBunker }

// BaselineBucket is a skill tier. Lower tiers are stronger players.
type BaselineBucket string

// Skill tiers.
const (
	Bucket0To5   BaselineBucket = "0-5"
	Bucket6To10  BaselineBucket = "6-10"
	Bucket11To15 BaselineBucket = "11-15"
	Bucket16To20 BaselineBucket = "16-20"
	Bucket21To25 BaselineBucket = "21-25"
	Bucket26Plus BaselineBucket = "26+"
)

// DefaultBucket is the neutral tier used when nothing is known about a player.
const DefaultBucket = Bucket11To15

// BaselineBuckets lists the tiers from strongest to weakest.
var BaselineBuckets = []BaselineBucket{Bucket0To5, Bucket6To10, Bucket11To15, Bucket16To20, Bucket21To25, Bucket26Plus}

// Valid reports whether b is a known tier.
func (b BaselineBucket) Valid() bool {
	for _, v := range BaselineBuckets {
		if b == v {
			return true
		}
	}
	return false
}

// Confidence is a heuristic sample-size gate, not a statistical measure.
type Confidence string

// Confidence levels, ordered Low < Medium < High.
const (
	ConfidenceLow    Confidence = "Low"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceHigh   Confidence = "High"
)

// Rank returns the position of c in the total order; unknown values rank lowest.
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 2
	case ConfidenceMedium:
		return 1
	}
	return 0
}

// Valid reports whether c is a known level.
func (c Confidence) Valid() bool {
	return c == ConfidenceLow || c == ConfidenceMedium || c == ConfidenceHigh
}

// MinConfidence returns the weakest level in levels. An empty list is High,
// the identity of the reduction.
func MinConfidence(levels ...Confidence) Confidence {
	worst := ConfidenceHigh
	for _, c := range levels {
		if c.Rank() < worst.Rank() {
			worst = c
		}
	}
	if !worst.Valid() {
		return ConfidenceLow
	}
	return worst
}

// ParseConfidence accepts any casing ("high", "HIGH") and falls back to Low.
func ParseConfidence(s string) Confidence {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return ConfidenceHigh
	case "medium":
		return ConfidenceMedium
	}
	return ConfidenceLow
}

// BaselineSource records where a baseline tier came from.
type BaselineSource string

// Baseline sources.
const (
	SourceRoundHandicap BaselineSource = "round_handicap"
	SourceSkillIndex    BaselineSource = "skill_index"
	SourceDefault       BaselineSource = "default"
)

// Domain selects a section of the expected-strokes table.
type Domain string

// Expected-strokes domains.
const (
	DomainPutt   Domain = "PUTT"
	DomainAround Domain = "AROUND"
)

// Valid reports whether d is a known domain.
func (d Domain) Valid() bool { return d == DomainPutt || d == DomainAround }

// LeakID identifies a leak category.
type LeakID string

// Leak categories.
const (
	LeakTeePenalty LeakID = "tee-penalty"
	LeakPutting    LeakID = "putting"
	LeakAround     LeakID = "around"
)
