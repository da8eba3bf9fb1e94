package model

import "time"

// Baseline is the skill tier used to select expected-strokes rows for a round.
type Baseline struct {
	Bucket     BaselineBucket `json:"bucket"`
	Confidence Confidence     `json:"confidence"`
	Source     BaselineSource `json:"source"`
}

// SkillSnapshot is a cached skill estimate for a user.
type SkillSnapshot struct {
	ID         string         `json:"id,omitempty"`
	UserID     string         `json:"user_id"`
	Bucket     BaselineBucket `json:"bucket"`
	Confidence Confidence     `json:"confidence"`
	SkillIndex float64        `json:"skill_index"`
	NRounds    int            `json:"n_rounds"`
	ComputedAt time.Time      `json:"computed_at"`
}

// SkillEstimate is the outcome of estimating a player's handicap-like index
// from recent rounds.
type SkillEstimate struct {
	SkillIndex      float64        `json:"skill_index"`
	Bucket          BaselineBucket `json:"bucket"`
	Confidence      Confidence     `json:"confidence"`
	NRounds         int            `json:"n_rounds"`
	HolesEquiv      int            `json:"holes_equiv"`
	AdjScoreMean    float64        `json:"adj_score_mean"`
	PuttsPer18      *float64       `json:"putts_per_18"`
	GIRPer18        *float64       `json:"gir_per_18"`
	PenaltiesPer18  *float64       `json:"penalties_per_18"`
	CoverageOverall float64        `json:"coverage_overall"`
}

// RoundMetrics is the flat per-round analytics record. Pointer fields are
// nil when the round carries no data for that dimension.
type RoundMetrics struct {
	RoundID    string    `json:"round_id"`
	UserID     string    `json:"user_id"`
	Course     string    `json:"course"`
	Date       time.Time `json:"date"`
	ComputedAt time.Time `json:"computed_at"`

	Baseline Baseline `json:"baseline"`

	HolesPlayed int     `json:"holes_played"`
	ScoreTotal  int     `json:"score_total"`
	ScorePer18  float64 `json:"score_per_18"`

	PuttsTotal *int     `json:"putts_total"`
	PuttsPer18 *float64 `json:"putts_per_18"`

	GIRCount *int     `json:"gir_count"`
	GIRDen   *int     `json:"gir_den"`
	GIRRate  *float64 `json:"gir_rate"`

	TeePenaltyCount *int `json:"tee_penalty_count"`
	TeeTroubleCount *int `json:"tee_trouble_count"`
	TeeDen          *int `json:"tee_den"`

	AroundDen *int `json:"around_den"`
	LeaveOn   *int `json:"leave_on"`
	Leave0To2 *int `json:"leave_0_2"`
	Leave2To5 *int `json:"leave_2_5"`
	Leave5Up  *int `json:"leave_5p"`
	LeavePen  *int `json:"leave_pen"`

	PuttDen  *int `json:"putt_den"`
	Putt0To1 *int `json:"putt_0_1"`
	Putt1To2 *int `json:"putt_1_2"`
	Putt2To5 *int `json:"putt_2_5"`
	Putt5To8 *int `json:"putt_5_8"`
	Putt8Up  *int `json:"putt_8p"`

	ESGPutt    *float64 `json:"esg_putt"`
	AroundCost *float64 `json:"around_cost"`
	ESGTee     *float64 `json:"esg_tee"`
	ESGTotal   *float64 `json:"esg_total"`

	CoveragePutt    float64 `json:"coverage_putt"`
	CoverageAround  float64 `json:"coverage_around"`
	CoverageTee     float64 `json:"coverage_tee"`
	CoverageOverall float64 `json:"coverage_overall"`

	ConfidencePutt   Confidence `json:"confidence_putt"`
	ConfidenceAround Confidence `json:"confidence_around"`
	ConfidenceTee    Confidence `json:"confidence_tee"`
}

// LeakFinding is one ranked weakness across a set of rounds.
type LeakFinding struct {
	ID           LeakID     `json:"id"`
	Name         string     `json:"name"`
	LossPerRound float64    `json:"loss_per_round"`
	SampleRounds int        `json:"sample_rounds"`
	TotalSamples int        `json:"total_samples"`
	Coverage     float64    `json:"coverage"`
	Confidence   Confidence `json:"confidence"`
	Action       string     `json:"action"`
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }

// FloatPtr returns a pointer to v.
func FloatPtr(v float64) *float64 { return &v }
