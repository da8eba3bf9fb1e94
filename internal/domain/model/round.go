package model

import "time"

// Shot is one ground shot: not the tee shot and not a putt.
type Shot struct {
	Intent    Intent       `json:"intent"`
	Result    ResultTag    `json:"result,omitempty"`
	Leave     *LeaveBucket `json:"leave_dist_bucket,omitempty"`
	Club      string       `json:"club,omitempty"`
	LieSlope  []string     `json:"lie_slope,omitempty"`
	StartLine string       `json:"start_line,omitempty"`
	Curve     string       `json:"curve,omitempty"`
	Note      string       `json:"note,omitempty"`
}

// Putt is one putt attempt. Whether it was holed is inferred from its
// position on the hole (see Hole.PuttMade).
type Putt struct {
	Bucket *PuttBucket `json:"dist_bucket,omitempty"`
	// PreSpeed is the planned pace on the green speed scale.
	PreSpeed *float64 `json:"pre_speed,omitempty"`
	Note     string   `json:"note,omitempty"`
}

// TeeResult is the outcome of a hole's opening shot.
type TeeResult struct {
	Landing   *Landing `json:"landing,omitempty"`
	Club      string   `json:"club,omitempty"`
	StartLine string   `json:"start_line,omitempty"`
	Curve     string   `json:"curve,omitempty"`
}

// Hole is a single played hole. Absent shots, putts or tee result mean the
// player did not record that dimension.
type Hole struct {
	Number int        `json:"hole_num"`
	Par    int        `json:"par"`
	Score  int        `json:"score"`
	Tee    *TeeResult `json:"tee,omitempty"`
	Shots  []Shot     `json:"shots,omitempty"`
	Putts  []Putt     `json:"putts,omitempty"`
	Notes  string     `json:"notes,omitempty"`
}

// PuttMade reports whether the i-th putt on the hole went in: the last one
// did, every earlier one missed.
func (h Hole) PuttMade(i int) bool {
	return i >= 0 && i == len(h.Putts)-1
}

// GIR reports whether the hole reached the green in regulation, either by an
// explicit GIR tag or by shot count. Holes without ground shots never count.
func (h Hole) GIR() bool {
	if len(h.Shots) == 0 {
		return false
	}
	for _, s := range h.Shots {
		if s.Result == ResultGIR {
			return true
		}
	}
	return len(h.Shots) <= h.Par-2
}

// Round is an ordered sequence of holes played on one course and day.
type Round struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Course       string    `json:"course"`
	Date         time.Time `json:"date"`
	HolesPlanned int       `json:"holes_planned"`
	Handicap     *float64  `json:"handicap,omitempty"`
	InputMode    string    `json:"input_mode,omitempty"`
	Holes        []Hole    `json:"holes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HolesPlayed is the number of recorded holes.
func (r Round) HolesPlayed() int { return len(r.Holes) }

// ScoreTotal sums the gross score of every recorded hole.
func (r Round) ScoreTotal() int {
	total := 0
	for _, h := range r.Holes {
		total += h.Score
	}
	return total
}

// Scored reports whether at least one hole carries a positive score.
func (r Round) Scored() bool {
	for _, h := range r.Holes {
		if h.Score > 0 {
			return true
		}
	}
	return false
}

// RecomputeJob asks the worker pool to refresh one round's metrics.
type RecomputeJob struct {
	RoundID    string
	UserID     string
	EnqueuedAt time.Time
}
