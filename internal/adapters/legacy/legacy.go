// Package legacy decodes stored hole records of any historical shape into
// domain records. Older rows carry a single shot shape instead of a
// start-line/curve pair, a lie slope string instead of a list, a worded putt
// pace, and casual-mode tee labels. Unknown vocabulary values decode to nil.
package legacy

import (
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/okian/fairway/internal/domain/model"
)

// Pace values for worded legacy putt speeds.
var preSpeeds = map[string]float64{
	"slow":   2.3,
	"medium": 3.0,
	"fast":   3.7,
}

// Shape is a start-line/curve pair.
type Shape struct {
	StartLine string
	Curve     string
}

var shapes = map[string]Shape{
	"duck-hook": {StartLine: "straight", Curve: "duck-hook"},
	"hook":      {StartLine: "straight", Curve: "hook"},
	"pull":      {StartLine: "pull", Curve: "straight"},
	"draw":      {StartLine: "straight", Curve: "draw"},
	"straight":  {StartLine: "straight", Curve: "straight"},
	"fade":      {StartLine: "straight", Curve: "fade"},
	"push":      {StartLine: "push", Curve: "straight"},
	"slice":     {StartLine: "straight", Curve: "slice"},
	"shank":     {StartLine: "straight", Curve: "shank"},
}

// Casual tee labels. Trouble has no landing code.
var casualLandings = map[string]model.Landing{
	"FW":     model.LandingFairway,
	"Rough":  model.LandingRough,
	"Bunker": model.LandingBunker,
	"Hazard": model.LandingHazard,
	"OB":     model.LandingOB,
}

// MigrateShape splits a single legacy shape into a start-line/curve pair.
// Unknown shapes yield the zero Shape.
func MigrateShape(shape string) Shape {
	return shapes[shape]
}

// MigrateSlope accepts a list, a single string or null.
func MigrateSlope(v gjson.Result) []string {
	switch {
	case v.IsArray():
		var out []string
		for _, item := range v.Array() {
			if item.Type == gjson.String {
				out = append(out, item.Str)
			}
		}
		return out
	case v.Type == gjson.String:
		return []string{v.Str}
	default:
		return nil
	}
}

// MigratePreSpeed accepts a number or one of slow, medium, fast.
func MigratePreSpeed(v gjson.Result) *float64 {
	switch v.Type {
	case gjson.Number:
		return model.FloatPtr(v.Num)
	case gjson.String:
		if n, ok := preSpeeds[v.Str]; ok {
			return model.FloatPtr(n)
		}
	}
	return nil
}

// CasualLanding maps a landing code or casual-mode label to a landing.
func CasualLanding(label string) *model.Landing {
	if l := model.Landing(label); l.Valid() {
		return &l
	}
	if l, ok := casualLandings[label]; ok {
		return &l
	}
	return nil
}

// DecodeTee decodes a tee routine. Empty input and empty objects decode to nil.
func DecodeTee(raw []byte) (*model.TeeResult, error) {
	v, err := parse(raw)
	if err != nil || !v.IsObject() || len(v.Map()) == 0 {
		return nil, err
	}
	return decodeTee(v), nil
}

// DecodeShots decodes a list of ground shots.
func DecodeShots(raw []byte) ([]model.Shot, error) {
	v, err := parse(raw)
	if err != nil {
		return nil, err
	}
	return decodeShots(v), nil
}

// DecodePutts decodes a list of putt cards.
func DecodePutts(raw []byte) ([]model.Putt, error) {
	v, err := parse(raw)
	if err != nil {
		return nil, err
	}
	return decodePutts(v), nil
}

// DecodeHole decodes one hole record.
func DecodeHole(raw []byte) (model.Hole, error) {
	v, err := parse(raw)
	if err != nil {
		return model.Hole{}, err
	}
	return decodeHole(v), nil
}

// DecodeRounds decodes either a single round object, an array of rounds,
// or an object holding a "rounds" array.
func DecodeRounds(raw []byte) ([]model.Round, error) {
	v, err := parse(raw)
	if err != nil {
		return nil, err
	}
	if list := v.Get("rounds"); list.IsArray() {
		v = list
	}
	if !v.IsArray() {
		if !v.IsObject() {
			return nil, nil
		}
		return []model.Round{decodeRound(v)}, nil
	}
	var out []model.Round
	for _, r := range v.Array() {
		if r.IsObject() {
			out = append(out, decodeRound(r))
		}
	}
	return out, nil
}

func parse(raw []byte) (gjson.Result, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return gjson.Result{}, nil
	}
	if !gjson.ValidBytes(raw) {
		return gjson.Result{}, fmt.Errorf("%w: invalid json", ErrMalformed)
	}
	return gjson.ParseBytes(raw), nil
}

// field returns the first present key, accepting both camelCase and
// snake_case spellings.
func field(v gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if r := v.Get(k); r.Exists() && r.Type != gjson.Null {
			return r
		}
	}
	return gjson.Result{}
}

func str(v gjson.Result, keys ...string) string {
	r := field(v, keys...)
	if r.Type != gjson.String {
		return ""
	}
	return r.Str
}

func shape(v gjson.Result, lineKeys, curveKeys []string, legacyKey string) Shape {
	s := Shape{StartLine: str(v, lineKeys...), Curve: str(v, curveKeys...)}
	if s.StartLine == "" && s.Curve == "" {
		return MigrateShape(str(v, legacyKey))
	}
	return s
}

func decodeTee(v gjson.Result) *model.TeeResult {
	s := shape(v,
		[]string{"resultStartLine", "start_line"},
		[]string{"resultCurve", "curve"},
		"resultShape")
	return &model.TeeResult{
		Landing:   CasualLanding(str(v, "landing")),
		Club:      str(v, "club"),
		StartLine: s.StartLine,
		Curve:     s.Curve,
	}
}

func decodeShots(v gjson.Result) []model.Shot {
	if !v.IsArray() {
		return nil
	}
	var out []model.Shot
	for _, item := range v.Array() {
		if !item.IsObject() {
			continue
		}
		s := shape(item,
			[]string{"resStartLine", "start_line"},
			[]string{"resCurve", "curve"},
			"resShape")
		shot := model.Shot{
			Intent:    model.Intent(str(item, "intent")),
			Result:    model.ResultTag(str(item, "result")),
			Club:      str(item, "club"),
			LieSlope:  MigrateSlope(field(item, "lieSlope", "lie_slope")),
			StartLine: s.StartLine,
			Curve:     s.Curve,
			Note:      str(item, "note"),
		}
		if b := model.LeaveBucket(str(item, "leaveDistBucket", "leave_dist_bucket")); b.Valid() {
			shot.Leave = &b
		}
		out = append(out, shot)
	}
	return out
}

func decodePutts(v gjson.Result) []model.Putt {
	if !v.IsArray() {
		return nil
	}
	var out []model.Putt
	for _, item := range v.Array() {
		if !item.IsObject() {
			continue
		}
		p := model.Putt{
			PreSpeed: MigratePreSpeed(field(item, "preSpeed", "pre_speed")),
			Note:     str(item, "note"),
		}
		if b := model.PuttBucket(str(item, "distBucket", "dist_bucket")); b.Valid() {
			p.Bucket = &b
		}
		out = append(out, p)
	}
	return out
}

func decodeHole(v gjson.Result) model.Hole {
	h := model.Hole{
		Number: int(field(v, "holeNum", "hole_num").Int()),
		Par:    int(field(v, "par").Int()),
		Score:  int(field(v, "score").Int()),
		Shots:  decodeShots(field(v, "stgShots", "stg_shots", "shots")),
		Putts:  decodePutts(field(v, "puttCards", "putt_cards", "putts")),
		Notes:  str(v, "notes"),
	}
	if tee := field(v, "teeRoutine", "tee_routine", "tee"); tee.IsObject() && len(tee.Map()) > 0 {
		h.Tee = decodeTee(tee)
	}
	if club := str(v, "teeClub", "tee_club"); club != "" && h.Tee != nil && h.Tee.Club == "" {
		h.Tee.Club = club
	}
	return h
}

func decodeRound(v gjson.Result) model.Round {
	r := model.Round{
		ID:           str(v, "id"),
		UserID:       str(v, "userId", "user_id"),
		Course:       str(v, "course"),
		HolesPlanned: int(field(v, "holes_planned", "holesPlanned").Int()),
		InputMode:    str(v, "inputMode", "input_mode"),
		Date:         date(str(v, "date")),
		CreatedAt:    date(str(v, "createdAt", "created_at")),
		UpdatedAt:    date(str(v, "updatedAt", "updated_at")),
	}
	if hc := field(v, "handicap"); hc.Type == gjson.Number {
		r.Handicap = model.FloatPtr(hc.Num)
	}
	// "holes" is either the planned count or the hole list itself.
	if n := v.Get("holes"); r.HolesPlanned == 0 && n.Type == gjson.Number {
		r.HolesPlanned = int(n.Int())
	}
	holes := field(v, "holeData", "hole_data")
	if !holes.IsArray() {
		holes = v.Get("holes")
	}
	if !holes.IsArray() {
		return finishRound(r)
	}
	for _, h := range holes.Array() {
		if h.IsObject() {
			r.Holes = append(r.Holes, decodeHole(h))
		}
	}
	return finishRound(r)
}

func finishRound(r model.Round) model.Round {
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = r.CreatedAt
	}
	return r
}

func date(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
