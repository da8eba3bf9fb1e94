// Package expected holds the expected-strokes lookup table keyed by skill
// tier, domain and situation.
package expected

import (
	"sort"

	"github.com/okian/fairway/internal/domain/model"
)

// Key identifies one expected-strokes value.
type Key struct {
	Bucket    model.BaselineBucket
	Domain    model.Domain
	Situation string
}

// Row is one persisted table entry.
type Row struct {
	Bucket    model.BaselineBucket `json:"bucket" yaml:"bucket"`
	Domain    model.Domain         `json:"domain" yaml:"domain"`
	Situation string               `json:"key" yaml:"key"`
	Expected  float64              `json:"expected" yaml:"expected"`
}

// Key returns the lookup key of r.
func (r Row) Key() Key {
	return Key{Bucket: r.Bucket, Domain: r.Domain, Situation: r.Situation}
}

// PuttSituation is the situation key of a putt from distance b.
func PuttSituation(b model.PuttBucket) string { return "putt:" + string(b) }

// LeaveSituation is the situation key of a ground shot that finished in b.
func LeaveSituation(b model.LeaveBucket) string { return "leave:" + string(b) }

// Table is an immutable expected-strokes lookup. The zero value and nil
// are empty tables.
type Table struct {
	values map[Key]float64
}

// New builds a table from rows. Later rows win on duplicate keys.
func New(rows []Row) *Table {
	t := &Table{values: make(map[Key]float64, len(rows))}
	for _, r := range rows {
		t.values[r.Key()] = r.Expected
	}
	return t
}

// Lookup returns the expected strokes for the key. Missing or malformed keys
// report false.
func (t *Table) Lookup(bucket model.BaselineBucket, domain model.Domain, situation string) (float64, bool) {
	if t == nil {
		return 0, false
	}
	v, ok := t.values[Key{Bucket: bucket, Domain: domain, Situation: situation}]
	return v, ok
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.values)
}

// Rows returns the entries ordered by bucket, domain and situation.
func (t *Table) Rows() []Row {
	if t == nil {
		return []Row{}
	}
	rows := make([]Row, 0, len(t.values))
	for k, v := range t.values {
		rows = append(rows, Row{Bucket: k.Bucket, Domain: k.Domain, Situation: k.Situation, Expected: v})
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Bucket != b.Bucket {
			return bucketIndex(a.Bucket) < bucketIndex(b.Bucket)
		}
		if a.Domain != b.Domain {
			return a.Domain < b.Domain
		}
		return a.Situation < b.Situation
	})
	return rows
}

func bucketIndex(b model.BaselineBucket) int {
	for i, v := range model.BaselineBuckets {
		if v == b {
			return i
		}
	}
	return len(model.BaselineBuckets)
}
