package models

import "fmt"

// Rank is one tier of the competitive ladder.
// ID is the short code used by the JSON lobby format; Value orders ranks and
// is what the relational schema stores.
type Rank struct {
	ID    string
	Value int
}

// Ranks is the canonical rank domain, lowest first. Divisions of a tier are
// one apart and tiers are ten apart, so a window of 10 spans about one tier
// in either direction.
var Ranks = []Rank{
	{"b3", 0}, {"b2", 1}, {"b1", 2},
	{"s3", 10}, {"s2", 11}, {"s1", 12},
	{"g3", 20}, {"g2", 21}, {"g1", 22},
	{"p3", 30}, {"p2", 31}, {"p1", 32},
	{"d3", 40}, {"d2", 41}, {"d1", 42},
	{"gm3", 50}, {"gm2", 51}, {"gm1", 52},
	{"e", 60},
	{"oa", 70},
}

var (
	rankByID    = make(map[string]Rank, len(Ranks))
	rankByValue = make(map[int]Rank, len(Ranks))
)

func init() {
	for _, r := range Ranks {
		rankByID[r.ID] = r
		rankByValue[r.Value] = r
	}
}

// RankByID looks up a rank by its short code.
func RankByID(id string) (Rank, error) {
	r, ok := rankByID[id]
	if !ok {
		return Rank{}, fmt.Errorf("unknown rank id: %s", id)
	}
	return r, nil
}

// RankByValue looks up a rank by its numeric value.
func RankByValue(value int) (Rank, error) {
	r, ok := rankByValue[value]
	if !ok {
		return Rank{}, fmt.Errorf("unknown rank value: %d", value)
	}
	return r, nil
}

// Distance is the absolute difference between two rank values.
func (r Rank) Distance(other Rank) int {
	d := r.Value - other.Value
	if d < 0 {
		return -d
	}
	return d
}

// Within reports whether other lies within window of r.
func (r Rank) Within(other Rank, window int) bool {
	return r.Distance(other) <= window
}
