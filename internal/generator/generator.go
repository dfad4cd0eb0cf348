// Package generator produces internally consistent synthetic players and
// groups by constrained random sampling.
//
// Every constrained draw is rejection sampling over a small discrete domain,
// bounded by Config.MaxRetries. A Generator owns its used-identifier and
// used-player sets and is not safe for concurrent use.
package generator

import (
	"math/rand/v2"
)

// Generator samples records for one or more generation runs.
type Generator struct {
	cfg     Config
	seed    int64
	rnd     *rand.Rand
	metrics *Metrics

	usedIDs     map[string]struct{}
	usedPlayers map[int]struct{}
}

type Option func(g *Generator)

// WithMetrics records sampling counters on m.
func WithMetrics(m *Metrics) Option {
	return func(g *Generator) {
		g.metrics = m
	}
}

// New creates a Generator whose draws are fully determined by cfg and seed.
func New(cfg Config, seed int64, opts ...Option) *Generator {
	g := &Generator{
		cfg:         cfg,
		seed:        seed,
		rnd:         rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1|1)),
		usedIDs:     make(map[string]struct{}),
		usedPlayers: make(map[int]struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Config returns the generator's configuration.
func (g *Generator) Config() Config {
	return g.cfg
}

// UsedPlayers returns how many players are currently marked as used.
func (g *Generator) UsedPlayers() int {
	return len(g.usedPlayers)
}

func (g *Generator) coin() bool {
	return g.rnd.IntN(2) == 1
}

func (g *Generator) pick(values []string) string {
	return values[g.rnd.IntN(len(values))]
}

// subset returns n distinct values in their original order.
func (g *Generator) subset(values []string, n int) []string {
	idx := g.rnd.Perm(len(values))[:n]
	keep := make(map[int]bool, n)
	for _, i := range idx {
		keep[i] = true
	}
	out := make([]string, 0, n)
	for i, v := range values {
		if keep[i] {
			out = append(out, v)
		}
	}
	return out
}
