package generator

import (
	"github.com/mmynk/lobbygen/internal/models"
)

// SampleGroupMembers selects size-1 players from pool to join owner. Players
// already in use and the owner are skipped, and when window is not AnyRank
// only players whose rank is within window of the owner's qualify. If fewer
// players qualify than requested, all of them are returned. Selected players
// are marked as used.
func (g *Generator) SampleGroupMembers(owner models.Player, pool []models.Player, size int, window int) []models.Player {
	want := size - 1
	if want <= 0 {
		return nil
	}

	candidates := make([]int, 0, len(pool))
	for i, p := range pool {
		if p.ID == owner.ID {
			continue
		}
		if _, used := g.usedPlayers[p.ID]; used {
			continue
		}
		if window != AnyRank && !owner.Rank.Within(p.Rank, window) {
			continue
		}
		candidates = append(candidates, i)
	}
	if len(candidates) < want {
		g.metrics.shortGroup()
		want = len(candidates)
	}

	// partial Fisher-Yates: the first want entries end up uniformly drawn
	for i := 0; i < want; i++ {
		j := i + g.rnd.IntN(len(candidates)-i)
		candidates[i], candidates[j] = candidates[j], candidates[i]
	}

	members := make([]models.Player, 0, want)
	for _, i := range candidates[:want] {
		m := pool[i]
		m.Leader = false
		g.usedPlayers[m.ID] = struct{}{}
		members = append(members, m)
	}
	return members
}

// ResetUsageTracking clears the used-player set once it covers at least
// Config.SaturationRatio of the pool, letting later groups reuse players.
// It reports whether the set was cleared.
func (g *Generator) ResetUsageTracking() bool {
	if float64(len(g.usedPlayers)) < g.cfg.SaturationRatio*float64(g.cfg.PlayerPoolSize) {
		return false
	}
	clear(g.usedPlayers)
	g.metrics.usageReset()
	return true
}

// pickOwner draws an unused player as group leader and marks it used. When
// every player is in use the used set is cleared first.
func (g *Generator) pickOwner(pool []models.Player) (models.Player, error) {
	if len(pool) == 0 {
		return models.Player{}, ErrEmptyPool
	}

	free := make([]int, 0, len(pool))
	for i, p := range pool {
		if _, used := g.usedPlayers[p.ID]; !used {
			free = append(free, i)
		}
	}
	if len(free) == 0 {
		clear(g.usedPlayers)
		g.metrics.usageReset()
		for i := range pool {
			free = append(free, i)
		}
	}

	owner := pool[free[g.rnd.IntN(len(free))]]
	owner.Leader = true
	g.usedPlayers[owner.ID] = struct{}{}
	return owner, nil
}
