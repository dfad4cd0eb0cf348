package generator

import (
	"fmt"

	"github.com/mmynk/lobbygen/internal/models"
)

// SampleRoleQueue returns, with probability Config.RoleQueueChance, a quota
// whose counts sum to total with each count at least minPerRole. It returns
// nil and no error when the draw decides against enforcing a quota.
func (g *Generator) SampleRoleQueue(total, minPerRole int) (*models.RoleQueue, error) {
	if g.rnd.Float64() >= g.cfg.RoleQueueChance {
		return nil, nil
	}
	q, err := g.drawQuota(total, minPerRole)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// drawQuota draws vanguards and duelists independently from the feasible
// range and derives strategists, rejecting draws that leave strategists
// below the minimum.
func (g *Generator) drawQuota(total, minPerRole int) (models.RoleQueue, error) {
	if minPerRole < 0 || total < 3*minPerRole {
		return models.RoleQueue{}, fmt.Errorf("%w: total %d, minimum %d per role", ErrInfeasibleQuota, total, minPerRole)
	}

	hi := total - 2*minPerRole
	span := hi - minPerRole + 1
	for attempt := 0; attempt < g.cfg.MaxRetries; attempt++ {
		vanguards := minPerRole + g.rnd.IntN(span)
		duelists := minPerRole + g.rnd.IntN(span)
		strategists := total - vanguards - duelists
		if strategists >= minPerRole {
			return models.RoleQueue{
				Vanguards:   vanguards,
				Duelists:    duelists,
				Strategists: strategists,
			}, nil
		}
		g.metrics.quotaRejection()
	}
	return models.RoleQueue{}, fmt.Errorf("%w: role quota for total %d", ErrRetriesExhausted, total)
}
