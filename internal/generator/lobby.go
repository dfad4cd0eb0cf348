package generator

import (
	"context"
	"fmt"

	"github.com/mmynk/lobbygen/internal/models"
)

// Generate runs one generation: it draws a fresh player pool and count
// groups from it. Identifier and player usage tracking start empty, so
// identifiers are unique within the returned dataset.
func (g *Generator) Generate(ctx context.Context, count int) (*models.Dataset, error) {
	if count < 0 {
		return nil, fmt.Errorf("group count cannot be negative: %d", count)
	}
	clear(g.usedIDs)
	clear(g.usedPlayers)

	players, err := g.SamplePool()
	if err != nil {
		return nil, err
	}

	ds := &models.Dataset{
		Seed:    g.seed,
		Players: players,
		Groups:  make([]models.Group, 0, count),
	}
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		group, err := g.SampleGroup(players)
		if err != nil {
			return nil, fmt.Errorf("failed to sample group %d: %w", i+1, err)
		}
		ds.Groups = append(ds.Groups, group)
		g.ResetUsageTracking()
	}
	return ds, nil
}

// SampleGroup draws one group from pool: a unique identifier, an unused
// owner, 1..Config.GroupSize members and an optional role quota.
func (g *Generator) SampleGroup(pool []models.Player) (models.Group, error) {
	id, err := g.AllocateUniqueID(g.usedIDs)
	if err != nil {
		return models.Group{}, err
	}
	g.usedIDs[id] = struct{}{}

	owner, err := g.pickOwner(pool)
	if err != nil {
		return models.Group{}, err
	}

	size := 1 + g.rnd.IntN(g.cfg.GroupSize)
	members := g.SampleGroupMembers(owner, pool, size, g.cfg.rankWindow())

	queue, err := g.SampleRoleQueue(g.cfg.GroupSize, g.cfg.MinPerRole)
	if err != nil {
		return models.Group{}, err
	}

	group := models.Group{
		ID:        id,
		Owner:     owner.Name,
		Name:      owner.Name + "'s Group",
		Region:    g.pick(models.Regions),
		Gamemode:  g.pick(models.Gamemodes),
		Open:      g.coin(),
		RoleQueue: queue,
		Settings: models.GroupSettings{
			Platforms: g.subset(models.Platforms, g.rnd.IntN(len(models.Platforms)+1)),
			VoiceChat: g.coin(),
			Mic:       g.coin(),
		},
		Members: append([]models.Player{owner}, members...),
	}
	g.metrics.groupGenerated(len(group.Members))
	return group, nil
}
