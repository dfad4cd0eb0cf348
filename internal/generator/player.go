package generator

import (
	"fmt"

	"github.com/mmynk/lobbygen/internal/models"
)

// PlayerName is the unique display name of the pool player with the given ID.
func PlayerName(id int) string {
	return fmt.Sprintf("Player %d", id)
}

// SamplePlayer draws one player. Roles are a non-empty subset of
// models.Roles; characters are 1..Config.MaxCharacters distinct picks from the
// pools those roles unlock. rankHint, when non-nil, is used as the rank;
// otherwise the rank is uniform over models.Ranks.
func (g *Generator) SamplePlayer(id int, leader bool, rankHint *models.Rank) (models.Player, error) {
	roles := g.subset(models.Roles, 1+g.rnd.IntN(len(models.Roles)))

	pool := models.CharactersFor(roles)
	limit := len(pool)
	if g.cfg.MaxCharacters > 0 && g.cfg.MaxCharacters < limit {
		limit = g.cfg.MaxCharacters
	}
	characters := g.subset(pool, 1+g.rnd.IntN(limit))

	rank := models.Ranks[g.rnd.IntN(len(models.Ranks))]
	if rankHint != nil {
		rank = *rankHint
	}

	preferred, err := g.drawQuota(g.cfg.GroupSize, 0)
	if err != nil {
		return models.Player{}, fmt.Errorf("failed to sample preferred role queue: %w", err)
	}

	return models.Player{
		ID:         id,
		Name:       PlayerName(id),
		Platform:   g.pick(models.Platforms),
		Roles:      roles,
		Rank:       rank,
		Characters: characters,
		Leader:     leader,
		VoiceChat:  g.coin(),
		Mic:        g.coin(),
		RoleQueue:  preferred,
	}, nil
}

// SamplePool draws Config.PlayerPoolSize players with IDs 1..N.
func (g *Generator) SamplePool() ([]models.Player, error) {
	players := make([]models.Player, 0, g.cfg.PlayerPoolSize)
	for id := 1; id <= g.cfg.PlayerPoolSize; id++ {
		p, err := g.SamplePlayer(id, false, nil)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	g.metrics.playersGenerated(len(players))
	return players, nil
}
