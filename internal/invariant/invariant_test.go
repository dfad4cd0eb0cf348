package invariant

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/lobbygen/internal/models"
)

var defaultRules = Rules{GroupSize: 6, MinPerRole: 1, RankAdjacency: true, RankWindow: 10}

func player(id int, rankID string, leader bool) models.Player {
	rank, err := models.RankByID(rankID)
	if err != nil {
		panic(err)
	}
	return models.Player{
		ID:         id,
		Name:       "Player " + string(rune('A'+id)),
		Roles:      []string{models.RoleVanguard, models.RoleStrategist},
		Characters: []string{"Groot", "Mantis"},
		Rank:       rank,
		Leader:     leader,
	}
}

func validDataset() *models.Dataset {
	leader := player(1, "g3", true)
	return &models.Dataset{
		Players: []models.Player{player(1, "g3", false), player(2, "s3", false), player(3, "p3", false)},
		Groups: []models.Group{
			{
				ID:        "ABCD",
				Owner:     leader.Name,
				RoleQueue: &models.RoleQueue{Vanguards: 4, Duelists: 1, Strategists: 1},
				Settings:  models.GroupSettings{Platforms: []string{"pc", "ps"}},
				Members:   []models.Player{leader, player(2, "s3", false), player(3, "p3", false)},
			},
		},
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name         string
		mutate       func(ds *models.Dataset)
		rules        Rules
		wantMessages []string
	}{
		{
			name:   "valid dataset",
			mutate: func(ds *models.Dataset) {},
		},
		{
			name: "duplicate group id",
			mutate: func(ds *models.Dataset) {
				ds.Groups = append(ds.Groups, ds.Groups[0])
			},
			wantMessages: []string{"duplicate group id"},
		},
		{
			name: "quota sums to wrong total",
			mutate: func(ds *models.Dataset) {
				ds.Groups[0].RoleQueue = &models.RoleQueue{Vanguards: 3, Duelists: 1, Strategists: 1}
			},
			wantMessages: []string{"sums to 5"},
		},
		{
			name: "quota with a zero count",
			mutate: func(ds *models.Dataset) {
				ds.Groups[0].RoleQueue = &models.RoleQueue{Vanguards: 0, Duelists: 3, Strategists: 3}
			},
			wantMessages: []string{"count below 1"},
		},
		{
			name: "no quota is fine",
			mutate: func(ds *models.Dataset) {
				ds.Groups[0].RoleQueue = nil
			},
		},
		{
			name: "leader not first",
			mutate: func(ds *models.Dataset) {
				m := ds.Groups[0].Members
				m[0], m[1] = m[1], m[0]
				ds.Groups[0].Owner = m[0].Name
			},
			wantMessages: []string{"first member is not flagged leader", "non-first member flagged leader"},
		},
		{
			name: "two leaders",
			mutate: func(ds *models.Dataset) {
				ds.Groups[0].Members[2].Leader = true
			},
			wantMessages: []string{"non-first member flagged leader"},
		},
		{
			name: "member outside rank window",
			mutate: func(ds *models.Dataset) {
				ds.Groups[0].Members[2] = player(3, "d3", false)
			},
			wantMessages: []string{"outside window 10"},
		},
		{
			name: "rank window disabled",
			mutate: func(ds *models.Dataset) {
				ds.Groups[0].Members[2] = player(3, "oa", false)
			},
			rules: Rules{GroupSize: 6, MinPerRole: 1},
		},
		{
			name: "character not gated by roles",
			mutate: func(ds *models.Dataset) {
				ds.Groups[0].Members[1].Characters = []string{"Storm"}
			},
			wantMessages: []string{`character "Storm" requires role duelist`},
		},
		{
			name: "duplicate character",
			mutate: func(ds *models.Dataset) {
				ds.Players[0].Characters = []string{"Groot", "Groot"}
			},
			wantMessages: []string{"listed more than once"},
		},
		{
			name: "player without roles or characters",
			mutate: func(ds *models.Dataset) {
				ds.Players[1].Roles = nil
				ds.Players[1].Characters = nil
			},
			wantMessages: []string{"has no roles", "has no characters"},
		},
		{
			name: "duplicate player name",
			mutate: func(ds *models.Dataset) {
				ds.Players[2].Name = ds.Players[1].Name
			},
			wantMessages: []string{"already used by player 2"},
		},
		{
			name: "too many members",
			mutate: func(ds *models.Dataset) {
				g := &ds.Groups[0]
				for id := 4; id <= 7; id++ {
					g.Members = append(g.Members, player(id, "g1", false))
				}
			},
			wantMessages: []string{"has 7 members"},
		},
		{
			name: "empty group",
			mutate: func(ds *models.Dataset) {
				ds.Groups[0].Members = nil
			},
			wantMessages: []string{"has 0 members"},
		},
		{
			name: "duplicate platform",
			mutate: func(ds *models.Dataset) {
				ds.Groups[0].Settings.Platforms = []string{"pc", "pc"}
			},
			wantMessages: []string{`platform "pc" listed more than once`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := validDataset()
			tt.mutate(ds)
			rules := tt.rules
			if rules == (Rules{}) {
				rules = defaultRules
			}

			err := Check(ds, rules)
			if len(tt.wantMessages) == 0 {
				require.NoError(t, err)
				return
			}

			var verr *Error
			require.True(t, errors.As(err, &verr), "want *Error, got %v", err)
			for _, want := range tt.wantMessages {
				found := false
				for _, v := range verr.Violations {
					if strings.Contains(v.Message, want) {
						found = true
						break
					}
				}
				assert.True(t, found, "no violation contains %q in %v", want, verr.Violations)
			}
		})
	}
}

func TestErrorMessageTruncates(t *testing.T) {
	err := &Error{}
	for i := 0; i < 8; i++ {
		err.Violations = append(err.Violations, Violation{GroupID: "ABCD", PlayerID: i + 1, Message: "bad"})
	}
	msg := err.Error()
	assert.Contains(t, msg, "8 invariant violations")
	assert.Contains(t, msg, "group ABCD: player 1: bad")
	assert.Contains(t, msg, "and 3 more")
}
