package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mmynk/lobbygen/internal/models"
)

// LobbyJSON writes the dataset as a JSON array of lobby objects, the shape
// the frontend's group browser consumes.
type LobbyJSON struct {
	Indent string
}

type lobbyDTO struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Owner         string           `json:"owner"`
	Region        string           `json:"region"`
	Gamemode      string           `json:"gamemode"`
	Open          bool             `json:"open"`
	GroupSettings groupSettingsDTO `json:"groupSettings"`
	Players       []playerDTO      `json:"players"`
	RoleQueue     *roleQueueDTO    `json:"roleQueue,omitempty"`
}

type groupSettingsDTO struct {
	Platforms []string `json:"platforms"`
	VoiceChat bool     `json:"voiceChat"`
	Mic       bool     `json:"mic"`
}

type roleQueueDTO struct {
	Vanguards   int `json:"vanguards"`
	Duelists    int `json:"duelists"`
	Strategists int `json:"strategists"`
}

type playerDTO struct {
	ID         int      `json:"id"`
	Name       string   `json:"name"`
	Leader     bool     `json:"leader"`
	Platform   string   `json:"platform"`
	Roles      []string `json:"roles"`
	Rank       string   `json:"rank"`
	Characters []string `json:"characters"`
	VoiceChat  bool     `json:"voiceChat"`
	Mic        bool     `json:"mic"`
}

func (e *LobbyJSON) Description() string {
	return "JSON array of lobbies with embedded players"
}

func (e *LobbyJSON) Extension() string {
	return ".json"
}

func (e *LobbyJSON) Write(w io.Writer, ds *models.Dataset) error {
	lobbies := make([]lobbyDTO, len(ds.Groups))
	for i := range ds.Groups {
		lobbies[i] = toLobbyDTO(&ds.Groups[i])
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", e.Indent)
	if err := enc.Encode(lobbies); err != nil {
		return fmt.Errorf("failed to encode lobbies: %w", err)
	}
	return nil
}

func toLobbyDTO(g *models.Group) lobbyDTO {
	platforms := g.Settings.Platforms
	if platforms == nil {
		platforms = []string{}
	}
	dto := lobbyDTO{
		ID:       g.ID,
		Name:     g.Name,
		Owner:    g.Owner,
		Region:   g.Region,
		Gamemode: g.Gamemode,
		Open:     g.Open,
		GroupSettings: groupSettingsDTO{
			Platforms: platforms,
			VoiceChat: g.Settings.VoiceChat,
			Mic:       g.Settings.Mic,
		},
		Players: toPlayerDTOs(g.Members),
	}
	if q := g.RoleQueue; q != nil {
		dto.RoleQueue = &roleQueueDTO{
			Vanguards:   q.Vanguards,
			Duelists:    q.Duelists,
			Strategists: q.Strategists,
		}
	}
	return dto
}

func toPlayerDTOs(members []models.Player) []playerDTO {
	players := make([]playerDTO, len(members))
	for i, m := range members {
		players[i] = playerDTO{
			ID:         m.ID,
			Name:       m.Name,
			Leader:     m.Leader,
			Platform:   m.Platform,
			Roles:      m.Roles,
			Rank:       m.Rank.ID,
			Characters: m.Characters,
			VoiceChat:  m.VoiceChat,
			Mic:        m.Mic,
		}
	}
	return players
}

// DecodeLobbies reads a LobbyJSON export back into a dataset. The result has
// no player pool: players are only known through group membership.
func DecodeLobbies(r io.Reader) (*models.Dataset, error) {
	var lobbies []lobbyDTO
	if err := json.NewDecoder(r).Decode(&lobbies); err != nil {
		return nil, fmt.Errorf("failed to decode lobbies: %w", err)
	}

	ds := &models.Dataset{Groups: make([]models.Group, len(lobbies))}
	for i, l := range lobbies {
		g := models.Group{
			ID:       l.ID,
			Owner:    l.Owner,
			Name:     l.Name,
			Region:   l.Region,
			Gamemode: l.Gamemode,
			Open:     l.Open,
			Settings: models.GroupSettings{
				Platforms: l.GroupSettings.Platforms,
				VoiceChat: l.GroupSettings.VoiceChat,
				Mic:       l.GroupSettings.Mic,
			},
			Members: make([]models.Player, len(l.Players)),
		}
		if q := l.RoleQueue; q != nil {
			g.RoleQueue = &models.RoleQueue{
				Vanguards:   q.Vanguards,
				Duelists:    q.Duelists,
				Strategists: q.Strategists,
			}
		}
		for j, p := range l.Players {
			rank, err := models.RankByID(p.Rank)
			if err != nil {
				return nil, fmt.Errorf("lobby %s, player %q: %w", l.ID, p.Name, err)
			}
			g.Members[j] = models.Player{
				ID:         p.ID,
				Name:       p.Name,
				Platform:   p.Platform,
				Roles:      p.Roles,
				Rank:       rank,
				Characters: p.Characters,
				Leader:     p.Leader,
				VoiceChat:  p.VoiceChat,
				Mic:        p.Mic,
			}
		}
		ds.Groups[i] = g
	}
	return ds, nil
}
