package models

var Regions = []string{"na", "eu", "me", "ap", "sa"}

var Platforms = []string{"pc", "ps", "xb"}

var Gamemodes = []string{"competitive", "quickplay"}

const (
	RoleVanguard   = "vanguard"
	RoleDuelist    = "duelist"
	RoleStrategist = "strategist"
)

var Roles = []string{RoleVanguard, RoleDuelist, RoleStrategist}

// Characters maps each role to its character pool. The pools are disjoint.
var Characters = map[string][]string{
	RoleVanguard: {
		"Doctor Strange", "Captain America", "Groot", "Hulk",
		"Magneto", "Peni Parker", "Thor", "Venom",
	},
	RoleDuelist: {
		"Winter Soldier", "Black Panther", "Black Widow", "Spider-Man",
		"Iron Man", "Star-Lord", "Storm",
	},
	RoleStrategist: {
		"Rocket Raccoon", "Mantis", "Luna Snow", "Adam Warlock",
		"Cloak & Dagger", "Loki",
	},
}

// CharactersFor returns the union of the character pools gated by roles,
// in role order. Unknown roles contribute nothing.
func CharactersFor(roles []string) []string {
	var out []string
	for _, role := range roles {
		out = append(out, Characters[role]...)
	}
	return out
}

// RoleOf returns the role whose pool contains character.
func RoleOf(character string) (string, bool) {
	for role, pool := range Characters {
		for _, c := range pool {
			if c == character {
				return role, true
			}
		}
	}
	return "", false
}
