package models

// Player represents one entry of the generated player pool.
type Player struct {
	// ID is 1-based and unique within a run.
	ID int

	// Name is unique within a run.
	Name string

	Platform string

	// Roles is a non-empty set of distinct roles.
	Roles []string

	Rank Rank

	// Characters is a non-empty set of distinct characters, each gated by one of Roles.
	Characters []string

	// Leader is set only on the copy of a player stored as a group's first member.
	Leader bool

	VoiceChat bool
	Mic       bool

	// RoleQueue is the player's preferred quota. Counts may be zero.
	RoleQueue RoleQueue
}

// HasRole reports whether the player selected role.
func (p Player) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}
