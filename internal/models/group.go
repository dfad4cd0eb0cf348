package models

// Group represents one lobby of a generation run.
type Group struct {
	// ID is the 4-letter code, unique within a run.
	ID string

	// Owner is the leader's player name.
	Owner string

	// Name is the display name, "<owner>'s Group".
	Name string

	Region   string
	Gamemode string
	Open     bool

	// RoleQueue is nil when the group does not enforce role quotas.
	RoleQueue *RoleQueue

	Settings GroupSettings

	// Members holds the leader first, then the other members.
	// Exactly one member has Leader set.
	Members []Player
}

// GroupSettings are the lobby-wide communication and platform preferences.
type GroupSettings struct {
	// Platforms may be empty, meaning any platform is welcome.
	Platforms []string
	VoiceChat bool
	Mic       bool
}

// RoleQueue is a per-role slot quota. The three counts sum to the group size.
type RoleQueue struct {
	Vanguards   int
	Duelists    int
	Strategists int
}

// Total returns the number of slots the quota covers.
func (q RoleQueue) Total() int {
	return q.Vanguards + q.Duelists + q.Strategists
}

// Min returns the smallest of the three counts.
func (q RoleQueue) Min() int {
	return min(q.Vanguards, q.Duelists, q.Strategists)
}

// GroupMember is one row of the group membership relation.
type GroupMember struct {
	GroupID  string
	PlayerID int
	Leader   bool
}

// Leader returns the group's leader, or false if the member list is empty.
func (g *Group) Leader() (Player, bool) {
	if len(g.Members) == 0 {
		return Player{}, false
	}
	return g.Members[0], true
}

// Memberships flattens the member list into membership rows, leader first.
func (g *Group) Memberships() []GroupMember {
	rows := make([]GroupMember, len(g.Members))
	for i, m := range g.Members {
		rows[i] = GroupMember{
			GroupID:  g.ID,
			PlayerID: m.ID,
			Leader:   m.Leader,
		}
	}
	return rows
}

// Dataset is the output of one generation run.
type Dataset struct {
	// RunID identifies the run (UUID format).
	RunID string

	// Seed is the random seed the run was generated from.
	Seed int64

	// Players is the full player pool, ordered by ID.
	Players []Player

	Groups []Group
}
