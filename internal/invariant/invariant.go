// Package invariant checks generated datasets for the consistency rules the
// generator promises: unique identifiers, well-formed role quotas, valid
// role-gated characters, a single leading member and rank adjacency.
package invariant

import (
	"fmt"
	"strings"

	"github.com/mmynk/lobbygen/internal/models"
)

// Rules are the parameters a dataset was generated with.
type Rules struct {
	GroupSize     int
	MinPerRole    int
	RankAdjacency bool
	RankWindow    int
}

// Violation describes one broken rule.
type Violation struct {
	GroupID  string // empty for pool-level violations
	PlayerID int    // zero when the violation is not about one player
	Message  string
}

func (v Violation) String() string {
	var b strings.Builder
	if v.GroupID != "" {
		fmt.Fprintf(&b, "group %s: ", v.GroupID)
	}
	if v.PlayerID != 0 {
		fmt.Fprintf(&b, "player %d: ", v.PlayerID)
	}
	b.WriteString(v.Message)
	return b.String()
}

// Error aggregates every violation found by Check.
type Error struct {
	Violations []Violation
}

func (e *Error) Error() string {
	const maxListed = 5
	msgs := make([]string, 0, maxListed)
	for i, v := range e.Violations {
		if i == maxListed {
			msgs = append(msgs, fmt.Sprintf("and %d more", len(e.Violations)-maxListed))
			break
		}
		msgs = append(msgs, v.String())
	}
	return fmt.Sprintf("%d invariant violations: %s", len(e.Violations), strings.Join(msgs, "; "))
}

type checker struct {
	rules      Rules
	violations []Violation
}

func (c *checker) fail(groupID string, playerID int, format string, args ...any) {
	c.violations = append(c.violations, Violation{
		GroupID:  groupID,
		PlayerID: playerID,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Check verifies ds against rules and returns an *Error listing every
// violation, or nil when the dataset is consistent.
func Check(ds *models.Dataset, rules Rules) error {
	c := &checker{rules: rules}

	names := make(map[string]int, len(ds.Players))
	ids := make(map[int]bool, len(ds.Players))
	for _, p := range ds.Players {
		if ids[p.ID] {
			c.fail("", p.ID, "duplicate player id")
		}
		ids[p.ID] = true
		if other, ok := names[p.Name]; ok {
			c.fail("", p.ID, "name %q already used by player %d", p.Name, other)
		}
		names[p.Name] = p.ID
		c.checkPlayer("", p)
	}

	groupIDs := make(map[string]bool, len(ds.Groups))
	for i := range ds.Groups {
		g := &ds.Groups[i]
		if groupIDs[g.ID] {
			c.fail(g.ID, 0, "duplicate group id")
		}
		groupIDs[g.ID] = true
		c.checkGroup(g)
	}

	if len(c.violations) > 0 {
		return &Error{Violations: c.violations}
	}
	return nil
}

func (c *checker) checkGroup(g *models.Group) {
	if q := g.RoleQueue; q != nil {
		if q.Total() != c.rules.GroupSize {
			c.fail(g.ID, 0, "role queue sums to %d, want %d", q.Total(), c.rules.GroupSize)
		}
		if q.Min() < c.rules.MinPerRole {
			c.fail(g.ID, 0, "role queue %d/%d/%d has a count below %d",
				q.Vanguards, q.Duelists, q.Strategists, c.rules.MinPerRole)
		}
	}

	if n := len(g.Members); n == 0 || n > c.rules.GroupSize {
		c.fail(g.ID, 0, "has %d members, want 1..%d", n, c.rules.GroupSize)
		if n == 0 {
			return
		}
	}

	leader := g.Members[0]
	if !leader.Leader {
		c.fail(g.ID, leader.ID, "first member is not flagged leader")
	}
	if g.Owner != "" && g.Owner != leader.Name {
		c.fail(g.ID, leader.ID, "owner %q is not the first member %q", g.Owner, leader.Name)
	}

	seen := make(map[string]bool, len(g.Members))
	for i, m := range g.Members {
		if seen[m.Name] {
			c.fail(g.ID, m.ID, "member %q appears more than once", m.Name)
		}
		seen[m.Name] = true
		if i > 0 && m.Leader {
			c.fail(g.ID, m.ID, "non-first member flagged leader")
		}
		if i > 0 && c.rules.RankAdjacency && !leader.Rank.Within(m.Rank, c.rules.RankWindow) {
			c.fail(g.ID, m.ID, "rank %s (%d) outside window %d of leader rank %s (%d)",
				m.Rank.ID, m.Rank.Value, c.rules.RankWindow, leader.Rank.ID, leader.Rank.Value)
		}
		c.checkPlayer(g.ID, m)
	}

	platforms := make(map[string]bool, len(g.Settings.Platforms))
	for _, p := range g.Settings.Platforms {
		if platforms[p] {
			c.fail(g.ID, 0, "platform %q listed more than once", p)
		}
		platforms[p] = true
	}
}

func (c *checker) checkPlayer(groupID string, p models.Player) {
	if len(p.Roles) == 0 {
		c.fail(groupID, p.ID, "has no roles")
	}
	roles := make(map[string]bool, len(p.Roles))
	for _, r := range p.Roles {
		if roles[r] {
			c.fail(groupID, p.ID, "role %q listed more than once", r)
		}
		roles[r] = true
		if _, ok := models.Characters[r]; !ok {
			c.fail(groupID, p.ID, "unknown role %q", r)
		}
	}

	if len(p.Characters) == 0 {
		c.fail(groupID, p.ID, "has no characters")
	}
	chars := make(map[string]bool, len(p.Characters))
	for _, ch := range p.Characters {
		if chars[ch] {
			c.fail(groupID, p.ID, "character %q listed more than once", ch)
		}
		chars[ch] = true
		role, ok := models.RoleOf(ch)
		if !ok {
			c.fail(groupID, p.ID, "unknown character %q", ch)
			continue
		}
		if !roles[role] {
			c.fail(groupID, p.ID, "character %q requires role %s", ch, role)
		}
	}
}
