package generator

import (
	"fmt"

	"github.com/cohesivestack/valgo"
)

const (
	DefaultGroupSize       = 6
	DefaultMinPerRole      = 1
	DefaultRoleQueueChance = 0.8
	DefaultMaxCharacters   = 3
	DefaultIDLength        = 4
	DefaultIDAlphabet      = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	DefaultRankWindow      = 10
	DefaultSaturationRatio = 0.8
	DefaultPlayerPoolSize  = 499
	DefaultMaxRetries      = 1000
)

// AnyRank disables rank adjacency filtering in SampleGroupMembers.
const AnyRank = -1

// Config controls the shape of generated records.
type Config struct {
	// GroupSize is the maximum member count and the total every role quota sums to.
	GroupSize int `yaml:"groupSize"` // default: 6
	// MinPerRole is the lower bound for each count of a group role quota.
	MinPerRole int `yaml:"minPerRole"` // default: 1
	// RoleQueueChance is the probability that a group enforces a role quota.
	RoleQueueChance float64 `yaml:"roleQueueChance"` // default: 0.8
	// MaxCharacters caps the characters picked per player. Zero means no cap
	// beyond the size of the role-gated pool.
	MaxCharacters int `yaml:"maxCharacters"` // default: 3

	IDLength   int    `yaml:"idLength"`   // default: 4
	IDAlphabet string `yaml:"idAlphabet"` // default: A-Z

	// RankAdjacency restricts group members to ranks within RankWindow of the owner.
	RankAdjacency bool `yaml:"rankAdjacency"` // default: true
	RankWindow    int  `yaml:"rankWindow"`    // default: 10

	// SaturationRatio is the share of the pool that must be in use before the
	// used-player set is cleared.
	SaturationRatio float64 `yaml:"saturationRatio"` // default: 0.8
	PlayerPoolSize  int     `yaml:"playerPoolSize"`  // default: 499

	// MaxRetries bounds every rejection sampling loop.
	MaxRetries int `yaml:"maxRetries"` // default: 1000
}

func (c *Config) InitDefaults() {
	c.GroupSize = DefaultGroupSize
	c.MinPerRole = DefaultMinPerRole
	c.RoleQueueChance = DefaultRoleQueueChance
	c.MaxCharacters = DefaultMaxCharacters
	c.IDLength = DefaultIDLength
	c.IDAlphabet = DefaultIDAlphabet
	c.RankAdjacency = true
	c.RankWindow = DefaultRankWindow
	c.SaturationRatio = DefaultSaturationRatio
	c.PlayerPoolSize = DefaultPlayerPoolSize
	c.MaxRetries = DefaultMaxRetries
}

// DefaultConfig returns a Config with every field at its default.
func DefaultConfig() Config {
	var c Config
	c.InitDefaults()
	return c
}

// rankWindow returns the window SampleGroupMembers should apply.
func (c Config) rankWindow() int {
	if !c.RankAdjacency {
		return AnyRank
	}
	return c.RankWindow
}

// Validation checks that the configured constraints can be satisfied. A role
// quota needs room for MinPerRole in each of the three roles.
func (c *Config) Validation() *valgo.Validation {
	v := valgo.Is(
		valgo.Int(c.GroupSize, "groupSize").GreaterOrEqualTo(1),
		valgo.Int(c.MinPerRole, "minPerRole").GreaterOrEqualTo(0),
		valgo.Float64(c.RoleQueueChance, "roleQueueChance").GreaterOrEqualTo(0).LessOrEqualTo(1),
		valgo.Int(c.MaxCharacters, "maxCharacters").GreaterOrEqualTo(0),
		valgo.Int(c.IDLength, "idLength").GreaterOrEqualTo(1),
		valgo.String(c.IDAlphabet, "idAlphabet").Not().Blank().Passing(distinctSymbols, "Must be distinct ASCII symbols"),
		valgo.Int(c.RankWindow, "rankWindow").GreaterOrEqualTo(0),
		valgo.Float64(c.SaturationRatio, "saturationRatio").GreaterThan(0).LessOrEqualTo(1),
		valgo.Int(c.PlayerPoolSize, "playerPoolSize").GreaterOrEqualTo(1),
		valgo.Int(c.MaxRetries, "maxRetries").GreaterOrEqualTo(1),
	)
	if c.RoleQueueChance > 0 {
		v.Is(valgo.Int(c.MinPerRole, "minPerRole").Passing(func(n int) bool {
			return 3*n <= c.GroupSize
		}, fmt.Sprintf("Must leave room for three roles in a group of %d", c.GroupSize)))
	}
	return v
}

func distinctSymbols(s string) bool {
	var seen [256]bool
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 || seen[s[i]] {
			return false
		}
		seen[s[i]] = true
	}
	return true
}
