// Package models defines the record types and catalogs for lobbygen.
//
// # Records
//
// The generator produces three kinds of records:
//   - Player: one entry of the player pool, with platform, roles, rank and character picks
//   - Group: a lobby with settings, an optional role queue and its member list (leader first)
//   - GroupMember: the (group, player, leader) relation derived from a Group
//
// A Dataset bundles the pool and the groups of one generation run.
//
// # Catalogs
//
// Regions, platforms, game modes, roles, the role-gated character catalog and
// the rank domain are fixed tables. They mirror the values accepted by the
// matchmaking backend so generated rows load without validation failures.
//
// # Design Principles
//
// 1. **Plain values**: records hold no pointers to each other; groups refer to
// players by copying them with the leader flag set per membership
// 2. **One rank domain**: every rank is an entry of Ranks, carrying both its
// short id (used by JSON) and its numeric value (used by SQL and adjacency)
package models
