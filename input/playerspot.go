package input

import "github.com/nomadcore/rollback/rollconst"

// MaxPlayers is the compile-time constant bounding the number of
// simultaneous sim participants. Must agree across peers.
const MaxPlayers = rollconst.MaxPlayers

// Spot identifies a seat within a session, distinct from any
// network-level player identifier. Values 0..MaxPlayers-1 are sim
// participants; Spectator is an additional value that never participates
// in the simulation.
type Spot uint8

const (
	Player1 Spot = iota
	Player2
	Player3
	Player4
	Spectator
)

// IsValidTotalPlayers reports whether n is a legal total-player count.
func IsValidTotalPlayers[N int | uint8](n N) bool {
	return n >= 1 && int(n) <= MaxPlayers
}

// IsOutsideTotalPlayers reports whether spot falls outside the first
// totalPlayers seats.
func IsOutsideTotalPlayers(totalPlayers uint8, spot Spot) bool {
	return int(spot)+1 > int(totalPlayers)
}
