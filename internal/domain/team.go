package domain

// Team identifiers as the game client submits them.
type Team int

const (
	TeamNone Team = 0
	TeamT    Team = 2
	TeamCT   Team = 3
)

// Valid reports whether t is a known team value.
func (t Team) Valid() bool {
	return t == TeamNone || t == TeamT || t == TeamCT
}
