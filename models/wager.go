package models

// Shared wager lifecycle statuses. Every wager type moves pending -> locked ->
// settled; parlay legs use the leg statuses below instead of "settled".
const (
	WagerPending = "pending"
	WagerLocked  = "locked"
	WagerSettled = "settled"
)

const (
	LegWon  = "won"
	LegLost = "lost"
	LegPush = "push"
)
