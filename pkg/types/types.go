package types

import "time"

// DefaultRoom is the single class room every connection lands in.
const DefaultRoom = "mainClassRoom"

// Participant is one connected client occupying a slot in a room.
type Participant struct {
	ID     string    `json:"id"`
	Room   string    `json:"room"`
	Joined time.Time `json:"joined"`
}
