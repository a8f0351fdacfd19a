package game

import "github.com/DerekShute/muddle/internal/frontend"

// Player tracks one connected player's state. A player is created unnamed
// on connect; the first line of input becomes their name and places them in
// the world.
type Player struct {
	// ID is the connection identity this player is bound to.
	ID frontend.ConnID
	// Name is the player's chosen name; empty until the naming flow runs.
	Name string
	// RoomID is the current room; empty until the player enters the world.
	RoomID string

	queue *MessageQueue
}

// NewPlayer creates an unnamed player for the given connection.
func NewPlayer(id frontend.ConnID) *Player {
	return &Player{
		ID:    id,
		queue: NewMessageQueue(),
	}
}

// Named reports whether the player has completed the naming flow.
func (p *Player) Named() bool {
	return p.Name != ""
}

// Message enqueues a line of text for delivery to the player.
func (p *Player) Message(text string) {
	p.queue.Push(text)
}
