// Package game implements the game layer behind the connection server's
// bridge: player tracking, the naming flow, and command dispatch over a
// room-based world.
package game

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/DerekShute/muddle/internal/frontend"
	"github.com/DerekShute/muddle/internal/game/command"
	"github.com/DerekShute/muddle/internal/game/world"
)

// Game implements frontend.GameBridge. All player and room state is guarded
// by a single mutex; command dispatch runs inline on OnInput under that
// lock, and outputs leave through per-player queues so no transport write
// ever happens while the lock is held.
type Game struct {
	world    *world.World
	registry *command.Registry
	logger   *zap.Logger
	motd     string

	mu      sync.Mutex
	players map[frontend.ConnID]*Player
}

// New creates a Game over the given world.
//
// Precondition: w and logger must be non-nil; w must have been validated.
func New(w *world.World, motd string, logger *zap.Logger) *Game {
	return &Game{
		world:    w,
		registry: command.DefaultRegistry(),
		logger:   logger,
		motd:     motd,
		players:  make(map[frontend.ConnID]*Player),
	}
}

// OnConnect creates an unnamed player for the new connection and prompts
// for a name.
func (g *Game) OnConnect(id frontend.ConnID) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := NewPlayer(id)
	g.players[id] = p

	p.Message(g.motd)
	p.Message("What is your name?")

	g.logger.Info("player joined",
		zap.Uint64("conn_id", uint64(id)),
	)
}

// OnDisconnect removes the player and, if they had given a name, announces
// their departure to everyone still connected.
func (g *Game) OnDisconnect(id frontend.ConnID) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.players[id]
	if !ok {
		return
	}
	delete(g.players, id)
	p.queue.Close()

	if p.Named() {
		g.messageAll(fmt.Sprintf("%s quit the game", p.Name))
	}

	g.logger.Info("player left",
		zap.Uint64("conn_id", uint64(id)),
		zap.String("name", p.Name),
	)
}

// OnInput handles one line of player input: the first line names the
// player, every later line is dispatched through the command table.
func (g *Game) OnInput(id frontend.ConnID, text string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.players[id]
	if !ok {
		g.logger.Warn("input for unknown connection",
			zap.Uint64("conn_id", uint64(id)),
		)
		return
	}

	if !p.Named() {
		fields := strings.Fields(text)
		if len(fields) == 0 {
			p.Message("What is your name?")
			return
		}
		g.enterGame(p, fields[0])
		return
	}

	parsed := command.Parse(text)
	handler := handleUnknown
	if cmd, ok := g.registry.Resolve(parsed.Command); ok {
		if h, ok := gameHandlers[cmd.Handler]; ok {
			handler = h
		}
	}
	handler(g, p, parsed)
}

// GetOutput blocks until the next outbound message for id is available.
//
// Postcondition: Returns messages in enqueue order, ctx.Err() on
// cancellation, or a non-nil error for ids with no player.
func (g *Game) GetOutput(ctx context.Context, id frontend.ConnID) (string, error) {
	g.mu.Lock()
	p, ok := g.players[id]
	g.mu.Unlock()

	if !ok {
		return "", fmt.Errorf("no player for connection %d", id)
	}
	return p.queue.Pop(ctx)
}

// PlayerCount returns the number of connected players.
func (g *Game) PlayerCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.players)
}

// enterGame completes the naming flow: the player takes the given name,
// appears in the start room, and everyone hears about it.
//
// Precondition: g.mu must be held.
func (g *Game) enterGame(p *Player, name string) {
	p.Name = name
	p.RoomID = g.world.StartRoom

	g.messageOthers(p, fmt.Sprintf("%s entered the game", p.Name))
	p.Message(fmt.Sprintf("Welcome, %s. Type 'help' for a list of commands.", p.Name))

	if room, ok := g.world.Room(p.RoomID); ok {
		p.Message(room.Description)
	}

	g.logger.Info("player entered the game",
		zap.Uint64("conn_id", uint64(p.ID)),
		zap.String("name", p.Name),
		zap.String("room", p.RoomID),
	)
}

// messageAll sends text to every connected player.
//
// Precondition: g.mu must be held.
func (g *Game) messageAll(text string) {
	for _, p := range g.players {
		p.Message(text)
	}
}

// messageOthers sends text to every player except p.
//
// Precondition: g.mu must be held.
func (g *Game) messageOthers(p *Player, text string) {
	for _, other := range g.players {
		if other.ID != p.ID {
			other.Message(text)
		}
	}
}

// messageRoom sends text to every named player in roomID except p.
//
// Precondition: g.mu must be held.
func (g *Game) messageRoom(p *Player, roomID, text string) {
	for _, other := range g.players {
		if other.ID != p.ID && other.RoomID == roomID {
			other.Message(text)
		}
	}
}
