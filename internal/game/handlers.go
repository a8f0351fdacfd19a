package game

import (
	"fmt"
	"sort"
	"strings"

	"github.com/DerekShute/muddle/internal/game/command"
)

// handlerFunc is the signature for all game dispatch functions. Handlers
// run with g.mu held and communicate only through player queues.
type handlerFunc func(g *Game, p *Player, parsed command.ParseResult)

// gameHandlers is the single source of truth for command dispatch.
// To add a new command: add a Handler constant and definition to the
// command package AND add an entry here.
var gameHandlers = map[string]handlerFunc{
	command.HandlerGo:   handleGo,
	command.HandlerLook: handleLook,
	command.HandlerSay:  handleSay,
	command.HandlerHelp: handleHelp,
}

// handleUnknown is the explicit default for input that resolves to no
// command.
func handleUnknown(g *Game, p *Player, parsed command.ParseResult) {
	p.Message(fmt.Sprintf("Unknown command '%s'", parsed.Command))
}

func handleSay(g *Game, p *Player, parsed command.ParseResult) {
	if parsed.RawArgs == "" {
		p.Message("Say what?")
		return
	}
	g.messageRoom(p, p.RoomID, fmt.Sprintf("%s says: %s", p.Name, parsed.RawArgs))
	p.Message(fmt.Sprintf("you say: %s", parsed.RawArgs))
}

func handleLook(g *Game, p *Player, parsed command.ParseResult) {
	room, ok := g.world.Room(p.RoomID)
	if !ok {
		p.Message("You are nowhere.")
		return
	}

	p.Message(room.Description)

	var here []string
	for _, other := range g.players {
		if other.RoomID == room.ID && other.Named() {
			here = append(here, other.Name)
		}
	}
	p.Message(fmt.Sprintf("Players here: %s", strings.Join(here, ", ")))
	p.Message(fmt.Sprintf("Exits are: %s", strings.Join(room.ExitNames(), ", ")))
}

func handleGo(g *Game, p *Player, parsed command.ParseResult) {
	exitName := strings.ToLower(parsed.RawArgs)
	room, ok := g.world.Room(p.RoomID)
	if !ok {
		p.Message("You are nowhere.")
		return
	}

	exit, ok := room.ExitNamed(exitName)
	if !ok {
		p.Message(fmt.Sprintf("Unknown exit '%s'", exitName))
		return
	}

	g.messageRoom(p, room.ID, fmt.Sprintf("%s left via exit '%s'", p.Name, exit.Name))
	p.RoomID = exit.TargetRoom
	g.messageRoom(p, p.RoomID, fmt.Sprintf("%s arrived via exit '%s'", p.Name, exit.Name))
	p.Message(fmt.Sprintf("You arrive at '%s'", p.RoomID))
}

func handleHelp(g *Game, p *Player, parsed command.ParseResult) {
	cmds := g.registry.Commands()
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })

	p.Message("Commands:")
	for _, cmd := range cmds {
		p.Message(fmt.Sprintf("  %-14s - %s, e.g. '%s'", commandLabel(cmd), cmd.Help, cmd.Usage))
	}
}

// commandLabel renders a command's name with its argument placeholder for
// help output.
func commandLabel(cmd *command.Command) string {
	switch cmd.Handler {
	case command.HandlerGo:
		return "go <exit>"
	case command.HandlerSay:
		return "say <message>"
	default:
		return cmd.Name
	}
}
