// Package command provides the command registry, parser, and built-in
// command definitions for the game layer.
package command

// Categories for organizing commands in help output.
const (
	CategoryMovement      = "movement"
	CategoryWorld         = "world"
	CategoryCommunication = "communication"
	CategorySystem        = "system"
)

// Handler identifiers mapping commands to game dispatch functions.
const (
	HandlerGo   = "go"
	HandlerLook = "look"
	HandlerSay  = "say"
	HandlerHelp = "help"

	// HandlerUnknown is the explicit default for unrecognized input.
	HandlerUnknown = "unknown"
)

// Command defines a player-invocable command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Help is the short help text displayed to players.
	Help string
	// Usage is the example shown in help output.
	Usage string
	// Category groups the command (movement, world, communication, system).
	Category string
	// Handler maps to the game dispatch function.
	Handler string
}

// BuiltinCommands returns all built-in commands for the game.
func BuiltinCommands() []Command {
	return []Command{
		{
			Name:     "go",
			Help:     "Moves through the exit specified",
			Usage:    "go outside",
			Category: CategoryMovement,
			Handler:  HandlerGo,
		},
		{
			Name:     "look",
			Aliases:  []string{"l"},
			Help:     "Examines the surroundings",
			Usage:    "look",
			Category: CategoryWorld,
			Handler:  HandlerLook,
		},
		{
			Name:     "say",
			Help:     "Says something out loud",
			Usage:    "say Hello",
			Category: CategoryCommunication,
			Handler:  HandlerSay,
		},
		{
			Name:     "help",
			Aliases:  []string{"?"},
			Help:     "Shows the list of commands",
			Usage:    "help",
			Category: CategorySystem,
			Handler:  HandlerHelp,
		},
	}
}
