// Package world provides the game world model: rooms and the named exits
// connecting them.
package world

import (
	"fmt"
	"sort"
	"strings"
)

// Exit represents a named passage from one room to another. Exits are
// free-form names ("outside", "stairs"), not compass directions.
type Exit struct {
	// Name is what the player types after "go".
	Name string
	// TargetRoom is the ID of the destination room.
	TargetRoom string
}

// Room represents a location in the game world.
type Room struct {
	// ID uniquely identifies this room within the world.
	ID string
	// Description is the room description shown to players.
	Description string
	// Exits lists all passages leading out of this room.
	Exits []Exit
}

// ExitNamed returns the exit with the given name, if one exists.
// Matching is case-insensitive.
//
// Postcondition: Returns (exit, true) if found, or (Exit{}, false) otherwise.
func (r *Room) ExitNamed(name string) (Exit, bool) {
	name = strings.ToLower(name)
	for _, e := range r.Exits {
		if strings.ToLower(e.Name) == name {
			return e, true
		}
	}
	return Exit{}, false
}

// ExitNames returns the names of all exits in sorted order, for display.
func (r *Room) ExitNames() []string {
	names := make([]string, 0, len(r.Exits))
	for _, e := range r.Exits {
		names = append(names, e.Name)
	}
	sort.Strings(names)
	return names
}

// World is the immutable set of rooms players move between.
type World struct {
	// StartRoom is where newly named players appear.
	StartRoom string

	rooms map[string]*Room
}

// New creates a World from a room list and a starting room.
//
// Precondition: rooms must be non-empty.
// Postcondition: Returns a World that passes Validate, or a non-nil error.
func New(rooms []Room, startRoom string) (*World, error) {
	w := &World{
		StartRoom: startRoom,
		rooms:     make(map[string]*Room, len(rooms)),
	}
	for i := range rooms {
		room := rooms[i]
		if _, exists := w.rooms[room.ID]; exists {
			return nil, fmt.Errorf("duplicate room id %q", room.ID)
		}
		w.rooms[room.ID] = &room
	}

	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// Room returns the room with the given ID, if one exists.
func (w *World) Room(id string) (*Room, bool) {
	room, ok := w.rooms[id]
	return room, ok
}

// RoomCount returns the number of rooms in the world.
func (w *World) RoomCount() int {
	return len(w.rooms)
}

// Validate checks world invariants: a resolvable start room and exit
// targets that all point at existing rooms.
//
// Postcondition: Returns nil if the world is internally consistent.
func (w *World) Validate() error {
	if len(w.rooms) == 0 {
		return fmt.Errorf("world has no rooms")
	}
	if _, ok := w.rooms[w.StartRoom]; !ok {
		return fmt.Errorf("start room %q does not exist", w.StartRoom)
	}
	for _, room := range w.rooms {
		if room.ID == "" {
			return fmt.Errorf("room with empty id")
		}
		for _, exit := range room.Exits {
			if exit.Name == "" {
				return fmt.Errorf("room %q has an exit with no name", room.ID)
			}
			if _, ok := w.rooms[exit.TargetRoom]; !ok {
				return fmt.Errorf("room %q exit %q targets unknown room %q",
					room.ID, exit.Name, exit.TargetRoom)
			}
		}
	}
	return nil
}
