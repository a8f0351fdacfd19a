package world

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlWorldFile is the top-level YAML structure for world files.
type yamlWorldFile struct {
	World yamlWorld `yaml:"world"`
}

// yamlWorld is the YAML representation of a world.
type yamlWorld struct {
	StartRoom string     `yaml:"start_room"`
	Rooms     []yamlRoom `yaml:"rooms"`
}

// yamlRoom is the YAML representation of a room.
type yamlRoom struct {
	ID          string            `yaml:"id"`
	Description string            `yaml:"description"`
	Exits       map[string]string `yaml:"exits"`
}

// LoadFromFile reads and validates a world YAML file.
//
// Precondition: path must point to a valid YAML world file.
// Postcondition: Returns a validated World or a non-nil error.
func LoadFromFile(path string) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading world file %s: %w", path, err)
	}
	w, err := LoadFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("loading world from %s: %w", path, err)
	}
	return w, nil
}

// LoadFromBytes parses and validates a world from YAML bytes.
//
// Precondition: data must be valid YAML conforming to the world schema.
// Postcondition: Returns a validated World or a non-nil error.
func LoadFromBytes(data []byte) (*World, error) {
	var file yamlWorldFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing world YAML: %w", err)
	}

	rooms := make([]Room, 0, len(file.World.Rooms))
	for _, yr := range file.World.Rooms {
		room := Room{
			ID:          yr.ID,
			Description: yr.Description,
		}
		for name, target := range yr.Exits {
			room.Exits = append(room.Exits, Exit{Name: name, TargetRoom: target})
		}
		rooms = append(rooms, room)
	}

	w, err := New(rooms, file.World.StartRoom)
	if err != nil {
		return nil, fmt.Errorf("validating world: %w", err)
	}
	return w, nil
}

// Default returns the built-in two-room world used when no world file is
// configured: a tavern and the rainy street outside it.
func Default() *World {
	w, err := New([]Room{
		{
			ID:          "tavern",
			Description: "You're in a cozy tavern warmed by an open fire.",
			Exits:       []Exit{{Name: "outside", TargetRoom: "outside"}},
		},
		{
			ID:          "outside",
			Description: "You're standing outside a tavern. It's raining.",
			Exits:       []Exit{{Name: "inside", TargetRoom: "tavern"}},
		},
	}, "tavern")
	if err != nil {
		panic(fmt.Sprintf("building default world: %v", err))
	}
	return w
}
