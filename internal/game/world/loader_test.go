package world

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleWorldYAML = `
world:
  start_room: tavern
  rooms:
    - id: tavern
      description: "You're in a cozy tavern warmed by an open fire."
      exits:
        outside: street
    - id: street
      description: "A rainy street."
      exits:
        inside: tavern
`

func TestLoadFromBytes(t *testing.T) {
	w, err := LoadFromBytes([]byte(sampleWorldYAML))
	require.NoError(t, err)

	assert.Equal(t, "tavern", w.StartRoom)
	assert.Equal(t, 2, w.RoomCount())

	room, ok := w.Room("tavern")
	require.True(t, ok)
	assert.Contains(t, room.Description, "cozy tavern")

	exit, ok := room.ExitNamed("outside")
	require.True(t, ok)
	assert.Equal(t, "street", exit.TargetRoom)
}

func TestLoadFromBytesInvalidYAML(t *testing.T) {
	_, err := LoadFromBytes([]byte("world: [not: a: mapping"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing world YAML")
}

func TestLoadFromBytesFailsValidation(t *testing.T) {
	_, err := LoadFromBytes([]byte(`
world:
  start_room: nowhere
  rooms:
    - id: tavern
      description: "A tavern."
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start room")
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleWorldYAML), 0o644))

	w, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, w.RoomCount())
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefaultWorld(t *testing.T) {
	w := Default()
	require.NoError(t, w.Validate())
	assert.Equal(t, "tavern", w.StartRoom)
	assert.Equal(t, 2, w.RoomCount())

	tavern, ok := w.Room("tavern")
	require.True(t, ok)
	_, ok = tavern.ExitNamed("outside")
	assert.True(t, ok)
}
