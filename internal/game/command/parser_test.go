package command

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestParseBareCommand(t *testing.T) {
	result := Parse("look")
	assert.Equal(t, "look", result.Command)
	assert.Empty(t, result.Args)
	assert.Empty(t, result.RawArgs)
}

func TestParseCommandWithArgs(t *testing.T) {
	result := Parse("go outside")
	assert.Equal(t, "go", result.Command)
	assert.Equal(t, []string{"outside"}, result.Args)
	assert.Equal(t, "outside", result.RawArgs)
}

func TestParseLowercasesCommandOnly(t *testing.T) {
	result := Parse("SAY Hello There")
	assert.Equal(t, "say", result.Command)
	assert.Equal(t, "Hello There", result.RawArgs)
}

func TestParsePreservesArgSpacing(t *testing.T) {
	result := Parse("say hello   spaced   world")
	assert.Equal(t, "hello   spaced   world", result.RawArgs)
	assert.Equal(t, []string{"hello", "spaced", "world"}, result.Args)
}

func TestParseTrimsSurroundingSpace(t *testing.T) {
	result := Parse("  look  ")
	assert.Equal(t, "look", result.Command)
	assert.Empty(t, result.Args)
}

func TestParseEmptyLine(t *testing.T) {
	assert.Equal(t, ParseResult{}, Parse(""))
	assert.Equal(t, ParseResult{}, Parse("   "))
}

func TestPropertyParseCommandIsLowercaseFirstWord(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		line := rapid.StringMatching(`[A-Za-z]{1,10}( [A-Za-z ]{0,20})?`).Draw(t, "line")
		result := Parse(line)

		fields := strings.Fields(line)
		if len(fields) == 0 {
			assert.Equal(t, ParseResult{}, result)
			return
		}
		assert.Equal(t, strings.ToLower(fields[0]), result.Command)
		if len(fields) > 1 {
			assert.Equal(t, fields[1:], result.Args)
		} else {
			assert.Empty(t, result.Args)
		}
	})
}
