package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeuristicCounterEmpty(t *testing.T) {
	c := HeuristicCounter{}
	assert.Equal(t, 0, c.Count(""))
	assert.Equal(t, 0, c.Count("   \n\t"))
}

func TestHeuristicCounterWords(t *testing.T) {
	c := HeuristicCounter{}
	assert.Equal(t, 1, c.Count("hello"))
	assert.Equal(t, 3, c.Count("one two three"))
}

func TestHeuristicCounterLongWords(t *testing.T) {
	c := HeuristicCounter{}
	// A 16-character word counts as more than one token.
	got := c.Count("pneumonoultramicroscopic")
	assert.Greater(t, got, 1)
}

func TestHeuristicCounterDeterministic(t *testing.T) {
	c := HeuristicCounter{}
	text := "The same text always yields the same estimate."
	assert.Equal(t, c.Count(text), c.Count(text))
}
