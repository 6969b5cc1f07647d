package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	for _, s := range []string{"w", "white"} {
		c, err := ParseColor(s)
		require.NoError(t, err)
		assert.Equal(t, ColorWhite, c)
	}
	for _, s := range []string{"b", "black"} {
		c, err := ParseColor(s)
		require.NoError(t, err)
		assert.Equal(t, ColorBlack, c)
	}

	_, err := ParseColor("red")
	assert.Error(t, err)

	// archived moves store the color byte as a string
	c, err := ParseColor(string(rune(ColorBlack)))
	require.NoError(t, err)
	assert.Equal(t, "Black", c.Name())
}

func TestParseSquare(t *testing.T) {
	sq, err := ParseSquare("e2")
	require.NoError(t, err)
	assert.Equal(t, Sq(6, 4), sq)
	assert.Equal(t, "e2", sq.String())

	sq, err = ParseSquare("A8")
	require.NoError(t, err)
	assert.Equal(t, Sq(0, 0), sq)

	for _, bad := range []string{"", "e", "e9", "i1", "e22"} {
		_, err := ParseSquare(bad)
		assert.Error(t, err, bad)
	}
}
