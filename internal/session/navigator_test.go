package session

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNavigatorClampsAtBoundaries(t *testing.T) {
	nav := NewNavigator(3)

	// Previous on the first question is a no-op
	nav.Previous()
	assert.Equal(t, 0, nav.Index())

	nav.Next()
	nav.Next()
	assert.Equal(t, 2, nav.Index())

	// Next on the last question is a no-op, not an error
	nav.Next()
	assert.Equal(t, 2, nav.Index())
}

func TestNavigatorJumpTo(t *testing.T) {
	nav := NewNavigator(5)

	require.NoError(t, nav.JumpTo(4))
	assert.Equal(t, 4, nav.Index())

	assert.ErrorIs(t, nav.JumpTo(5), ErrOutOfRange)
	assert.ErrorIs(t, nav.JumpTo(-1), ErrOutOfRange)

	// Failed jumps leave the index unchanged
	assert.Equal(t, 4, nav.Index())
}

func TestNavigatorIndexStaysInRange(t *testing.T) {
	const n = 7
	nav := NewNavigator(n)
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 1000; i++ {
		switch rng.Intn(3) {
		case 0:
			nav.Next()
		case 1:
			nav.Previous()
		default:
			_ = nav.JumpTo(rng.Intn(n + 2)) // occasionally out of range on purpose
		}
		require.GreaterOrEqual(t, nav.Index(), 0)
		require.Less(t, nav.Index(), n)
	}
}
