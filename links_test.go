package radix_test

import (
	"testing"

	"github.com/qfs/radix"
	"github.com/stretchr/testify/assert"
)

func key(c, l, b int) radix.BeatKey { return radix.BeatKey{Channel: c, Line: l, Beat: b} }

func TestLinkPools(t *testing.T) {
	assert := assert.New(t)
	var l radix.LinkPools
	assert.Nil(l.Linked(key(0, 0, 0)))

	l.Link(key(0, 0, 2), key(0, 0, 0))
	l.Link(key(1, 0, 0), key(0, 0, 2))
	assert.Equal([]radix.BeatKey{key(0, 0, 0), key(0, 0, 2), key(1, 0, 0)}, l.Linked(key(1, 0, 0)))

	l.Link(key(3, 0, 0), key(2, 0, 0))
	assert.Equal([][]radix.BeatKey{
		{key(0, 0, 0), key(0, 0, 2), key(1, 0, 0)},
		{key(2, 0, 0), key(3, 0, 0)},
	}, l.Pools())

	l.Unlink(key(2, 0, 0))
	assert.False(l.IsLinked(key(3, 0, 0)), "a pool with one member should dissolve")

	l.Unlink(key(0, 0, 0))
	assert.Equal([]radix.BeatKey{key(0, 0, 2), key(1, 0, 0)}, l.Linked(key(0, 0, 2)))

	l.Link(key(0, 0, 2), key(0, 0, 2))
	assert.Len(l.Pools(), 1)
}

func TestLinkMovesBetweenPools(t *testing.T) {
	var l radix.LinkPools
	l.Link(key(0, 0, 1), key(0, 0, 0))
	l.Link(key(0, 0, 3), key(0, 0, 2))
	l.Link(key(0, 0, 1), key(0, 0, 2))
	assert.Equal(t, [][]radix.BeatKey{{key(0, 0, 1), key(0, 0, 2), key(0, 0, 3)}}, l.Pools())
}

func TestLinkRemap(t *testing.T) {
	var l radix.LinkPools
	l.Link(key(0, 0, 1), key(0, 0, 0))
	l.Link(key(0, 0, 3), key(0, 0, 0))
	l.Link(key(0, 0, 5), key(0, 0, 4))
	// remove beat 4, shifting the following beats left
	l.Remap(func(k radix.BeatKey) (radix.BeatKey, bool) {
		switch {
		case k.Beat == 4:
			return k, false
		case k.Beat > 4:
			k.Beat--
		}
		return k, true
	})
	assert.Equal(t, [][]radix.BeatKey{{key(0, 0, 0), key(0, 0, 1), key(0, 0, 3)}}, l.Pools())
}

func TestLinkPoolsCopy(t *testing.T) {
	var l radix.LinkPools
	l.Link(key(0, 0, 1), key(0, 0, 0))
	c := l.Copy()
	c.Unlink(key(0, 0, 1))
	assert.True(t, l.IsLinked(key(0, 0, 1)))
	assert.False(t, c.IsLinked(key(0, 0, 1)))
}
