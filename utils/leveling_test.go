package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelForXP(t *testing.T) {
	cases := []struct {
		xp    int
		level int
	}{
		{0, 1},
		{1, 1},
		{99, 1},
		{100, 2},
		{101, 2},
		{199, 2},
		{200, 3},
		{999, 10},
		{1000, 11},
	}
	for _, c := range cases {
		assert.Equal(t, c.level, LevelForXP(c.xp), "xp=%d", c.xp)
	}
}

func TestLevelForXPNegativeClampsToOne(t *testing.T) {
	assert.Equal(t, 1, LevelForXP(-1))
	assert.Equal(t, 1, LevelForXP(-1000))
}

func TestLevelForXPMonotonic(t *testing.T) {
	prev := LevelForXP(0)
	for xp := 1; xp <= 5000; xp++ {
		cur := LevelForXP(xp)
		assert.GreaterOrEqual(t, cur, prev, "xp=%d", xp)
		prev = cur
	}
}

func TestXPForLevelRoundTrip(t *testing.T) {
	for level := 1; level <= 50; level++ {
		assert.Equal(t, level, LevelForXP(XPForLevel(level)))
	}
	assert.Equal(t, 0, XPForLevel(0))
	assert.Equal(t, 0, XPForLevel(-3))
}

func TestLevelProgress(t *testing.T) {
	cur, step := LevelProgress(250)
	assert.Equal(t, 50, cur)
	assert.Equal(t, 100, step)

	cur, _ = LevelProgress(-10)
	assert.Equal(t, 0, cur)
}
