package powerup

import (
	"testing"

	"github.com/lixenwraith/algebra-worms/worm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func worms(pos ...[2]float64) []*worm.Worm {
	out := make([]*worm.Worm, len(pos))
	for i, p := range pos {
		out[i] = &worm.Worm{ID: string(rune('a' + i)), X: p[0], Y: p[1], Active: true}
	}
	return out
}

func ids(ws []*worm.Worm) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.ID
	}
	return out
}

func TestFindWormAtPositionFirstMatch(t *testing.T) {
	ws := worms([2]float64{40, 0}, [2]float64{5, 0})
	got := FindWormAtPosition(ws, 0, 0, 50)
	require.NotNil(t, got)
	assert.Equal(t, "a", got.ID, "first within threshold, not nearest")

	assert.Nil(t, FindWormAtPosition(ws, 500, 500, 50))

	ws[0].Active = false
	assert.Equal(t, "b", FindWormAtPosition(ws, 0, 0, 50).ID)
}

func TestFindNearestWorm(t *testing.T) {
	ws := worms([2]float64{40, 0}, [2]float64{5, 0}, [2]float64{-3, 0})
	ws[2].Active = false
	assert.Equal(t, "b", FindNearestWorm(ws, 0, 0).ID)

	assert.Nil(t, FindNearestWorm(nil, 0, 0))
}

func TestChainLightningIncludesOriginByDefault(t *testing.T) {
	ws := worms([2]float64{0, 0}, [2]float64{30, 0}, [2]float64{10, 0}, [2]float64{20, 0})

	got := ChainLightningTargets(ws, ws[0], 3, false)
	assert.Equal(t, []string{"a", "c", "d"}, ids(got))

	got = ChainLightningTargets(ws, ws[0], 3, true)
	assert.Equal(t, []string{"c", "d", "b"}, ids(got))

	got = ChainLightningTargets(ws, ws[0], 10, false)
	assert.Len(t, got, 4)

	assert.Nil(t, ChainLightningTargets(ws, nil, 3, false))
}

func TestFindWormAtPositionThresholdIsExclusive(t *testing.T) {
	ws := worms([2]float64{50, 0})
	assert.Nil(t, FindWormAtPosition(ws, 0, 0, 50))
	require.NotNil(t, FindWormAtPosition(ws, 0.5, 0, 50))
}

func TestTargeterUsesConfig(t *testing.T) {
	tg := NewTargeter(Config{HitThreshold: 10, ChainKillCount: 1, ExcludeOrigin: true})
	ws := worms([2]float64{0, 0}, [2]float64{30, 0})

	// b sits exactly on the threshold
	assert.Nil(t, tg.At(ws, 20, 0))
	assert.Equal(t, "b", tg.At(ws, 21, 0).ID)
	assert.Equal(t, []string{"b"}, ids(tg.Chain(ws, ws[0])))
	assert.True(t, KindDevil.Valid())
	assert.False(t, Kind("laser").Valid())
}
