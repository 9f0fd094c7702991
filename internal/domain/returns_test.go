package domain

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReturnSet_ComputesRelativeChanges(t *testing.T) {
	set, err := NewReturnSet([]float64{100, 110, 99})
	require.NoError(t, err)

	values := set.Values()
	require.Len(t, values, 2)
	assert.InDelta(t, -0.1, values[0], 1e-12)
	assert.InDelta(t, 0.1, values[1], 1e-12)
}

func TestNewReturnSet_CollapsesDuplicates(t *testing.T) {
	// retornos 0, 0, +1, 0 → set {0, 1}
	set, err := NewReturnSet([]float64{100, 100, 100, 200, 200})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1}, set.Values())
}

func TestNewReturnSet_SkipsInvalidRows(t *testing.T) {
	set, err := NewReturnSet([]float64{100, math.NaN(), 0, 50, 55})
	require.NoError(t, err)
	require.Equal(t, 1, set.Len())
	assert.InDelta(t, 0.1, set.Values()[0], 1e-12)
}

func TestNewReturnSet_Empty(t *testing.T) {
	_, err := NewReturnSet(nil)
	assert.ErrorIs(t, err, ErrEmptyData)

	_, err = NewReturnSet([]float64{42})
	assert.ErrorIs(t, err, ErrEmptyData, "un solo cierre no tiene previo")
}

func TestReturnSet_Validate(t *testing.T) {
	assert.ErrorIs(t, ReturnSet{}.Validate(), ErrEmptyData)
	assert.NoError(t, ReturnSetOf(0.01).Validate())
}

func TestReturnSet_DrawStaysInSet(t *testing.T) {
	set := ReturnSetOf(-0.02, 0.01, 0.03)
	rng := rand.New(rand.NewPCG(1, 2))

	seen := map[float64]int{}
	for i := 0; i < 3000; i++ {
		seen[set.Draw(rng)]++
	}
	require.Len(t, seen, 3)
	for v, n := range seen {
		assert.Contains(t, set.Values(), v)
		assert.InDelta(t, 1000, n, 150, "draw should be uniform")
	}
}

func TestReturnSet_DrawDeterministic(t *testing.T) {
	set := ReturnSetOf(0.05, -0.01, 0.02, 0.0, -0.04)
	a := rand.New(rand.NewPCG(7, 7))
	b := rand.New(rand.NewPCG(7, 7))
	for i := 0; i < 100; i++ {
		assert.Equal(t, set.Draw(a), set.Draw(b))
	}
}
