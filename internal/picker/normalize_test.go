package picker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDegenerate(t *testing.T) {
	assert.Equal(t, []float64{0.0, 0.0, 0.0}, Normalize([]float64{7.5, 7.5, 7.5}))
}

func TestNormalizeTwoValues(t *testing.T) {
	assert.Equal(t, []float64{0.0, 1.0}, Normalize([]float64{3.0, 9.0}))
}

func TestNormalizeRange(t *testing.T) {
	got := Normalize([]float64{10, 20, 30})
	assert.InDelta(t, 0.0, got[0], 1e-12)
	assert.InDelta(t, 0.5, got[1], 1e-12)
	assert.InDelta(t, 1.0, got[2], 1e-12)
}

func TestNormalizeEmpty(t *testing.T) {
	assert.Nil(t, Normalize(nil))
}
