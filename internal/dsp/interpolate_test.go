package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDCInputProducesFiniteMagnitudes(t *testing.T) {
	fb := NewFilterBank()
	block := NewBlock()
	for i := range block.Re {
		block.Re[i] = 1
		block.Im[i] = 0
	}

	m := NewMagnitudeMatrix()
	Apply(fb, block, m)

	for i := 0; i < Phases; i++ {
		for j := 0; j < 10; j++ {
			v := m.Mag[i][j]
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
			assert.Greater(t, v, 0.0, "a DC input should produce nonzero magnitude at every phase")
		}
	}
}

func TestNewBlockPaddingIsNeverZero(t *testing.T) {
	b := NewBlock()
	for i := BlockSamples; i < len(b.Re); i++ {
		assert.NotEqual(t, 0.0, b.Re[i])
		assert.NotEqual(t, 0.0, b.Im[i])
	}
}
