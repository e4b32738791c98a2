package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterBankKernelsAreFinite(t *testing.T) {
	fb := NewFilterBank()
	for i := 0; i < Phases; i++ {
		var sum float64
		for j := 0; j < Taps; j++ {
			v := fb.Kernel[i][j]
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "phase %d tap %d is not finite", i, j)
			sum += math.Abs(v)
		}
		assert.False(t, math.IsInf(sum, 0))
	}
}

func TestFilterBankDCGainNearUnity(t *testing.T) {
	fb := NewFilterBank()
	for i := 0; i < Phases; i++ {
		var gain float64
		for j := 0; j < Taps; j++ {
			gain += fb.Kernel[i][j]
		}
		assert.InDelta(t, 1.0, gain, 0.15, "phase %d DC gain should be close to 1", i)
	}
}

func TestFilterBankReferenceKernelLastTapVanishes(t *testing.T) {
	fb := NewFilterBank()
	assert.InDelta(t, 0.0, fb.Kernel[0][Taps-1], 1e-9, "the reference (phase 0) kernel's last tap should vanish under the asymmetric Hann window")
	assert.Greater(t, fb.Kernel[0][0], 0.0, "the reference kernel's first tap should be nonzero")
}
