package dsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCorrelatePerfectPreambleScoresOne(t *testing.T) {
	m := NewMagnitudeMatrix()
	for _, s := range preambleMarks {
		m.Mag[0][s] = 1
	}
	// all other slots in the 16-sample window are already zero

	c := NewCorrelationMatrix()
	Correlate(m, c)

	assert.InDelta(t, 1.0, c.Score[0][0], 1e-9, "a textbook preamble (marks=1, spaces=0) should score exactly 1")
}

func TestCorrelateFlatEnergyScoresNegativeHalf(t *testing.T) {
	m := NewMagnitudeMatrix()
	for j := 0; j < PreambleSlots; j++ {
		m.Mag[1][j] = 3
	}

	c := NewCorrelationMatrix()
	Correlate(m, c)

	assert.InDelta(t, -0.5, c.Score[1][0], 1e-9, "uniform energy across all 16 slots should score (4-12)/16 = -0.5")
}

func TestCorrelateZeroWindowDoesNotPanic(t *testing.T) {
	m := NewMagnitudeMatrix() // every in-range slot defaults to 0
	c := NewCorrelationMatrix()
	assert.NotPanics(t, func() { Correlate(m, c) })
}
