// Package dsp implements the signal-processing stages shared by every
// Mode S decode attempt: the polyphase fractional-delay interpolator, the
// preamble correlator, and the PPM demodulator.
package dsp

import "math"

// Phases (N) is the number of fractional-delay sub-sample offsets
// searched in parallel. Taps (F) is the length of each FIR kernel; it is
// kept a power of two so kernel slices stay friendly to aligned,
// contiguous vector loads.
const (
	Phases = 4
	Taps   = 32
)

// FilterBank holds the Phases fractional-delay FIR kernels, built once at
// startup and read-only for the remainder of the process lifetime.
// Kernel i is a Hann-windowed sinc whose center sits i/Phases of a tap
// later in the kernel than kernel 0's.
type FilterBank struct {
	Kernel [Phases][Taps]float64
}

// NewFilterBank precomputes the kernel bank.
func NewFilterBank() *FilterBank {
	fb := &FilterBank{}
	for i := 0; i < Phases; i++ {
		for j := 0; j < Taps; j++ {
			fb.Kernel[i][j] = sincValue(i, j) * hannValue(i, j)
		}
	}
	return fb
}

// hannValue computes the asymmetric Hann taper for tap j of phase i. The
// argument's period is chosen so the first tap is nonzero and, for the
// reference kernel (phase 0), the last is exactly zero, which avoids
// wasting a tap as kernels slide in time. For the other phases the last
// tap is small but not zero.
func hannValue(i, j int) float64 {
	arg := 2 * math.Pi * (float64(j+1) - float64(i)/float64(Phases)) / float64(Taps)
	return 0.5 * (1 - math.Cos(arg))
}

// sincValue computes the normalized sinc centered Taps/2-1 + i/Phases
// samples into the kernel.
func sincValue(i, j int) float64 {
	x := math.Pi * (float64(j) - (float64(Taps)/2 - 1) - float64(i)/float64(Phases))
	if math.Abs(x) < 1e-9 {
		return 1
	}
	return math.Sin(x) / x
}
