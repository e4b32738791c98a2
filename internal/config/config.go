// Package config collects the receiver's tuning knobs and the cobra flag
// wiring that populates them.
package config

import (
	"github.com/spf13/pflag"

	"go1090/internal/modes"
)

// Config holds every tuning knob exposed on the command line. Defaults
// mirror the reference values: detection threshold 0, both correction
// tiers off, debug logging off.
type Config struct {
	WriteFile string
	Device    int
	Gain      int
	Debug     bool

	FixXoredCRCs bool
	FixTwoBit    bool
	DetectThresh float64

	// InputFile is the positional argument selecting offline decode mode;
	// empty means live hardware.
	InputFile string
}

// RegisterFlags binds Config's fields to fs using the names in the
// receiver's external interface.
func RegisterFlags(cfg *Config, fs *pflag.FlagSet) {
	fs.StringVarP(&cfg.WriteFile, "write-file", "w", "", "capture raw IQ to file instead of decoding")
	fs.IntVar(&cfg.Device, "device", 0, "RTL-SDR device index")
	fs.IntVar(&cfg.Gain, "gain", 0, "tuner gain in tenths of a dB (0 = automatic)")
	fs.BoolVar(&cfg.Debug, "debug", false, "enable verbose diagnostic logging")
	fs.BoolVar(&cfg.FixXoredCRCs, "fix-xored-crcs", false, "attempt single-bit correction of address-XORed CRCs")
	fs.BoolVar(&cfg.FixTwoBit, "fix-two-bit", false, "attempt two-bit error correction (DF-field retry and two-bit body search)")
	fs.Float64Var(&cfg.DetectThresh, "detect-thresh", 0.0, "preamble correlator detection threshold")
}

// Policy derives the modes.CorrectionPolicy implied by Config's flags.
func (c Config) Policy() modes.CorrectionPolicy {
	return modes.CorrectionPolicy{
		FixXoredCRCs: c.FixXoredCRCs,
		FixTwoBit:    c.FixTwoBit,
	}
}
