package source

import (
	"context"
	"fmt"
	"io"

	"github.com/jpoirier/gortlsdr"
	"github.com/sirupsen/logrus"

	"go1090/internal/dsp"
	"go1090/internal/pipeline"
)

// CenterFreqHz and SampleRateHz are the RTL-SDR tuning parameters for
// 1090 MHz Mode S reception at 2 Msps.
const (
	CenterFreqHz = 1090000000
	SampleRateHz = 2000000
)

// HardwareSource drives an RTL-SDR dongle's asynchronous read loop. Dump
// is an optional tee: when set (the `-w <file>` CLI mode), every raw
// block is also written there, undecoded, before conversion.
type HardwareSource struct {
	Device     int
	Gain       int // tenths of a dB; 0 selects automatic gain
	Dump       io.Writer
	Log        *logrus.Logger
}

// Run opens the dongle, configures it, and services its async read
// callback until ctx is canceled.
func (s *HardwareSource) Run(ctx context.Context, mbox *pipeline.Mailbox) error {
	dev, err := rtlsdr.Open(s.Device)
	if err != nil {
		return fmt.Errorf("opening RTL-SDR device %d: %w", s.Device, err)
	}
	defer dev.Close()

	if err := dev.SetCenterFreq(CenterFreqHz); err != nil {
		return fmt.Errorf("setting center frequency: %w", err)
	}
	if err := dev.SetSampleRate(SampleRateHz); err != nil {
		return fmt.Errorf("setting sample rate: %w", err)
	}

	if s.Gain > 0 {
		if err := dev.SetTunerGainMode(true); err != nil {
			return fmt.Errorf("enabling manual gain: %w", err)
		}
		if err := dev.SetTunerGain(s.Gain); err != nil {
			return fmt.Errorf("setting tuner gain to %d: %w", s.Gain, err)
		}
	} else if err := dev.SetTunerGainMode(false); err != nil {
		return fmt.Errorf("enabling automatic gain: %w", err)
	}

	if err := dev.ResetBuffer(); err != nil {
		return fmt.Errorf("resetting device buffer: %w", err)
	}

	if s.Log != nil {
		s.Log.WithFields(logrus.Fields{
			"device": s.Device,
			"freq":   CenterFreqHz,
			"rate":   SampleRateHz,
			"gain":   dev.GetTunerGain(),
		}).Info("RTL-SDR device ready")
	}

	var index uint64
	var cbErr error
	cb := func(raw []byte) {
		if len(raw) != blockBytes {
			cbErr = fmt.Errorf("callback delivered %d bytes, want %d", len(raw), blockBytes)
			if s.Log != nil {
				s.Log.WithError(cbErr).Error("fatal: malformed block from RTL-SDR, cancelling read")
			}
			dev.CancelAsync()
			return
		}
		if s.Dump != nil {
			if _, err := s.Dump.Write(raw); err != nil {
				cbErr = fmt.Errorf("writing dump file: %w", err)
				if s.Log != nil {
					s.Log.WithError(cbErr).Error("fatal: dump write failed, cancelling read")
				}
				dev.CancelAsync()
				return
			}
		}

		block := dsp.NewBlock()
		block.Index = index
		fillFromOffsetBinary(block, raw)
		index++

		handoff(mbox, block, s.Log)
	}

	done := make(chan error, 1)
	go func() {
		done <- dev.ReadAsync(cb, nil, 16, blockBytes)
	}()

	select {
	case <-ctx.Done():
		dev.CancelAsync()
		<-done
		return nil
	case err := <-done:
		if err != nil {
			return err
		}
		return cbErr
	}
}
