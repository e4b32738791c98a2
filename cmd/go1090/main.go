// Command go1090 is a real-time software-defined receiver for Mode S
// aviation squitters at 1090 MHz. With no arguments it decodes live from
// an RTL-SDR dongle; with -w it captures raw IQ to a file instead of
// decoding; with a file argument it decodes a previously captured dump.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"go1090/internal/config"
	"go1090/internal/pipeline"
	"go1090/internal/source"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := &config.Config{}

	root := &cobra.Command{
		Use:   "go1090 [file]",
		Short: "Mode S / ADS-B software-defined receiver",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				cfg.InputFile = args[0]
			}
			return run(cfg)
		},
	}

	config.RegisterFlags(cfg, root.Flags())
	return root
}

func run(cfg *config.Config) error {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if cfg.Debug {
		log.SetLevel(logrus.DebugLevel)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info("shutdown requested")
		cancel()
	}()

	src, out, cleanup, err := buildSource(cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	p := pipeline.New(out, log, cfg.DetectThresh, cfg.Policy())
	mbox := pipeline.NewMailbox()

	produceErr := make(chan error, 1)
	go func() {
		produceErr <- src.Run(ctx, mbox)
		mbox.Shutdown()
	}()

	for {
		block, ok := mbox.Receive()
		if !ok {
			break
		}
		if out != nil {
			p.Run(block)
		}
		mbox.Release()
	}

	if err := <-produceErr; err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"blocks":          p.Stats.BlocksProcessed,
		"messages":        p.Stats.MessagesDecoded,
		"corrected":       p.Stats.MessagesCorrected,
		"tier1_corrected": p.Stats.Tier1Corrected,
		"tier2_corrected": p.Stats.Tier2Corrected,
		"tier3_corrected": p.Stats.Tier3Corrected,
		"overflows":       mbox.Overflows(),
		"cross_block":     p.Stats.CrossBlockDropped,
		"crc_dropped":     p.Stats.CRCDropped,
		"invalid_address": p.Stats.InvalidAddressDropped,
	}).Info("shutdown complete")
	return nil
}

// buildSource realizes the three CLI modes: offline decode (positional
// file argument), live hardware with a raw dump tee (-w), or plain live
// hardware. out is nil in dump-only mode: the pipeline is never invoked,
// matching "no decoding" for that mode.
func buildSource(cfg *config.Config, log *logrus.Logger) (source.Source, *os.File, func(), error) {
	if cfg.InputFile != "" {
		f, err := os.Open(cfg.InputFile)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("opening input file: %w", err)
		}
		return &source.FileSource{R: f, Log: log}, os.Stdout, func() { f.Close() }, nil
	}

	if cfg.WriteFile != "" {
		f, err := os.Create(cfg.WriteFile)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("creating dump file: %w", err)
		}
		hw := &source.HardwareSource{Device: cfg.Device, Gain: cfg.Gain, Dump: f, Log: log}
		return hw, nil, func() { f.Close() }, nil
	}

	hw := &source.HardwareSource{Device: cfg.Device, Gain: cfg.Gain, Log: log}
	return hw, os.Stdout, func() {}, nil
}
