package pipeline

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"go1090/internal/dsp"
	"go1090/internal/modes"
)

// Stats counts the events the diagnostic stream reports, and doubles as
// the end-of-run summary the CLI prints on clean shutdown.
type Stats struct {
	BlocksProcessed       uint64
	CandidatesFound       uint64
	MessagesDecoded       uint64
	MessagesCorrected     uint64
	Tier1Corrected        uint64
	Tier2Corrected        uint64
	Tier3Corrected        uint64
	CrossBlockDropped     uint64
	CRCDropped            uint64
	InvalidAddressDropped uint64
}

// Pipeline owns everything the worker needs for the lifetime of the
// process: the filter bank, the scratch matrices a block is processed
// through, the Address Registry, and the correction policy. It replaces
// the aligned static globals a C-shaped implementation would use with a
// single value constructed once and passed to the worker goroutine.
type Pipeline struct {
	FilterBank *dsp.FilterBank
	mag        *dsp.MagnitudeMatrix
	corr       *dsp.CorrelationMatrix
	Registry   *modes.Registry
	Policy     modes.CorrectionPolicy
	Threshold  float64

	Out   io.Writer
	Log   *logrus.Logger
	Stats Stats
}

// New builds a Pipeline with freshly allocated matrices and an empty
// Address Registry.
func New(out io.Writer, log *logrus.Logger, threshold float64, policy modes.CorrectionPolicy) *Pipeline {
	return &Pipeline{
		FilterBank: dsp.NewFilterBank(),
		mag:        dsp.NewMagnitudeMatrix(),
		corr:       dsp.NewCorrelationMatrix(),
		Registry:   modes.NewRegistry(),
		Policy:     policy,
		Threshold:  threshold,
		Out:        out,
		Log:        log,
	}
}

// Run processes one IQ block end to end: interpolate, correlate, walk
// peaks, demodulate and decode each candidate, emit successful decodes.
// It mutates the Pipeline's owned matrices in place; block is never
// retained past this call.
func (p *Pipeline) Run(block *dsp.Block) {
	dsp.Apply(p.FilterBank, block, p.mag)
	dsp.Correlate(p.mag, p.corr)

	SelectPeaks(p.corr, p.Threshold, func(c Candidate) int {
		p.Stats.CandidatesFound++
		return p.handleCandidate(c, block.Index)
	})

	p.Stats.BlocksProcessed++
}

func (p *Pipeline) handleCandidate(c Candidate, blockIndex uint64) int {
	if c.Start > dsp.BlockSamples-modes.LongMsgBits*2 {
		p.Stats.CrossBlockDropped++
		return 0
	}

	_, hard := dsp.Demodulate(p.mag, c.Phase, c.Start)

	msg, ok, reason := modes.Decode(hard[:], p.Registry, p.Policy)
	if !ok {
		switch reason {
		case modes.DropInvalidAddress:
			p.Stats.InvalidAddressDropped++
			if p.Log != nil {
				p.Log.WithFields(logrus.Fields{
					"phase": c.Phase,
					"start": c.Start,
				}).Debug("dropped: checksum clean but inline address reserved")
			}
		default:
			p.Stats.CRCDropped++
		}
		return 0
	}

	p.Stats.MessagesDecoded++
	if msg.Corrected {
		p.Stats.MessagesCorrected++
		switch msg.Tier {
		case 1:
			p.Stats.Tier1Corrected++
		case 2:
			p.Stats.Tier2Corrected++
		case 3:
			p.Stats.Tier3Corrected++
		}
		if p.Log != nil {
			p.Log.WithFields(logrus.Fields{
				"icao": fmt.Sprintf("%06x", msg.ICAO),
				"tier": msg.Tier,
			}).Debug("corrected message")
		}
	}

	timestamp := Timestamp(blockIndex, c.Start, c.Phase)
	fmt.Fprintln(p.Out, msg.Line(timestamp))

	return msg.N * 2
}

// Timestamp renders the sample-accurate timestamp used in output lines:
// block·B + sample_start, followed by a 2-digit phase percentage
// (100·phase/Phases).
func Timestamp(blockIndex uint64, start, phase int) string {
	sample := blockIndex*dsp.BlockSamples + uint64(start)
	pct := 100 * phase / dsp.Phases
	return fmt.Sprintf("%014d.%02d", sample, pct)
}
