// Package source provides the two producer variants the worker is
// oblivious to: a live RTL-SDR dongle and a raw file of previously
// captured samples. Both fulfill the same contract — fill one IQ block,
// hand it to the mailbox — so the pipeline never branches on which is
// active.
package source

import (
	"context"

	"github.com/sirupsen/logrus"

	"go1090/internal/dsp"
	"go1090/internal/pipeline"
)

// Source is a producer of IQ blocks. Run drives the producer loop until
// ctx is canceled or the underlying stream ends, converting offset-binary
// samples to float and handing each filled block to mbox.
type Source interface {
	Run(ctx context.Context, mbox *pipeline.Mailbox) error
}

// fillFromOffsetBinary converts 2*dsp.BlockSamples interleaved unsigned
// 8-bit IQ samples into a Block's float re/im arrays. The RTL-SDR and its
// dump-file format both use offset binary: subtracting 128 centers the
// sample around zero.
func fillFromOffsetBinary(block *dsp.Block, raw []byte) {
	for i := 0; i < dsp.BlockSamples; i++ {
		block.Re[i] = float64(raw[2*i]) - 128.0
		block.Im[i] = float64(raw[2*i+1]) - 128.0
	}
}

// handoff delivers block to mbox following the producer/consumer contract:
// a non-blocking attempt first, falling back to a blocking send (and an
// overflow diagnostic) only when the worker hasn't yet released the slot.
// Overflow never corrupts state; it only delays delivery.
func handoff(mbox *pipeline.Mailbox, block *dsp.Block, log *logrus.Logger) {
	if mbox.TrySend(block) {
		return
	}
	if log != nil {
		log.Warn("producer overflow: worker has not released the previous block")
	}
	mbox.Send(block)
}
