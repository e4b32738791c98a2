package source

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"go1090/internal/dsp"
	"go1090/internal/pipeline"
)

// blockBytes is the raw byte length of one callback: 2 bytes (I, Q) per
// sample.
const blockBytes = 2 * dsp.BlockSamples

// FileSource replays a previously captured raw IQ dump. A short read
// signals end-of-stream and is not an error.
type FileSource struct {
	R   io.Reader
	Log *logrus.Logger
}

// Run reads blockBytes at a time until ctx is canceled or the file is
// exhausted.
func (s *FileSource) Run(ctx context.Context, mbox *pipeline.Mailbox) error {
	raw := make([]byte, blockBytes)
	var index uint64

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		n, err := io.ReadFull(s.R, raw)
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading IQ block: %w", err)
		}
		if n != blockBytes {
			return fmt.Errorf("short IQ block: got %d bytes, want %d", n, blockBytes)
		}

		block := dsp.NewBlock()
		block.Index = index
		fillFromOffsetBinary(block, raw)
		index++

		handoff(mbox, block, s.Log)
	}
}
