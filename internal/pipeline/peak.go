package pipeline

import "go1090/internal/dsp"

// Candidate is an above-threshold preamble match: the strongest score
// found so far within one contiguous run of above-threshold samples.
type Candidate struct {
	Phase int
	Start int
	Score float64
}

// SelectPeaks walks the correlation matrix in chronological sample order.
// Within each above-threshold run it tracks the best (phase, start); when
// the run ends, visit is called with that candidate and must return the
// number of samples it consumed (0 if the candidate was dropped, e.g. for
// lack of room before the block boundary). A positive return value
// resumes the walk at the candidate's start plus that count, past the
// samples the decoded message occupies, so an
// overlapping candidate starting inside the same message is never
// revisited. Ties within a run keep whichever (phase, start) was found
// first, since later candidates only replace the running best on a
// strictly greater score.
func SelectPeaks(c *dsp.CorrelationMatrix, threshold float64, visit func(Candidate) int) {
	var (
		inRun bool
		best  Candidate
	)

	j := 0
	for j < dsp.BlockSamples {
		row, hit := bestInRow(c, j, threshold)
		if hit {
			if !inRun || row.Score > best.Score {
				best = row
			}
			inRun = true
			j++
			continue
		}

		if inRun {
			inRun = false
			if consumed := visit(best); consumed > 0 && best.Start+consumed > j {
				j = best.Start + consumed
				continue
			}
		}
		j++
	}

	if inRun {
		visit(best)
	}
}

// bestInRow scans phase 0..Phases-1 at sample j and returns the strongest
// above-threshold score, if any.
func bestInRow(c *dsp.CorrelationMatrix, j int, threshold float64) (Candidate, bool) {
	var best Candidate
	hit := false
	for i := 0; i < dsp.Phases; i++ {
		score := c.Score[i][j]
		if score > threshold && (!hit || score > best.Score) {
			best = Candidate{Phase: i, Start: j, Score: score}
			hit = true
		}
	}
	return best, hit
}
