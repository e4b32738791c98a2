package modes

// CorrectionPolicy toggles the optional, costlier parts of error
// correction. Tier 1 (single-bit, non-DF field) always runs for
// addr-in-message formats, and Tier 2's single DF-bit flips always run;
// the rest is gated so a caller can trade CPU for recall.
type CorrectionPolicy struct {
	// FixXoredCRCs enables Tier 1 correction against addr-xor-crc
	// messages, which requires an Address Registry lookup per candidate
	// bit and is therefore worth gating on noisy feeds.
	FixXoredCRCs bool
	// FixTwoBit enables Tier 2's Tier 1 retry after a DF-bit flip and the
	// Tier 3 two-bit body search, both of which are quadratic-ish in
	// message length.
	FixTwoBit bool
}

// Outcome records what, if anything, Correct did to a hard-bit vector.
type Outcome struct {
	Corrected bool
	Tier      int // 0 if uncorrected, else 1, 2, or 3
	BitFlip1  int // first flipped bit index, -1 if none
	BitFlip2  int // second flipped bit index (Tier 2 retry or Tier 3), -1 if none
	ICAO      uint32
}

// Correct attempts to repair a hard-bit vector whose initial Evaluate call
// failed. It mutates hard in place on success and returns the tier that
// succeeded. format is the ORIGINAL classification, from before any bit is
// flipped.
func Correct(hard []byte, n int, format Format, registry *Registry, policy CorrectionPolicy) Outcome {
	syndrome, _ := Compute(hard, n)

	if i, icao, ok := tier1Search(hard, n, format, syndrome, registry, policy); ok {
		hard[i] ^= 1
		if format == FormatAddrInMessage {
			icao = icaoFromBits(hard)
		}
		return Outcome{Corrected: true, Tier: 1, BitFlip1: i, BitFlip2: -1, ICAO: icao}
	}

	if out, ok := tier2(hard, n, registry, policy); ok {
		return out
	}

	if out, ok := tier3(hard, n, format, registry, policy); ok {
		return out
	}

	return Outcome{BitFlip1: -1, BitFlip2: -1}
}

// tier1Search looks for a single flipped bit outside the DF field that
// explains syndrome. Bit positions are searched in ascending order; the
// first match wins, per the same "earliest wins" convention as the
// correlator's peak-in-a-run selection.
func tier1Search(hard []byte, n int, format Format, syndrome uint32, registry *Registry, policy CorrectionPolicy) (bitIndex int, icao uint32, ok bool) {
	for i := DFBits; i < n; i++ {
		entry := tableEntry(n, i)
		switch format {
		case FormatAddrInMessage:
			if syndrome == entry {
				return i, 0, true
			}
		case FormatAddrXorCRC:
			if !policy.FixXoredCRCs {
				continue
			}
			candidate := syndrome ^ entry
			if registry.Contains(candidate) == Known {
				return i, candidate, true
			}
		}
	}
	return -1, 0, false
}

// tier2 tries flipping each of the 5 Downlink Format bits in turn. A flip
// there can reclassify the message's format entirely (a corrupted DF field
// is exactly the kind of error that makes a message look like the wrong
// format), so the format used to judge success is recomputed after each
// flip rather than inherited from the caller.
func tier2(hard []byte, n int, registry *Registry, policy CorrectionPolicy) (Outcome, bool) {
	for i := 0; i < DFBits; i++ {
		hard[i] ^= 1
		syndrome, newFormat := Compute(hard, n)

		switch newFormat {
		case FormatAddrInMessage:
			if syndrome == 0 {
				return Outcome{Corrected: true, Tier: 2, BitFlip1: i, BitFlip2: -1, ICAO: icaoFromBits(hard)}, true
			}
		case FormatAddrXorCRC:
			if registry.Contains(syndrome) == Known {
				return Outcome{Corrected: true, Tier: 2, BitFlip1: i, BitFlip2: -1, ICAO: syndrome}, true
			}
		}

		if policy.FixTwoBit && newFormat == FormatAddrInMessage {
			if j, icao, ok := tier1Search(hard, n, newFormat, syndrome, registry, policy); ok {
				hard[j] ^= 1
				return Outcome{Corrected: true, Tier: 2, BitFlip1: i, BitFlip2: j, ICAO: icao}, true
			}
		}

		hard[i] ^= 1 // restore before trying the next DF bit
	}
	return Outcome{}, false
}

// tier3 searches for a second flipped bit after provisionally flipping
// each non-DF bit position in turn. It only applies to messages that were
// originally addr-in-message: an addr-xor-crc message's remainder doesn't
// collapse to zero even when clean, so there is no useful syndrome to
// search against after one blind flip.
func tier3(hard []byte, n int, originalFormat Format, registry *Registry, policy CorrectionPolicy) (Outcome, bool) {
	if !policy.FixTwoBit || originalFormat != FormatAddrInMessage {
		return Outcome{}, false
	}

	for i := DFBits; i < n; i++ {
		hard[i] ^= 1
		syndrome, _ := Compute(hard, n)

		if j, icao, ok := tier1Search(hard, n, originalFormat, syndrome, registry, policy); ok {
			hard[j] ^= 1
			return Outcome{Corrected: true, Tier: 3, BitFlip1: i, BitFlip2: j, ICAO: icao}, true
		}

		hard[i] ^= 1 // restore before trying the next bit
	}
	return Outcome{}, false
}
