package modes

import (
	"encoding/hex"
	"fmt"
)

// Message is a decoded Mode S frame: a hard-bit vector that passed (or was
// corrected to pass) the CRC engine, together with the metadata needed to
// format an output line.
type Message struct {
	Hard      []byte // 0/1 values, length N
	N         int    // LongMsgBits or ShortMsgBits
	ICAO      uint32
	Format    Format
	Corrected bool
	Tier      int // 0 if the initial CRC check already passed
}

// Len reports the message length implied by bit 0 of a hard-bit vector:
// 1 selects a long (112-bit) message, 0 a short (56-bit) one. This is the
// sole length discriminator; nothing downstream consults the Downlink
// Format field to pick a message length.
func Len(hard []byte) int {
	if hard[0] != 0 {
		return LongMsgBits
	}
	return ShortMsgBits
}

// DropReason explains why Decode rejected a message, distinguishing a
// checksum that never validated from one that validated against a
// reserved, and therefore unusable, inline address.
type DropReason int

const (
	// DropNone means Decode succeeded; there is nothing to report.
	DropNone DropReason = iota
	// DropCRC means no clean or correctable checksum was found.
	DropCRC
	// DropInvalidAddress means the checksum passed but the inline
	// address was 0x000000 or 0xffffff.
	DropInvalidAddress
)

// Decode runs the full CRC-check-then-correct pipeline over a freshly
// demodulated hard-bit vector. It returns ok=false if the message could
// not be validated even after correction; reason explains why.
func Decode(hard []byte, registry *Registry, policy CorrectionPolicy) (msg Message, ok bool, reason DropReason) {
	n := Len(hard)
	result := Evaluate(hard, n, registry)

	if result.OK {
		registry.Insert(result.ICAO)
		return Message{Hard: hard, N: n, ICAO: result.ICAO, Format: result.Format}, true, DropNone
	}
	if result.InvalidAddress {
		return Message{}, false, DropInvalidAddress
	}

	out := Correct(hard, n, result.Format, registry, policy)
	if !out.Corrected {
		return Message{}, false, DropCRC
	}

	result = Evaluate(hard, n, registry)
	if !result.OK {
		if result.InvalidAddress {
			return Message{}, false, DropInvalidAddress
		}
		return Message{}, false, DropCRC
	}

	registry.Insert(result.ICAO)
	return Message{
		Hard:      hard,
		N:         n,
		ICAO:      result.ICAO,
		Format:    result.Format,
		Corrected: true,
		Tier:      out.Tier,
	}, true, DropNone
}

// PayloadHex renders the message bits preceding the CRC field as hex: 22
// digits (88 bits) for a long message, 8 digits (32 bits) for a short one.
// The CRC field itself is never printed.
func (m Message) PayloadHex() string {
	payload := m.Hard[:m.N-CRCBits]
	buf := make([]byte, len(payload)/8)
	for i := range buf {
		buf[i] = byte(packBits(payload[i*8 : i*8+8]))
	}
	return hex.EncodeToString(buf)
}

// Line formats the message as the receiver's one-line-per-message output:
// <timestamp>: 0x<icao-hex6>, 0x<payload-hex>;
func (m Message) Line(timestamp string) string {
	return fmt.Sprintf("%s: 0x%06x, 0x%s;", timestamp, m.ICAO, m.PayloadHex())
}
