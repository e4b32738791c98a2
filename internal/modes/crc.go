package modes

// Mode S message lengths and field widths, per ICAO Annex 10 volume IV.
const (
	LongMsgBits  = 112
	ShortMsgBits = 56
	CRCBits      = 24
	DFBits       = 5
)

// Downlink Format values whose CRC is transmitted in the clear: the ICAO
// address already rides in the message body (bits 8-31), so there is
// nothing to recover by XORing it into the checksum.
const (
	DF11 = 11
	DF17 = 17
	DF18 = 18
)

// Format classifies how a message's CRC field relates to its ICAO address.
type Format int

const (
	// FormatAddrInMessage messages carry a plain CRC; the address sits in
	// the message body.
	FormatAddrInMessage Format = iota
	// FormatAddrXorCRC messages have their CRC XORed with the sender's
	// ICAO address, a relic of Mode S being a secondary-radar reply
	// protocol: only the interrogator is expected to know who it asked.
	FormatAddrXorCRC
)

// crcTable holds, for every bit position of a long (112-bit) message, the
// 24-bit XOR contribution that bit makes to the checksum when set. A short
// (56-bit) message uses the last ShortMsgBits entries. The final CRCBits
// entries are zero: those positions are the checksum field itself and
// must not perturb their own computation.
var crcTable = [LongMsgBits]uint32{
	0x3935ea, 0x1c9af5, 0xf1b77e, 0x78dbbf, 0xc397db, 0x9e31e9, 0xb0e2f0, 0x587178,
	0x2c38bc, 0x161c5e, 0x0b0e2f, 0xfa7d13, 0x82c48d, 0xbe9842, 0x5f4c21, 0xd05c14,
	0x682e0a, 0x341705, 0xe5f186, 0x72f8c3, 0xc68665, 0x9cb936, 0x4e5c9b, 0xd8d449,
	0x939020, 0x49c810, 0x24e408, 0x127204, 0x093902, 0x049c81, 0xfdb444, 0x7eda22,
	0x3f6d11, 0xe04c8c, 0x702646, 0x381323, 0xe3f395, 0x8e03ce, 0x4701e7, 0xdc7af7,
	0x91c77f, 0xb719bb, 0xa476d9, 0xadc168, 0x56e0b4, 0x2b705a, 0x15b82d, 0xf52612,
	0x7a9309, 0xc2b380, 0x6159c0, 0x30ace0, 0x185670, 0x0c2b38, 0x06159c, 0x030ace,
	0x018567, 0xff38b7, 0x80665f, 0xbfc92b, 0xa01e91, 0xaff54c, 0x57faa6, 0x2bfd53,
	0xea04ad, 0x8af852, 0x457c29, 0xdd4410, 0x6ea208, 0x375104, 0x1ba882, 0x0dd441,
	0xf91024, 0x7c8812, 0x3e4409, 0xe0d800, 0x706c00, 0x383600, 0x1c1b00, 0x0e0d80,
	0x0706c0, 0x038360, 0x01c1b0, 0x00e0d8, 0x00706c, 0x003836, 0x001c1b, 0xfff409,
	0x000000, 0x000000, 0x000000, 0x000000, 0x000000, 0x000000, 0x000000, 0x000000,
	0x000000, 0x000000, 0x000000, 0x000000, 0x000000, 0x000000, 0x000000, 0x000000,
	0x000000, 0x000000, 0x000000, 0x000000, 0x000000, 0x000000, 0x000000, 0x000000,
}

// ClassifyDF returns the CRC format implied by a 5-bit Downlink Format
// value.
func ClassifyDF(df int) Format {
	switch df {
	case DF11, DF17, DF18:
		return FormatAddrInMessage
	default:
		return FormatAddrXorCRC
	}
}

// tableOffset returns the index into crcTable of bit position 0 of an
// n-bit message (0 for long, ShortMsgBits for short).
func tableOffset(n int) int {
	if n == ShortMsgBits {
		return LongMsgBits - ShortMsgBits
	}
	return 0
}

// tableEntry returns the XOR contribution of bit i of an n-bit message to
// the remainder Compute returns. For a bit of the trailing CRC field the
// table holds zero, but the bit still enters the remainder directly, at its
// own weight within the field.
func tableEntry(n, i int) uint32 {
	if i >= n-CRCBits {
		return 1 << uint(n-1-i)
	}
	return crcTable[tableOffset(n)+i]
}

// dfFromBits packs bits 0-4 of a hard-bit vector into the Downlink Format
// value.
func dfFromBits(hard []byte) int {
	return packBits(hard[0:DFBits])
}

// icaoFromBits packs bits 8-31 into the inline ICAO address carried by
// addr-in-message formats.
func icaoFromBits(hard []byte) uint32 {
	return uint32(packBits(hard[8:32]))
}

func packBits(bits []byte) int {
	v := 0
	for _, b := range bits {
		v <<= 1
		if b != 0 {
			v |= 1
		}
	}
	return v
}

// Compute returns the CRC remainder and format classification for a
// hard-bit vector of length n (LongMsgBits or ShortMsgBits).
//
// The remainder combines the table-driven checksum of the payload bits
// (everything before the trailing CRCBits) with the transmitted CRC field
// itself, so a clean FormatAddrInMessage message yields a remainder of
// zero and a clean FormatAddrXorCRC message yields the ICAO address
// directly: the transmitted field for that format is, by construction,
// crc(payload) XOR icao, so remainder = crc(payload) XOR crc(payload) XOR
// icao = icao when there are no bit errors.
func Compute(hard []byte, n int) (remainder uint32, format Format) {
	format = ClassifyDF(dfFromBits(hard))

	var payloadCRC uint32
	for i := 0; i < n-CRCBits; i++ {
		if hard[i] != 0 {
			payloadCRC ^= tableEntry(n, i)
		}
	}

	field := uint32(packBits(hard[n-CRCBits : n]))

	remainder = (payloadCRC ^ field) & 0xffffff
	return remainder, format
}

// Result is the outcome of checking a hard-bit vector against the CRC
// engine and, for addr-xor-crc formats, the Address Registry.
type Result struct {
	Remainder uint32
	Format    Format
	ICAO      uint32
	OK        bool
	// InvalidAddress is set when the checksum itself passed but the
	// inline address is one of the reserved 0x000000/0xffffff values: a
	// message no amount of bit-flip correction should rescue, since the
	// CRC already reports no error.
	InvalidAddress bool
}

// Evaluate runs the CRC decision described in §4.2: for FormatAddrInMessage
// a zero remainder is success, provided the inline address is not one of
// the reserved 0x000000/0xffffff values; for FormatAddrXorCRC the remainder
// is checked against registry membership, which already excludes those
// addresses.
func Evaluate(hard []byte, n int, registry *Registry) Result {
	remainder, format := Compute(hard, n)

	switch format {
	case FormatAddrInMessage:
		if remainder == 0 {
			icao := icaoFromBits(hard)
			if validAddress(icao) {
				return Result{Remainder: remainder, Format: format, ICAO: icao, OK: true}
			}
			return Result{Remainder: remainder, Format: format, InvalidAddress: true}
		}
	case FormatAddrXorCRC:
		if registry.Contains(remainder) == Known {
			return Result{Remainder: remainder, Format: format, ICAO: remainder, OK: true}
		}
	}
	return Result{Remainder: remainder, Format: format}
}
