package modes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func cleanAddrInMessage() []byte {
	hard := bitsFromInt(0, LongMsgBits)
	copy(hard[0:DFBits], bitsFromInt(DF17, DFBits))
	copy(hard[8:32], bitsFromInt(0xabcdef, 24))
	copy(hard[32:88], bitsFromInt(0x1234567890, 56))
	crc := payloadCRCOf(hard, LongMsgBits)
	copy(hard[LongMsgBits-CRCBits:LongMsgBits], bitsFromInt(uint64(crc), CRCBits))
	return hard
}

func cleanAddrXorCRC(icao uint32) []byte {
	hard := bitsFromInt(0, ShortMsgBits)
	copy(hard[0:DFBits], bitsFromInt(4, DFBits))
	crc := payloadCRCOf(hard, ShortMsgBits)
	copy(hard[ShortMsgBits-CRCBits:ShortMsgBits], bitsFromInt(uint64(crc^icao), CRCBits))
	return hard
}

func TestCorrectTier1SingleBitAddrInMessage(t *testing.T) {
	hard := cleanAddrInMessage()
	flip := 40
	hard[flip] ^= 1

	registry := NewRegistry()
	result := Evaluate(hard, LongMsgBits, registry)
	assert.False(t, result.OK)

	out := Correct(hard, LongMsgBits, result.Format, registry, CorrectionPolicy{})
	assert.True(t, out.Corrected)
	assert.Equal(t, 1, out.Tier)
	assert.Equal(t, flip, out.BitFlip1)
	assert.Equal(t, uint32(0xabcdef), out.ICAO)

	result = Evaluate(hard, LongMsgBits, registry)
	assert.True(t, result.OK, "corrected message must re-validate cleanly")
}

func TestCorrectTier1AddrXorCRCGatedByPolicy(t *testing.T) {
	icao := uint32(0x654321)
	hard := cleanAddrXorCRC(icao)
	hard[40] ^= 1

	registry := NewRegistry()
	registry.Insert(icao)
	result := Evaluate(hard, ShortMsgBits, registry)
	assert.False(t, result.OK)

	out := Correct(hard, ShortMsgBits, result.Format, registry, CorrectionPolicy{FixXoredCRCs: false})
	assert.False(t, out.Corrected, "correction must stay off until FixXoredCRCs is enabled")

	out = Correct(hard, ShortMsgBits, result.Format, registry, CorrectionPolicy{FixXoredCRCs: true})
	assert.True(t, out.Corrected)
	assert.Equal(t, icao, out.ICAO)
}

func TestCorrectTier3TwoBitBody(t *testing.T) {
	hard := cleanAddrInMessage()
	hard[40] ^= 1
	hard[70] ^= 1

	registry := NewRegistry()
	result := Evaluate(hard, LongMsgBits, registry)
	assert.False(t, result.OK)

	out := Correct(hard, LongMsgBits, result.Format, registry, CorrectionPolicy{})
	assert.False(t, out.Corrected, "a two-bit error must not be fixed unless FixTwoBit is enabled")

	out = Correct(hard, LongMsgBits, result.Format, registry, CorrectionPolicy{FixTwoBit: true})
	assert.True(t, out.Corrected)
	assert.Equal(t, 3, out.Tier)

	result = Evaluate(hard, LongMsgBits, registry)
	assert.True(t, result.OK)
}

func TestCorrectUnrecoverable(t *testing.T) {
	hard := cleanAddrInMessage()
	for _, i := range []int{10, 20, 30, 40, 50} {
		hard[i] ^= 1
	}

	registry := NewRegistry()
	result := Evaluate(hard, LongMsgBits, registry)
	assert.False(t, result.OK)

	out := Correct(hard, LongMsgBits, result.Format, registry, CorrectionPolicy{FixXoredCRCs: true, FixTwoBit: true})
	assert.False(t, out.Corrected)
}
