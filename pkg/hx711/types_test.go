package hx711

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeTwosComplement(t *testing.T) {

	cases := []struct {
		field uint32
		want  Value
	}{
		{0x000000, 0},
		{0x000001, 1},
		{0xffffff, -1},
		{0x7fffff, MaxValue},
		{0x800000, MinValue},
		{0x800001, -0x7fffff},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, decodeTwosComplement(c.field), "field 0x%06x", c.field)
	}
}

func TestDecodeRoundTrip(t *testing.T) {

	// Sweep the full representable range (stepped for speed, boundaries
	// covered explicitly above): re-encoding any value into its 24-bit field
	// and decoding it must be the identity
	for n := int32(-0x800000); n <= 0x7fffff; n += 127 {
		field := uint32(n) & 0xffffff
		assert.Equal(t, Value(n), decodeTwosComplement(field), "value %d", n)
	}
}

func TestIsSaturated(t *testing.T) {

	assert.True(t, MinValue.IsSaturated())
	assert.True(t, MaxValue.IsSaturated())

	for _, v := range []Value{0, 1, -1, MinValue + 1, MaxValue - 1} {
		assert.False(t, v.IsSaturated(), "value %d", v)
	}
}

func TestGainPulses(t *testing.T) {

	assert.Equal(t, 25, Gain128.pulses())
	assert.Equal(t, 27, Gain64.pulses())
	assert.Equal(t, 25, Gain32.pulses())
}

func TestValidConfig(t *testing.T) {

	valid := map[Channel][]Gain{
		ChannelA: {Gain128, Gain64},
		ChannelB: {Gain32},
	}

	for _, c := range []Channel{ChannelA, ChannelB} {
		for _, g := range []Gain{Gain128, Gain64, Gain32} {
			want := false
			for _, vg := range valid[c] {
				if vg == g {
					want = true
				}
			}
			assert.Equal(t, want, validConfig(c, g), "channel %s gain %d", c, g)
		}
	}
}
