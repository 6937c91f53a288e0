package dpt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knxcore/knx/knx/dpt"
)

func TestUnsignedScaledTimeRounding(t *testing.T) {
	// Ties round half up.
	assert.EqualValues(t, 5, dpt.UnsignedScaledTime(45, 10))
	assert.EqualValues(t, 4, dpt.UnsignedScaledTime(44, 10))
}

func TestFloat16RoundTrip(t *testing.T) {
	tests := []float64{0, 1, -1, 21.5, -273, 670760.96, 0.01}

	for _, want := range tests {
		v := dpt.Float16(want)
		buf := make([]byte, v.Size())
		v.Pack(buf)

		var out dpt.Float16
		n, err := out.Unpack(buf)
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)
		assert.InDelta(t, want, float64(out), 0.1)
	}
}

func TestFloat16InvalidSentinel(t *testing.T) {
	var out dpt.Float16
	_, err := out.Unpack([]byte{0x7F, 0xFF})
	assert.ErrorIs(t, err, dpt.ErrValueRange)
}

func TestValidateFloat16Range(t *testing.T) {
	assert.NoError(t, dpt.ValidateFloat16Range(20, 0, 100))
	assert.ErrorIs(t, dpt.ValidateFloat16Range(-50, 0, 100), dpt.ErrValueRange)
}

func TestUnsigned16RoundTrip(t *testing.T) {
	v := dpt.Unsigned16(1234)
	buf := make([]byte, v.Size())
	v.Pack(buf)

	var out dpt.Unsigned16
	_, err := out.Unpack(buf)
	require.NoError(t, err)
	assert.Equal(t, v, out)
}

func TestSigned16RoundTrip(t *testing.T) {
	v := dpt.Signed16(-1234)
	buf := make([]byte, v.Size())
	v.Pack(buf)

	var out dpt.Signed16
	_, err := out.Unpack(buf)
	require.NoError(t, err)
	assert.Equal(t, v, out)
}
