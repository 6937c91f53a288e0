package dpt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knxcore/knx/knx/dpt"
)

func TestUnsigned32RoundTrip(t *testing.T) {
	v := dpt.Unsigned32(0xDEADBEEF)
	buf := make([]byte, v.Size())
	v.Pack(buf)

	var out dpt.Unsigned32
	_, err := out.Unpack(buf)
	require.NoError(t, err)
	assert.Equal(t, v, out)
}

func TestSigned32RoundTrip(t *testing.T) {
	v := dpt.Signed32(-123456)
	buf := make([]byte, v.Size())
	v.Pack(buf)

	var out dpt.Signed32
	_, err := out.Unpack(buf)
	require.NoError(t, err)
	assert.Equal(t, v, out)
}

func TestFloat32RoundTrip(t *testing.T) {
	v := dpt.Float32(1234.5)
	buf := make([]byte, v.Size())
	v.Pack(buf)

	var out dpt.Float32
	_, err := out.Unpack(buf)
	require.NoError(t, err)
	assert.Equal(t, v, out)
}

func TestSigned64RoundTrip(t *testing.T) {
	v := dpt.Signed64(-9_000_000_000)
	buf := make([]byte, v.Size())
	v.Pack(buf)

	var out dpt.Signed64
	_, err := out.Unpack(buf)
	require.NoError(t, err)
	assert.Equal(t, v, out)
}
