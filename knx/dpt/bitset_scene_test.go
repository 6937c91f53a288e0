package dpt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knxcore/knx/knx/dpt"
)

func TestBitset16SetValueHex(t *testing.T) {
	b := dpt.NewBitset16(dpt.FlagNames{})
	require.NoError(t, b.SetValue("0xA5"))
	assert.EqualValues(t, 0xA5, b.Bits)
}

func TestBitset16SetValueDigits(t *testing.T) {
	b := dpt.NewBitset16(dpt.FlagNames{})
	require.NoError(t, b.SetValue("1 0 1 0 0 0 0 0 0 0 0 0 0 0 0 0"))
	assert.EqualValues(t, 0x05, b.Bits)
}

func TestBitset16SetValueNames(t *testing.T) {
	names := dpt.FlagNames{0: "fault", 1: "alarm"}
	b := dpt.NewBitset16(names)

	require.NoError(t, b.SetValue("fault,alarm"))
	assert.EqualValues(t, 0x03, b.Bits)
	assert.Equal(t, "fault,alarm", b.String())
}

func TestBitset16RoundTrip(t *testing.T) {
	b := dpt.NewBitset16(dpt.FlagNames{})
	b.Bits = 0xBEEF

	buf := make([]byte, b.Size())
	b.Pack(buf)

	out := dpt.NewBitset16(dpt.FlagNames{})
	_, err := out.Unpack(buf)
	require.NoError(t, err)
	assert.Equal(t, b.Bits, out.Bits)
}

func TestNewSceneNumber(t *testing.T) {
	_, err := dpt.NewSceneNumber(64)
	assert.ErrorIs(t, err, dpt.ErrValueRange)

	v, err := dpt.NewSceneNumber(63)
	require.NoError(t, err)
	assert.EqualValues(t, 63, v)
}

func TestSceneControlRoundTrip(t *testing.T) {
	in := dpt.SceneControl{Scene: 42, Learn: true}

	buf := make([]byte, in.Size())
	in.Pack(buf)
	assert.Equal(t, byte(0x80|42), buf[0])

	var out dpt.SceneControl
	_, err := out.Unpack(buf)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
