package dpt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knxcore/knx/knx/dpt"
)

func TestColourStepControlRoundTrip(t *testing.T) {
	in := dpt.ColourStepControl{Components: []dpt.StepControl{
		{Valid: true, Control: dpt.Control3{Control: true, Step: 3}},
		{Valid: false},
	}}

	buf := make([]byte, in.Size())
	in.Pack(buf)

	out := dpt.ColourStepControl{Components: make([]dpt.StepControl, 2)}
	_, err := out.Unpack(buf)
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.Equal(t, "1 3 -", out.String())
}

func TestRGBRoundTrip(t *testing.T) {
	in := dpt.RGB{R: 0x10, G: 0x20, B: 0x30, RValid: true, BValid: true}

	buf := make([]byte, in.Size())
	in.Pack(buf)

	var out dpt.RGB
	_, err := out.Unpack(buf)
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.Equal(t, "#102030", out.String())
}

func TestRGBWRoundTrip(t *testing.T) {
	in := dpt.RGBW{R: 1, G: 2, B: 3, W: 4, RValid: true, WValid: true}

	buf := make([]byte, in.Size())
	in.Pack(buf)

	var out dpt.RGBW
	_, err := out.Unpack(buf)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestXYYRoundTrip(t *testing.T) {
	in := dpt.XYY{X: 12345, Y: 54321, Brightness: 200, XYValid: true, BrightnessValid: true}

	buf := make([]byte, in.Size())
	in.Pack(buf)

	var out dpt.XYY
	_, err := out.Unpack(buf)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
