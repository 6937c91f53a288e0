package dpt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knxcore/knx/knx/dpt"
)

func TestProduceKnownSubtype(t *testing.T) {
	tr, err := dpt.Produce("1.001")
	require.NoError(t, err)
	assert.Implements(t, (*dpt.Translator)(nil), tr)

	_, ok := tr.(*dpt.Bool1)
	assert.True(t, ok)
}

func TestProduceUnknownSubtype(t *testing.T) {
	_, err := dpt.Produce("999.999")
	assert.ErrorIs(t, err, dpt.ErrUnknownDPT)
}

func TestSubTypesIncludesRegisteredFamilies(t *testing.T) {
	types := dpt.SubTypes()
	assert.Contains(t, types, dpt.ID("9.001"))
	assert.Contains(t, types, dpt.ID("232.600"))
	assert.Contains(t, types, dpt.ID("19.001"))
}

func TestPackUnpackBatch(t *testing.T) {
	items := []dpt.Translator{
		func() dpt.Translator { v := dpt.Unsigned8(1); return &v }(),
		func() dpt.Translator { v := dpt.Unsigned8(2); return &v }(),
		func() dpt.Translator { v := dpt.Unsigned8(3); return &v }(),
	}

	buf := make([]byte, 3)
	n := dpt.PackBatch(buf, items)
	assert.EqualValues(t, 3, n)
	assert.Equal(t, []byte{1, 2, 3}, buf)

	out, consumed, err := dpt.UnpackBatch(buf, 3, func() dpt.Translator {
		var v dpt.Unsigned8
		return &v
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, consumed)
	require.Len(t, out, 3)
	assert.Equal(t, "2", out[1].String())
}
