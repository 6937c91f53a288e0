package cemi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knxcore/knx/knx/cemi"
)

// TestPackUnpackDispatchLDataCon confirms the top-level frame codec
// (message code + additional-info length byte + body) round-trips and
// that Unpack dispatches on the message code to the right concrete type.
func TestPackUnpackDispatchLDataCon(t *testing.T) {
	msg := &cemi.LDataCon{
		LData: cemi.LData{
			Control1:    cemi.Control1StdFrame,
			Control2:    cemi.Control2GroupAddr,
			Source:      0x1101,
			Destination: 1,
			Data:        &cemi.AppData{Command: cemi.GroupValueWrite, Data: []byte{1}},
		},
	}

	buf := make([]byte, cemi.Size(msg))
	cemi.Pack(buf, msg)

	assert.Equal(t, byte(cemi.LDataConCode), buf[0])
	assert.Equal(t, byte(0), buf[1])

	out, n, err := cemi.Unpack(buf)
	require.NoError(t, err)
	assert.EqualValues(t, len(buf), n)

	con, ok := out.(*cemi.LDataCon)
	require.True(t, ok)
	assert.True(t, con.Success())
	assert.Equal(t, msg.Source, con.Source)
}

// TestLDataConErrorFlag confirms Success() reflects Control1's error bit.
func TestLDataConErrorFlag(t *testing.T) {
	con := cemi.LDataCon{LData: cemi.LData{Control1: cemi.Control1StdFrame | cemi.Control1Error}}
	assert.False(t, con.Success())
}

func TestPackUnpackDispatchPropReadCon(t *testing.T) {
	msg := &cemi.PropReadCon{Data: []byte{0x01, 0x02}}

	buf := make([]byte, cemi.Size(msg))
	cemi.Pack(buf, msg)

	out, n, err := cemi.Unpack(buf)
	require.NoError(t, err)
	assert.EqualValues(t, len(buf), n)

	con, ok := out.(*cemi.PropReadCon)
	require.True(t, ok)
	assert.Equal(t, msg.Data, con.Data)
}

func TestUnpackRejectsShortFrame(t *testing.T) {
	_, _, err := cemi.Unpack([]byte{0x11})
	assert.Error(t, err)
}

func TestUnpackRejectsUnsupportedCode(t *testing.T) {
	_, _, err := cemi.Unpack([]byte{0xAA, 0x00})
	assert.Error(t, err)
}

// TestControl1PriorityAndControl2Hops exercise the small bitfield helpers.
func TestControl1PriorityAndControl2Hops(t *testing.T) {
	c1 := cemi.Control1(0b00001100) // priority bits 11, value 3<<2
	assert.EqualValues(t, 3, c1.Priority())

	c2 := cemi.Control2Hops(5)
	assert.EqualValues(t, 5, c2.Hops())
	assert.False(t, c2.IsGroupAddr())
}
