package cemi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knxcore/knx/knx/cemi"
)

// TestLDataUnpackGroupValueWrite decodes the literal L_Data.req payload of
// a Tunneling.req carrying a 1-bit GroupValueWrite, reproducing the
// connection-header-stripped cEMI body byte for byte.
func TestLDataUnpackGroupValueWrite(t *testing.T) {
	// BC E0 11 01 00 01 00 81
	raw := []byte{0xBC, 0xE0, 0x11, 0x01, 0x00, 0x01, 0x00, 0x81}

	var ld cemi.LData
	n, err := ld.Unpack(raw)
	require.NoError(t, err)
	assert.EqualValues(t, len(raw), n)

	assert.EqualValues(t, cemi.IndividualAddr(0x1101), ld.Source)
	assert.EqualValues(t, 0x0001, ld.Destination)
	assert.True(t, ld.Control2.IsGroupAddr())

	app, ok := ld.Data.(*cemi.AppData)
	require.True(t, ok, "expected *cemi.AppData, got %T", ld.Data)
	assert.Equal(t, cemi.GroupValueWrite, app.Command)
	assert.Equal(t, []byte{1}, app.Data)
}

// TestAppDataGroupValueWriteRoundTrip confirms that packing the value
// decoded above reproduces the exact 2 byte TPDU, and that Unpack is its
// inverse.
func TestAppDataGroupValueWriteRoundTrip(t *testing.T) {
	app := &cemi.AppData{Command: cemi.GroupValueWrite, Data: []byte{1}}

	buf := make([]byte, app.Size())
	app.Pack(buf)
	assert.Equal(t, []byte{0x00, 0x81}, buf)

	var ld cemi.LData
	ld.Control1 = cemi.Control1StdFrame
	ld.Control2 = cemi.Control2GroupAddr
	ld.Source = 0x1101
	ld.Destination = 1
	ld.Data = app

	full := make([]byte, ld.Size())
	ld.Pack(full)

	var out cemi.LData
	n, err := out.Unpack(full)
	require.NoError(t, err)
	assert.EqualValues(t, len(full), n)

	outApp, ok := out.Data.(*cemi.AppData)
	require.True(t, ok)
	assert.Equal(t, app.Command, outApp.Command)
	assert.Equal(t, app.Data, outApp.Data)
}

// TestControlUnitRoundTrip covers the four named control TPDUs, each a
// single octet with no application data.
func TestControlUnitRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		unit cemi.TransportUnit
	}{
		{"connect", cemi.TConnect()},
		{"disconnect", cemi.TDisconnect()},
		{"ack", cemi.TAck(5)},
		{"nak", cemi.TNak(7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.EqualValues(t, 1, tt.unit.Size())

			buf := make([]byte, tt.unit.Size())
			tt.unit.Pack(buf)

			ld := cemi.LData{
				Control1: cemi.Control1StdFrame,
				Data:     tt.unit,
			}
			full := make([]byte, ld.Size())
			ld.Pack(full)

			var out cemi.LData
			n, err := out.Unpack(full)
			require.NoError(t, err)
			assert.EqualValues(t, len(full), n)
			assert.Equal(t, tt.unit, out.Data)
		})
	}
}

// TestAppDataMultiByteRoundTrip exercises payloads wider than the 6 bit
// fold, where the first data byte still carries the APCI's low two bits.
func TestAppDataMultiByteRoundTrip(t *testing.T) {
	app := &cemi.AppData{Command: cemi.MemoryWrite, Data: []byte{10, 20, 30}}

	buf := make([]byte, app.Size())
	app.Pack(buf)
	require.Len(t, buf, 4)

	ld := cemi.LData{Control1: cemi.Control1StdFrame, Data: app}
	full := make([]byte, ld.Size())
	ld.Pack(full)

	var out cemi.LData
	_, err := out.Unpack(full)
	require.NoError(t, err)

	outApp, ok := out.Data.(*cemi.AppData)
	require.True(t, ok)
	assert.Equal(t, app.Command, outApp.Command)
	assert.Equal(t, app.Data, outApp.Data)
}

func TestUnpackTransportUnitTruncated(t *testing.T) {
	// Control1, Control2, Source, Destination present; no TPCI octet at all.
	var ld cemi.LData
	_, err := ld.Unpack([]byte{0xBC, 0xE0, 0x11, 0x01, 0x00, 0x01})
	assert.Error(t, err)
}
