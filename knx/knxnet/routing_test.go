package knxnet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knxcore/knx/knx/cemi"
	"github.com/knxcore/knx/knx/knxnet"
)

func TestRoutingIndRoundTrip(t *testing.T) {
	ind := knxnet.RoutingInd{
		Payload: &cemi.LDataInd{
			LData: cemi.LData{
				Control1:    cemi.Control1StdFrame,
				Control2:    cemi.Control2GroupAddr,
				Source:      0x1101,
				Destination: 1,
				Data:        &cemi.AppData{Command: cemi.GroupValueWrite, Data: []byte{1}},
			},
		},
	}

	buf := make([]byte, ind.Size())
	ind.Pack(buf)

	var out knxnet.RoutingInd
	n, err := out.Unpack(buf)
	require.NoError(t, err)
	assert.EqualValues(t, len(buf), n)
	assert.IsType(t, &cemi.LDataInd{}, out.Payload)
}

func TestRoutingLostMessageRoundTrip(t *testing.T) {
	msg := knxnet.RoutingLostMessage{DeviceState: knxnet.DeviceStateIPFault, LostCount: 3}

	buf := make([]byte, msg.Size())
	msg.Pack(buf)

	var out knxnet.RoutingLostMessage
	n, err := out.Unpack(buf)
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)
	assert.Equal(t, msg, out)
}

func TestNewRoutingBusyRejectsOutOfRangeWait(t *testing.T) {
	_, err := knxnet.NewRoutingBusy(0, 5, 0)
	assert.ErrorIs(t, err, knxnet.ErrIllegalArgument)

	_, err = knxnet.NewRoutingBusy(0, 200, 0)
	assert.ErrorIs(t, err, knxnet.ErrIllegalArgument)
}

func TestRoutingBusyRoundTrip(t *testing.T) {
	busy, err := knxnet.NewRoutingBusy(knxnet.DeviceStateKNXMediumFault, 50, 0)
	require.NoError(t, err)

	buf := make([]byte, busy.Size())
	busy.Pack(buf)

	var out knxnet.RoutingBusy
	n, uerr := out.Unpack(buf)
	require.NoError(t, uerr)
	assert.EqualValues(t, 6, n)
	assert.Equal(t, *busy, out)
}

func TestRoutingBusyUnpackRejectsOutOfRangeWait(t *testing.T) {
	r := knxnet.RoutingBusy{WaitTime: 200}
	buf := make([]byte, r.Size())
	r.Pack(buf)

	var out knxnet.RoutingBusy
	_, err := out.Unpack(buf)
	assert.ErrorIs(t, err, knxnet.ErrMalformedFrame)
}

// TestRoutingSystemBroadcastRoundTrip confirms a valid system-broadcast
// L_Data.ind (group address 0, system-broadcast flag set) is accepted.
func TestRoutingSystemBroadcastRoundTrip(t *testing.T) {
	sb := knxnet.RoutingSystemBroadcast{
		Payload: &cemi.LDataInd{
			LData: cemi.LData{
				Control1:    cemi.Control1StdFrame,
				Control2:    cemi.Control2GroupAddr,
				Source:      0x1101,
				Destination: 0,
				Data:        &cemi.AppData{Command: cemi.GroupValueWrite, Data: []byte{1}},
			},
		},
	}

	buf := make([]byte, sb.Size())
	sb.Pack(buf)

	var out knxnet.RoutingSystemBroadcast
	n, err := out.Unpack(buf)
	require.NoError(t, err)
	assert.EqualValues(t, len(buf), n)
}

// TestRoutingSystemBroadcastRejectsNonZeroDestination confirms a group
// destination other than 0 is rejected.
func TestRoutingSystemBroadcastRejectsNonZeroDestination(t *testing.T) {
	sb := knxnet.RoutingSystemBroadcast{
		Payload: &cemi.LDataInd{
			LData: cemi.LData{
				Control1:    cemi.Control1StdFrame,
				Control2:    cemi.Control2GroupAddr,
				Source:      0x1101,
				Destination: 5,
				Data:        &cemi.AppData{Command: cemi.GroupValueWrite, Data: []byte{1}},
			},
		},
	}

	buf := make([]byte, sb.Size())
	sb.Pack(buf)

	var out knxnet.RoutingSystemBroadcast
	_, err := out.Unpack(buf)
	assert.ErrorIs(t, err, knxnet.ErrMalformedFrame)
}

// TestRoutingSystemBroadcastRejectsIndividualDestination confirms a
// destination addressed individually (not as a group) is rejected even
// when its numeric value is 0.
func TestRoutingSystemBroadcastRejectsIndividualDestination(t *testing.T) {
	sb := knxnet.RoutingSystemBroadcast{
		Payload: &cemi.LDataInd{
			LData: cemi.LData{
				Control1:    cemi.Control1StdFrame,
				Control2:    0,
				Source:      0x1101,
				Destination: 0,
				Data:        &cemi.AppData{Command: cemi.GroupValueWrite, Data: []byte{1}},
			},
		},
	}

	buf := make([]byte, sb.Size())
	sb.Pack(buf)

	var out knxnet.RoutingSystemBroadcast
	_, err := out.Unpack(buf)
	assert.ErrorIs(t, err, knxnet.ErrMalformedFrame)
}
