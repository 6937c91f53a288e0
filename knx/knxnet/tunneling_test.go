package knxnet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knxcore/knx/knx/cemi"
	"github.com/knxcore/knx/knx/knxnet"
)

func groupWrite(t *testing.T) *cemi.LDataReq {
	t.Helper()
	return &cemi.LDataReq{
		LData: cemi.LData{
			Control1:    cemi.Control1StdFrame,
			Control2:    cemi.Control2GroupAddr,
			Source:      0x1101,
			Destination: 1,
			Data:        &cemi.AppData{Command: cemi.GroupValueWrite, Data: []byte{1}},
		},
	}
}

func TestTunnelReqRoundTrip(t *testing.T) {
	req := knxnet.TunnelReq{
		ConnHeader: knxnet.ConnHeader{ChannelID: 1, SeqNumber: 5},
		Payload:    groupWrite(t),
	}

	buf := make([]byte, req.Size())
	req.Pack(buf)

	var out knxnet.TunnelReq
	n, err := out.Unpack(buf)
	require.NoError(t, err)
	assert.EqualValues(t, len(buf), n)
	assert.Equal(t, req.ConnHeader, out.ConnHeader)

	outReq, ok := out.Payload.(*cemi.LDataReq)
	require.True(t, ok)
	assert.Equal(t, req.Payload.(*cemi.LDataReq).Source, outReq.Source)
}

func TestTunnelAckRoundTrip(t *testing.T) {
	ack := knxnet.TunnelAck{
		ConnHeader: knxnet.ConnHeader{ChannelID: 2, SeqNumber: 9},
		Status:     knxnet.NoError,
	}

	buf := make([]byte, ack.Size())
	ack.Pack(buf)

	var out knxnet.TunnelAck
	n, err := out.Unpack(buf)
	require.NoError(t, err)
	assert.EqualValues(t, len(buf), n)
	assert.Equal(t, ack, out)
}

func TestDeviceConfigReqAckRoundTrip(t *testing.T) {
	req := knxnet.DeviceConfigReq{
		ConnHeader: knxnet.ConnHeader{ChannelID: 1, SeqNumber: 0},
		Payload:    &cemi.PropReadReq{},
	}
	buf := make([]byte, req.Size())
	req.Pack(buf)

	var out knxnet.DeviceConfigReq
	n, err := out.Unpack(buf)
	require.NoError(t, err)
	assert.EqualValues(t, len(buf), n)

	ack := knxnet.DeviceConfigAck{ConnHeader: knxnet.ConnHeader{ChannelID: 1, SeqNumber: 0}, Status: knxnet.NoError}
	buf2 := make([]byte, ack.Size())
	ack.Pack(buf2)

	var outAck knxnet.DeviceConfigAck
	n2, err := outAck.Unpack(buf2)
	require.NoError(t, err)
	assert.EqualValues(t, len(buf2), n2)
	assert.Equal(t, ack, outAck)
}
