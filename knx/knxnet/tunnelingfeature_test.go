package knxnet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knxcore/knx/knx/knxnet"
)

func TestTunnelingFeatureGetRoundTrip(t *testing.T) {
	g := knxnet.TunnelingFeatureGet{
		ConnHeader: knxnet.ConnHeader{ChannelID: 1, SeqNumber: 2},
		Feature:    knxnet.FeatureMaxApduLength,
	}

	buf := make([]byte, g.Size())
	g.Pack(buf)

	var out knxnet.TunnelingFeatureGet
	n, err := out.Unpack(buf)
	require.NoError(t, err)
	assert.EqualValues(t, len(buf), n)
	assert.Equal(t, g, out)
}

func TestTunnelingFeatureSetRoundTrip(t *testing.T) {
	s := knxnet.TunnelingFeatureSet{
		ConnHeader: knxnet.ConnHeader{ChannelID: 1, SeqNumber: 2},
		Feature:    knxnet.FeatureIndividualAddress,
		Value:      []byte{0x11, 0x01},
	}

	buf := make([]byte, s.Size())
	s.Pack(buf)

	var out knxnet.TunnelingFeatureSet
	n, err := out.Unpack(buf)
	require.NoError(t, err)
	assert.EqualValues(t, len(buf), n)
	assert.Equal(t, s, out)
}

func TestTunnelingFeatureSetRejectsWrongValueLength(t *testing.T) {
	s := knxnet.TunnelingFeatureSet{
		ConnHeader: knxnet.ConnHeader{ChannelID: 1},
		Feature:    knxnet.FeatureIndividualAddress,
		Value:      []byte{0x11},
	}

	buf := make([]byte, s.Size())
	s.Pack(buf)

	var out knxnet.TunnelingFeatureSet
	_, err := out.Unpack(buf)
	assert.ErrorIs(t, err, knxnet.ErrMalformedFrame)
}

func TestTunnelingFeatureResponseSuccessRoundTrip(t *testing.T) {
	r := knxnet.TunnelingFeatureResponse{}
	r.ChannelID = 1
	r.SeqNumber = 2
	r.Feature = knxnet.FeatureConnectionStatus
	r.ReturnCode = knxnet.ReturnCodeSuccess
	r.Value = []byte{0x01}

	buf := make([]byte, r.Size())
	r.Pack(buf)

	var out knxnet.TunnelingFeatureResponse
	n, err := out.Unpack(buf)
	require.NoError(t, err)
	assert.EqualValues(t, len(buf), n)
	assert.Equal(t, r, out)
}

// TestTunnelingFeatureResponseErrorCarriesNoValue confirms an error-status
// Response must have an empty value.
func TestTunnelingFeatureResponseErrorCarriesNoValue(t *testing.T) {
	r := knxnet.TunnelingFeatureResponse{}
	r.ChannelID = 1
	r.Feature = knxnet.FeatureConnectionStatus
	r.ReturnCode = knxnet.ReturnCodeError

	buf := make([]byte, r.Size())
	r.Pack(buf)

	var out knxnet.TunnelingFeatureResponse
	n, err := out.Unpack(buf)
	require.NoError(t, err)
	assert.EqualValues(t, len(buf), n)
	assert.Empty(t, out.Value)
	assert.True(t, out.ReturnCode.IsError())
}

func TestTunnelingFeatureInfoRoundTrip(t *testing.T) {
	i := knxnet.TunnelingFeatureInfo{}
	i.ChannelID = 4
	i.Feature = knxnet.FeatureActiveEmiType
	i.ReturnCode = knxnet.ReturnCodeSuccess
	i.Value = []byte{0x01}

	buf := make([]byte, i.Size())
	i.Pack(buf)

	var out knxnet.TunnelingFeatureInfo
	n, err := out.Unpack(buf)
	require.NoError(t, err)
	assert.EqualValues(t, len(buf), n)
	assert.Equal(t, i, out)
}
