package knxnet_test

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knxcore/knx/knx/knxnet"
)

func TestHostInfoRoundTrip(t *testing.T) {
	hpai := knxnet.HostInfo{Protocol: knxnet.UDP4, Address: knxnet.Address{192, 168, 0, 10}, Port: 3671}

	buf := make([]byte, hpai.Size())
	hpai.Pack(buf)

	var out knxnet.HostInfo
	n, err := out.Unpack(buf)
	require.NoError(t, err)
	assert.EqualValues(t, 8, n)
	assert.Equal(t, hpai, out)
	assert.Equal(t, "192.168.0.10:3671", hpai.String())
}

func TestHostInfoUnpackRejectsBadProtocol(t *testing.T) {
	buf := []byte{8, 0x03, 0, 0, 0, 0, 0, 0}

	var out knxnet.HostInfo
	_, err := out.Unpack(buf)
	assert.ErrorIs(t, err, knxnet.ErrMalformedFrame)
}

func TestHostInfoFromAddressUDP(t *testing.T) {
	addr := &net.UDPAddr{IP: net.IPv4(10, 0, 0, 5), Port: 3671}

	hpai, err := knxnet.HostInfoFromAddress(addr)
	require.NoError(t, err)
	assert.Equal(t, knxnet.UDP4, hpai.Protocol)
	assert.Equal(t, knxnet.Address{10, 0, 0, 5}, hpai.Address)
	assert.EqualValues(t, 3671, hpai.Port)
}

func TestHostInfoFromAddressUnspecified(t *testing.T) {
	addr := &net.UDPAddr{IP: net.IPv4zero, Port: 3671}

	hpai, err := knxnet.HostInfoFromAddress(addr)
	require.NoError(t, err)
	assert.True(t, hpai.Address.IsUnspecified())
	assert.EqualValues(t, 3671, hpai.Port)
}

func TestHostInfoFromAddressUnsupportedType(t *testing.T) {
	_, err := knxnet.HostInfoFromAddress(&net.UnixAddr{Name: "x"})
	assert.ErrorIs(t, err, knxnet.ErrIllegalArgument)
}

func TestAddressFromIPRejectsIPv6(t *testing.T) {
	_, err := knxnet.AddressFromIP(net.ParseIP("::1"))
	assert.ErrorIs(t, err, knxnet.ErrIllegalArgument)
}

func TestAddressAsIP(t *testing.T) {
	a := knxnet.Address{8, 8, 8, 8}
	assert.Equal(t, "8.8.8.8", a.AsIP().String())
}
