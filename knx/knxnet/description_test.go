package knxnet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knxcore/knx/knx/knxnet"
)

// TestDescriptionResRoundTrip packs a DescriptionRes carrying all nine DIB
// kinds (the two mandatory and the seven optional ones) and unpacks it
// again, confirming that IPCurrentConfig and ExtendedDeviceInfo survive the
// round trip alongside the other seven.
func TestDescriptionResRoundTrip(t *testing.T) {
	var res knxnet.DescriptionRes
	res.DeviceHardware.Type = knxnet.DescriptionTypeDeviceInfo
	res.DeviceHardware.HardwareAddr = make([]byte, 6)

	res.SupportedServices.Type = knxnet.DescriptionTypeSupportedServiceFamilies

	res.IPConfig.Type = knxnet.DescriptionTypeIPConfig
	res.IPConfig.IPAssignment = 1

	res.IPCurrentConfig.Type = knxnet.DescriptionTypeIPCurrentConfig
	res.IPCurrentConfig.IPAssignment = 2

	res.KNXAddrs.Type = knxnet.DescriptionTypeKNXAddresses

	res.SecuredServices.Type = knxnet.DescriptionTypeSecuredServiceFamilies

	res.TunnellingInfo.Type = knxnet.DescriptionTypeTunnellingInfo

	res.ExtendedDeviceInfo.Type = knxnet.DescriptionTypeExtendedDeviceInfo
	res.ExtendedDeviceInfo.APDUSize = 254

	res.ManufacturerData.Type = knxnet.DescriptionTypeManufacturerData

	buf := make([]byte, res.Size())
	res.Pack(buf)

	var out knxnet.DescriptionRes
	n, err := out.Unpack(buf)
	require.NoError(t, err)
	assert.EqualValues(t, len(buf), n)

	assert.Equal(t, res.IPConfig, out.IPConfig)
	assert.Equal(t, res.IPCurrentConfig, out.IPCurrentConfig)
	assert.Equal(t, res.KNXAddrs.Type, out.KNXAddrs.Type)
	assert.Equal(t, res.SecuredServices.Type, out.SecuredServices.Type)
	assert.Equal(t, res.TunnellingInfo.Type, out.TunnellingInfo.Type)
	assert.Equal(t, res.ExtendedDeviceInfo, out.ExtendedDeviceInfo)
	assert.Equal(t, res.ManufacturerData.Type, out.ManufacturerData.Type)
}

// TestDescriptionResMissingMandatoryDIB confirms a DescriptionRes lacking
// the mandatory DeviceInformationBlock is rejected.
func TestDescriptionResMissingMandatoryDIB(t *testing.T) {
	var res knxnet.DescriptionRes
	res.DeviceHardware.Type = knxnet.DescriptionType(0)
	res.DeviceHardware.HardwareAddr = make([]byte, 6)
	res.SupportedServices.Type = knxnet.DescriptionTypeSupportedServiceFamilies

	buf := make([]byte, res.Size())
	res.DeviceHardware.Pack(buf)
	res.SupportedServices.Pack(buf[res.DeviceHardware.Size():])

	var out knxnet.DescriptionRes
	_, err := out.Unpack(buf)
	assert.ErrorIs(t, err, knxnet.ErrMalformedFrame)
}
