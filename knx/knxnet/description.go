// Licensed under the MIT license which can be found in the LICENSE file.
package knxnet

import (
	"fmt"
	"net"

	"github.com/knxcore/knx/knx/util"
)

// NewDescriptionReq creates a new DescriptionReq, addr defines where the
// KNXnet/IP server should send the response to.
func NewDescriptionReq(addr net.Addr) (*DescriptionReq, error) {
	hostinfo, err := HostInfoFromAddress(addr)
	if err != nil {
		return nil, err
	}

	return &DescriptionReq{Control: hostinfo}, nil
}

// DescriptionReq is a Description.req message: a client's request for a
// server's description, sent unicast to the server's control endpoint.
type DescriptionReq struct {
	Control HostInfo
}

// Service returns the service identifier for Description.req.
func (DescriptionReq) Service() ServiceID { return DescriptionReqService }

// Size returns the packed size.
func (req DescriptionReq) Size() uint { return req.Control.Size() }

// Pack assembles the Description.req structure in the given buffer.
func (req *DescriptionReq) Pack(buffer []byte) { util.PackSome(buffer, &req.Control) }

// Unpack parses the given service payload in order to initialize the
// Description.req structure.
func (req *DescriptionReq) Unpack(data []byte) (n uint, err error) {
	return util.UnpackSome(data, &req.Control)
}

// DescriptionRes is a Description.res message: the server's response to a
// Description.req, carrying a set of DIBs. The response must include a
// DeviceInformationBlock and a SupportedServicesDIB.
type DescriptionRes struct {
	DescriptionBlock
}

// Service returns the service identifier for Description.res.
func (DescriptionRes) Service() ServiceID { return DescriptionResService }

// Size returns the packed size.
func (res DescriptionRes) Size() uint {
	size := res.DeviceHardware.Size() + res.SupportedServices.Size()

	if res.IPConfig.Type == DescriptionTypeIPConfig {
		size += res.IPConfig.Size()
	}
	if res.IPCurrentConfig.Type == DescriptionTypeIPCurrentConfig {
		size += res.IPCurrentConfig.Size()
	}
	if res.KNXAddrs.Type == DescriptionTypeKNXAddresses {
		size += res.KNXAddrs.Size()
	}
	if res.SecuredServices.Type == DescriptionTypeSecuredServiceFamilies {
		size += res.SecuredServices.Size()
	}
	if res.TunnellingInfo.Type == DescriptionTypeTunnellingInfo {
		size += res.TunnellingInfo.Size()
	}
	if res.ExtendedDeviceInfo.Type == DescriptionTypeExtendedDeviceInfo {
		size += res.ExtendedDeviceInfo.Size()
	}
	if res.ManufacturerData.Type == DescriptionTypeManufacturerData {
		size += res.ManufacturerData.Size()
	}

	return size
}

// Pack assembles the Description.res structure in the given buffer. Only
// DIBs that carry data beyond the mandatory Device/SupportedServices pair
// are emitted.
func (res *DescriptionRes) Pack(buffer []byte) {
	offset := uint(0)

	pack := func(block DIB) {
		block.Pack(buffer[offset:])
		offset += block.Size()
	}

	res.DeviceHardware.Type = DescriptionTypeDeviceInfo
	pack(&res.DeviceHardware)

	res.SupportedServices.Type = DescriptionTypeSupportedServiceFamilies
	pack(&res.SupportedServices)

	if res.IPConfig.Type == DescriptionTypeIPConfig {
		pack(&res.IPConfig)
	}
	if res.IPCurrentConfig.Type == DescriptionTypeIPCurrentConfig {
		pack(&res.IPCurrentConfig)
	}
	if res.KNXAddrs.Type == DescriptionTypeKNXAddresses {
		pack(&res.KNXAddrs)
	}
	if res.SecuredServices.Type == DescriptionTypeSecuredServiceFamilies {
		pack(&res.SecuredServices)
	}
	if res.TunnellingInfo.Type == DescriptionTypeTunnellingInfo {
		pack(&res.TunnellingInfo)
	}
	if res.ExtendedDeviceInfo.Type == DescriptionTypeExtendedDeviceInfo {
		pack(&res.ExtendedDeviceInfo)
	}
	if res.ManufacturerData.Type == DescriptionTypeManufacturerData {
		pack(&res.ManufacturerData)
	}
}

// Unpack parses the given service payload in order to initialize the
// Description.res structure. Unknown DIBs are skipped for forward
// compatibility; the mandatory Device/SupportedServices DIBs must be
// present.
func (res *DescriptionRes) Unpack(data []byte) (n uint, err error) {
	n, err = res.DescriptionBlock.Unpack(data)
	if err != nil {
		return n, err
	}

	if res.DeviceHardware.Type != DescriptionTypeDeviceInfo {
		return n, fmt.Errorf("%w: DescriptionRes missing mandatory DeviceInformationBlock", ErrMalformedFrame)
	}
	if res.SupportedServices.Type != DescriptionTypeSupportedServiceFamilies {
		return n, fmt.Errorf("%w: DescriptionRes missing mandatory SupportedServicesDIB", ErrMalformedFrame)
	}

	return n, nil
}
