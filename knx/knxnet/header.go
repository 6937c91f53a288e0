// Licensed under the MIT license which can be found in the LICENSE file.
package knxnet

import (
	"fmt"

	"github.com/knxcore/knx/knx/util"
)

// headerSize is the fixed size of the KNXnet/IP frame header.
const headerSize uint8 = 6

// protocolVersion is the only KNXnet/IP protocol version this package
// accepts (1.0).
const protocolVersion uint8 = 0x10

// ServiceID identifies the concrete service-type body following the header.
type ServiceID uint16

// Service type identifiers, as fixed by the KNXnet/IP specification.
const (
	SearchReqService          ServiceID = 0x0201
	SearchResService          ServiceID = 0x0202
	DescriptionReqService     ServiceID = 0x0203
	DescriptionResService     ServiceID = 0x0204
	ConnectReqService         ServiceID = 0x0205
	ConnectResService         ServiceID = 0x0206
	ConnectionstateReqService ServiceID = 0x0207
	ConnectionstateResService ServiceID = 0x0208
	DisconnectReqService      ServiceID = 0x0209
	DisconnectResService      ServiceID = 0x020a
	SearchReqExtService       ServiceID = 0x020b
	SearchResExtService       ServiceID = 0x020c

	SecureSessionReqService ServiceID = 0x0951

	DeviceConfigurationReqService ServiceID = 0x0310
	DeviceConfigurationAckService ServiceID = 0x0311

	TunnelingReqService ServiceID = 0x0420
	TunnelingAckService ServiceID = 0x0421

	TunnelingFeatureGetService      ServiceID = 0x0422
	TunnelingFeatureResponseService ServiceID = 0x0423
	TunnelingFeatureSetService      ServiceID = 0x0424
	TunnelingFeatureInfoService     ServiceID = 0x0425

	RoutingIndService      ServiceID = 0x0530
	RoutingLostMsgService  ServiceID = 0x0531
	RoutingBusyIndService  ServiceID = 0x0532
	RoutingSysBcastService ServiceID = 0x0533
)

// Header is the 6-byte KNXnet/IP frame prefix.
type Header struct {
	Service     ServiceID
	TotalLength uint16
}

// Size returns the packed size of the header.
func (Header) Size() uint { return uint(headerSize) }

// Pack assembles the header in the given buffer.
func (h *Header) Pack(buffer []byte) {
	util.PackSome(buffer, headerSize, protocolVersion, uint16(h.Service), h.TotalLength)
}

// Unpack parses a KNXnet/IP header out of data, enforcing the headerSize,
// protocolVersion and totalLength invariants.
func Unpack(data []byte) (h Header, body []byte, err error) {
	if len(data) < int(headerSize) {
		return h, nil, fmt.Errorf("%w: %d bytes available, want at least %d", ErrLengthMismatch, len(data), headerSize)
	}

	var size, version uint8

	if _, err = util.UnpackSome(
		data,
		&size, &version, (*uint16)(&h.Service), &h.TotalLength,
	); err != nil {
		return h, nil, err
	}

	if size != headerSize {
		return h, nil, fmt.Errorf("%w: header size %d, want %d", ErrMalformedFrame, size, headerSize)
	}

	if version != protocolVersion {
		return h, nil, fmt.Errorf("%w: 0x%02x", ErrUnsupportedVersion, version)
	}

	if h.TotalLength < uint16(headerSize) {
		return h, nil, fmt.Errorf("%w: total length %d smaller than header", ErrLengthMismatch, h.TotalLength)
	}

	if int(h.TotalLength) > len(data) {
		return h, nil, fmt.Errorf("%w: total length %d exceeds available %d bytes", ErrLengthMismatch, h.TotalLength, len(data))
	}

	body = data[headerSize:h.TotalLength]

	return h, body, nil
}

// Service is a concrete KNXnet/IP service-type message: a tagged union
// member that knows its own wire identifier and can pack/unpack its body.
type Service interface {
	util.Packable
	util.Unpackable

	// Service returns the wire identifier for this message kind.
	Service() ServiceID
}

// Pack assembles a complete frame (header + body) for svc and returns it.
func Pack(svc Service) []byte {
	total := uint16(uint(headerSize) + svc.Size())

	buffer := make([]byte, total)
	h := Header{Service: svc.Service(), TotalLength: total}
	h.Pack(buffer)
	svc.Pack(buffer[headerSize:])

	return buffer
}

// UnpackService parses a complete frame from data and dispatches the body
// to the matching Service parser via the provided registry function.
func UnpackService(data []byte, produce func(ServiceID) (Service, bool)) (Service, error) {
	h, body, err := Unpack(data)
	if err != nil {
		return nil, err
	}

	svc, ok := produce(h.Service)
	if !ok {
		return nil, fmt.Errorf("%w: 0x%04x", ErrUnsupportedServiceType, uint16(h.Service))
	}

	if _, err := svc.Unpack(body); err != nil {
		return nil, err
	}

	return svc, nil
}
