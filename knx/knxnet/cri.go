// Licensed under the MIT license which can be found in the LICENSE file.
package knxnet

import (
	"fmt"

	"github.com/knxcore/knx/knx/util"
)

// ConnectionType identifies the kind of connection requested by a
// Connect.req (the CRI's second byte).
type ConnectionType uint8

// Supported connection types.
const (
	DeviceMgmtConnection ConnectionType = 0x03
	TunnelConnection     ConnectionType = 0x04
	RemLogConnection     ConnectionType = 0x06
	RemConfConnection    ConnectionType = 0x07
	ObjSvrConnection     ConnectionType = 0x08
)

// TunnelLayer identifies the KNX layer a tunneling connection operates on
// (the low nibble of the tunneling CRI's third byte; the busmonitor bit
// 0x80 is folded in as TunnelLayerBusmonitor).
type TunnelLayer uint8

// Supported tunnel layers.
const (
	TunnelLayerData       TunnelLayer = 0x02
	TunnelLayerRaw        TunnelLayer = 0x04
	TunnelLayerBusmonitor TunnelLayer = 0x80
)

// CRI is the Connection Request Information structure sent with a
// Connect.req. Only tunneling connections carry type-specific bytes (the
// KNX layer and a reserved byte) beyond the connection type; every other
// connection type, device management included, is packed as a bare 2-byte
// CRI.
type CRI struct {
	ConnType ConnectionType

	// Layer is meaningful only for ConnType == TunnelConnection.
	Layer TunnelLayer
}

// Size returns the packed size.
func (cri CRI) Size() uint {
	switch cri.ConnType {
	case TunnelConnection:
		return 4
	default:
		return 2
	}
}

// Pack assembles the CRI structure in the given buffer.
func (cri *CRI) Pack(buffer []byte) {
	switch cri.ConnType {
	case TunnelConnection:
		util.PackSome(buffer, uint8(cri.Size()), uint8(cri.ConnType), uint8(cri.Layer), uint8(0))
	default:
		util.PackSome(buffer, uint8(cri.Size()), uint8(cri.ConnType))
	}
}

// Unpack parses the given data in order to initialize the CRI structure.
// It never returns ErrUnsupportedConnectionType itself: connection type
// validation is surfaced via Connect.res rather than at parse time.
func (cri *CRI) Unpack(data []byte) (n uint, err error) {
	var length uint8

	if n, err = util.UnpackSome(data, &length, (*uint8)(&cri.ConnType)); err != nil {
		return
	}

	if int(length) > len(data) {
		return n, fmt.Errorf("%w: CRI length %d exceeds available data", ErrMalformedFrame, length)
	}

	if cri.ConnType == TunnelConnection {
		if length < 4 {
			return n, fmt.Errorf("%w: tunneling CRI length %d, want 4", ErrMalformedFrame, length)
		}

		cri.Layer = TunnelLayer(data[2])
		n = uint(length)
	} else {
		n = uint(length)
	}

	return n, nil
}

// CRD is the Connection Response Data structure, carried by a successful
// Connect.res. Its shape mirrors the CRI that requested the connection.
type CRD struct {
	ConnType ConnectionType

	// TunnelAddr is the individual address assigned to the client,
	// meaningful only for ConnType == TunnelConnection.
	TunnelAddr IndividualAddrWire
}

// IndividualAddrWire is a 16-bit KNX individual address as carried in CRD,
// kept distinct from cemi.IndividualAddr because CRD only ever needs the
// raw wire value.
type IndividualAddrWire uint16

// Size returns the packed size.
func (crd CRD) Size() uint {
	switch crd.ConnType {
	case TunnelConnection:
		return 4
	default:
		return 2
	}
}

// Pack assembles the CRD structure in the given buffer.
func (crd *CRD) Pack(buffer []byte) {
	switch crd.ConnType {
	case TunnelConnection:
		util.PackSome(buffer, uint8(crd.Size()), uint8(crd.ConnType), uint16(crd.TunnelAddr))
	default:
		util.PackSome(buffer, uint8(crd.Size()), uint8(crd.ConnType))
	}
}

// Unpack parses the given data in order to initialize the CRD structure.
func (crd *CRD) Unpack(data []byte) (n uint, err error) {
	var length uint8

	if n, err = util.UnpackSome(data, &length, (*uint8)(&crd.ConnType)); err != nil {
		return
	}

	if crd.ConnType == TunnelConnection {
		if len(data) < 4 {
			return n, fmt.Errorf("%w: tunneling CRD too short", ErrMalformedFrame)
		}

		if _, err = util.UnpackSome(data[2:], (*uint16)(&crd.TunnelAddr)); err != nil {
			return n, err
		}
		n = 4
	} else {
		n = uint(length)
	}

	if length != uint8(crd.Size()) {
		return n, fmt.Errorf("%w: CRD length %d, want %d", ErrMalformedFrame, length, crd.Size())
	}

	return n, nil
}
