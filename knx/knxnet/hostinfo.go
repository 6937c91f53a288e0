// Licensed under the MIT license which can be found in the LICENSE file.
package knxnet

import (
	"fmt"
	"net"
	"strconv"

	"github.com/knxcore/knx/knx/util"
)

// HostProtocol identifies the transport protocol carried by an HPAI.
type HostProtocol uint8

// Supported host protocols.
const (
	UDP4 HostProtocol = 0x01
	TCP4 HostProtocol = 0x02
)

// HostInfo is the Host Protocol Address Information (HPAI) structure: a
// compact IPv4+port tuple with a transport tag, 8 bytes on the wire. The
// address 0.0.0.0:0 means "use the transport's source address" (NAT
// traversal signal).
type HostInfo struct {
	Protocol HostProtocol
	Address  Address
	Port     uint16
}

// Size returns the packed size.
func (HostInfo) Size() uint { return 8 }

// Pack assembles the HPAI structure in the given buffer.
func (hpai *HostInfo) Pack(buffer []byte) {
	util.PackSome(
		buffer,
		uint8(hpai.Size()), uint8(hpai.Protocol),
		hpai.Address[:], hpai.Port,
	)
}

// Unpack parses the given data in order to initialize the HPAI structure.
func (hpai *HostInfo) Unpack(data []byte) (n uint, err error) {
	var length uint8

	if n, err = util.UnpackSome(
		data,
		&length, (*uint8)(&hpai.Protocol),
		hpai.Address[:], &hpai.Port,
	); err != nil {
		return
	}

	if length != uint8(hpai.Size()) {
		return n, fmt.Errorf("%w: HPAI structure length %d, want %d", ErrMalformedFrame, length, hpai.Size())
	}

	if hpai.Protocol != UDP4 && hpai.Protocol != TCP4 {
		return n, fmt.Errorf("%w: HPAI host protocol 0x%02x", ErrMalformedFrame, uint8(hpai.Protocol))
	}

	return n, nil
}

// String returns the address in "ip:port" notation.
func (hpai HostInfo) String() string {
	return net.JoinHostPort(hpai.Address.String(), strconv.Itoa(int(hpai.Port)))
}

// HostInfoFromAddress builds a HostInfo describing addr, which must be a
// *net.UDPAddr or *net.TCPAddr with an IPv4 address.
func HostInfoFromAddress(addr net.Addr) (HostInfo, error) {
	var ip net.IP
	var port int
	var proto HostProtocol

	switch a := addr.(type) {
	case *net.UDPAddr:
		ip, port, proto = a.IP, a.Port, UDP4
	case *net.TCPAddr:
		ip, port, proto = a.IP, a.Port, TCP4
	default:
		return HostInfo{}, fmt.Errorf("%w: unsupported address type %T", ErrIllegalArgument, addr)
	}

	if ip == nil || ip.IsUnspecified() {
		// Send the unspecified address 0.0.0.0 as a NAT traversal signal;
		// the bound port is kept as is.
		return HostInfo{Protocol: proto, Port: uint16(port)}, nil
	}

	a, err := AddressFromIP(ip)
	if err != nil {
		return HostInfo{}, err
	}

	if port < 0 || port > 0xffff {
		return HostInfo{}, fmt.Errorf("%w: port %d out of range", ErrIllegalArgument, port)
	}

	return HostInfo{Protocol: proto, Address: a, Port: uint16(port)}, nil
}
