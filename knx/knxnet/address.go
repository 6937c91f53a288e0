// Licensed under the MIT license which can be found in the LICENSE file.
package knxnet

import (
	"fmt"
	"net"
)

// Address is an IPv4 address in its 4-byte wire form, as carried by HPAI,
// IPConfigDIB, IPCurrentConfigDIB and KNXAddrsDIB's routing-multicast field.
type Address [4]byte

// String returns the dotted-decimal representation.
func (a Address) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", a[0], a[1], a[2], a[3])
}

// AsIP returns the address as a net.IP.
func (a Address) AsIP() net.IP {
	return net.IPv4(a[0], a[1], a[2], a[3])
}

// AddressFromIP converts a net.IP into an Address. It returns
// ErrIllegalArgument if ip isn't a valid IPv4 address.
func AddressFromIP(ip net.IP) (Address, error) {
	v4 := ip.To4()
	if v4 == nil {
		return Address{}, fmt.Errorf("%w: %q isn't an IPv4 address", ErrIllegalArgument, ip)
	}

	var a Address
	copy(a[:], v4)
	return a, nil
}

// IsUnspecified reports whether the address is 0.0.0.0, which on an HPAI
// means "use the transport's source address" (NAT traversal signal).
func (a Address) IsUnspecified() bool {
	return a == Address{}
}
