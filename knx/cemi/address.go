// Licensed under the MIT license which can be found in the LICENSE file.
package cemi

import "fmt"

// IndividualAddr is a KNX individual address in the form area.line.device.
type IndividualAddr uint16

// NewIndividualAddr builds an IndividualAddr from its area/line/device parts.
func NewIndividualAddr(area, line, device uint8) IndividualAddr {
	return IndividualAddr(uint16(area&0xf)<<12 | uint16(line&0xf)<<8 | uint16(device))
}

// Area returns the area part (4 bit) of the address.
func (addr IndividualAddr) Area() uint8 { return uint8(addr>>12) & 0xf }

// Line returns the line part (4 bit) of the address.
func (addr IndividualAddr) Line() uint8 { return uint8(addr>>8) & 0xf }

// Device returns the device part (8 bit) of the address.
func (addr IndividualAddr) Device() uint8 { return uint8(addr) }

// String returns the address in area.line.device notation.
func (addr IndividualAddr) String() string {
	return fmt.Sprintf("%d.%d.%d", addr.Area(), addr.Line(), addr.Device())
}

// GroupAddr is a KNX group address, either in 2-level (main/sub) or 3-level
// (main/middle/sub) notation; the notation used is purely a presentation
// choice, the wire value is always a plain 16 bit number.
type GroupAddr uint16

// NewGroupAddr3 builds a GroupAddr from its 3-level main/middle/sub parts.
func NewGroupAddr3(main, middle, sub uint8) GroupAddr {
	return GroupAddr(uint16(main&0x1f)<<11 | uint16(middle&0x7)<<8 | uint16(sub))
}

// NewGroupAddr2 builds a GroupAddr from its 2-level main/sub parts.
func NewGroupAddr2(main uint8, sub uint16) GroupAddr {
	return GroupAddr(uint16(main&0x1f)<<11 | (sub & 0x7ff))
}

// Main returns the main group part (5 bit).
func (addr GroupAddr) Main() uint8 { return uint8(addr>>11) & 0x1f }

// Middle returns the middle group part (3 bit) of a 3-level address.
func (addr GroupAddr) Middle() uint8 { return uint8(addr>>8) & 0x7 }

// Sub returns the sub group part (8 bit) of a 3-level address.
func (addr GroupAddr) Sub() uint8 { return uint8(addr) }

// Sub2 returns the sub group part (11 bit) of a 2-level address.
func (addr GroupAddr) Sub2() uint16 { return uint16(addr) & 0x7ff }

// String returns the address in 3-level main/middle/sub notation.
func (addr GroupAddr) String() string {
	return fmt.Sprintf("%d/%d/%d", addr.Main(), addr.Middle(), addr.Sub())
}

// IsZero reports whether the address is the broadcast/unassigned address 0.
func (addr GroupAddr) IsZero() bool { return addr == 0 }
