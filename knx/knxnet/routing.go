// Licensed under the MIT license which can be found in the LICENSE file.
package knxnet

import (
	"fmt"

	"github.com/knxcore/knx/knx/cemi"
	"github.com/knxcore/knx/knx/util"
)

// DeviceState carries the KNX medium fault / IP network fault flags in
// bits 0/1; bits 2..7 are reserved and are surfaced opaquely rather than
// given invented meanings.
type DeviceState uint8

const (
	// DeviceStateKNXMediumFault indicates a fault on the KNX medium side.
	DeviceStateKNXMediumFault DeviceState = 1 << 0
	// DeviceStateIPFault indicates a fault on the IP network side.
	DeviceStateIPFault DeviceState = 1 << 1
)

// RoutingInd is a Routing.ind message: it wraps a cEMI frame for multicast
// distribution on the routing backbone.
type RoutingInd struct {
	Payload cemi.Message
}

// Service returns the service identifier for Routing.ind.
func (RoutingInd) Service() ServiceID { return RoutingIndService }

// Size returns the packed size.
func (r RoutingInd) Size() uint { return cemi.Size(r.Payload) }

// Pack assembles the Routing.ind structure in the given buffer.
func (r *RoutingInd) Pack(buffer []byte) { cemi.Pack(buffer, r.Payload) }

// Unpack parses the given service payload in order to initialize the
// Routing.ind structure.
func (r *RoutingInd) Unpack(data []byte) (n uint, err error) {
	msg, n, err := cemi.Unpack(data)
	if err != nil {
		return 0, err
	}
	r.Payload = msg
	return n, nil
}

// RoutingLostMessage is a RoutingLostMessage.ind message, surfacing a
// router's detection of lost indications to the listener without otherwise
// changing internal state.
type RoutingLostMessage struct {
	DeviceState DeviceState
	LostCount   uint16
}

// Service returns the service identifier for RoutingLostMessage.ind.
func (RoutingLostMessage) Service() ServiceID { return RoutingLostMsgService }

// Size returns the packed size.
func (RoutingLostMessage) Size() uint { return 4 }

// Pack assembles the RoutingLostMessage.ind structure in the given buffer.
func (r *RoutingLostMessage) Pack(buffer []byte) {
	util.PackSome(buffer, uint8(r.Size()), uint8(r.DeviceState), r.LostCount)
}

// Unpack parses the given service payload in order to initialize the
// RoutingLostMessage.ind structure.
func (r *RoutingLostMessage) Unpack(data []byte) (n uint, err error) {
	var length uint8
	if n, err = util.UnpackSome(data, &length, (*uint8)(&r.DeviceState), &r.LostCount); err != nil {
		return
	}
	if length != uint8(r.Size()) {
		return n, fmt.Errorf("%w: RoutingLostMessage length %d, want 4", ErrMalformedFrame, length)
	}
	return n, nil
}

// MinRoutingBusyWait and MaxRoutingBusyWait bound the WaitTime field of a
// RoutingBusy message.
const (
	MinRoutingBusyWait uint16 = 20
	MaxRoutingBusyWait uint16 = 100
)

// RoutingBusy is a RoutingBusy.ind message: receiver-driven backpressure
// telling senders to pause multicast traffic for WaitTime (plus jitter
// applied by the receiving engine).
type RoutingBusy struct {
	DeviceState DeviceState
	WaitTime    uint16 // milliseconds, must be in [MinRoutingBusyWait, MaxRoutingBusyWait]
	Control     uint16
}

// NewRoutingBusy builds a RoutingBusy message, returning ErrIllegalArgument
// if waitMillis is outside [20,100].
func NewRoutingBusy(state DeviceState, waitMillis uint16, control uint16) (*RoutingBusy, error) {
	if waitMillis < MinRoutingBusyWait || waitMillis > MaxRoutingBusyWait {
		return nil, fmt.Errorf("%w: RoutingBusy wait time %d outside [%d,%d]", ErrIllegalArgument, waitMillis, MinRoutingBusyWait, MaxRoutingBusyWait)
	}
	return &RoutingBusy{DeviceState: state, WaitTime: waitMillis, Control: control}, nil
}

// Service returns the service identifier for RoutingBusy.ind.
func (RoutingBusy) Service() ServiceID { return RoutingBusyIndService }

// Size returns the packed size.
func (RoutingBusy) Size() uint { return 6 }

// Pack assembles the RoutingBusy.ind structure in the given buffer.
func (r *RoutingBusy) Pack(buffer []byte) {
	util.PackSome(buffer, uint8(r.Size()), uint8(r.DeviceState), r.WaitTime, r.Control)
}

// Unpack parses the given service payload in order to initialize the
// RoutingBusy.ind structure. A WaitTime outside [20,100] is a
// MalformedFrame on the receiver path.
func (r *RoutingBusy) Unpack(data []byte) (n uint, err error) {
	var length uint8
	if n, err = util.UnpackSome(data, &length, (*uint8)(&r.DeviceState), &r.WaitTime, &r.Control); err != nil {
		return
	}
	if length != uint8(r.Size()) {
		return n, fmt.Errorf("%w: RoutingBusy length %d, want 6", ErrMalformedFrame, length)
	}
	if r.WaitTime < MinRoutingBusyWait || r.WaitTime > MaxRoutingBusyWait {
		return n, fmt.Errorf("%w: RoutingBusy wait time %d outside [%d,%d]", ErrMalformedFrame, r.WaitTime, MinRoutingBusyWait, MaxRoutingBusyWait)
	}
	return n, nil
}

// RoutingSystemBroadcast wraps a cEMI frame that must be an L_Data.ind with
// a group address destination of 0 and the system-broadcast flag set. Its
// service identifier is frozen at 0x0533, distinct from
// RoutingLostMsgService (0x0531).
type RoutingSystemBroadcast struct {
	Payload cemi.Message
}

// Service returns the service identifier for RoutingSystemBroadcast.ind.
func (RoutingSystemBroadcast) Service() ServiceID { return RoutingSysBcastService }

// Size returns the packed size.
func (r RoutingSystemBroadcast) Size() uint { return cemi.Size(r.Payload) }

// Pack assembles the structure in the given buffer.
func (r *RoutingSystemBroadcast) Pack(buffer []byte) { cemi.Pack(buffer, r.Payload) }

// Unpack parses the given service payload, validating the system-broadcast
// invariant.
func (r *RoutingSystemBroadcast) Unpack(data []byte) (n uint, err error) {
	msg, n, err := cemi.Unpack(data)
	if err != nil {
		return 0, err
	}

	ind, ok := msg.(*cemi.LDataInd)
	if !ok {
		return n, fmt.Errorf("%w: RoutingSystemBroadcast payload isn't an L_Data.ind", ErrMalformedFrame)
	}
	if !ind.Control2.IsGroupAddr() || ind.Destination != 0 {
		return n, fmt.Errorf("%w: RoutingSystemBroadcast destination must be group address 0", ErrMalformedFrame)
	}
	if ind.Control1&cemi.Control1NoSysBroadcast != 0 {
		return n, fmt.Errorf("%w: RoutingSystemBroadcast payload lacks system-broadcast flag", ErrMalformedFrame)
	}

	r.Payload = msg

	return n, nil
}
