// Licensed under the MIT license which can be found in the LICENSE file.
package knxnet

import (
	"net"
	"time"

	"github.com/knxcore/knx/knx/cemi"
)

// Transport is an interface for sending and receiving raw frames.
// knx.Tunnel and knx.Router do not use it: they drive a Socket (socket.go)
// directly, and Socket, which exchanges Service values rather than raw
// bytes, does not implement it.
type Transport interface {
	// Send transmits data to destination.
	Send(data []byte, destination net.Addr) error

	// LocalAddr returns the transport's bound local address.
	LocalAddr() net.Addr

	// Close releases the transport's resources.
	Close() error
}

// PacketSource delivers inbound datagrams, pairing each with its source
// address. No connection type in this module reads from a PacketSource.
type PacketSource interface {
	// Inbound returns the channel the transport posts received datagrams
	// on. The channel is closed when the transport is closed.
	Inbound() <-chan InboundPacket
}

// InboundPacket is a single received datagram together with its source.
type InboundPacket struct {
	Data []byte
	Src  net.Addr
}

// Clock abstracts wall-clock access and timer scheduling. knx.Tunnel does
// not use it: its heartbeat, ack and connect timers are built on the time
// package directly.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// Schedule invokes fn after the given duration elapses, returning a
	// function that cancels the timer if it hasn't fired yet.
	Schedule(after time.Duration, fn func()) (cancel func())
}

// systemClock is the default Clock, backed by the standard library's timer
// facilities.
type systemClock struct{}

// SystemClock is the default Clock implementation.
var SystemClock Clock = systemClock{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) Schedule(after time.Duration, fn func()) func() {
	t := time.AfterFunc(after, fn)
	return func() { t.Stop() }
}

// Listener is the external collaborator notified of inbound cEMI frames,
// connection state transitions and lost-message indications.
type Listener interface {
	// OnFrame is called for every cEMI payload delivered to the upper
	// layer (from Tunneling.req on a Tunnel, Routing.ind and
	// RoutingSystemBroadcast on a Router).
	OnFrame(msg cemi.Message)

	// OnStateChange is called when a Tunnel transitions to StateClosed,
	// with the reason for the close.
	OnStateChange(state ConnState, reason CloseReason)

	// OnLostMessages is called when a RoutingLostMessage.ind is received.
	OnLostMessages(count uint16, deviceState DeviceState)
}

// BaseListener implements Listener with no-op methods, so callers can embed
// it and override only the callbacks they care about.
type BaseListener struct{}

func (BaseListener) OnFrame(cemi.Message)                    {}
func (BaseListener) OnStateChange(ConnState, CloseReason)     {}
func (BaseListener) OnLostMessages(uint16, DeviceState)       {}

// SecureSession wraps/unwraps frame payloads for KNX IP Secure. The core
// codec remains plaintext; a SecureSession, when configured, is applied as
// an orthogonal layer around the Transport.
type SecureSession interface {
	Wrap(data []byte) ([]byte, error)
	Unwrap(data []byte) ([]byte, error)
}

// ConnState is a connection's lifecycle state.
type ConnState uint8

// Connection lifecycle states.
const (
	StateClosed ConnState = iota
	StateConnecting
	StateOpen
	StateClosing
)

// String returns the state's name.
func (s ConnState) String() string {
	switch s {
	case StateClosed:
		return "Closed"
	case StateConnecting:
		return "Connecting"
	case StateOpen:
		return "Open"
	case StateClosing:
		return "Closing"
	default:
		return "Unknown"
	}
}

// CloseReason explains why a connection transitioned to StateClosed.
type CloseReason uint8

// Defined close reasons.
const (
	ReasonNone CloseReason = iota
	ReasonNormal
	ReasonRemoteInitiated
	ReasonHeartbeatLost
	ReasonTimeout
	ReasonTransportError
	ReasonProtocolError
)

// String returns the reason's name.
func (r CloseReason) String() string {
	switch r {
	case ReasonNone:
		return "None"
	case ReasonNormal:
		return "Normal"
	case ReasonRemoteInitiated:
		return "RemoteInitiated"
	case ReasonHeartbeatLost:
		return "HeartbeatLost"
	case ReasonTimeout:
		return "Timeout"
	case ReasonTransportError:
		return "TransportError"
	case ReasonProtocolError:
		return "ProtocolError"
	default:
		return "Unknown"
	}
}
