// Licensed under the MIT license which can be found in the LICENSE file.
package knxnet

import "errors"

// Sentinel errors for the codec and connection-manager error taxonomy.
// Codec errors (Malformed/UnsupportedVersion/LengthMismatch/
// UnsupportedServiceType/UnsupportedConnectionType) are local to the receive
// path and never tear down a connection; state-machine errors
// (SequenceNumber/Timeout/ConnectionClosed/TransportError) do.
var (
	// ErrMalformedFrame indicates a header or body failed structural checks.
	ErrMalformedFrame = errors.New("knxnet: malformed frame")

	// ErrUnsupportedVersion indicates the header version isn't 0x10.
	ErrUnsupportedVersion = errors.New("knxnet: unsupported protocol version")

	// ErrLengthMismatch indicates totalLength disagrees with available bytes.
	ErrLengthMismatch = errors.New("knxnet: length mismatch")

	// ErrUnsupportedServiceType indicates an unknown service type id.
	ErrUnsupportedServiceType = errors.New("knxnet: unsupported service type")

	// ErrUnsupportedConnectionType indicates a CRI connection type that
	// isn't implemented.
	ErrUnsupportedConnectionType = errors.New("knxnet: unsupported connection type")

	// ErrSequenceNumber indicates a received sequence number fell outside
	// the expected range.
	ErrSequenceNumber = errors.New("knxnet: sequence number out of range")

	// ErrTimeout indicates an ack/connect/heartbeat timer elapsed.
	ErrTimeout = errors.New("knxnet: timeout")

	// ErrConnectionClosed indicates an operation was attempted on a closed
	// connection.
	ErrConnectionClosed = errors.New("knxnet: connection closed")

	// ErrIllegalArgument indicates API misuse: a range violation on
	// construction.
	ErrIllegalArgument = errors.New("knxnet: illegal argument")

	// ErrTransport indicates the underlying socket failed.
	ErrTransport = errors.New("knxnet: transport error")
)
