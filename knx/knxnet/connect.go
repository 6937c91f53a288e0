// Licensed under the MIT license which can be found in the LICENSE file.
package knxnet

import (
	"fmt"

	"github.com/knxcore/knx/knx/util"
)

// Status is the error-code field shared by Connect.res, Connectionstate.res
// and Disconnect.res.
type Status uint8

// Defined status codes.
const (
	NoError              Status = 0x00
	ErrHostProtocolType  Status = 0x01
	ErrVersionNotSupp    Status = 0x02
	ErrSeqNumber         Status = 0x04
	ErrConnectionID      Status = 0x21
	ErrConnectionType    Status = 0x22
	ErrConnectionOption  Status = 0x23
	ErrNoMoreConnections Status = 0x24
	ErrDataConnection    Status = 0x26
	ErrKNXConnection     Status = 0x27
	ErrTunnelingLayer    Status = 0x29
)

// String returns a short human-readable name for the status code.
func (s Status) String() string {
	switch s {
	case NoError:
		return "NO_ERROR"
	case ErrHostProtocolType:
		return "HOST_PROTOCOL_TYPE"
	case ErrVersionNotSupp:
		return "VERSION_NOT_SUPPORTED"
	case ErrSeqNumber:
		return "SEQUENCE_NUMBER"
	case ErrConnectionID:
		return "CONNECTION_ID"
	case ErrConnectionType:
		return "CONNECTION_TYPE"
	case ErrConnectionOption:
		return "CONNECTION_OPTION"
	case ErrNoMoreConnections:
		return "NO_MORE_CONNECTIONS"
	case ErrDataConnection:
		return "DATA_CONNECTION"
	case ErrKNXConnection:
		return "KNX_CONNECTION"
	case ErrTunnelingLayer:
		return "TUNNELING_LAYER"
	default:
		return fmt.Sprintf("UNKNOWN(0x%02x)", uint8(s))
	}
}

// ConnectReq is a Connect.req message: a client's request to open a new
// connection of the kind described by CRI, with responses to be sent to
// Control and telegrams to Data.
type ConnectReq struct {
	Control HostInfo
	Data    HostInfo
	CRI     CRI
}

// Service returns the service identifier for Connect.req.
func (ConnectReq) Service() ServiceID { return ConnectReqService }

// Size returns the packed size.
func (req ConnectReq) Size() uint {
	return req.Control.Size() + req.Data.Size() + req.CRI.Size()
}

// Pack assembles the Connect.req structure in the given buffer.
func (req *ConnectReq) Pack(buffer []byte) {
	util.PackSome(buffer, &req.Control, &req.Data, &req.CRI)
}

// Unpack parses the given service payload in order to initialize the
// Connect.req structure.
func (req *ConnectReq) Unpack(data []byte) (n uint, err error) {
	return util.UnpackSome(data, &req.Control, &req.Data, &req.CRI)
}

// ConnectRes is a Connect.res message. A successful response
// (Status == NoError) additionally carries the server's Data endpoint and a
// CRD; an error response MUST NOT carry either, and parsers MUST NOT
// require them.
type ConnectRes struct {
	ChannelID uint8
	Status    Status
	Data      HostInfo
	CRD       CRD
}

// Service returns the service identifier for Connect.res.
func (ConnectRes) Service() ServiceID { return ConnectResService }

// Size returns the packed size.
func (res ConnectRes) Size() uint {
	if res.Status != NoError {
		return 2
	}
	return 2 + res.Data.Size() + res.CRD.Size()
}

// Pack assembles the Connect.res structure in the given buffer.
func (res *ConnectRes) Pack(buffer []byte) {
	n := util.PackSome(buffer, res.ChannelID, uint8(res.Status))

	if res.Status == NoError {
		util.PackSome(buffer[n:], &res.Data, &res.CRD)
	}
}

// Unpack parses the given service payload in order to initialize the
// Connect.res structure. It accepts a 2-byte body on error responses.
func (res *ConnectRes) Unpack(data []byte) (n uint, err error) {
	if n, err = util.UnpackSome(data, &res.ChannelID, (*uint8)(&res.Status)); err != nil {
		return
	}

	if res.Status != NoError {
		return n, nil
	}

	nn, err := util.UnpackSome(data[n:], &res.Data, &res.CRD)
	if err != nil {
		return n, err
	}

	return n + nn, nil
}
