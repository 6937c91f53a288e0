// Licensed under the MIT license which can be found in the LICENSE file.
package knxnet

import "github.com/knxcore/knx/knx/util"

// ConnectionStateReq is a Connectionstate.req message, sent periodically as
// a heartbeat for an open connection.
type ConnectionStateReq struct {
	ChannelID uint8
	Control   HostInfo
}

// Service returns the service identifier for Connectionstate.req.
func (ConnectionStateReq) Service() ServiceID { return ConnectionstateReqService }

// Size returns the packed size.
func (req ConnectionStateReq) Size() uint { return 2 + req.Control.Size() }

// Pack assembles the Connectionstate.req structure in the given buffer.
func (req *ConnectionStateReq) Pack(buffer []byte) {
	util.PackSome(buffer, req.ChannelID, uint8(0), &req.Control)
}

// Unpack parses the given service payload in order to initialize the
// Connectionstate.req structure.
func (req *ConnectionStateReq) Unpack(data []byte) (n uint, err error) {
	var reserved uint8
	return util.UnpackSome(data, &req.ChannelID, &reserved, &req.Control)
}

// ConnectionStateRes is a Connectionstate.res message answering a heartbeat.
type ConnectionStateRes struct {
	ChannelID uint8
	Status    Status
}

// Service returns the service identifier for Connectionstate.res.
func (ConnectionStateRes) Service() ServiceID { return ConnectionstateResService }

// Size returns the packed size.
func (ConnectionStateRes) Size() uint { return 2 }

// Pack assembles the Connectionstate.res structure in the given buffer.
func (res *ConnectionStateRes) Pack(buffer []byte) {
	util.PackSome(buffer, res.ChannelID, uint8(res.Status))
}

// Unpack parses the given service payload in order to initialize the
// Connectionstate.res structure.
func (res *ConnectionStateRes) Unpack(data []byte) (n uint, err error) {
	return util.UnpackSome(data, &res.ChannelID, (*uint8)(&res.Status))
}
