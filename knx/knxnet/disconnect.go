// Licensed under the MIT license which can be found in the LICENSE file.
package knxnet

import "github.com/knxcore/knx/knx/util"

// DisconnectReq is a Disconnect.req message, sent by either side to
// terminate a connection.
type DisconnectReq struct {
	ChannelID uint8
	Control   HostInfo
}

// Service returns the service identifier for Disconnect.req.
func (DisconnectReq) Service() ServiceID { return DisconnectReqService }

// Size returns the packed size.
func (req DisconnectReq) Size() uint { return 2 + req.Control.Size() }

// Pack assembles the Disconnect.req structure in the given buffer.
func (req *DisconnectReq) Pack(buffer []byte) {
	util.PackSome(buffer, req.ChannelID, uint8(0), &req.Control)
}

// Unpack parses the given service payload in order to initialize the
// Disconnect.req structure.
func (req *DisconnectReq) Unpack(data []byte) (n uint, err error) {
	var reserved uint8
	return util.UnpackSome(data, &req.ChannelID, &reserved, &req.Control)
}

// DisconnectRes is a Disconnect.res message, answering a Disconnect.req.
type DisconnectRes struct {
	ChannelID uint8
	Status    Status
}

// Service returns the service identifier for Disconnect.res.
func (DisconnectRes) Service() ServiceID { return DisconnectResService }

// Size returns the packed size.
func (DisconnectRes) Size() uint { return 2 }

// Pack assembles the Disconnect.res structure in the given buffer.
func (res *DisconnectRes) Pack(buffer []byte) {
	util.PackSome(buffer, res.ChannelID, uint8(res.Status))
}

// Unpack parses the given service payload in order to initialize the
// Disconnect.res structure.
func (res *DisconnectRes) Unpack(data []byte) (n uint, err error) {
	return util.UnpackSome(data, &res.ChannelID, (*uint8)(&res.Status))
}
