// Licensed under the MIT license which can be found in the LICENSE file.
package knxnet

import (
	"github.com/knxcore/knx/knx/cemi"
	"github.com/knxcore/knx/knx/util"
)

// TunnelReq is a Tunneling.req message: a connection-header-framed cEMI
// frame exchanged over an established tunneling connection.
type TunnelReq struct {
	ConnHeader
	Payload cemi.Message
}

// Service returns the service identifier for Tunneling.req.
func (TunnelReq) Service() ServiceID { return TunnelingReqService }

// Size returns the packed size.
func (r TunnelReq) Size() uint { return r.ConnHeader.Size() + cemi.Size(r.Payload) }

// Pack assembles the Tunneling.req structure in the given buffer.
func (r *TunnelReq) Pack(buffer []byte) {
	r.ConnHeader.Pack(buffer)
	cemi.Pack(buffer[r.ConnHeader.Size():], r.Payload)
}

// Unpack parses the given service payload in order to initialize the
// Tunneling.req structure.
func (r *TunnelReq) Unpack(data []byte) (n uint, err error) {
	if n, err = r.ConnHeader.Unpack(data); err != nil {
		return
	}

	msg, nn, err := cemi.Unpack(data[n:])
	if err != nil {
		return n, err
	}

	r.Payload = msg
	return n + nn, nil
}

// TunnelAck is a Tunneling.ack message: the connection-header-framed
// acknowledgement of a Tunneling.req.
type TunnelAck struct {
	ConnHeader
	Status Status
}

// Service returns the service identifier for Tunneling.ack.
func (TunnelAck) Service() ServiceID { return TunnelingAckService }

// Size returns the packed size.
func (a TunnelAck) Size() uint { return a.ConnHeader.Size() + 1 }

// Pack assembles the Tunneling.ack structure in the given buffer.
func (a *TunnelAck) Pack(buffer []byte) {
	n := a.ConnHeader.Size()
	a.ConnHeader.Pack(buffer)
	util.PackSome(buffer[n:], uint8(a.Status))
}

// Unpack parses the given service payload in order to initialize the
// Tunneling.ack structure.
func (a *TunnelAck) Unpack(data []byte) (n uint, err error) {
	if n, err = a.ConnHeader.Unpack(data); err != nil {
		return
	}

	nn, err := util.UnpackSome(data[n:], (*uint8)(&a.Status))
	if err != nil {
		return n, err
	}

	return n + nn, nil
}

// DeviceConfigReq is a DeviceConfiguration.req message: the device-
// management counterpart of TunnelReq, carrying an M_Prop* cEMI frame.
type DeviceConfigReq struct {
	ConnHeader
	Payload cemi.Message
}

// Service returns the service identifier for DeviceConfiguration.req.
func (DeviceConfigReq) Service() ServiceID { return DeviceConfigurationReqService }

// Size returns the packed size.
func (r DeviceConfigReq) Size() uint { return r.ConnHeader.Size() + cemi.Size(r.Payload) }

// Pack assembles the DeviceConfiguration.req structure in the given buffer.
func (r *DeviceConfigReq) Pack(buffer []byte) {
	r.ConnHeader.Pack(buffer)
	cemi.Pack(buffer[r.ConnHeader.Size():], r.Payload)
}

// Unpack parses the given service payload in order to initialize the
// DeviceConfiguration.req structure.
func (r *DeviceConfigReq) Unpack(data []byte) (n uint, err error) {
	if n, err = r.ConnHeader.Unpack(data); err != nil {
		return
	}

	msg, nn, err := cemi.Unpack(data[n:])
	if err != nil {
		return n, err
	}

	r.Payload = msg
	return n + nn, nil
}

// DeviceConfigAck is a DeviceConfiguration.ack message.
type DeviceConfigAck struct {
	ConnHeader
	Status Status
}

// Service returns the service identifier for DeviceConfiguration.ack.
func (DeviceConfigAck) Service() ServiceID { return DeviceConfigurationAckService }

// Size returns the packed size.
func (a DeviceConfigAck) Size() uint { return a.ConnHeader.Size() + 1 }

// Pack assembles the DeviceConfiguration.ack structure in the given buffer.
func (a *DeviceConfigAck) Pack(buffer []byte) {
	n := a.ConnHeader.Size()
	a.ConnHeader.Pack(buffer)
	util.PackSome(buffer[n:], uint8(a.Status))
}

// Unpack parses the given service payload in order to initialize the
// DeviceConfiguration.ack structure.
func (a *DeviceConfigAck) Unpack(data []byte) (n uint, err error) {
	if n, err = a.ConnHeader.Unpack(data); err != nil {
		return
	}

	nn, err := util.UnpackSome(data[n:], (*uint8)(&a.Status))
	if err != nil {
		return n, err
	}

	return n + nn, nil
}
