// Copyright 2017 Ole Krüger.
// Licensed under the MIT license which can be found in the LICENSE file.

// Package cemi implements parsing and generation of Common External Message
// Interface (cEMI) frames, the medium-independent encoding of KNX bus
// telegrams carried inside KNXnet/IP tunneling, device-management and
// routing service bodies.
package cemi

import (
	"fmt"

	"github.com/knxcore/knx/knx/util"
)

// MessageCode identifies the kind of a cEMI frame.
type MessageCode uint8

// Supported message codes.
const (
	LDataReqCode    MessageCode = 0x11
	LDataConCode    MessageCode = 0x2e
	LDataIndCode    MessageCode = 0x29
	MPropReadReq    MessageCode = 0xfc
	MPropReadCon    MessageCode = 0xfb
	MPropWriteReq   MessageCode = 0xf6
	MPropWriteCon   MessageCode = 0xf5
	MPropInfoInd    MessageCode = 0xf7
	MResetReq       MessageCode = 0xf1
	MResetInd       MessageCode = 0xf0
)

// Message is a cEMI frame payload: a message code plus a type-specific body.
type Message interface {
	util.Packable
	util.Unpackable

	// Info returns the message code identifying the concrete frame type.
	Info() MessageCode
}

// Control1 flags, first control octet of an L_Data frame.
type Control1 uint8

const (
	Control1StdFrame       Control1 = 1 << 7
	Control1NoRepeat       Control1 = 1 << 5
	Control1NoSysBroadcast Control1 = 1 << 4
	Control1AckRequest     Control1 = 1 << 1
	Control1Error          Control1 = 1 << 0
)

// Priority extracts the priority bits (2) from Control1.
func (c Control1) Priority() uint8 { return uint8(c>>2) & 0x3 }

// Control2 flags, second control octet of an L_Data frame.
type Control2 uint8

const (
	// Control2GroupAddr marks the destination address as a group address.
	Control2GroupAddr Control2 = 1 << 7
)

// Control2Hops builds a Control2 value with the given hop count (0..7) and
// the destination-address-type bit left at caller's discretion via Or.
func Control2Hops(hops uint8) Control2 {
	return Control2((hops & 0x7) << 4)
}

// Hops extracts the hop count (3 bit) from Control2.
func (c Control2) Hops() uint8 { return uint8(c>>4) & 0x7 }

// IsGroupAddr reports whether the destination-address-type bit marks a
// group address (as opposed to an individual address).
func (c Control2) IsGroupAddr() bool { return c&Control2GroupAddr != 0 }

// LData is the common payload of L_Data.req/.con/.ind frames: control
// fields, source/destination addresses and the transport-layer unit (TPDU).
type LData struct {
	Control1    Control1
	Control2    Control2
	Source      IndividualAddr
	Destination uint16 // interpreted via Control2.IsGroupAddr as GroupAddr or IndividualAddr
	Data        TransportUnit
}

// Size returns the packed size.
func (ld *LData) Size() uint {
	size := uint(1 + 1 + 2 + 2)
	if ld.Data != nil {
		size += ld.Data.Size()
	} else {
		size += 1 // single zero TPCI octet with no payload
	}
	return size
}

// Pack assembles the L_Data payload (without additional info and without
// message code) in the given buffer.
func (ld *LData) Pack(buffer []byte) {
	n := util.PackSome(
		buffer,
		uint8(ld.Control1), uint8(ld.Control2),
		uint16(ld.Source), ld.Destination,
	)

	if ld.Data != nil {
		ld.Data.Pack(buffer[n:])
	} else {
		buffer[n] = 0
	}
}

// Unpack parses the given data (without additional info and without
// message code) into the L_Data payload.
func (ld *LData) Unpack(data []byte) (n uint, err error) {
	if n, err = util.UnpackSome(
		data,
		(*uint8)(&ld.Control1), (*uint8)(&ld.Control2),
		(*uint16)(&ld.Source), &ld.Destination,
	); err != nil {
		return
	}

	var unit TransportUnit
	nn, err := unpackTransportUnit(data[n:], &unit)
	if err != nil {
		return n, fmt.Errorf("unpacking L_Data TPDU: %w", err)
	}

	ld.Data = unit
	n += nn

	return n, nil
}

// LDataReq is an L_Data.req cEMI frame: a request to send a telegram onto
// the bus.
type LDataReq struct {
	LData
}

// Info returns the message code for L_Data.req.
func (LDataReq) Info() MessageCode { return LDataReqCode }

// LDataCon is an L_Data.con cEMI frame: a confirmation mirroring a
// previously sent L_Data.req, with Control1's error bit reflecting success.
type LDataCon struct {
	LData
}

// Info returns the message code for L_Data.con.
func (LDataCon) Info() MessageCode { return LDataConCode }

// Success reports whether the confirmation indicates success (no error).
func (c LDataCon) Success() bool { return c.Control1&Control1Error == 0 }

// LDataInd is an L_Data.ind cEMI frame: an indication of a telegram
// received from the bus.
type LDataInd struct {
	LData
}

// Info returns the message code for L_Data.ind.
func (LDataInd) Info() MessageCode { return LDataIndCode }

// Unpack parses a complete cEMI frame (message code, additional info and
// body) and returns the decoded Message.
func Unpack(data []byte) (msg Message, n uint, err error) {
	if len(data) < 2 {
		return nil, 0, fmt.Errorf("cemi: frame too short")
	}

	code := MessageCode(data[0])
	n = 1

	addInfoLen := uint(data[1])
	n++
	addInfo := data[n : n+addInfoLen]
	_ = addInfo
	n += addInfoLen

	body := data[n:]

	switch code {
	case LDataReqCode:
		m := &LDataReq{}
		nn, err := m.Unpack(body)
		return m, n + nn, err

	case LDataConCode:
		m := &LDataCon{}
		nn, err := m.Unpack(body)
		return m, n + nn, err

	case LDataIndCode:
		m := &LDataInd{}
		nn, err := m.Unpack(body)
		return m, n + nn, err

	case MPropReadReq:
		m := &PropReadReq{}
		nn, err := m.Unpack(body)
		return m, n + nn, err

	case MPropReadCon:
		m := &PropReadCon{}
		nn, err := m.Unpack(body)
		return m, n + nn, err

	case MPropWriteReq:
		m := &PropWriteReq{}
		nn, err := m.Unpack(body)
		return m, n + nn, err

	case MPropWriteCon:
		m := &PropWriteCon{}
		nn, err := m.Unpack(body)
		return m, n + nn, err

	default:
		return nil, n, fmt.Errorf("cemi: unsupported message code 0x%02x", uint8(code))
	}
}

// Pack assembles a complete cEMI frame (message code, zero-length
// additional-info block, body) in the given buffer.
func Pack(buffer []byte, msg Message) {
	buffer[0] = byte(msg.Info())
	buffer[1] = 0
	msg.Pack(buffer[2:])
}

// Size returns the total packed size of msg including the message code and
// additional-info length byte.
func Size(msg Message) uint {
	return 2 + msg.Size()
}
