// Device-management property services: M_PropRead.req/.con and
// M_PropWrite.req/.con, the cEMI counterpart of the KNXnet/IP
// Device-configuration service family. See KNX standard 03_08_02
// Core, interface object property services.

package cemi

import "github.com/knxcore/knx/knx/util"

// ObjectType identifies a KNX interface object type (e.g. Device Object,
// Addresstable Object). The catalogue of object types is maintained above
// this package; only the wire encoding lives here.
type ObjectType uint16

// PropertyID identifies a property within an interface object instance. The
// PDT (Property Data Type) -> datapoint translator mapping referenced by
// the property-definition catalogue lives in package dpt; this package only
// carries PropertyID as an opaque wire value.
type PropertyID uint8

// propHeader is the 6-byte prefix shared by every M_Prop* frame: object
// type, object instance, property id, followed by a combined
// count/start-index field (4 bits elements, 12 bits start index).
type propHeader struct {
	ObjectType ObjectType
	Instance   uint8
	PropertyID PropertyID
	Elements   uint8  // number of elements (0..15); 0 in a read request means "read the description"
	Start      uint16 // start index (1-based; 12 bit)
}

func (h propHeader) pack(buffer []byte) {
	util.PackSome(buffer, uint16(h.ObjectType), h.Instance, uint8(h.PropertyID))
	buffer[4] = (h.Elements & 0xf) << 4
	buffer[4] |= uint8(h.Start>>8) & 0xf
	buffer[5] = uint8(h.Start)
}

func (h *propHeader) unpack(data []byte) (uint, error) {
	if len(data) < 6 {
		return 0, errShortPropHeader
	}

	n, err := util.UnpackSome(data, (*uint16)(&h.ObjectType), &h.Instance, (*uint8)(&h.PropertyID))
	if err != nil {
		return n, err
	}

	h.Elements = data[4] >> 4
	h.Start = uint16(data[4]&0xf)<<8 | uint16(data[5])

	return 6, nil
}

var errShortPropHeader = errorString("cemi: property header too short")

type errorString string

func (e errorString) Error() string { return string(e) }

// PropReadReq requests the value of (a slice of) a property.
type PropReadReq struct {
	propHeader
}

// Info returns the message code for M_PropRead.req.
func (PropReadReq) Info() MessageCode { return MPropReadReq }

// Size returns the packed size.
func (PropReadReq) Size() uint { return 6 }

// Pack assembles the M_PropRead.req body in the given buffer.
func (r *PropReadReq) Pack(buffer []byte) { r.propHeader.pack(buffer) }

// Unpack parses the given data into the M_PropRead.req body.
func (r *PropReadReq) Unpack(data []byte) (uint, error) { return r.propHeader.unpack(data) }

// PropReadCon carries the response to a PropReadReq: the same header plus
// the property data, or zero elements on error.
type PropReadCon struct {
	propHeader
	Data []byte
}

// Info returns the message code for M_PropRead.con.
func (PropReadCon) Info() MessageCode { return MPropReadCon }

// Size returns the packed size.
func (c PropReadCon) Size() uint { return 6 + uint(len(c.Data)) }

// Pack assembles the M_PropRead.con body in the given buffer.
func (c *PropReadCon) Pack(buffer []byte) {
	c.propHeader.pack(buffer)
	copy(buffer[6:], c.Data)
}

// Unpack parses the given data into the M_PropRead.con body.
func (c *PropReadCon) Unpack(data []byte) (n uint, err error) {
	if n, err = c.propHeader.unpack(data); err != nil {
		return
	}

	c.Data = make([]byte, len(data)-int(n))
	copy(c.Data, data[n:])

	return uint(len(data)), nil
}

// PropWriteReq requests writing the given data into (a slice of) a
// property.
type PropWriteReq struct {
	propHeader
	Data []byte
}

// Info returns the message code for M_PropWrite.req.
func (PropWriteReq) Info() MessageCode { return MPropWriteReq }

// Size returns the packed size.
func (r PropWriteReq) Size() uint { return 6 + uint(len(r.Data)) }

// Pack assembles the M_PropWrite.req body in the given buffer.
func (r *PropWriteReq) Pack(buffer []byte) {
	r.propHeader.pack(buffer)
	copy(buffer[6:], r.Data)
}

// Unpack parses the given data into the M_PropWrite.req body.
func (r *PropWriteReq) Unpack(data []byte) (n uint, err error) {
	if n, err = r.propHeader.unpack(data); err != nil {
		return
	}

	r.Data = make([]byte, len(data)-int(n))
	copy(r.Data, data[n:])

	return uint(len(data)), nil
}

// PropWriteCon confirms a PropWriteReq. Elements==0 indicates failure.
type PropWriteCon struct {
	propHeader
}

// Info returns the message code for M_PropWrite.con.
func (PropWriteCon) Info() MessageCode { return MPropWriteCon }

// Size returns the packed size.
func (PropWriteCon) Size() uint { return 6 }

// Pack assembles the M_PropWrite.con body in the given buffer.
func (c *PropWriteCon) Pack(buffer []byte) { c.propHeader.pack(buffer) }

// Unpack parses the given data into the M_PropWrite.con body.
func (c *PropWriteCon) Unpack(data []byte) (uint, error) { return c.propHeader.unpack(data) }
