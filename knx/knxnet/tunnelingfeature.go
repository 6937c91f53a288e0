// Licensed under the MIT license which can be found in the LICENSE file.
package knxnet

import (
	"fmt"

	"github.com/knxcore/knx/knx/util"
)

// FeatureID identifies a tunneling-feature.
type FeatureID uint8

// Supported feature identifiers.
const (
	FeatureSupportedEmiTypes       FeatureID = 0x01
	FeatureDeviceDescriptorType0   FeatureID = 0x02
	FeatureConnectionStatus        FeatureID = 0x03
	FeatureManufacturer            FeatureID = 0x04
	FeatureActiveEmiType           FeatureID = 0x05
	FeatureIndividualAddress       FeatureID = 0x06
	FeatureMaxApduLength           FeatureID = 0x07
	FeatureEnableFeatureInfoServ   FeatureID = 0x08
)

// featureValueLen returns the fixed value length for id, or false if id
// isn't one of the fixed-length features.
func featureValueLen(id FeatureID) (uint, bool) {
	switch id {
	case FeatureSupportedEmiTypes, FeatureDeviceDescriptorType0, FeatureManufacturer,
		FeatureIndividualAddress, FeatureMaxApduLength:
		return 2, true
	case FeatureConnectionStatus, FeatureActiveEmiType, FeatureEnableFeatureInfoServ:
		return 1, true
	default:
		return 0, false
	}
}

// ReturnCode is the result code carried by TunnelingFeatureResponse/Info,
// per the KNXnet/IP Tunnelling v2 specification. Values > 0x7F are errors.
type ReturnCode uint8

// Common return codes.
const (
	ReturnCodeSuccess ReturnCode = 0x00
	ReturnCodeError   ReturnCode = 0x81
)

// IsError reports whether the code signals a failure (> 0x7F).
func (rc ReturnCode) IsError() bool { return rc > 0x7f }

// featureBody is shared by all four tunneling-feature messages: a
// connection header, a feature id, a result code and an optional
// fixed-length value.
type featureBody struct {
	ConnHeader
	Feature    FeatureID
	ReturnCode ReturnCode
	Value      []byte
}

func (b featureBody) size(valueAllowed bool) uint {
	size := b.ConnHeader.Size() + 2
	if valueAllowed {
		size += uint(len(b.Value))
	}
	return size
}

func (b *featureBody) pack(buffer []byte, valueAllowed bool) {
	n := b.ConnHeader.Size()
	b.ConnHeader.Pack(buffer)
	util.PackSome(buffer[n:], uint8(b.Feature), uint8(b.ReturnCode))
	if valueAllowed {
		copy(buffer[n+2:], b.Value)
	}
}

// unpack parses the shared body. valueAllowed indicates whether the
// concrete message kind allows a non-empty value (error-status
// Response/Info messages must have an empty value).
func (b *featureBody) unpack(data []byte, valueAllowed bool) (n uint, err error) {
	if n, err = b.ConnHeader.Unpack(data); err != nil {
		return
	}

	nn, err := util.UnpackSome(data[n:], (*uint8)(&b.Feature), (*uint8)(&b.ReturnCode))
	if err != nil {
		return n, err
	}
	n += nn

	valueLen, known := featureValueLen(b.Feature)
	rest := data[n:]

	wantValue := valueAllowed && !b.ReturnCode.IsError()

	switch {
	case wantValue && known:
		if uint(len(rest)) != valueLen {
			return n, fmt.Errorf("%w: feature 0x%02x value length %d, want %d", ErrMalformedFrame, uint8(b.Feature), len(rest), valueLen)
		}
		b.Value = append([]byte(nil), rest...)
		n += valueLen

	case !wantValue:
		if len(rest) != 0 {
			return n, fmt.Errorf("%w: feature message must carry no value here", ErrMalformedFrame)
		}

	default: // wantValue but unknown feature id: accept whatever is left
		b.Value = append([]byte(nil), rest...)
		n += uint(len(rest))
	}

	return n, nil
}

// TunnelingFeatureGet requests the current value of a tunneling feature.
// Get messages never carry a value.
type TunnelingFeatureGet struct {
	ConnHeader
	Feature FeatureID
}

// Service returns the service identifier for TunnelingFeatureGet.
func (TunnelingFeatureGet) Service() ServiceID { return TunnelingFeatureGetService }

// Size returns the packed size.
func (g TunnelingFeatureGet) Size() uint { return g.ConnHeader.Size() + 2 }

// Pack assembles the structure in the given buffer.
func (g *TunnelingFeatureGet) Pack(buffer []byte) {
	n := g.ConnHeader.Size()
	g.ConnHeader.Pack(buffer)
	util.PackSome(buffer[n:], uint8(g.Feature), uint8(0))
}

// Unpack parses the given service payload.
func (g *TunnelingFeatureGet) Unpack(data []byte) (n uint, err error) {
	if n, err = g.ConnHeader.Unpack(data); err != nil {
		return
	}
	var reserved uint8
	nn, err := util.UnpackSome(data[n:], (*uint8)(&g.Feature), &reserved)
	return n + nn, err
}

// TunnelingFeatureSet requests writing a new value to a tunneling feature.
type TunnelingFeatureSet struct {
	ConnHeader
	Feature FeatureID
	Value   []byte
}

// Service returns the service identifier for TunnelingFeatureSet.
func (TunnelingFeatureSet) Service() ServiceID { return TunnelingFeatureSetService }

// Size returns the packed size.
func (s TunnelingFeatureSet) Size() uint { return s.ConnHeader.Size() + 2 + uint(len(s.Value)) }

// Pack assembles the structure in the given buffer.
func (s *TunnelingFeatureSet) Pack(buffer []byte) {
	n := s.ConnHeader.Size()
	s.ConnHeader.Pack(buffer)
	util.PackSome(buffer[n:], uint8(s.Feature), uint8(0))
	copy(buffer[n+2:], s.Value)
}

// Unpack parses the given service payload.
func (s *TunnelingFeatureSet) Unpack(data []byte) (n uint, err error) {
	if n, err = s.ConnHeader.Unpack(data); err != nil {
		return
	}
	var reserved uint8
	nn, err := util.UnpackSome(data[n:], (*uint8)(&s.Feature), &reserved)
	if err != nil {
		return n, err
	}
	n += nn

	valueLen, known := featureValueLen(s.Feature)
	rest := data[n:]
	if known && uint(len(rest)) != valueLen {
		return n, fmt.Errorf("%w: feature 0x%02x value length %d, want %d", ErrMalformedFrame, uint8(s.Feature), len(rest), valueLen)
	}

	s.Value = append([]byte(nil), rest...)
	return n + uint(len(rest)), nil
}

// TunnelingFeatureResponse answers a Get or Set with the resulting value
// (or an empty value, when ReturnCode signals an error).
type TunnelingFeatureResponse struct {
	featureBody
}

// Service returns the service identifier for TunnelingFeatureResponse.
func (TunnelingFeatureResponse) Service() ServiceID { return TunnelingFeatureResponseService }

// Size returns the packed size.
func (r TunnelingFeatureResponse) Size() uint { return r.featureBody.size(true) }

// Pack assembles the structure in the given buffer.
func (r *TunnelingFeatureResponse) Pack(buffer []byte) { r.featureBody.pack(buffer, true) }

// Unpack parses the given service payload.
func (r *TunnelingFeatureResponse) Unpack(data []byte) (uint, error) { return r.featureBody.unpack(data, true) }

// TunnelingFeatureInfo is an unsolicited notification of a feature value
// change, sent when FeatureEnableFeatureInfoServ is active.
type TunnelingFeatureInfo struct {
	featureBody
}

// Service returns the service identifier for TunnelingFeatureInfo.
func (TunnelingFeatureInfo) Service() ServiceID { return TunnelingFeatureInfoService }

// Size returns the packed size.
func (i TunnelingFeatureInfo) Size() uint { return i.featureBody.size(true) }

// Pack assembles the structure in the given buffer.
func (i *TunnelingFeatureInfo) Pack(buffer []byte) { i.featureBody.pack(buffer, true) }

// Unpack parses the given service payload.
func (i *TunnelingFeatureInfo) Unpack(data []byte) (uint, error) { return i.featureBody.unpack(data, true) }
