// Licensed under the MIT license which can be found in the LICENSE file.
package dpt

import (
	"encoding/binary"
	"math"
	"strconv"
)

// Unsigned32 is the DPT 12.xxx 4-byte unsigned encoding.
type Unsigned32 uint32

// Size returns the packed size.
func (Unsigned32) Size() uint { return 4 }

// Pack assembles the structure in the given buffer.
func (v Unsigned32) Pack(buffer []byte) { binary.BigEndian.PutUint32(buffer, uint32(v)) }

// Unpack parses the given data.
func (v *Unsigned32) Unpack(data []byte) (n uint, err error) {
	if len(data) < 4 {
		return 0, ErrBufferSize
	}

	*v = Unsigned32(binary.BigEndian.Uint32(data))

	return 4, nil
}

func (v Unsigned32) String() string { return strconv.FormatUint(uint64(v), 10) }

// Signed32 is the DPT 13.xxx 4-byte signed encoding.
type Signed32 int32

// Size returns the packed size.
func (Signed32) Size() uint { return 4 }

// Pack assembles the structure in the given buffer.
func (v Signed32) Pack(buffer []byte) { binary.BigEndian.PutUint32(buffer, uint32(v)) }

// Unpack parses the given data.
func (v *Signed32) Unpack(data []byte) (n uint, err error) {
	if len(data) < 4 {
		return 0, ErrBufferSize
	}

	*v = Signed32(int32(binary.BigEndian.Uint32(data)))

	return 4, nil
}

func (v Signed32) String() string { return strconv.FormatInt(int64(v), 10) }

// Float32 is the DPT 14.xxx IEEE 754 single-precision encoding.
type Float32 float32

// Size returns the packed size.
func (Float32) Size() uint { return 4 }

// Pack assembles the structure in the given buffer.
func (v Float32) Pack(buffer []byte) {
	binary.BigEndian.PutUint32(buffer, math.Float32bits(float32(v)))
}

// Unpack parses the given data.
func (v *Float32) Unpack(data []byte) (n uint, err error) {
	if len(data) < 4 {
		return 0, ErrBufferSize
	}

	*v = Float32(math.Float32frombits(binary.BigEndian.Uint32(data)))

	return 4, nil
}

func (v Float32) String() string { return strconv.FormatFloat(float64(v), 'g', -1, 32) }
