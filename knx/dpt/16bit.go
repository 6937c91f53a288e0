// Licensed under the MIT license which can be found in the LICENSE file.
package dpt

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
)

// Unsigned16 is the DPT 7.xxx 2-byte unsigned encoding: counters, scaled
// time periods (x10/x100 ms subtypes), etc. The raw value is stored as-is;
// the scaled-time subtypes apply their multiplier via ScaledTimeMillis/
// UnsignedScaledTime.
type Unsigned16 uint16

// Size returns the packed size.
func (Unsigned16) Size() uint { return 2 }

// Pack assembles the structure in the given buffer.
func (v Unsigned16) Pack(buffer []byte) { binary.BigEndian.PutUint16(buffer, uint16(v)) }

// Unpack parses the given data.
func (v *Unsigned16) Unpack(data []byte) (n uint, err error) {
	if len(data) < 2 {
		return 0, ErrBufferSize
	}

	*v = Unsigned16(binary.BigEndian.Uint16(data))

	return 2, nil
}

func (v Unsigned16) String() string { return strconv.Itoa(int(v)) }

// ScaledTimeMillis interprets the raw count as a time period at the given
// per-step granularity (10 or 100 ms, per the DPT 7.00x subtypes).
func (v Unsigned16) ScaledTimeMillis(stepMillis uint) float64 {
	return float64(v) * float64(stepMillis)
}

// UnsignedScaledTime encodes a duration in milliseconds as a scaled-time
// count at the given per-step granularity, rounding to the nearest
// representable step; ties round half up.
func UnsignedScaledTime(millis float64, stepMillis uint) Unsigned16 {
	return Unsigned16(math.Round(millis / float64(stepMillis)))
}

// Signed16 is the DPT 8.xxx 2-byte signed encoding, including its
// scaled-time subtypes.
type Signed16 int16

// Size returns the packed size.
func (Signed16) Size() uint { return 2 }

// Pack assembles the structure in the given buffer.
func (v Signed16) Pack(buffer []byte) { binary.BigEndian.PutUint16(buffer, uint16(v)) }

// Unpack parses the given data.
func (v *Signed16) Unpack(data []byte) (n uint, err error) {
	if len(data) < 2 {
		return 0, ErrBufferSize
	}

	*v = Signed16(int16(binary.BigEndian.Uint16(data)))

	return 2, nil
}

func (v Signed16) String() string { return strconv.Itoa(int(v)) }

// ScaledTimeMillis interprets the raw count as a signed time period at the
// given per-step granularity.
func (v Signed16) ScaledTimeMillis(stepMillis int) float64 {
	return float64(v) * float64(stepMillis)
}

// SignedScaledTime encodes a signed duration in milliseconds as a
// scaled-time count, rounding to the nearest representable step (ties
// round half up).
func SignedScaledTime(millis float64, stepMillis int) Signed16 {
	return Signed16(math.Round(millis / float64(stepMillis)))
}

const (
	float16MaxExponent = 15
	float16InvalidRaw  = 0x7FFF
)

// Float16 is the DPT 9.xxx 2-byte floating point encoding: sign bit,
// 4-bit exponent, 11-bit two's-complement mantissa; value =
// 0.01 * M * 2^E.
type Float16 float64

// Size returns the packed size.
func (Float16) Size() uint { return 2 }

// Pack assembles the structure in the given buffer. Values whose magnitude
// would overflow the largest representable exponent are clamped to the
// nearest representable value rather than rejected, since Pack cannot
// return an error; use ValidateFloat16Range before Pack to reject
// out-of-bounds input for a specific subtype instead.
func (v Float16) Pack(buffer []byte) {
	value := float64(v)

	var sign uint16
	if value < 0 {
		sign = 0x8000
		value = -value
	}

	exp := 0
	mantissa := value * 100

	for mantissa > 2047 {
		mantissa /= 2
		exp++
	}

	if exp > float16MaxExponent {
		exp = float16MaxExponent
		mantissa = 2047
	}

	m := int16(mantissa)
	if sign != 0 {
		m = -m
	}

	encoded := sign | uint16(exp)<<11 | uint16(m)&0x07FF
	binary.BigEndian.PutUint16(buffer, encoded)
}

// Unpack parses the given data.
func (v *Float16) Unpack(data []byte) (n uint, err error) {
	if len(data) < 2 {
		return 0, ErrBufferSize
	}

	raw := binary.BigEndian.Uint16(data)
	if raw == float16InvalidRaw {
		return 0, fmt.Errorf("%w: DPT9 invalid-value sentinel 0x7fff", ErrValueRange)
	}

	sign := raw&0x8000 != 0
	exp := (raw >> 11) & 0x0F
	mantissa := int16(raw & 0x07FF)

	if sign {
		mantissa |= -0x800
	}

	*v = Float16(float64(mantissa) * 0.01 * math.Pow(2, float64(exp)))

	return 2, nil
}

func (v Float16) String() string { return strconv.FormatFloat(float64(v), 'f', 2, 64) }

// ValidateFloat16Range rejects a value outside a subtype's documented
// lower/upper bounds before it is packed.
func ValidateFloat16Range(v Float16, min, max float64) error {
	if float64(v) < min || float64(v) > max {
		return fmt.Errorf("%w: %.2f outside [%.2f, %.2f]", ErrValueRange, float64(v), min, max)
	}

	return nil
}
