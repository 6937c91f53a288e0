// Licensed under the MIT license which can be found in the LICENSE file.
package dpt

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// FlagNames names the 16 bits of a Bitset16, bit 0 first, for a single
// DPT 22.xxx subtype. An empty name leaves that bit unnamed.
type FlagNames [16]string

// Bitset16 is the DPT 22.xxx 16-bit named flag-set encoding.
type Bitset16 struct {
	Bits uint16

	names FlagNames
}

// NewBitset16 constructs a Bitset16 bound to the given subtype flag names.
func NewBitset16(names FlagNames) *Bitset16 { return &Bitset16{names: names} }

// Size returns the packed size.
func (b *Bitset16) Size() uint { return 2 }

// Pack assembles the structure in the given buffer.
func (b *Bitset16) Pack(buffer []byte) { binary.BigEndian.PutUint16(buffer, b.Bits) }

// Unpack parses the given data.
func (b *Bitset16) Unpack(data []byte) (n uint, err error) {
	if len(data) < 2 {
		return 0, ErrBufferSize
	}

	b.Bits = binary.BigEndian.Uint16(data)

	return 2, nil
}

// String renders the set as comma-separated flag names (falling back to
// "bitN" for unnamed bits), in bit order.
func (b *Bitset16) String() string {
	var names []string

	for i := 0; i < 16; i++ {
		if b.Bits&(1<<uint(i)) == 0 {
			continue
		}

		if b.names[i] != "" {
			names = append(names, b.names[i])
		} else {
			names = append(names, fmt.Sprintf("bit%d", i))
		}
	}

	return strings.Join(names, ",")
}

// SetValue accepts a 0x-prefixed hex literal, whitespace-separated
// "0 1 ..." per-bit digits (bit 0 first), or a comma-separated list of
// flag names.
func (b *Bitset16) SetValue(text string) error {
	text = strings.TrimSpace(text)

	switch {
	case strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X"):
		v, err := strconv.ParseUint(text[2:], 16, 16)
		if err != nil {
			return fmt.Errorf("%w: %q is not valid hex", ErrMalformedText, text)
		}

		b.Bits = uint16(v)

		return nil

	case strings.Contains(text, ",") || !strings.ContainsAny(text, " \t"):
		return b.setByNames(text)

	default:
		return b.setByDigits(text)
	}
}

func (b *Bitset16) setByNames(text string) error {
	var bits uint16

	for _, name := range strings.Split(text, ",") {
		name = strings.TrimSpace(name)

		idx := -1

		for i, n := range b.names {
			if n == name {
				idx = i
				break
			}
		}

		if idx < 0 {
			return fmt.Errorf("%w: %q is not a known flag name", ErrMalformedText, name)
		}

		bits |= 1 << uint(idx)
	}

	b.Bits = bits

	return nil
}

func (b *Bitset16) setByDigits(text string) error {
	fields := strings.Fields(text)
	if len(fields) != 16 {
		return fmt.Errorf("%w: expected 16 whitespace-separated bits, got %d", ErrMalformedText, len(fields))
	}

	var bits uint16

	for i, f := range fields {
		switch f {
		case "1":
			bits |= 1 << uint(i)
		case "0":
		default:
			return fmt.Errorf("%w: %q is not 0 or 1", ErrMalformedText, f)
		}
	}

	b.Bits = bits

	return nil
}
