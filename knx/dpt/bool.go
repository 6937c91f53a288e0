// Licensed under the MIT license which can be found in the LICENSE file.
package dpt

import (
	"fmt"
	"strings"
)

// Bool1 is the DPT 1.xxx 1-bit boolean encoding: switch, bool, enable,
// step, up/down, open/close, start, trigger and similar single-bit
// datapoints. On the wire it occupies one byte; only bit 0 is significant
// on write, but any non-zero byte reads as true.
type Bool1 bool

// Size returns the packed size.
func (Bool1) Size() uint { return 1 }

// Pack assembles the structure in the given buffer.
func (v Bool1) Pack(buffer []byte) {
	if v {
		buffer[0] = 1
	} else {
		buffer[0] = 0
	}
}

// Unpack parses the given data.
func (v *Bool1) Unpack(data []byte) (n uint, err error) {
	if len(data) < 1 {
		return 0, ErrBufferSize
	}

	*v = data[0] != 0

	return 1, nil
}

// String returns "0" or "1", the canonical numeric text form.
func (v Bool1) String() string {
	if v {
		return "1"
	}

	return "0"
}

// ParseBool1 parses the canonical text form of a 1-bit boolean: "0"/"1" or
// "false"/"true", case-insensitively.
func ParseBool1(text string) (Bool1, error) {
	switch strings.ToLower(text) {
	case "0", "false":
		return false, nil
	case "1", "true":
		return true, nil
	default:
		return false, fmt.Errorf("%w: %q is not a 1-bit boolean", ErrMalformedText, text)
	}
}
