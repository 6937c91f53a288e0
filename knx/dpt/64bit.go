// Licensed under the MIT license which can be found in the LICENSE file.
package dpt

import (
	"encoding/binary"
	"strconv"
)

// Signed64 is the DPT 29.xxx 8-byte signed encoding: active energy and
// similar 64-bit counters.
type Signed64 int64

// Size returns the packed size.
func (Signed64) Size() uint { return 8 }

// Pack assembles the structure in the given buffer.
func (v Signed64) Pack(buffer []byte) { binary.BigEndian.PutUint64(buffer, uint64(v)) }

// Unpack parses the given data.
func (v *Signed64) Unpack(data []byte) (n uint, err error) {
	if len(data) < 8 {
		return 0, ErrBufferSize
	}

	*v = Signed64(int64(binary.BigEndian.Uint64(data)))

	return 8, nil
}

func (v Signed64) String() string { return strconv.FormatInt(int64(v), 10) }
