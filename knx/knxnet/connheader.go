// Licensed under the MIT license which can be found in the LICENSE file.
package knxnet

import (
	"fmt"

	"github.com/knxcore/knx/knx/util"
)

// ConnHeader is the 4-byte connection header prefixing Tunneling.req/.ack
// and DeviceConfiguration.req/.ack bodies.
type ConnHeader struct {
	ChannelID uint8
	SeqNumber uint8
}

// Size returns the packed size.
func (ConnHeader) Size() uint { return 4 }

// Pack assembles the connection header in the given buffer.
func (h *ConnHeader) Pack(buffer []byte) {
	util.PackSome(buffer, uint8(h.Size()), h.ChannelID, h.SeqNumber, uint8(0))
}

// Unpack parses the given data in order to initialize the connection
// header.
func (h *ConnHeader) Unpack(data []byte) (n uint, err error) {
	var length, reserved uint8
	if n, err = util.UnpackSome(data, &length, &h.ChannelID, &h.SeqNumber, &reserved); err != nil {
		return
	}
	if length != uint8(h.Size()) {
		return n, fmt.Errorf("%w: connection header length %d, want 4", ErrMalformedFrame, length)
	}
	return n, nil
}
