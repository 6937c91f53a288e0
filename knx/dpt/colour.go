// Licensed under the MIT license which can be found in the LICENSE file.
package dpt

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// StepControl is a single colour-transition step-control component:
// validity plus a Control3 direction/step code.
type StepControl struct {
	Valid   bool
	Control Control3
}

// ColourStepControl is a composite of independently-valid StepControl
// components, e.g. brightness/hue/saturation for a colour transition.
// Each byte carries a validity bit (0x10) alongside the Control3 encoding
// (0x08 direction, 0x07 step).
type ColourStepControl struct {
	Components []StepControl
}

// Size returns the packed size.
func (c ColourStepControl) Size() uint { return uint(len(c.Components)) }

// Pack assembles the structure in the given buffer.
func (c ColourStepControl) Pack(buffer []byte) {
	for i, comp := range c.Components {
		if !comp.Valid {
			buffer[i] = 0
			continue
		}

		comp.Control.Pack(buffer[i : i+1])
		buffer[i] |= 0x10
	}
}

// Unpack parses the given data.
func (c *ColourStepControl) Unpack(data []byte) (n uint, err error) {
	if len(data) < len(c.Components) {
		return 0, ErrBufferSize
	}

	for i := range c.Components {
		valid := data[i]&0x10 != 0

		var ctrl Control3
		if _, err := ctrl.Unpack(data[i : i+1]); err != nil {
			return 0, err
		}

		c.Components[i] = StepControl{Valid: valid, Control: ctrl}
	}

	return uint(len(c.Components)), nil
}

func (c ColourStepControl) String() string {
	parts := make([]string, len(c.Components))

	for i, comp := range c.Components {
		if !comp.Valid {
			parts[i] = "-"
		} else {
			parts[i] = comp.Control.String()
		}
	}

	return strings.Join(parts, " ")
}

// RGB is the DPT 232.600 fixed RGB colour encoding: three component bytes
// (0-255) plus a validity bitmask.
type RGB struct {
	R, G, B                uint8
	RValid, GValid, BValid bool
}

// Size returns the packed size.
func (RGB) Size() uint { return 4 }

// Pack assembles the structure in the given buffer.
func (c RGB) Pack(buffer []byte) {
	var mask byte

	if c.RValid {
		mask |= 0x04
	}

	if c.GValid {
		mask |= 0x02
	}

	if c.BValid {
		mask |= 0x01
	}

	buffer[0] = mask
	buffer[1], buffer[2], buffer[3] = c.R, c.G, c.B
}

// Unpack parses the given data.
func (c *RGB) Unpack(data []byte) (n uint, err error) {
	if len(data) < 4 {
		return 0, ErrBufferSize
	}

	mask := data[0]
	c.RValid = mask&0x04 != 0
	c.GValid = mask&0x02 != 0
	c.BValid = mask&0x01 != 0
	c.R, c.G, c.B = data[1], data[2], data[3]

	return 4, nil
}

func (c RGB) String() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

// RGBW is the DPT 251.600 RGBW colour encoding: four component bytes plus
// a reserved byte and a 4-bit validity mask.
type RGBW struct {
	R, G, B, W                     uint8
	RValid, GValid, BValid, WValid bool
}

// Size returns the packed size.
func (RGBW) Size() uint { return 6 }

// Pack assembles the structure in the given buffer.
func (c RGBW) Pack(buffer []byte) {
	buffer[0], buffer[1], buffer[2], buffer[3] = c.R, c.G, c.B, c.W
	buffer[4] = 0

	var mask byte

	if c.RValid {
		mask |= 0x08
	}

	if c.GValid {
		mask |= 0x04
	}

	if c.BValid {
		mask |= 0x02
	}

	if c.WValid {
		mask |= 0x01
	}

	buffer[5] = mask
}

// Unpack parses the given data.
func (c *RGBW) Unpack(data []byte) (n uint, err error) {
	if len(data) < 6 {
		return 0, ErrBufferSize
	}

	c.R, c.G, c.B, c.W = data[0], data[1], data[2], data[3]

	mask := data[5]
	c.RValid = mask&0x08 != 0
	c.GValid = mask&0x04 != 0
	c.BValid = mask&0x02 != 0
	c.WValid = mask&0x01 != 0

	return 6, nil
}

func (c RGBW) String() string {
	return fmt.Sprintf("#%02x%02x%02x w=%02x", c.R, c.G, c.B, c.W)
}

// XYY is the DPT 242.600 xyY colour-space encoding: CIE x/y chromaticity
// (0-65535 each) plus brightness Y (0-255), each independently valid.
type XYY struct {
	X, Y            uint16
	Brightness      uint8
	XYValid         bool
	BrightnessValid bool
}

// Size returns the packed size.
func (XYY) Size() uint { return 6 }

// Pack assembles the structure in the given buffer.
func (c XYY) Pack(buffer []byte) {
	binary.BigEndian.PutUint16(buffer[0:2], c.X)
	binary.BigEndian.PutUint16(buffer[2:4], c.Y)
	buffer[4] = c.Brightness

	var mask byte

	if c.XYValid {
		mask |= 0x02
	}

	if c.BrightnessValid {
		mask |= 0x01
	}

	buffer[5] = mask
}

// Unpack parses the given data.
func (c *XYY) Unpack(data []byte) (n uint, err error) {
	if len(data) < 6 {
		return 0, ErrBufferSize
	}

	c.X = binary.BigEndian.Uint16(data[0:2])
	c.Y = binary.BigEndian.Uint16(data[2:4])
	c.Brightness = data[4]

	mask := data[5]
	c.XYValid = mask&0x02 != 0
	c.BrightnessValid = mask&0x01 != 0

	return 6, nil
}

func (c XYY) String() string {
	return fmt.Sprintf("x=%d y=%d Y=%d", c.X, c.Y, c.Brightness)
}
