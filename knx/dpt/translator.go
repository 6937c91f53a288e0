// Package dpt implements the KNX datapoint type (DPT) translators: the
// per-family wire codecs that turn a cEMI application-layer payload into a
// typed, human-readable value and back.
//
// Licensed under the MIT license which can be found in the LICENSE file.
package dpt

import "github.com/knxcore/knx/knx/util"

// Translator is implemented by every datapoint type in this package. It
// carries the same Size/Pack/Unpack contract as knxnet and cemi
// (util.Packable/util.Unpackable), plus a canonical, locale-independent
// text form.
type Translator interface {
	util.Packable
	util.Unpackable

	// String returns the canonical text representation.
	String() string
}

// PackBatch packs a sequence of same-type items, each of fixed Size(),
// back to back into buffer. This handles every subtype except the
// variable-length UTF-8 one, which is NUL-separated instead (see
// UnpackUTF8Batch).
func PackBatch(buffer []byte, items []Translator) uint {
	var offset uint

	for _, it := range items {
		it.Pack(buffer[offset:])
		offset += it.Size()
	}

	return offset
}

// UnpackBatch unpacks count items constructed by newItem from data, each
// consuming a fixed Size(). It returns the constructed items and the total
// number of bytes consumed.
func UnpackBatch(data []byte, count int, newItem func() Translator) ([]Translator, uint, error) {
	items := make([]Translator, count)

	var offset uint

	for i := 0; i < count; i++ {
		it := newItem()

		n, err := it.Unpack(data[offset:])
		if err != nil {
			return nil, offset, err
		}

		items[i] = it
		offset += n
	}

	return items, offset, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}

	return 0
}
