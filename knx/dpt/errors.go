// Licensed under the MIT license which can be found in the LICENSE file.
package dpt

import "errors"

// Sentinel errors for the datapoint translators.
var (
	// ErrBufferSize indicates a buffer was too short for the declared item
	// count.
	ErrBufferSize = errors.New("dpt: buffer too short for declared item count")

	// ErrMalformedText indicates a text value could not be parsed into its
	// wire representation.
	ErrMalformedText = errors.New("dpt: malformed text value")

	// ErrValueRange indicates a value, once decoded or before encoding, is
	// outside the subtype's valid range.
	ErrValueRange = errors.New("dpt: value out of range")

	// ErrUnknownDPT indicates Produce was asked for an unregistered
	// subtype identifier.
	ErrUnknownDPT = errors.New("dpt: unknown datapoint type")
)
