// Licensed under the MIT license which can be found in the LICENSE file.
package dpt

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

const string14Len = 14

// CharsetSubtype selects the 8-bit character encoding for a DPT 16.xxx
// string.
type CharsetSubtype uint8

const (
	// CharsetASCII is DPT 16.000: non-ASCII characters are replaced with '?'.
	CharsetASCII CharsetSubtype = iota

	// CharsetLatin1 is DPT 16.001: ISO 8859-1, preserved byte-for-byte.
	CharsetLatin1
)

// String14 is the DPT 16.xxx fixed-length (14 byte) string encoding.
// Shorter strings are NUL-padded; strings longer than 14 characters are
// rejected by NewString14.
type String14 struct {
	Text    string
	Charset CharsetSubtype
}

// Size returns the packed size.
func (String14) Size() uint { return string14Len }

// Pack assembles the structure in the given buffer.
func (v String14) Pack(buffer []byte) {
	var encoded []byte

	if v.Charset == CharsetLatin1 {
		encoded, _ = charmap.ISO8859_1.NewEncoder().Bytes([]byte(v.Text))
	} else {
		encoded = asciiReplace([]byte(v.Text))
	}

	n := copy(buffer[:string14Len], encoded)
	for i := n; i < string14Len; i++ {
		buffer[i] = 0
	}
}

// Unpack parses the given data.
func (v *String14) Unpack(data []byte) (n uint, err error) {
	if len(data) < string14Len {
		return 0, ErrBufferSize
	}

	end := string14Len
	for i := 0; i < string14Len; i++ {
		if data[i] == 0 {
			end = i
			break
		}
	}

	raw := data[:end]

	if v.Charset == CharsetLatin1 {
		decoded, decErr := charmap.ISO8859_1.NewDecoder().Bytes(raw)
		if decErr != nil {
			return 0, fmt.Errorf("%w: %v", ErrMalformedText, decErr)
		}

		v.Text = string(decoded)
	} else {
		v.Text = string(raw)
	}

	return string14Len, nil
}

func (v String14) String() string { return v.Text }

// NewString14 validates text against the 14-character limit before
// constructing a String14; input longer than 14 characters fails.
func NewString14(text string, charset CharsetSubtype) (String14, error) {
	if utf8.RuneCountInString(text) > string14Len {
		return String14{}, fmt.Errorf("%w: %q exceeds 14 characters", ErrValueRange, text)
	}

	return String14{Text: text, Charset: charset}, nil
}

// asciiReplace encodes to 7-bit ASCII, substituting one '?' for each
// character outside the ASCII range. x/text has no ASCII encoder with
// substitution semantics, so this half-byte of logic stays local (see
// DESIGN.md).
func asciiReplace(text []byte) []byte {
	out := make([]byte, 0, len(text))

	for _, r := range string(text) {
		if r > 0x7F {
			out = append(out, '?')
		} else {
			out = append(out, byte(r))
		}
	}

	return out
}

// UTF8Text is the DPT 28.001 variable-length UTF-8 string encoding. A
// batch of items is NUL-separated on the wire (see UnpackUTF8Batch).
type UTF8Text string

// Size returns the packed size, including the trailing NUL terminator.
func (v UTF8Text) Size() uint { return uint(len(v)) + 1 }

// Pack assembles the structure in the given buffer.
func (v UTF8Text) Pack(buffer []byte) {
	n := copy(buffer, v)
	buffer[n] = 0
}

// Unpack parses a single NUL-terminated item from data.
func (v *UTF8Text) Unpack(data []byte) (n uint, err error) {
	end := bytes.IndexByte(data, 0)
	if end < 0 {
		return 0, ErrBufferSize
	}

	if !utf8.Valid(data[:end]) {
		return 0, fmt.Errorf("%w: invalid UTF-8 sequence", ErrMalformedText)
	}

	*v = UTF8Text(data[:end])

	return uint(end) + 1, nil
}

func (v UTF8Text) String() string { return string(v) }

// UnpackUTF8Batch splits data into NUL-separated UTF8Text items.
func UnpackUTF8Batch(data []byte) ([]UTF8Text, error) {
	parts := bytes.Split(data, []byte{0})

	if len(parts) > 0 && len(parts[len(parts)-1]) == 0 {
		parts = parts[:len(parts)-1]
	}

	items := make([]UTF8Text, len(parts))

	for i, p := range parts {
		if !utf8.Valid(p) {
			return nil, fmt.Errorf("%w: invalid UTF-8 sequence in item %d", ErrMalformedText, i)
		}

		items[i] = UTF8Text(p)
	}

	return items, nil
}
