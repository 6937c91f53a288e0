// Package util provides the primitive codec and logging helpers shared by
// the knxnet and cemi packages.
//
// Licensed under the MIT license which can be found in the LICENSE file.
package util

import (
	"encoding/binary"
	"fmt"
	"io"
	"reflect"
)

// Packable is something that can pack itself into a byte buffer.
type Packable interface {
	// Size returns the packed size.
	Size() uint

	// Pack assembles the structure in the given buffer. The buffer is
	// guaranteed to be at least Size() bytes long.
	Pack(buffer []byte)
}

// Unpackable is something that can initialize itself from a byte buffer.
type Unpackable interface {
	// Unpack parses the given data in order to initialize the structure.
	// It returns the number of bytes consumed.
	Unpack(data []byte) (n uint, err error)
}

// packOne packs a single value into buffer and returns the number of bytes
// written. Besides the built-in fixed-width integers, []byte and anything
// implementing Packable, it also accepts named types whose underlying kind
// is one of those (e.g. a `type Status uint8`) and fixed-size byte arrays
// (e.g. [6]byte), both reached via reflection.
func packOne(buffer []byte, value any) uint {
	switch v := value.(type) {
	case uint8:
		buffer[0] = v
		return 1

	case int8:
		buffer[0] = uint8(v)
		return 1

	case uint16:
		binary.BigEndian.PutUint16(buffer, v)
		return 2

	case int16:
		binary.BigEndian.PutUint16(buffer, uint16(v))
		return 2

	case uint32:
		binary.BigEndian.PutUint32(buffer, v)
		return 4

	case int32:
		binary.BigEndian.PutUint32(buffer, uint32(v))
		return 4

	case uint64:
		binary.BigEndian.PutUint64(buffer, v)
		return 8

	case int64:
		binary.BigEndian.PutUint64(buffer, uint64(v))
		return 8

	case []byte:
		return uint(copy(buffer, v))

	case Packable:
		v.Pack(buffer)
		return v.Size()
	}

	rv := reflect.ValueOf(value)

	switch rv.Kind() {
	case reflect.Uint8:
		buffer[0] = uint8(rv.Uint())
		return 1

	case reflect.Int8:
		buffer[0] = uint8(rv.Int())
		return 1

	case reflect.Uint16:
		binary.BigEndian.PutUint16(buffer, uint16(rv.Uint()))
		return 2

	case reflect.Int16:
		binary.BigEndian.PutUint16(buffer, uint16(rv.Int()))
		return 2

	case reflect.Uint32:
		binary.BigEndian.PutUint32(buffer, uint32(rv.Uint()))
		return 4

	case reflect.Int32:
		binary.BigEndian.PutUint32(buffer, uint32(rv.Int()))
		return 4

	case reflect.Uint64:
		binary.BigEndian.PutUint64(buffer, rv.Uint())
		return 8

	case reflect.Int64:
		binary.BigEndian.PutUint64(buffer, uint64(rv.Int()))
		return 8

	case reflect.Array:
		if rv.Type().Elem().Kind() != reflect.Uint8 {
			panic(fmt.Sprintf("util.PackSome: unsupported array element type %s", rv.Type().Elem()))
		}
		n := rv.Len()
		for i := 0; i < n; i++ {
			buffer[i] = uint8(rv.Index(i).Uint())
		}
		return uint(n)
	}

	// Some Packable implementations use a pointer receiver for Pack but a
	// value receiver for Size (or are passed by value at the call site);
	// take an addressable copy so the pointer method set is reachable.
	ptr := reflect.New(rv.Type())
	ptr.Elem().Set(rv)

	if p, ok := ptr.Interface().(Packable); ok {
		p.Pack(buffer)
		return p.Size()
	}

	panic(fmt.Sprintf("util.PackSome: unsupported type %T", value))
}

// PackSome packs a sequence of values into buffer, one after the other,
// advancing through the buffer as it goes. Supported value types are the
// fixed-width integers, []byte and anything implementing Packable.
func PackSome(buffer []byte, values ...any) uint {
	var offset uint

	for _, value := range values {
		offset += packOne(buffer[offset:], value)
	}

	return offset
}

// unpackOne unpacks a single value from data into the pointer target and
// returns the number of bytes consumed.
func unpackOne(data []byte, target any) (uint, error) {
	switch v := target.(type) {
	case *uint8:
		if len(data) < 1 {
			return 0, io.ErrUnexpectedEOF
		}
		*v = data[0]
		return 1, nil

	case *int8:
		if len(data) < 1 {
			return 0, io.ErrUnexpectedEOF
		}
		*v = int8(data[0])
		return 1, nil

	case *uint16:
		if len(data) < 2 {
			return 0, io.ErrUnexpectedEOF
		}
		*v = binary.BigEndian.Uint16(data)
		return 2, nil

	case *int16:
		if len(data) < 2 {
			return 0, io.ErrUnexpectedEOF
		}
		*v = int16(binary.BigEndian.Uint16(data))
		return 2, nil

	case *uint32:
		if len(data) < 4 {
			return 0, io.ErrUnexpectedEOF
		}
		*v = binary.BigEndian.Uint32(data)
		return 4, nil

	case *int32:
		if len(data) < 4 {
			return 0, io.ErrUnexpectedEOF
		}
		*v = int32(binary.BigEndian.Uint32(data))
		return 4, nil

	case *uint64:
		if len(data) < 8 {
			return 0, io.ErrUnexpectedEOF
		}
		*v = binary.BigEndian.Uint64(data)
		return 8, nil

	case *int64:
		if len(data) < 8 {
			return 0, io.ErrUnexpectedEOF
		}
		*v = int64(binary.BigEndian.Uint64(data))
		return 8, nil

	case []byte:
		if len(data) < len(v) {
			return 0, io.ErrUnexpectedEOF
		}
		copy(v, data)
		return uint(len(v)), nil

	case Unpackable:
		return v.Unpack(data)
	}

	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr {
		panic(fmt.Sprintf("util.UnpackSome: unsupported type %T", target))
	}

	elem := rv.Elem()

	switch elem.Kind() {
	case reflect.Uint8:
		if len(data) < 1 {
			return 0, io.ErrUnexpectedEOF
		}
		elem.SetUint(uint64(data[0]))
		return 1, nil

	case reflect.Int8:
		if len(data) < 1 {
			return 0, io.ErrUnexpectedEOF
		}
		elem.SetInt(int64(int8(data[0])))
		return 1, nil

	case reflect.Uint16:
		if len(data) < 2 {
			return 0, io.ErrUnexpectedEOF
		}
		elem.SetUint(uint64(binary.BigEndian.Uint16(data)))
		return 2, nil

	case reflect.Int16:
		if len(data) < 2 {
			return 0, io.ErrUnexpectedEOF
		}
		elem.SetInt(int64(int16(binary.BigEndian.Uint16(data))))
		return 2, nil

	case reflect.Uint32:
		if len(data) < 4 {
			return 0, io.ErrUnexpectedEOF
		}
		elem.SetUint(uint64(binary.BigEndian.Uint32(data)))
		return 4, nil

	case reflect.Int32:
		if len(data) < 4 {
			return 0, io.ErrUnexpectedEOF
		}
		elem.SetInt(int64(int32(binary.BigEndian.Uint32(data))))
		return 4, nil

	case reflect.Uint64:
		if len(data) < 8 {
			return 0, io.ErrUnexpectedEOF
		}
		elem.SetUint(binary.BigEndian.Uint64(data))
		return 8, nil

	case reflect.Int64:
		if len(data) < 8 {
			return 0, io.ErrUnexpectedEOF
		}
		elem.SetInt(int64(binary.BigEndian.Uint64(data)))
		return 8, nil

	case reflect.Array:
		if elem.Type().Elem().Kind() != reflect.Uint8 {
			panic(fmt.Sprintf("util.UnpackSome: unsupported array element type %s", elem.Type().Elem()))
		}
		n := elem.Len()
		if len(data) < n {
			return 0, io.ErrUnexpectedEOF
		}
		for i := 0; i < n; i++ {
			elem.Index(i).SetUint(uint64(data[i]))
		}
		return uint(n), nil

	default:
		panic(fmt.Sprintf("util.UnpackSome: unsupported type %T", target))
	}
}

// UnpackSome unpacks a sequence of values from data into the given pointer
// targets, one after the other, advancing through data as it goes. It
// returns the total number of bytes consumed.
func UnpackSome(data []byte, targets ...any) (n uint, err error) {
	var offset uint

	for _, target := range targets {
		nn, err := unpackOne(data[offset:], target)
		if err != nil {
			return offset, err
		}

		offset += nn
	}

	return offset, nil
}

// PackString writes s into buffer, truncated or zero-padded to length
// bytes.
func PackString(buffer []byte, length int, s string) {
	n := copy(buffer, s)
	for i := n; i < length; i++ {
		buffer[i] = 0
	}
}

// UnpackString reads a NUL-padded fixed-length string of length bytes from
// data and stores the part up to the first NUL byte (or the whole field, if
// none is present) in s. It returns the number of bytes consumed.
func UnpackString(data []byte, length int, s *string) (n uint, err error) {
	if len(data) < length {
		return 0, io.ErrUnexpectedEOF
	}

	end := length
	for i := 0; i < length; i++ {
		if data[i] == 0 {
			end = i
			break
		}
	}

	*s = string(data[:end])

	return uint(length), nil
}
