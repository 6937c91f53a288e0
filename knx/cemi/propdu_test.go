package cemi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knxcore/knx/knx/cemi"
)

func TestPropReadReqRoundTrip(t *testing.T) {
	req := &cemi.PropReadReq{}
	buf := make([]byte, req.Size())
	req.Pack(buf)

	var out cemi.PropReadReq
	n, err := out.Unpack(buf)
	require.NoError(t, err)
	assert.EqualValues(t, 6, n)
}

func TestPropReadConRoundTrip(t *testing.T) {
	con := &cemi.PropReadCon{Data: []byte{1, 2, 3, 4}}
	buf := make([]byte, con.Size())
	con.Pack(buf)

	var out cemi.PropReadCon
	n, err := out.Unpack(buf)
	require.NoError(t, err)
	assert.EqualValues(t, len(buf), n)
	assert.Equal(t, con.Data, out.Data)
}

func TestPropWriteReqConRoundTrip(t *testing.T) {
	req := &cemi.PropWriteReq{Data: []byte{0x0a}}
	buf := make([]byte, req.Size())
	req.Pack(buf)

	var out cemi.PropWriteReq
	n, err := out.Unpack(buf)
	require.NoError(t, err)
	assert.EqualValues(t, len(buf), n)
	assert.Equal(t, req.Data, out.Data)

	con := &cemi.PropWriteCon{}
	buf2 := make([]byte, con.Size())
	con.Pack(buf2)

	var outCon cemi.PropWriteCon
	n2, err := outCon.Unpack(buf2)
	require.NoError(t, err)
	assert.EqualValues(t, 6, n2)
}

func TestPropHeaderUnpackTooShort(t *testing.T) {
	var con cemi.PropWriteCon
	_, err := con.Unpack([]byte{1, 2, 3})
	assert.Error(t, err)
}
