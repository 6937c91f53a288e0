package knx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knxcore/knx/knx/cemi"
)

func TestNextSeqNumWrapsAtSixteen(t *testing.T) {
	conn := &P2PConnection{seqNumber: 15}

	first := conn.nextSeqNum()
	assert.EqualValues(t, 0, first)

	for i := uint8(1); i < 16; i++ {
		assert.EqualValues(t, i, conn.nextSeqNum())
	}

	// Wraps back to 0 after 16.
	assert.EqualValues(t, 0, conn.nextSeqNum())
}

func TestSetSeqNumMarksAppDataNumbered(t *testing.T) {
	conn := &P2PConnection{}

	req := &cemi.LDataReq{LData: cemi.LData{Data: &cemi.AppData{Command: cemi.GroupValueWrite, Data: []byte{1}}}}

	require.NoError(t, conn.setSeqNum(req, 7))

	app := req.LData.Data.(*cemi.AppData)
	assert.True(t, app.Numbered)
	assert.EqualValues(t, 7, app.SeqNumber)
}

func TestSetSeqNumRejectsNonLDataReq(t *testing.T) {
	conn := &P2PConnection{}
	err := conn.setSeqNum(&cemi.LDataInd{}, 1)
	assert.Error(t, err)
}

func TestSetSeqNumRejectsNonAppData(t *testing.T) {
	conn := &P2PConnection{}
	req := &cemi.LDataReq{LData: cemi.LData{Data: cemi.TConnect()}}
	err := conn.setSeqNum(req, 1)
	assert.Error(t, err)
}

// TestApplyRateLimitSleepsUntilIntervalElapsed confirms a send occurring
// sooner than the configured rate limit's interval is delayed.
func TestApplyRateLimitSleepsUntilIntervalElapsed(t *testing.T) {
	conn := &P2PConnection{rateLimit: 20, lastSend: time.Now()} // interval = 50ms

	start := time.Now()
	conn.applyRateLimit()
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 30*time.Millisecond)
}

// TestApplyRateLimitSkipsWhenIntervalAlreadyElapsed confirms no sleep
// happens when enough time has already passed since the last send.
func TestApplyRateLimitSkipsWhenIntervalAlreadyElapsed(t *testing.T) {
	conn := &P2PConnection{rateLimit: 20, lastSend: time.Now().Add(-time.Second)}

	start := time.Now()
	conn.applyRateLimit()
	elapsed := time.Since(start)

	assert.Less(t, elapsed, 20*time.Millisecond)
}
