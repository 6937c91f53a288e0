package knx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knxcore/knx/knx/cemi"
	"github.com/knxcore/knx/knx/knxnet"
)

func newTestRouter(t *testing.T) *Router {
	t.Helper()

	// Router's real socket is unconnected (ListenRoutingUDP), since Send
	// targets the multicast group via SendTo/WriteToUDP; a connected
	// socket (DialTunnelUDP) would reject that with ErrWriteToConnected.
	socket, err := knxnet.ListenRoutingUDP(":0")
	require.NoError(t, err)
	t.Cleanup(func() { socket.Close() })

	return &Router{
		socket:  socket,
		inbound: make(chan cemi.Message, 4),
		done:    make(chan struct{}),
	}
}

type lostMessageRecorder struct {
	knxnet.BaseListener
	count       uint16
	deviceState knxnet.DeviceState
}

func (r *lostMessageRecorder) OnLostMessages(count uint16, state knxnet.DeviceState) {
	r.count = count
	r.deviceState = state
}

func TestHandleInboundRoutingIndDelivers(t *testing.T) {
	r := newTestRouter(t)

	payload := &cemi.LDataInd{LData: cemi.LData{Source: 0x1101}}
	r.handleInbound(&knxnet.RoutingInd{Payload: payload})

	select {
	case msg := <-r.inbound:
		assert.Same(t, payload, msg)
	default:
		t.Fatal("expected the payload to be delivered to Inbound")
	}
}

func TestHandleInboundRoutingSystemBroadcastDelivers(t *testing.T) {
	r := newTestRouter(t)

	payload := &cemi.LDataInd{LData: cemi.LData{Source: 0x1101}}
	r.handleInbound(&knxnet.RoutingSystemBroadcast{Payload: payload})

	select {
	case msg := <-r.inbound:
		assert.Same(t, payload, msg)
	default:
		t.Fatal("expected the payload to be delivered to Inbound")
	}
}

func TestHandleInboundRoutingLostMessageNotifiesListener(t *testing.T) {
	r := newTestRouter(t)
	rec := &lostMessageRecorder{}
	r.listener = rec

	r.handleInbound(&knxnet.RoutingLostMessage{DeviceState: knxnet.DeviceStateIPFault, LostCount: 5})

	assert.EqualValues(t, 5, rec.count)
	assert.Equal(t, knxnet.DeviceStateIPFault, rec.deviceState)
}

// TestApplyBusyExtendsWindowButNeverShortensIt confirms a later, shorter
// RoutingBusy never shrinks an already-longer backpressure window.
func TestApplyBusyExtendsWindowButNeverShortensIt(t *testing.T) {
	r := newTestRouter(t)

	r.applyBusy(&knxnet.RoutingBusy{WaitTime: 100})
	firstUntil := r.busyUntil

	r.applyBusy(&knxnet.RoutingBusy{WaitTime: 20})
	assert.Equal(t, firstUntil, r.busyUntil, "a shorter busy window must not shrink an existing one")
}

// TestSendWaitsOutBusyWindow confirms Send blocks until the backpressure
// window set by a prior RoutingBusy has elapsed.
func TestSendWaitsOutBusyWindow(t *testing.T) {
	r := newTestRouter(t)
	r.busyUntil = time.Now().Add(50 * time.Millisecond)

	start := time.Now()
	err := r.Send(&cemi.LDataReq{LData: cemi.LData{Data: &cemi.AppData{Command: cemi.GroupValueWrite, Data: []byte{1}}}})
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.GreaterOrEqual(t, elapsed, 40*time.Millisecond)
}
