package knx

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knxcore/knx/knx/cemi"
	"github.com/knxcore/knx/knx/knxnet"
)

// newTestTunnel builds a Tunnel around a real UDP socket dialed to a local
// peer that accepts datagrams but never replies. Dialing an address with
// nothing bound there would work too (UDP has no handshake), but the kernel
// answers unroutable datagrams with an ICMP port-unreachable that turns a
// socket's next write into ECONNREFUSED — exactly the transport error a
// retry-timing test must not trip over. Binding a silent peer sidesteps that.
func newTestTunnel(t *testing.T) *Tunnel {
	t.Helper()

	peer, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1")})
	require.NoError(t, err)
	t.Cleanup(func() { peer.Close() })

	socket, err := knxnet.DialTunnelUDP(peer.LocalAddr().String())
	require.NoError(t, err)
	t.Cleanup(func() { socket.Close() })

	return &Tunnel{
		config:    DefaultConfig(),
		socket:    socket,
		state:     knxnet.StateOpen,
		channelID: 1,
		inbound:   make(chan cemi.Message, 4),
		done:      make(chan struct{}),
	}
}

type stateRecorder struct {
	knxnet.BaseListener
	mu      sync.Mutex
	reasons []knxnet.CloseReason
}

func (r *stateRecorder) OnStateChange(state knxnet.ConnState, reason knxnet.CloseReason) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reasons = append(r.reasons, reason)
}

func (r *stateRecorder) last() knxnet.CloseReason {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.reasons) == 0 {
		return knxnet.ReasonNone
	}
	return r.reasons[len(r.reasons)-1]
}

// TestHandleInboundTunnelAckDeliversMatchingSeq confirms a Tunneling.ack
// whose sequence number matches the pending request is delivered to the
// waiting sender and the connection stays open.
func TestHandleInboundTunnelAckDeliversMatchingSeq(t *testing.T) {
	tun := newTestTunnel(t)

	ch := make(chan knxnet.Status, 1)
	tun.pendAck = &pendingAck{seq: 3, ch: ch}

	tun.handleInbound(&knxnet.TunnelAck{
		ConnHeader: knxnet.ConnHeader{ChannelID: tun.channelID, SeqNumber: 3},
		Status:     knxnet.NoError,
	})

	select {
	case s := <-ch:
		assert.Equal(t, knxnet.NoError, s)
	default:
		t.Fatal("expected status delivered to the pending ack channel")
	}

	tun.mu.Lock()
	state := tun.state
	tun.mu.Unlock()
	assert.Equal(t, knxnet.StateOpen, state)
}

// TestHandleInboundTunnelAckMismatchCloses confirms a Tunneling.ack with an
// unexpected sequence number closes the connection instead of being
// silently dropped.
func TestHandleInboundTunnelAckMismatchCloses(t *testing.T) {
	tun := newTestTunnel(t)
	rec := &stateRecorder{}
	tun.listener = rec

	ch := make(chan knxnet.Status, 1)
	tun.pendAck = &pendingAck{seq: 3, ch: ch}

	tun.handleInbound(&knxnet.TunnelAck{
		ConnHeader: knxnet.ConnHeader{ChannelID: tun.channelID, SeqNumber: 9},
		Status:     knxnet.NoError,
	})

	select {
	case <-tun.done:
	default:
		t.Fatal("expected the tunnel to close on a sequence-mismatched ack")
	}

	tun.mu.Lock()
	state := tun.state
	tun.mu.Unlock()
	assert.Equal(t, knxnet.StateClosed, state)
	assert.Equal(t, knxnet.ReasonProtocolError, rec.last())
}

// TestHandleInboundTunnelAckNoPendingIsIgnored confirms an ack arriving
// with nothing pending (e.g. after a NonBlocking send) is ignored rather
// than closing the connection.
func TestHandleInboundTunnelAckNoPendingIsIgnored(t *testing.T) {
	tun := newTestTunnel(t)

	tun.handleInbound(&knxnet.TunnelAck{
		ConnHeader: knxnet.ConnHeader{ChannelID: tun.channelID, SeqNumber: 0},
		Status:     knxnet.NoError,
	})

	select {
	case <-tun.done:
		t.Fatal("did not expect the tunnel to close")
	default:
	}
}

// TestSendHeartbeatRetriesSpacedByResponseTimeout confirms a heartbeat with
// no response in sight exhausts its retries (and closes the connection)
// within roughly HeartbeatRetries*ResponseTimeout, not
// HeartbeatRetries*HeartbeatInterval — the interval only gates the delay
// between heartbeats, not the delay between retries of one heartbeat.
func TestSendHeartbeatRetriesSpacedByResponseTimeout(t *testing.T) {
	tun := newTestTunnel(t)
	tun.config.ResponseTimeout = 20 * time.Millisecond
	tun.config.HeartbeatInterval = time.Hour // would dominate if used for retry spacing
	tun.config.HeartbeatRetries = 2

	rec := &stateRecorder{}
	tun.listener = rec

	start := time.Now()
	err := tun.sendHeartbeat()
	elapsed := time.Since(start)

	require.ErrorIs(t, err, knxnet.ErrTimeout)
	assert.Less(t, elapsed, 1*time.Second, "retries must be spaced by ResponseTimeout, not HeartbeatInterval")
	assert.Equal(t, knxnet.ReasonHeartbeatLost, rec.last())
}
