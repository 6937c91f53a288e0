// Licensed under the MIT license which can be found in the LICENSE file.

// Connection state machine for a KNXnet/IP tunneling connection: connect,
// heartbeat, sequenced send/receive and disconnect.
package knx

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/knxcore/knx/knx/cemi"
	"github.com/knxcore/knx/knx/knxnet"
	"github.com/knxcore/knx/knx/util"
)

// errResponseTimeout is returned when a Connect.res, a Tunneling.ack (after
// the single re-send) or an awaited L_Data.con fails to arrive within the
// configured timeout.
var errResponseTimeout = errors.New("knx: response timed out")

// BlockingMode controls how far Tunnel.SendWait waits before returning.
type BlockingMode uint8

// Supported blocking modes.
const (
	// NonBlocking returns as soon as the request has been written.
	NonBlocking BlockingMode = iota

	// WaitForAck blocks until the matching Tunneling.ack arrives.
	WaitForAck

	// WaitForCon additionally blocks until the cEMI L_Data.con mirroring
	// the request is observed.
	WaitForCon
)

type pendingAck struct {
	seq uint8
	ch  chan knxnet.Status
}

type pendingCon struct {
	match func(*cemi.LDataCon) bool
	ch    chan *cemi.LDataCon
}

// Tunnel is a client-side KNXnet/IP tunneling connection.
type Tunnel struct {
	id uuid.UUID

	config Config
	socket *knxnet.Socket

	channelID uint8
	source    cemi.IndividualAddr
	listener  knxnet.Listener

	mu          sync.Mutex
	state       knxnet.ConnState
	sendSeq     uint8
	recvSeq     uint8
	gotFirst    bool
	pendAck     *pendingAck
	pendCons    []*pendingCon
	heartbeatCh chan knxnet.Status

	inbound chan cemi.Message

	done      chan struct{}
	closeOnce sync.Once
	eg        *errgroup.Group
}

// ID returns the correlation id generated for this tunnel when it was
// established. It has no wire representation; it exists only to tell
// overlapping connections apart in log output.
func (t *Tunnel) ID() uuid.UUID { return t.id }

// NewTunnel establishes a new tunneling connection to a KNXnet/IP server at
// address (format "ip:port"), requesting the given KNX layer.
func NewTunnel(address string, layer knxnet.TunnelLayer, config Config) (*Tunnel, error) {
	config = config.withDefaults()

	socket, err := knxnet.DialTunnelUDP(address)
	if err != nil {
		return nil, err
	}

	t := &Tunnel{
		id:      uuid.New(),
		config:  config,
		socket:  socket,
		state:   knxnet.StateConnecting,
		inbound: make(chan cemi.Message, 16),
		done:    make(chan struct{}),
		eg:      new(errgroup.Group),
	}

	if err := t.connect(layer); err != nil {
		socket.Close()
		return nil, err
	}

	t.state = knxnet.StateOpen

	t.eg.Go(t.recvLoop)
	t.eg.Go(t.heartbeatLoop)

	util.Log(t, "[%s] tunnel open, channel %d", t.id, t.channelID)

	return t, nil
}

func (t *Tunnel) connect(layer knxnet.TunnelLayer) error {
	hostinfo, err := knxnet.HostInfoFromAddress(t.socket.LocalAddr())
	if err != nil {
		return err
	}

	req := &knxnet.ConnectReq{
		Control: hostinfo,
		Data:    hostinfo,
		CRI:     knxnet.CRI{ConnType: knxnet.TunnelConnection, Layer: layer},
	}

	if err := t.socket.Send(req); err != nil {
		return err
	}

	timeout := time.After(t.config.ResponseTimeout)

	for {
		select {
		case <-timeout:
			return errResponseTimeout

		case svc, open := <-t.socket.Inbound():
			if !open {
				return fmt.Errorf("%w: transport closed during connect", knxnet.ErrTransport)
			}

			res, ok := svc.(*knxnet.ConnectRes)
			if !ok {
				continue
			}

			if res.Status != knxnet.NoError {
				return fmt.Errorf("knx: connect refused: %s", res.Status)
			}

			t.channelID = res.ChannelID
			t.source = cemi.IndividualAddr(res.CRD.TunnelAddr)

			return nil
		}
	}
}

// SourceAddr returns the individual address assigned to this tunnel by the
// server (carried in the Connect.res CRD).
func (t *Tunnel) SourceAddr() cemi.IndividualAddr { return t.source }

// ChannelID returns the channel identifier assigned on connect.
func (t *Tunnel) ChannelID() uint8 { return t.channelID }

// Inbound returns the channel of cEMI payloads delivered by the server,
// closed when the tunnel is closed.
func (t *Tunnel) Inbound() <-chan cemi.Message { return t.inbound }

// SetListener installs a Listener to receive frame and state-change
// notifications in addition to the Inbound channel.
func (t *Tunnel) SetListener(l knxnet.Listener) { t.listener = l }

// Send requests delivery of msg, waiting for the server's Tunneling.ack.
func (t *Tunnel) Send(msg cemi.Message) error {
	return t.SendWait(msg, WaitForAck)
}

// SendWait requests delivery of msg with the given blocking mode.
func (t *Tunnel) SendWait(msg cemi.Message, mode BlockingMode) error {
	t.mu.Lock()
	if t.state != knxnet.StateOpen {
		t.mu.Unlock()
		return knxnet.ErrConnectionClosed
	}

	seq := t.sendSeq
	t.mu.Unlock()

	req := &knxnet.TunnelReq{
		ConnHeader: knxnet.ConnHeader{ChannelID: t.channelID, SeqNumber: seq},
		Payload:    msg,
	}

	var ackCh chan knxnet.Status
	var conCh chan *cemi.LDataCon

	if mode >= WaitForAck {
		ackCh = make(chan knxnet.Status, 1)
		t.mu.Lock()
		t.pendAck = &pendingAck{seq: seq, ch: ackCh}
		t.mu.Unlock()
	}

	if mode >= WaitForCon {
		conCh = make(chan *cemi.LDataCon, 1)
		ld, ok := msg.(*cemi.LDataReq)
		if ok {
			t.mu.Lock()
			t.pendCons = append(t.pendCons, &pendingCon{
				match: func(c *cemi.LDataCon) bool {
					return c.Source == ld.Source && c.Destination == ld.Destination
				},
				ch: conCh,
			})
			t.mu.Unlock()
		}
	}

	if err := t.socket.Send(req); err != nil {
		return fmt.Errorf("%w: %v", knxnet.ErrTransport, err)
	}

	if mode == NonBlocking {
		t.advanceSendSeq(seq)
		return nil
	}

	status, err := t.awaitAck(ackCh, seq, req)
	if err != nil {
		return err
	}
	if status != knxnet.NoError {
		return fmt.Errorf("knx: tunneling ack status %s", status)
	}

	t.advanceSendSeq(seq)

	if mode == WaitForCon {
		select {
		case <-conCh:
		case <-time.After(t.config.SendTimeout):
			return errResponseTimeout
		case <-t.done:
			return knxnet.ErrConnectionClosed
		}
	}

	return nil
}

func (t *Tunnel) awaitAck(ackCh chan knxnet.Status, seq uint8, req *knxnet.TunnelReq) (knxnet.Status, error) {
	select {
	case s := <-ackCh:
		return s, nil

	case <-time.After(t.config.SendTimeout):
		// Re-send once with the same sequence number.
		if err := t.socket.Send(req); err != nil {
			return 0, fmt.Errorf("%w: %v", knxnet.ErrTransport, err)
		}

		select {
		case s := <-ackCh:
			return s, nil
		case <-time.After(t.config.SendTimeout):
			t.closeWith(knxnet.ReasonTimeout)
			return 0, errResponseTimeout
		case <-t.done:
			return 0, knxnet.ErrConnectionClosed
		}

	case <-t.done:
		return 0, knxnet.ErrConnectionClosed
	}
}

func (t *Tunnel) advanceSendSeq(expected uint8) {
	t.mu.Lock()
	if t.sendSeq == expected {
		t.sendSeq++
	}
	t.pendAck = nil
	t.mu.Unlock()
}

func (t *Tunnel) recvLoop() error {
	for {
		select {
		case <-t.done:
			return nil

		case svc, open := <-t.socket.Inbound():
			if !open {
				t.closeWith(knxnet.ReasonTransportError)
				return knxnet.ErrTransport
			}

			t.handleInbound(svc)
		}
	}
}

func (t *Tunnel) handleInbound(svc knxnet.Service) {
	switch m := svc.(type) {
	case *knxnet.TunnelAck:
		t.mu.Lock()
		pend := t.pendAck
		t.mu.Unlock()

		switch {
		case pend == nil:
			// No ack is outstanding (e.g. the request was sent
			// NonBlocking); nothing to deliver.

		case pend.seq == m.SeqNumber:
			select {
			case pend.ch <- m.Status:
			default:
			}

		default:
			// A Tunneling.ack with an unexpected sequence number leaves the
			// sender/receiver out of sync; the safe choice is to close,
			// consistent with ErrSequenceNumber.
			t.closeWith(knxnet.ReasonProtocolError)
		}

	case *knxnet.TunnelReq:
		t.handleTunnelReq(m)

	case *knxnet.ConnectionStateRes:
		t.mu.Lock()
		ch := t.heartbeatCh
		t.mu.Unlock()
		if ch != nil {
			select {
			case ch <- m.Status:
			default:
			}
		}

	case *knxnet.DisconnectReq:
		if m.ChannelID != t.channelID {
			return
		}
		t.socket.Send(&knxnet.DisconnectRes{ChannelID: t.channelID, Status: knxnet.NoError})
		t.closeWith(knxnet.ReasonRemoteInitiated)

	default:
		util.Log(t, "[%s] ignoring unexpected service %T on tunnel", t.id, svc)
	}
}

func (t *Tunnel) handleTunnelReq(m *knxnet.TunnelReq) {
	t.mu.Lock()
	expected := t.recvSeq
	first := !t.gotFirst
	t.mu.Unlock()

	switch {
	case first || m.SeqNumber == expected:
		t.socket.Send(&knxnet.TunnelAck{
			ConnHeader: knxnet.ConnHeader{ChannelID: t.channelID, SeqNumber: m.SeqNumber},
			Status:     knxnet.NoError,
		})

		t.mu.Lock()
		t.recvSeq = m.SeqNumber + 1
		t.gotFirst = true
		t.mu.Unlock()

		t.deliver(m.Payload)

	case m.SeqNumber == expected-1:
		// Duplicate: re-ack, do not deliver.
		t.socket.Send(&knxnet.TunnelAck{
			ConnHeader: knxnet.ConnHeader{ChannelID: t.channelID, SeqNumber: m.SeqNumber},
			Status:     knxnet.NoError,
		})

	default:
		t.closeWith(knxnet.ReasonProtocolError)
	}
}

func (t *Tunnel) deliver(msg cemi.Message) {
	if con, ok := msg.(*cemi.LDataCon); ok {
		t.mu.Lock()
		remaining := t.pendCons[:0]
		var matched []*pendingCon
		for _, p := range t.pendCons {
			if p.match(con) {
				matched = append(matched, p)
			} else {
				remaining = append(remaining, p)
			}
		}
		t.pendCons = remaining
		t.mu.Unlock()

		for _, p := range matched {
			select {
			case p.ch <- con:
			default:
			}
		}
	}

	if t.listener != nil {
		t.listener.OnFrame(msg)
	}

	select {
	case t.inbound <- msg:
	case <-t.done:
	default:
		util.Log(t, "[%s] inbound channel full, dropping %T", t.id, msg)
	}
}

func (t *Tunnel) heartbeatLoop() error {
	for {
		select {
		case <-t.done:
			return nil

		case <-time.After(t.config.HeartbeatInterval):
			if err := t.sendHeartbeat(); err != nil {
				return err
			}
		}
	}
}

// sendHeartbeat sends a Connectionstate.req and retries on a missed
// response, spacing retries ResponseTimeout apart (not HeartbeatInterval)
// until HeartbeatRetries is exhausted, at which point the connection is
// closed.
func (t *Tunnel) sendHeartbeat() error {
	hostinfo, err := knxnet.HostInfoFromAddress(t.socket.LocalAddr())
	if err != nil {
		t.closeWith(knxnet.ReasonProtocolError)
		return err
	}

	for attempts := 0; ; attempts++ {
		ch := make(chan knxnet.Status, 1)
		t.mu.Lock()
		t.heartbeatCh = ch
		t.mu.Unlock()

		if err := t.socket.Send(&knxnet.ConnectionStateReq{ChannelID: t.channelID, Control: hostinfo}); err != nil {
			t.closeWith(knxnet.ReasonTransportError)
			return err
		}

		select {
		case <-ch:
			return nil

		case <-time.After(t.config.ResponseTimeout):
			if attempts >= t.config.HeartbeatRetries {
				t.socket.Send(&knxnet.DisconnectReq{ChannelID: t.channelID, Control: hostinfo})
				t.closeWith(knxnet.ReasonHeartbeatLost)
				return knxnet.ErrTimeout
			}

		case <-t.done:
			return nil
		}
	}
}

// Close terminates the connection, sending Disconnect.req if still open.
func (t *Tunnel) Close() error {
	t.mu.Lock()
	open := t.state == knxnet.StateOpen
	t.mu.Unlock()

	if open {
		hostinfo, _ := knxnet.HostInfoFromAddress(t.socket.LocalAddr())
		t.socket.Send(&knxnet.DisconnectReq{ChannelID: t.channelID, Control: hostinfo})
	}

	t.closeWith(knxnet.ReasonNormal)
	t.eg.Wait()

	return nil
}

func (t *Tunnel) closeWith(reason knxnet.CloseReason) {
	t.closeOnce.Do(func() {
		t.mu.Lock()
		t.state = knxnet.StateClosed
		t.mu.Unlock()

		close(t.done)
		t.socket.Close()

		if t.listener != nil {
			t.listener.OnStateChange(knxnet.StateClosed, reason)
		}

		close(t.inbound)
	})
}
