// Licensed under the MIT license which can be found in the LICENSE file.

// Multicast routing engine: Routing.ind distribution over the KNXnet/IP
// routing backbone (224.0.23.12:3671) with RoutingBusy-driven backpressure.
package knx

import (
	"fmt"
	"math/rand"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/ipv4"
	"golang.org/x/sync/errgroup"

	"github.com/knxcore/knx/knx/cemi"
	"github.com/knxcore/knx/knx/knxnet"
	"github.com/knxcore/knx/knx/util"
)

// RoutingMulticastAddr is the fixed KNXnet/IP routing multicast group and
// port.
const RoutingMulticastAddr = "224.0.23.12:3671"

var routingGroup = &net.UDPAddr{IP: net.IPv4(224, 0, 23, 12), Port: 3671}

// Router is a KNXnet/IP routing engine: it sends and receives Routing.ind
// frames over a multicast group shared with every other router/device on
// the same line.
type Router struct {
	id uuid.UUID

	socket *knxnet.Socket
	pconn  *ipv4.PacketConn

	listener knxnet.Listener
	inbound  chan cemi.Message

	mu        sync.Mutex
	busyUntil time.Time

	done      chan struct{}
	closeOnce sync.Once
	eg        *errgroup.Group
}

// ID returns the correlation id generated for this router when it was
// created. It has no wire representation; it exists only to tell
// overlapping routers apart in log output.
func (r *Router) ID() uuid.UUID { return r.id }

// NewRouter joins the KNXnet/IP routing multicast group on the network
// interface named ifaceName ("" selects the system default).
func NewRouter(ifaceName string) (*Router, error) {
	socket, err := knxnet.ListenRoutingUDP(fmt.Sprintf(":%d", routingGroup.Port))
	if err != nil {
		return nil, err
	}

	pconn := ipv4.NewPacketConn(socket.UDPConn())

	var iface *net.Interface
	if ifaceName != "" {
		iface, err = net.InterfaceByName(ifaceName)
		if err != nil {
			socket.Close()
			return nil, fmt.Errorf("%w: %v", knxnet.ErrIllegalArgument, err)
		}
	}

	if err := pconn.JoinGroup(iface, routingGroup); err != nil {
		socket.Close()
		return nil, fmt.Errorf("%w: joining routing multicast group: %v", knxnet.ErrTransport, err)
	}

	if err := pconn.SetMulticastTTL(16); err != nil {
		socket.Close()
		return nil, fmt.Errorf("%w: %v", knxnet.ErrTransport, err)
	}

	r := &Router{
		id:      uuid.New(),
		socket:  socket,
		pconn:   pconn,
		inbound: make(chan cemi.Message, 64),
		done:    make(chan struct{}),
		eg:      new(errgroup.Group),
	}

	r.eg.Go(r.recvLoop)

	util.Log(r, "[%s] router joined %s", r.id, RoutingMulticastAddr)

	return r, nil
}

// SetListener installs a Listener to receive lost-message notifications in
// addition to the Inbound channel.
func (r *Router) SetListener(l knxnet.Listener) { r.listener = l }

// Inbound returns the channel of cEMI payloads received over the routing
// multicast group, closed when the router is closed.
func (r *Router) Inbound() <-chan cemi.Message { return r.inbound }

// Send transmits msg as a Routing.ind, observing any outstanding
// RoutingBusy backpressure window: it sleeps until the advertised wait
// time has elapsed plus a small random jitter, so that multiple senders
// reacting to the same RoutingBusy.ind don't resume in lockstep.
func (r *Router) Send(msg cemi.Message) error {
	r.mu.Lock()
	wait := time.Until(r.busyUntil)
	r.mu.Unlock()

	if wait > 0 {
		select {
		case <-time.After(wait):
		case <-r.done:
			return knxnet.ErrConnectionClosed
		}
	}

	ind := &knxnet.RoutingInd{Payload: msg}
	if err := r.socket.SendTo(ind, routingGroup); err != nil {
		return err
	}

	return nil
}

func (r *Router) recvLoop() error {
	for {
		select {
		case <-r.done:
			return nil

		case svc, open := <-r.socket.Inbound():
			if !open {
				return knxnet.ErrTransport
			}

			r.handleInbound(svc)
		}
	}
}

func (r *Router) handleInbound(svc knxnet.Service) {
	switch m := svc.(type) {
	case *knxnet.RoutingInd:
		if r.listener != nil {
			r.listener.OnFrame(m.Payload)
		}

		select {
		case r.inbound <- m.Payload:
		case <-r.done:
		default:
			util.Log(r, "[%s] inbound channel full, dropping %T", r.id, m.Payload)
		}

	case *knxnet.RoutingSystemBroadcast:
		if r.listener != nil {
			r.listener.OnFrame(m.Payload)
		}

		select {
		case r.inbound <- m.Payload:
		case <-r.done:
		default:
			util.Log(r, "[%s] inbound channel full, dropping %T", r.id, m.Payload)
		}

	case *knxnet.RoutingLostMessage:
		if r.listener != nil {
			r.listener.OnLostMessages(m.LostCount, m.DeviceState)
		}

	case *knxnet.RoutingBusy:
		r.applyBusy(m)

	default:
		util.Log(r, "[%s] ignoring unexpected service %T on router", r.id, svc)
	}
}

// applyBusy extends the backpressure window to at least WaitTime from now,
// with jitter drawn uniformly from [0, WaitTime) added on top so concurrent
// senders don't all resume on the same tick.
func (r *Router) applyBusy(m *knxnet.RoutingBusy) {
	jitter := time.Duration(rand.Intn(int(m.WaitTime))) * time.Millisecond
	until := time.Now().Add(time.Duration(m.WaitTime)*time.Millisecond + jitter)

	r.mu.Lock()
	if until.After(r.busyUntil) {
		r.busyUntil = until
	}
	r.mu.Unlock()
}

// Close leaves the multicast group and releases the router's resources.
func (r *Router) Close() error {
	var err error
	r.closeOnce.Do(func() {
		close(r.done)
		r.pconn.LeaveGroup(nil, routingGroup)
		err = r.socket.Close()
		r.eg.Wait()
		close(r.inbound)
	})
	return err
}
