// Licensed under the MIT license which can be found in the LICENSE file.
package knxnet

import (
	"fmt"
	"net"
	"sync"

	"github.com/knxcore/knx/knx/util"
)

// Socket is a minimal UDP endpoint used by the package's own
// discovery/description helpers (DialTunnelUDP) and by knx.Tunnel and
// knx.Router. It sends and receives whole Service messages rather than raw
// datagrams, so it implements neither Transport nor PacketSource. It parses every inbound
// datagram into a Service eagerly, discarding malformed or unsupported
// frames rather than propagating them: codec errors never tear down the
// receive path.
type Socket struct {
	conn    *net.UDPConn
	inbound chan Service

	closeOnce sync.Once
	done      chan struct{}
}

// DialTunnelUDP opens a unicast UDP socket connected to address (format
// "ip:port"), suitable for control-endpoint exchanges (search, description,
// connect, heartbeat, tunneling).
func DialTunnelUDP(address string) (*Socket, error) {
	addr, err := net.ResolveUDPAddr("udp4", address)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIllegalArgument, err)
	}

	conn, err := net.DialUDP("udp4", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	return newSocket(conn), nil
}

// ListenRoutingUDP opens an unconnected UDP socket bound to localAddr, for
// use by knx.Router, which binds the KNXnet/IP routing port (3671). Joining the multicast
// group 224.0.23.12 is performed by the caller via golang.org/x/net/ipv4,
// since group membership is a routing (C8) concern, not a plain Socket
// concern.
func ListenRoutingUDP(localAddr string) (*Socket, error) {
	addr, err := net.ResolveUDPAddr("udp4", localAddr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIllegalArgument, err)
	}

	conn, err := net.ListenUDP("udp4", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	return newSocket(conn), nil
}

func newSocket(conn *net.UDPConn) *Socket {
	s := &Socket{
		conn:    conn,
		inbound: make(chan Service, 32),
		done:    make(chan struct{}),
	}

	go s.serve()

	return s
}

// UDPConn exposes the underlying *net.UDPConn, for callers (such as the
// routing engine) that need to configure multicast options via
// golang.org/x/net/ipv4.NewPacketConn.
func (s *Socket) UDPConn() *net.UDPConn { return s.conn }

func (s *Socket) serve() {
	defer close(s.inbound)

	buffer := make([]byte, 0xffff)

	for {
		n, _, err := s.conn.ReadFromUDP(buffer)
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				util.Log(s, "read error: %v", err)
				return
			}
		}

		svc, err := Parse(buffer[:n])
		if err != nil {
			util.Log(s, "dropping frame: %v", err)
			continue
		}

		select {
		case s.inbound <- svc:
		case <-s.done:
			return
		}
	}
}

// Send serializes msg and writes it to the connected peer. A socket
// obtained from ListenRoutingUDP has no connected peer; use SendTo there.
func (s *Socket) Send(msg Service) error {
	_, err := s.conn.Write(Pack(msg))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return nil
}

// SendTo serializes msg and writes it to dst, for use on a socket not
// connected to a single peer (e.g. routing multicast).
func (s *Socket) SendTo(msg Service, dst net.Addr) error {
	udpDst, ok := dst.(*net.UDPAddr)
	if !ok {
		return fmt.Errorf("%w: destination isn't a UDP address", ErrIllegalArgument)
	}

	if _, err := s.conn.WriteToUDP(Pack(msg), udpDst); err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}

	return nil
}

// Inbound returns the channel of parsed inbound Service messages. The
// channel is closed when the socket is closed or its read loop errors.
func (s *Socket) Inbound() <-chan Service { return s.inbound }

// LocalAddr returns the socket's bound local address.
func (s *Socket) LocalAddr() net.Addr { return s.conn.LocalAddr() }

// Close releases the socket.
func (s *Socket) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.conn.Close()
	})
	return err
}
