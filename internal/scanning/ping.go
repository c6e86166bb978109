package scanning

//go:generate mockgen -source=ping.go -destination=mocks/mock_ping.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"sync/atomic"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
)

const protocolICMP = 1

var errNotIPv4 = errors.New("not an IPv4 address")

// PingResult is a successful echo reply.
type PingResult struct {
	RTT time.Duration
	TTL int
}

// Pinger sends a single reachability probe.
type Pinger interface {
	Ping(ctx context.Context, address string, timeout time.Duration) (PingResult, error)
}

// ICMPPinger sends ICMP echo requests. It prefers unprivileged datagram
// ICMP sockets and falls back to raw sockets when those are unavailable.
type ICMPPinger struct {
	seq atomic.Uint32
	id  int
}

// NewICMPPinger creates a pinger.
func NewICMPPinger() *ICMPPinger {
	return &ICMPPinger{id: rand.IntN(0xffff)}
}

var _ Pinger = (*ICMPPinger)(nil)

func listenICMP() (*icmp.PacketConn, bool, error) {
	conn, err := icmp.ListenPacket("udp4", "0.0.0.0")
	if err == nil {
		return conn, false, nil
	}
	conn, rawErr := icmp.ListenPacket("ip4:icmp", "0.0.0.0")
	if rawErr != nil {
		return nil, false, fmt.Errorf("open icmp socket: %w", errors.Join(err, rawErr))
	}
	return conn, true, nil
}

// Ping sends one echo request and waits up to timeout for the matching reply.
func (p *ICMPPinger) Ping(ctx context.Context, address string, timeout time.Duration) (PingResult, error) {
	dst := net.ParseIP(address).To4()
	if dst == nil {
		return PingResult{}, errNotIPv4
	}

	conn, privileged, err := listenICMP()
	if err != nil {
		return PingResult{}, err
	}
	defer conn.Close()

	pc := conn.IPv4PacketConn()
	if pc != nil {
		_ = pc.SetControlMessage(ipv4.FlagTTL, true)
	}

	seq := int(p.seq.Add(1) & 0xffff)
	msg := icmp.Message{
		Type: ipv4.ICMPTypeEcho,
		Body: &icmp.Echo{ID: p.id, Seq: seq, Data: []byte("lanwatch")},
	}
	wb, err := msg.Marshal(nil)
	if err != nil {
		return PingResult{}, err
	}

	var target net.Addr = &net.IPAddr{IP: dst}
	if !privileged {
		target = &net.UDPAddr{IP: dst}
	}

	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return PingResult{}, err
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	start := time.Now()
	if _, err := conn.WriteTo(wb, target); err != nil {
		return PingResult{}, err
	}

	rb := make([]byte, 1500)
	for {
		var (
			n    int
			ttl  int
			peer net.Addr
		)
		if pc != nil {
			var cm *ipv4.ControlMessage
			n, cm, peer, err = pc.ReadFrom(rb)
			if cm != nil {
				ttl = cm.TTL
			}
		} else {
			n, peer, err = conn.ReadFrom(rb)
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return PingResult{}, ctxErr
			}
			return PingResult{}, err
		}
		if !samePeer(peer, dst) {
			continue
		}

		reply, err := icmp.ParseMessage(protocolICMP, rb[:n])
		if err != nil || reply.Type != ipv4.ICMPTypeEchoReply {
			continue
		}
		echo, ok := reply.Body.(*icmp.Echo)
		if !ok || echo.Seq != seq {
			continue
		}
		// The kernel rewrites the ID on datagram sockets.
		if privileged && echo.ID != p.id {
			continue
		}
		return PingResult{RTT: time.Since(start), TTL: ttl}, nil
	}
}

func samePeer(addr net.Addr, ip net.IP) bool {
	switch a := addr.(type) {
	case *net.IPAddr:
		return a.IP.Equal(ip)
	case *net.UDPAddr:
		return a.IP.Equal(ip)
	default:
		return false
	}
}
