package scanning

import (
	"bufio"
	"context"
	"errors"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anstrom/lanwatch/internal/logging"
)

// redirectDialer sends connects for mapped ports to local listeners and
// refuses everything else.
type redirectDialer struct {
	targets  map[int]string
	inFlight atomic.Int32
	peak     atomic.Int32
	delay    time.Duration
}

func (d *redirectDialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	cur := d.inFlight.Add(1)
	defer d.inFlight.Add(-1)
	for {
		p := d.peak.Load()
		if cur <= p || d.peak.CompareAndSwap(p, cur) {
			break
		}
	}
	if d.delay > 0 {
		select {
		case <-time.After(d.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	_, portStr, err := net.SplitHostPort(address)
	if err != nil {
		return nil, err
	}
	port, _ := strconv.Atoi(portStr)
	target, ok := d.targets[port]
	if !ok {
		return nil, errors.New("connection refused")
	}
	var nd net.Dialer
	return nd.DialContext(ctx, network, target)
}

func startListener(t *testing.T, handle func(net.Conn)) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var wg sync.WaitGroup
	t.Cleanup(func() {
		ln.Close()
		wg.Wait()
	})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer conn.Close()
				handle(conn)
			}()
		}
	}()
	return ln.Addr().String()
}

func httpServer(conn net.Conn) {
	r := bufio.NewReader(conn)
	for {
		line, err := r.ReadString('\n')
		if err != nil || line == "\r\n" {
			break
		}
	}
	_, _ = conn.Write([]byte("HTTP/1.1 200 OK\r\nContent-Length: 0\r\nserver: nginx/1.25.3\r\n\r\n"))
}

func sshServer(conn net.Conn) {
	_, _ = conn.Write([]byte("SSH-2.0-OpenSSH_9.6p1 Ubuntu-3ubuntu13\r\n"))
	time.Sleep(50 * time.Millisecond)
}

func silentServer(conn net.Conn) {
	time.Sleep(200 * time.Millisecond)
}

func TestTCPPortScanner_Scan(t *testing.T) {
	dialer := &redirectDialer{targets: map[int]string{
		80:   startListener(t, httpServer),
		22:   startListener(t, sshServer),
		9100: startListener(t, silentServer),
		21:   startListener(t, silentServer),
	}}
	scanner := NewTCPPortScanner(logging.Discard(), WithDialer(dialer), WithBannerTimeout(100*time.Millisecond))

	opts := DefaultOptions()
	got := scanner.Scan(context.Background(), "192.168.1.10", []int{9100, 443, 80, 22, 21, 23}, opts)

	require.Len(t, got, 4)
	assert.Equal(t, 21, got[0].Port)
	assert.Equal(t, "", got[0].Banner, "silent passive port keeps an empty banner")

	assert.Equal(t, 22, got[1].Port)
	assert.Equal(t, "SSH", got[1].ServiceName)
	assert.Equal(t, "SSH-2.0-OpenSSH_9.6p1 Ubuntu-3ubuntu13", got[1].Banner)

	assert.Equal(t, 80, got[2].Port)
	assert.Equal(t, "nginx/1.25.3", got[2].Banner)
	assert.Equal(t, "TCP", got[2].Protocol)
	assert.True(t, got[2].IsOpen)

	assert.Equal(t, 9100, got[3].Port)
	assert.Equal(t, "JetDirect (Printer)", got[3].ServiceName)
	assert.Empty(t, got[3].Banner)
}

func TestTCPPortScanner_PerHostConcurrencyCap(t *testing.T) {
	dialer := &redirectDialer{targets: map[int]string{}, delay: 20 * time.Millisecond}
	scanner := NewTCPPortScanner(logging.Discard(), WithDialer(dialer))

	opts := DefaultOptions()
	opts.MaxPortConcurrency = 4

	got := scanner.Scan(context.Background(), "10.0.0.1", ExtendedPorts[:40], opts)

	assert.Empty(t, got)
	assert.LessOrEqual(t, dialer.peak.Load(), int32(4))
	assert.Positive(t, dialer.peak.Load())
}

func TestTCPPortScanner_EmptyPortList(t *testing.T) {
	scanner := NewTCPPortScanner(logging.Discard())
	got := scanner.Scan(context.Background(), "10.0.0.1", nil, DefaultOptions())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestTCPPortScanner_Canceled(t *testing.T) {
	dialer := &redirectDialer{targets: map[int]string{}, delay: time.Second}
	scanner := NewTCPPortScanner(logging.Discard(), WithDialer(dialer))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	got := scanner.Scan(ctx, "10.0.0.1", CommonPorts, DefaultOptions())
	assert.Empty(t, got)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestServerHeader(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"standard", "HTTP/1.1 200 OK\r\nServer: lighttpd/1.4\r\n\r\n", "lighttpd/1.4"},
		{"case insensitive", "HTTP/1.0 302 Found\nSERVER:  micro_httpd \n", "micro_httpd"},
		{"missing", "HTTP/1.1 200 OK\r\nContent-Type: text/html\r\n\r\n", ""},
		{"server-timing is not server", "HTTP/1.1 200 OK\r\nServer-Timing: db;dur=53\r\n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, serverHeader([]byte(tt.raw)))
		})
	}
}

func TestSelectPorts(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, CommonPorts, SelectPorts(opts))

	opts.QuickScan = false
	assert.Equal(t, ExtendedPorts, SelectPorts(opts))
	assert.Greater(t, len(ExtendedPorts), 100)

	opts.CustomPorts = []int{443, 22, 443}
	assert.Equal(t, []int{22, 443}, SelectPorts(opts), "custom list overrides the selector")

	opts.ScanPorts = false
	assert.Nil(t, SelectPorts(opts))
}

func TestServiceName(t *testing.T) {
	assert.Equal(t, "Telnet", ServiceName(23))
	assert.Equal(t, "Plex Media Server", ServiceName(32400))
	assert.Equal(t, "Port 12345", ServiceName(12345))
}
