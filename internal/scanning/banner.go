package scanning

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	lwerrors "github.com/anstrom/lanwatch/internal/errors"
)

const (
	passiveBannerSize = 256
	httpResponseLimit = 1024
)

// httpBannerPorts get a HEAD request; the Server header is the banner.
var httpBannerPorts = map[int]bool{80: true, 8080: true, 8000: true}

// passiveBannerPorts announce themselves on connect.
var passiveBannerPorts = map[int]bool{21: true, 22: true, 23: true, 25: true, 110: true, 143: true, 587: true}

// captureBanner reads a short identifying string from conn. Ports without a
// known protocol return "" and no error.
func captureBanner(conn net.Conn, host string, port int, timeout time.Duration) (string, error) {
	switch {
	case httpBannerPorts[port]:
		return httpServerHeader(conn, host, timeout)
	case passiveBannerPorts[port]:
		return passiveBanner(conn, timeout)
	default:
		return "", nil
	}
}

func passiveBanner(conn net.Conn, timeout time.Duration) (string, error) {
	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return "", bannerError(err)
	}
	buf := make([]byte, passiveBannerSize)
	n, err := conn.Read(buf)
	if n == 0 && err != nil {
		return "", bannerError(err)
	}
	return strings.TrimSpace(string(buf[:n])), nil
}

func httpServerHeader(conn net.Conn, host string, timeout time.Duration) (string, error) {
	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		return "", bannerError(err)
	}
	req := fmt.Sprintf("HEAD / HTTP/1.1\r\nHost: %s\r\nConnection: close\r\n\r\n", host)
	if _, err := io.WriteString(conn, req); err != nil {
		return "", bannerError(err)
	}

	buf := make([]byte, httpResponseLimit)
	n, err := io.ReadAtLeast(conn, buf, 1)
	if n == 0 {
		return "", bannerError(err)
	}
	return serverHeader(buf[:n]), nil
}

// serverHeader extracts the Server header value from a raw HTTP response head.
func serverHeader(raw []byte) string {
	sc := bufio.NewScanner(bytes.NewReader(raw))
	for sc.Scan() {
		line := sc.Text()
		if len(line) >= len("server:") && strings.EqualFold(line[:len("server:")], "server:") {
			return strings.TrimSpace(line[len("server:"):])
		}
	}
	return ""
}

func bannerError(err error) error {
	return lwerrors.WrapScanError(lwerrors.CodeBannerFailed, "banner read failed", err).WithOperation("banner")
}
