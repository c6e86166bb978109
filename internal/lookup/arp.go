package lookup

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	lwerrors "github.com/anstrom/lanwatch/internal/errors"
)

// DefaultARPPath is the Linux IPv4 neighbor table.
const DefaultARPPath = "/proc/net/arp"

const incompleteMAC = "00:00:00:00:00:00"

var errNoNeighbor = errors.New("address not in neighbor table")

// ARPTable reads hardware addresses from a /proc/net/arp style file.
// The table is re-read on every lookup since the kernel updates it as the
// scan pings hosts.
type ARPTable struct {
	path string
}

// NewARPTable returns a table backed by path, or DefaultARPPath if empty.
func NewARPTable(path string) *ARPTable {
	if path == "" {
		path = DefaultARPPath
	}
	return &ARPTable{path: path}
}

// LookupHardwareAddress returns the upper-case MAC for address.
func (a *ARPTable) LookupHardwareAddress(address string) (string, error) {
	f, err := os.Open(a.path)
	if err != nil {
		return "", lwerrors.NewLookupError(address, "arp", err)
	}
	defer f.Close()

	entries, err := ParseARP(f)
	if err != nil {
		return "", lwerrors.NewLookupError(address, "arp", err)
	}
	mac, ok := entries[address]
	if !ok {
		return "", lwerrors.NewLookupError(address, "arp", errNoNeighbor)
	}
	return mac, nil
}

// ParseARP maps IP address to hardware address. The header line and
// incomplete entries are skipped.
func ParseARP(r io.Reader) (map[string]string, error) {
	entries := make(map[string]string)
	sc := bufio.NewScanner(r)
	first := true
	for sc.Scan() {
		if first {
			first = false
			continue
		}
		fields := strings.Fields(sc.Text())
		if len(fields) < 4 {
			continue
		}
		mac := strings.ToUpper(fields[3])
		if mac == incompleteMAC {
			continue
		}
		entries[fields[0]] = mac
	}
	return entries, sc.Err()
}
