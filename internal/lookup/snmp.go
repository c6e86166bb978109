package lookup

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gosnmp/gosnmp"

	lwerrors "github.com/anstrom/lanwatch/internal/errors"
)

const (
	oidSysDescr = ".1.3.6.1.2.1.1.1.0"

	// DefaultSNMPCommunity is the read community tried when none is configured.
	DefaultSNMPCommunity = "public"
	// DefaultSNMPTimeout bounds the single GET.
	DefaultSNMPTimeout = 700 * time.Millisecond

	maxDescrLength = 120
)

var errNoSysDescr = errors.New("sysDescr not returned")

// SNMPDescriber fetches sysDescr over SNMP v2c. Devices without an agent
// simply time out, so callers should treat every error as "no answer".
type SNMPDescriber struct {
	Community string
	Port      uint16
	Timeout   time.Duration
}

// NewSNMPDescriber returns a describer with defaults for unset fields.
func NewSNMPDescriber(community string, timeout time.Duration) *SNMPDescriber {
	if community == "" {
		community = DefaultSNMPCommunity
	}
	if timeout <= 0 {
		timeout = DefaultSNMPTimeout
	}
	return &SNMPDescriber{Community: community, Port: 161, Timeout: timeout}
}

// DescribeSystem returns the first line of sysDescr for address.
func (s *SNMPDescriber) DescribeSystem(ctx context.Context, address string) (string, error) {
	client := &gosnmp.GoSNMP{
		Target:    address,
		Port:      s.Port,
		Community: s.Community,
		Version:   gosnmp.Version2c,
		Timeout:   s.Timeout,
		Retries:   0,
		MaxOids:   gosnmp.MaxOids,
		Context:   ctx,
	}
	if err := client.Connect(); err != nil {
		return "", lwerrors.NewLookupError(address, "snmp", err)
	}
	defer client.Conn.Close()

	result, err := client.Get([]string{oidSysDescr})
	if err != nil {
		return "", lwerrors.NewLookupError(address, "snmp", err)
	}
	for _, v := range result.Variables {
		if v.Type != gosnmp.OctetString {
			continue
		}
		raw, ok := v.Value.([]byte)
		if !ok {
			continue
		}
		return cleanDescr(string(raw)), nil
	}
	return "", lwerrors.NewLookupError(address, "snmp", errNoSysDescr)
}

// cleanDescr keeps the first line of a sysDescr and bounds its length.
func cleanDescr(descr string) string {
	descr, _, _ = strings.Cut(strings.TrimSpace(descr), "\n")
	descr = strings.TrimSpace(descr)
	if len(descr) > maxDescrLength {
		descr = descr[:maxDescrLength]
	}
	return descr
}
