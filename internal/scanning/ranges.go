package scanning

import (
	"strconv"
	"strings"
)

// subnetsPerBroadRange is the number of third octets a two-octet prefix expands to.
const subnetsPerBroadRange = 256

// Range is an expanded address range. A broad range covers every third
// octet under a two-octet prefix; otherwise Prefix names a single /24.
type Range struct {
	Prefix string
	Broad  bool
	Start  int
	End    int
}

// cleanOctets applies the parsing rules shared by NormalizeRange and ExpandRange.
func cleanOctets(spec string) []string {
	spec = strings.TrimRight(strings.TrimSpace(spec), ".")

	var octets []string
	for _, tok := range strings.Split(spec, ".") {
		n, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil || n < 0 || n > 255 {
			continue
		}
		octets = append(octets, strconv.Itoa(n))
		if len(octets) == 3 {
			break
		}
	}
	return octets
}

// NormalizeRange returns the cleaned two- or three-octet prefix for spec,
// or DefaultRange when fewer than two valid octets remain.
func NormalizeRange(spec string) string {
	octets := cleanOctets(spec)
	if len(octets) < 2 {
		return DefaultRange
	}
	return strings.Join(octets, ".")
}

// ExpandRange parses spec and returns the range covering start..end host
// offsets. Inputs that yield fewer than two valid octets fall back to
// DefaultRange. Four or more octets are truncated to three.
func ExpandRange(spec string, start, end int) Range {
	octets := cleanOctets(spec)
	switch len(octets) {
	case 0, 1:
		return Range{Prefix: DefaultRange, Start: start, End: end}
	case 2:
		return Range{Prefix: strings.Join(octets, "."), Broad: true, Start: start, End: end}
	default:
		return Range{Prefix: strings.Join(octets, "."), Start: start, End: end}
	}
}

// HostsPerSubnet is the number of host offsets per subnet.
func (r Range) HostsPerSubnet() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start + 1
}

// Total is the number of addresses the range enumerates. Broad ranges
// always count all 256 subnets.
func (r Range) Total() int {
	if r.Broad {
		return subnetsPerBroadRange * r.HostsPerSubnet()
	}
	return r.HostsPerSubnet()
}

// Each calls fn for every address in order until fn returns false.
func (r Range) Each(fn func(address string) bool) {
	if r.HostsPerSubnet() == 0 {
		return
	}
	if !r.Broad {
		for h := r.Start; h <= r.End; h++ {
			if !fn(r.Prefix + "." + strconv.Itoa(h)) {
				return
			}
		}
		return
	}
	for s := 0; s < subnetsPerBroadRange; s++ {
		subnet := r.Prefix + "." + strconv.Itoa(s) + "."
		for h := r.Start; h <= r.End; h++ {
			if !fn(subnet + strconv.Itoa(h)) {
				return
			}
		}
	}
}

// Addresses returns every address in the range.
func (r Range) Addresses() []string {
	addrs := make([]string, 0, r.Total())
	r.Each(func(a string) bool {
		addrs = append(addrs, a)
		return true
	})
	return addrs
}

// String renders the range for logs, e.g. "10.0.*.1-5".
func (r Range) String() string {
	hosts := strconv.Itoa(r.Start) + "-" + strconv.Itoa(r.End)
	if r.Broad {
		return r.Prefix + ".*." + hosts
	}
	return r.Prefix + "." + hosts
}
