package scanning

import (
	"fmt"
	"net/netip"

	"github.com/anstrom/escudo/internal/errors"
)

// Target is a validated IPv4 or IPv6 address to be scanned. The zero value
// is not a valid target.
type Target struct {
	addr netip.Addr
}

// ParseTarget validates s as a single IP literal. IPv4-mapped IPv6 addresses
// are unmapped so "::ffff:10.0.0.1" and "10.0.0.1" name the same target.
// Ranges, CIDR blocks, hostnames and zoned addresses are rejected.
func ParseTarget(s string) (Target, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return Target{}, errors.ErrInvalidTarget(s, err)
	}
	if addr.Zone() != "" {
		return Target{}, errors.ErrInvalidTarget(s, fmt.Errorf("zoned addresses are not supported"))
	}
	return Target{addr: addr.Unmap()}, nil
}

// MustParseTarget is like ParseTarget but panics on invalid input.
func MustParseTarget(s string) Target {
	t, err := ParseTarget(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Addr returns the underlying address.
func (t Target) Addr() netip.Addr {
	return t.addr
}

// IsValid reports whether t was produced by ParseTarget.
func (t Target) IsValid() bool {
	return t.addr.IsValid()
}

// Is6 reports whether the target is an IPv6 address.
func (t Target) Is6() bool {
	return t.addr.Is6()
}

// String returns the canonical textual form of the address.
func (t Target) String() string {
	if !t.addr.IsValid() {
		return ""
	}
	return t.addr.String()
}
