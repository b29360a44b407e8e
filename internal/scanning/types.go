package scanning

// Field names used in raw port entries.
const (
	FieldState   = "state"
	FieldName    = "name"
	FieldProduct = "product"
	FieldVersion = "version"
)

const maxPort = 65535

// PortEntry holds the raw fields reported for one port. A missing key means
// the scanner did not report that field.
type PortEntry map[string]string

// PortTable maps protocol to port number to raw entry.
type PortTable map[string]map[int]PortEntry

// HostData is the per-host section of a RawOutput.
type HostData interface {
	// Table returns the host's ports as plain nested data.
	Table() PortTable
}

// ProtocolAccessor is implemented by hosts that expose their protocols
// through accessor methods. Normalize prefers it over Table when present.
type ProtocolAccessor interface {
	HostData
	AllProtocols() []string
	Ports(protocol string) map[int]PortEntry
}

// RawOutput is the unmodified result structure returned by a scanner.
type RawOutput interface {
	// AllHosts returns the addresses of every host the scanner reported.
	AllHosts() []string
	// Host returns the data for one address, or nil if it is unknown.
	Host(address string) HostData
}

// NestedOutput is a RawOutput backed by plain nested maps:
// host -> protocol -> port -> field -> value.
type NestedOutput map[string]PortTable

// AllHosts implements RawOutput.
func (o NestedOutput) AllHosts() []string {
	hosts := make([]string, 0, len(o))
	for host := range o {
		hosts = append(hosts, host)
	}
	return hosts
}

// Host implements RawOutput.
func (o NestedOutput) Host(address string) HostData {
	table, ok := o[address]
	if !ok {
		return nil
	}
	return table
}

// Table implements HostData.
func (t PortTable) Table() PortTable {
	return t
}

// PortRecord is one normalized port entry. Optional fields are nil when the
// scanner did not report them.
type PortRecord struct {
	Protocol string  `json:"protocol"`
	Port     int     `json:"port"`
	State    *string `json:"state"`
	Service  *string `json:"service"`
	Product  *string `json:"product"`
	Version  *string `json:"version"`
}

// HostResult maps a host address to its port records, grouped by protocol
// in alphabetical order and sorted by ascending port within a protocol.
type HostResult map[string][]PortRecord

// PortCount returns the total number of port records across all hosts.
func (r HostResult) PortCount() int {
	n := 0
	for _, ports := range r {
		n += len(ports)
	}
	return n
}
