package scanning

import (
	"maps"
	"slices"
)

// hostView is the normalization strategy for one host's port table.
type hostView interface {
	protocols() []string
	ports(protocol string) map[int]PortEntry
}

// accessorView reads a host through its accessor methods.
type accessorView struct {
	host ProtocolAccessor
}

func (v accessorView) protocols() []string {
	return v.host.AllProtocols()
}

func (v accessorView) ports(protocol string) map[int]PortEntry {
	return v.host.Ports(protocol)
}

// tableView reads a host by iterating its nested structure directly.
type tableView struct {
	table PortTable
}

func (v tableView) protocols() []string {
	return slices.Collect(maps.Keys(v.table))
}

func (v tableView) ports(protocol string) map[int]PortEntry {
	return v.table[protocol]
}

func viewOf(data HostData) hostView {
	if accessor, ok := data.(ProtocolAccessor); ok {
		return accessorView{host: accessor}
	}
	return tableView{table: data.Table()}
}

// Normalize converts raw scanner output into a HostResult. It never fails:
// missing fields become nil, ports outside 1-65535 are skipped, and a nil or
// empty RawOutput yields an empty result. Equal input always produces equal
// output, whichever shape the hosts are exposed in.
func Normalize(raw RawOutput) HostResult {
	result := make(HostResult)
	if raw == nil {
		return result
	}

	for _, address := range raw.AllHosts() {
		records := make([]PortRecord, 0)
		if data := raw.Host(address); data != nil {
			records = normalizeHost(viewOf(data))
		}
		result[address] = records
	}

	return result
}

func normalizeHost(view hostView) []PortRecord {
	protocols := slices.Clone(view.protocols())
	slices.Sort(protocols)
	protocols = slices.Compact(protocols)

	records := make([]PortRecord, 0)
	for _, protocol := range protocols {
		entries := view.ports(protocol)
		for _, port := range slices.Sorted(maps.Keys(entries)) {
			if port < 1 || port > maxPort {
				continue
			}
			entry := entries[port]
			records = append(records, PortRecord{
				Protocol: protocol,
				Port:     port,
				State:    field(entry, FieldState),
				Service:  field(entry, FieldName),
				Product:  field(entry, FieldProduct),
				Version:  field(entry, FieldVersion),
			})
		}
	}

	return records
}

func field(entry PortEntry, key string) *string {
	value, ok := entry[key]
	if !ok {
		return nil
	}
	return &value
}
