package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/anstrom/escudo/internal/db"
	"github.com/anstrom/escudo/internal/scanning"
)

const timeFormat = "2006-01-02 15:04"

// valueOrDash renders an optional port field.
func valueOrDash(v *string) string {
	if v == nil || *v == "" {
		return "-"
	}
	return *v
}

// displayHostResult prints one row per port record, hosts in address order.
func displayHostResult(w io.Writer, result scanning.HostResult) {
	if len(result) == 0 {
		fmt.Fprintln(w, "No hosts responded")
		return
	}

	hosts := make([]string, 0, len(result))
	for host := range result {
		hosts = append(hosts, host)
	}
	sort.Strings(hosts)

	table := tablewriter.NewWriter(w)
	table.Header("Host", "Protocol", "Port", "State", "Service", "Product", "Version")

	for _, host := range hosts {
		for _, p := range result[host] {
			_ = table.Append([]string{
				host,
				p.Protocol,
				strconv.Itoa(p.Port),
				valueOrDash(p.State),
				valueOrDash(p.Service),
				valueOrDash(p.Product),
				valueOrDash(p.Version),
			})
		}
	}

	_ = table.Render()
}

// displayScanResults prints a summary row per stored result.
func displayScanResults(w io.Writer, results []*db.ScanResult) error {
	if len(results) == 0 {
		fmt.Fprintln(w, "No scan results")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "IP", "Hosts", "Ports", "Created")

	for _, r := range results {
		decoded, err := r.HostResult()
		if err != nil {
			return fmt.Errorf("result %d: %w", r.ID, err)
		}
		_ = table.Append([]string{
			strconv.FormatInt(r.ID, 10),
			r.IP,
			strconv.Itoa(len(decoded)),
			strconv.Itoa(decoded.PortCount()),
			r.CreatedAt.Local().Format(timeFormat),
		})
	}

	return table.Render()
}

// displayJSON writes v as indented JSON.
func displayJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
