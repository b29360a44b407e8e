package scanning

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/Ullaakut/nmap/v3"

	"github.com/anstrom/escudo/internal/errors"
	"github.com/anstrom/escudo/internal/logging"
)

// DefaultScanTimeout bounds a single scan when no timeout is configured.
const DefaultScanTimeout = 2 * time.Minute

//go:generate mockgen -destination=mocks/mock_executor.go -package=mocks github.com/anstrom/escudo/internal/scanning Executor

// Executor runs the scanner against a single validated target.
type Executor interface {
	Run(ctx context.Context, target Target) (RawOutput, error)
}

// nmapRunner is the subset of *nmap.Scanner the executor needs.
type nmapRunner interface {
	Run() (*nmap.Run, *[]string, error)
}

// scannerFactory builds an nmap scanner; replaced in tests.
type scannerFactory func(ctx context.Context, options ...nmap.Option) (nmapRunner, error)

func newNmapScanner(ctx context.Context, options ...nmap.Option) (nmapRunner, error) {
	return nmap.NewScanner(ctx, options...)
}

// NmapExecutor runs nmap in fast mode (-F) against one target per call.
type NmapExecutor struct {
	binaryPath        string
	timeout           time.Duration
	serviceDetection  bool
	skipHostDiscovery bool
	newScanner        scannerFactory
	logger            *logging.Logger
}

// ExecutorOption configures an NmapExecutor.
type ExecutorOption func(*NmapExecutor)

// WithBinaryPath sets the nmap binary location instead of looking it up in PATH.
func WithBinaryPath(path string) ExecutorOption {
	return func(e *NmapExecutor) {
		e.binaryPath = path
	}
}

// WithTimeout overrides the per-scan timeout. Zero or negative values keep
// the default.
func WithTimeout(timeout time.Duration) ExecutorOption {
	return func(e *NmapExecutor) {
		if timeout > 0 {
			e.timeout = timeout
		}
	}
}

// WithServiceDetection enables -sV so product and version are reported.
func WithServiceDetection(enabled bool) ExecutorOption {
	return func(e *NmapExecutor) {
		e.serviceDetection = enabled
	}
}

// WithSkipHostDiscovery enables -Pn.
func WithSkipHostDiscovery(enabled bool) ExecutorOption {
	return func(e *NmapExecutor) {
		e.skipHostDiscovery = enabled
	}
}

// WithLogger sets the logger used for scanner warnings.
func WithLogger(logger *logging.Logger) ExecutorOption {
	return func(e *NmapExecutor) {
		e.logger = logger
	}
}

// NewNmapExecutor creates an executor with the given options.
func NewNmapExecutor(opts ...ExecutorOption) *NmapExecutor {
	e := &NmapExecutor{
		timeout:    DefaultScanTimeout,
		newScanner: newNmapScanner,
		logger:     logging.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Timeout returns the effective per-scan timeout.
func (e *NmapExecutor) Timeout() time.Duration {
	return e.timeout
}

// Run scans target and returns nmap's result wrapped as a RawOutput.
// Scanner initialization failures are reported as CodeToolUnavailable;
// everything that goes wrong afterwards, including the deadline, as
// CodeScanFailed.
func (e *NmapExecutor) Run(ctx context.Context, target Target) (RawOutput, error) {
	if !target.IsValid() {
		return nil, errors.ErrInvalidTarget("", fmt.Errorf("zero target"))
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	scanner, err := e.newScanner(ctx, e.buildOptions(target)...)
	if err != nil {
		return nil, errors.ErrToolUnavailable(err)
	}

	result, warnings, err := scanner.Run()
	if warnings != nil && len(*warnings) > 0 {
		e.logger.Warn("Scan completed with warnings",
			"target", target.String(),
			"warnings", *warnings)
	}
	if err != nil {
		if stderrors.Is(err, nmap.ErrScanTimeout) || stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
			timeoutErr := errors.ErrScanTimeout(target.String())
			timeoutErr.Cause = err
			return nil, errors.ErrScanFailed(target.String(), timeoutErr)
		}
		return nil, errors.ErrScanFailed(target.String(), err)
	}
	if result == nil {
		return nil, errors.ErrScanFailed(target.String(), fmt.Errorf("scanner returned no result"))
	}

	return NewNmapOutput(result), nil
}

// buildOptions creates the nmap options for a single-target fast scan.
func (e *NmapExecutor) buildOptions(target Target) []nmap.Option {
	options := []nmap.Option{
		nmap.WithTargets(target.String()),
		nmap.WithFastMode(),
	}
	if target.Is6() {
		options = append(options, nmap.WithIPv6Scanning())
	}
	if e.binaryPath != "" {
		options = append(options, nmap.WithBinaryPath(e.binaryPath))
	}
	if e.serviceDetection {
		options = append(options, nmap.WithServiceInfo())
	}
	if e.skipHostDiscovery {
		options = append(options, nmap.WithSkipHostDiscovery())
	}
	return options
}

// NmapOutput adapts an nmap run to RawOutput. Its hosts implement
// ProtocolAccessor.
type NmapOutput struct {
	order []string
	hosts map[string]*nmapHost
}

// NewNmapOutput indexes run by host address. Hosts reported down and hosts
// without an IP address are left out.
func NewNmapOutput(run *nmap.Run) *NmapOutput {
	out := &NmapOutput{hosts: make(map[string]*nmapHost)}
	if run == nil {
		return out
	}

	for i := range run.Hosts {
		h := &run.Hosts[i]
		if h.Status.State == "down" {
			continue
		}
		address := hostAddress(h)
		if address == "" {
			continue
		}

		host, exists := out.hosts[address]
		if !exists {
			host = &nmapHost{ports: make(PortTable)}
			out.hosts[address] = host
			out.order = append(out.order, address)
		}
		host.add(h.Ports)
	}

	return out
}

// AllHosts implements RawOutput.
func (o *NmapOutput) AllHosts() []string {
	return append([]string(nil), o.order...)
}

// Host implements RawOutput.
func (o *NmapOutput) Host(address string) HostData {
	host, ok := o.hosts[address]
	if !ok {
		return nil
	}
	return host
}

func hostAddress(h *nmap.Host) string {
	for _, addr := range h.Addresses {
		if addr.AddrType == "mac" {
			continue
		}
		return addr.Addr
	}
	return ""
}

// nmapHost holds one host's ports in reported protocol order.
type nmapHost struct {
	protocols []string
	ports     PortTable
}

func (h *nmapHost) add(ports []nmap.Port) {
	for i := range ports {
		p := &ports[i]
		if _, ok := h.ports[p.Protocol]; !ok {
			h.ports[p.Protocol] = make(map[int]PortEntry)
			h.protocols = append(h.protocols, p.Protocol)
		}

		entry := make(PortEntry)
		setIfPresent(entry, FieldState, p.State.State)
		setIfPresent(entry, FieldName, p.Service.Name)
		setIfPresent(entry, FieldProduct, p.Service.Product)
		setIfPresent(entry, FieldVersion, p.Service.Version)
		h.ports[p.Protocol][int(p.ID)] = entry
	}
}

func setIfPresent(entry PortEntry, key, value string) {
	if value != "" {
		entry[key] = value
	}
}

// AllProtocols implements ProtocolAccessor.
func (h *nmapHost) AllProtocols() []string {
	return append([]string(nil), h.protocols...)
}

// Ports implements ProtocolAccessor.
func (h *nmapHost) Ports(protocol string) map[int]PortEntry {
	return h.ports[protocol]
}

// Table implements HostData.
func (h *nmapHost) Table() PortTable {
	return h.ports
}
