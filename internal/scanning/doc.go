// Package scanning runs the external port scanner and turns its output into
// escudo's canonical per-host port records.
//
// # Overview
//
// A scan goes through three steps, each owned by a type in this package:
//
//   - Target: a validated single IP literal, produced by ParseTarget.
//   - Executor: runs the scanner against exactly one Target and returns a
//     RawOutput. NmapExecutor is the production implementation built on
//     github.com/Ullaakut/nmap/v3.
//   - Normalize: a pure function from RawOutput to HostResult.
//
// # Raw output shapes
//
// Scanner bindings expose a host's port table in one of two shapes. Hosts
// that implement ProtocolAccessor are read through AllProtocols and Ports;
// everything else is read through its plain nested Table. Both paths
// produce identical HostResult values for the same logical data.
//
// # Errors
//
// Executor failures are reported with the codes from internal/errors:
// CodeToolUnavailable when the scanner cannot be initialized and
// CodeScanFailed when the run itself fails or times out. ParseTarget
// returns CodeTargetInvalid.
package scanning
