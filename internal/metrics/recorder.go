package metrics

import "time"

// Scan outcome labels.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

//go:generate mockgen -source=recorder.go -destination=mocks/mock_recorder.go -package=mocks

// Recorder is the metrics surface used by the scan service, the HTTP
// middleware and the storage calls.
type Recorder interface {
	// RecordScan records a completed scan and the size of its result.
	RecordScan(status string, duration time.Duration, hosts, ports int)

	// RecordScanError records a scan that failed with the given error type.
	RecordScanError(errorType string)

	// RecordHTTPRequest records one served HTTP request.
	RecordHTTPRequest(method, path, status string, duration time.Duration)

	// RecordDatabaseQuery records one storage operation.
	RecordDatabaseQuery(operation string, duration time.Duration, success bool)
}

// Nop discards every measurement.
type Nop struct{}

// RecordScan implements Recorder.
func (Nop) RecordScan(string, time.Duration, int, int) {}

// RecordScanError implements Recorder.
func (Nop) RecordScanError(string) {}

// RecordHTTPRequest implements Recorder.
func (Nop) RecordHTTPRequest(string, string, string, time.Duration) {}

// RecordDatabaseQuery implements Recorder.
func (Nop) RecordDatabaseQuery(string, time.Duration, bool) {}

var (
	_ Recorder = Nop{}
	_ Recorder = (*PrometheusMetrics)(nil)
)
