// Package metrics defines the minimal backend interface the sniffer and
// loader report through. Backends buffer locally and submit on Flush, so
// the hot path never blocks on the network.
package metrics

// Labels are metric dimensions, e.g. {"format": "csv", "status": "ok"}.
type Labels map[string]string

// Backend is implemented by metric sinks (Datadog, or the no-op default).
type Backend interface {
	// IncCounter adds delta to a named counter. Non-positive deltas are
	// ignored.
	IncCounter(name string, delta float64, labels Labels)

	// ObserveHistogram records one sample of a named distribution.
	// Negative values are ignored.
	ObserveHistogram(name string, value float64, labels Labels)

	// Flush submits buffered metrics to the sink.
	Flush() error

	// Close stops background flushing and performs one final Flush.
	Close() error
}

// Metric names reported by the commands. Kept here so backends and callers
// agree on the operational contract.
const (
	// SniffRunsTotal counts sniffer invocations. Labels: status.
	SniffRunsTotal = "sniff_runs_total"
	// SniffRowsTotal counts rows parsed from samples. Labels: none.
	SniffRowsTotal = "sniff_rows_total"
	// LoadRowsTotal counts rows written to storage. Labels: backend.
	LoadRowsTotal = "load_rows_total"
	// SniffDurationSeconds measures end-to-end sniff time. Labels: status.
	SniffDurationSeconds = "sniff_duration_seconds"
	// LoadDurationSeconds measures end-to-end load time. Labels: backend.
	LoadDurationSeconds = "load_duration_seconds"
)

// Nop is the default backend; it discards everything.
type Nop struct{}

func (Nop) IncCounter(string, float64, Labels)       {}
func (Nop) ObserveHistogram(string, float64, Labels) {}
func (Nop) Flush() error                             { return nil }
func (Nop) Close() error                             { return nil }

var _ Backend = Nop{}
