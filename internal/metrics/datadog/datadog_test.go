package datadog

import (
	"context"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"csvsniff/internal/metrics"

	"github.com/DataDog/datadog-api-client-go/v2/api/datadogV2"
)

// fakeSubmitter captures payloads submitted by Backend.Flush().
type fakeSubmitter struct {
	mu       sync.Mutex
	payloads []datadogV2.MetricPayload
	err      error
}

func (f *fakeSubmitter) SubmitMetrics(ctx context.Context, body datadogV2.MetricPayload, params ...datadogV2.SubmitMetricsOptionalParameters) (datadogV2.IntakePayloadAccepted, *http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, body)
	return datadogV2.IntakePayloadAccepted{}, nil, f.err
}

func (f *fakeSubmitter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.payloads)
}

func (f *fakeSubmitter) last() (datadogV2.MetricPayload, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.payloads) == 0 {
		return datadogV2.MetricPayload{}, false
	}
	return f.payloads[len(f.payloads)-1], true
}

// newTestBackend wires the submitter/clock/ticker seams so tests never hit
// the network or depend on wall time.
func newTestBackend(t *testing.T, sub metricsSubmitter) *Backend {
	t.Helper()
	b, err := NewBackend(context.Background(), Options{
		JobName:    "test",
		FlushEvery: time.Hour, // never fires in a test
		now:        func() time.Time { return time.Unix(1700000000, 0) },
		newTicker:  time.NewTicker,
		submitter:  sub,
	})
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	return b
}

// TestResolveEnvTag verifies environment-tag precedence and defaults.
//
// Edge cases:
//   - ENV wins over DD_ENV.
//   - Whitespace-only env vars are ignored.
//   - If neither is set, "env:unknown" is returned.
func TestResolveEnvTag(t *testing.T) {
	oldENV := os.Getenv("ENV")
	oldDDENV := os.Getenv("DD_ENV")
	t.Cleanup(func() {
		_ = os.Setenv("ENV", oldENV)
		_ = os.Setenv("DD_ENV", oldDDENV)
	})

	tests := []struct {
		name string
		env  string
		dd   string
		want string
	}{
		{name: "ENV_wins", env: "prod", dd: "stage", want: "env:prod"},
		{name: "DD_ENV_used_when_ENV_empty", env: "", dd: "stage", want: "env:stage"},
		{name: "whitespace_ignored", env: "   ", dd: "\n\t", want: "env:unknown"},
		{name: "default_unknown", env: "", dd: "", want: "env:unknown"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_ = os.Setenv("ENV", tc.env)
			_ = os.Setenv("DD_ENV", tc.dd)
			if got := resolveEnvTag(); got != tc.want {
				t.Fatalf("resolveEnvTag()=%q, want %q", got, tc.want)
			}
		})
	}
}

// TestBufferKeyRoundTrip verifies key encoding/decoding, including label
// ordering determinism.
func TestBufferKeyRoundTrip(t *testing.T) {
	k1 := bufferKey("sniff_runs_total", metrics.Labels{"status": "ok", "format": "csv"})
	k2 := bufferKey("sniff_runs_total", metrics.Labels{"format": "csv", "status": "ok"})
	if k1 != k2 {
		t.Fatalf("label order changed the key: %q vs %q", k1, k2)
	}

	name, tags := splitBufferKey(k1)
	if name != "sniff_runs_total" {
		t.Fatalf("name=%q", name)
	}
	if len(tags) != 2 || tags[0] != "format:csv" || tags[1] != "status:ok" {
		t.Fatalf("tags=%#v", tags)
	}

	name, tags = splitBufferKey(bufferKey("load_rows_total", nil))
	if name != "load_rows_total" || len(tags) != 0 {
		t.Fatalf("unlabelled key roundtrip: name=%q tags=%#v", name, tags)
	}
}

// TestFlush_EmptyIsNoop verifies nothing is submitted when no metrics were
// recorded.
func TestFlush_EmptyIsNoop(t *testing.T) {
	sub := &fakeSubmitter{}
	b := newTestBackend(t, sub)

	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if sub.count() != 0 {
		t.Fatalf("expected no submissions, got %d", sub.count())
	}
	_ = b.Close()
}

// TestFlush_SubmitsCountersAndGauges verifies the series the backend builds
// for one flush window: counter values, dot-notation metric names, base and
// label tags, and percentile gauges for histogram samples.
func TestFlush_SubmitsCountersAndGauges(t *testing.T) {
	sub := &fakeSubmitter{}
	b := newTestBackend(t, sub)

	b.IncCounter(metrics.SniffRunsTotal, 1, metrics.Labels{"status": "ok"})
	b.IncCounter(metrics.SniffRunsTotal, 2, metrics.Labels{"status": "ok"})
	b.ObserveHistogram(metrics.SniffDurationSeconds, 0.25, metrics.Labels{"status": "ok"})
	b.ObserveHistogram(metrics.SniffDurationSeconds, 0.75, metrics.Labels{"status": "ok"})

	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	payload, ok := sub.last()
	if !ok {
		t.Fatalf("no payload submitted")
	}

	byMetric := map[string]datadogV2.MetricSeries{}
	for _, s := range payload.Series {
		byMetric[s.Metric] = s
	}

	runs, ok := byMetric["sniff.runs.total"]
	if !ok {
		t.Fatalf("missing sniff.runs.total; got %v", metricNames(payload))
	}
	if got := *runs.Points[0].Value; got != 3 {
		t.Fatalf("counter value = %v, want 3", got)
	}
	if !hasTag(runs.Tags, "status:ok") || !hasTag(runs.Tags, "job:test") {
		t.Fatalf("counter tags = %#v", runs.Tags)
	}

	for _, suffix := range []string{".p50", ".p90", ".p95", ".p99", ".max", ".samples"} {
		if _, ok := byMetric["sniff.duration.seconds"+suffix]; !ok {
			t.Fatalf("missing histogram series %q; got %v", suffix, metricNames(payload))
		}
	}
	if got := *byMetric["sniff.duration.seconds.samples"].Points[0].Value; got != 2 {
		t.Fatalf("samples = %v, want 2", got)
	}
	if got := *byMetric["sniff.duration.seconds.max"].Points[0].Value; got != 0.75 {
		t.Fatalf("max = %v, want 0.75", got)
	}

	// Buffers must reset after a flush.
	if err := b.Flush(); err != nil {
		t.Fatalf("second Flush: %v", err)
	}
	if sub.count() != 1 {
		t.Fatalf("expected buffers to reset, got %d submissions", sub.count())
	}
	_ = b.Close()
}

// TestIncCounter_IgnoresNonPositiveDeltas verifies the guards on counter
// deltas and negative histogram samples.
func TestIncCounter_IgnoresNonPositiveDeltas(t *testing.T) {
	sub := &fakeSubmitter{}
	b := newTestBackend(t, sub)

	b.IncCounter(metrics.SniffRowsTotal, 0, nil)
	b.IncCounter(metrics.SniffRowsTotal, -5, nil)
	b.ObserveHistogram(metrics.SniffDurationSeconds, -1, nil)

	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if sub.count() != 0 {
		t.Fatalf("expected nothing buffered, got %d submissions", sub.count())
	}
	_ = b.Close()
}

// TestClose_FlushesTail verifies Close performs a final flush of anything
// still buffered.
func TestClose_FlushesTail(t *testing.T) {
	sub := &fakeSubmitter{}
	b := newTestBackend(t, sub)

	b.IncCounter(metrics.LoadRowsTotal, 10, metrics.Labels{"backend": "sqlite"})

	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	payload, ok := sub.last()
	if !ok {
		t.Fatalf("expected tail flush")
	}
	if !strings.Contains(metricNames(payload), "load.rows.total") {
		t.Fatalf("tail flush missing load.rows.total: %v", metricNames(payload))
	}
}

// TestPercentileNearestRank pins down the rank selection used for gauges.
func TestPercentileNearestRank(t *testing.T) {
	s := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	tests := []struct {
		p    float64
		want float64
	}{
		{0, 1},
		{0.5, 6},
		{0.9, 9},
		{1, 10},
	}
	for _, tc := range tests {
		if got := percentileNearestRank(s, tc.p); got != tc.want {
			t.Fatalf("p%v = %v, want %v", tc.p, got, tc.want)
		}
	}

	if got := percentileNearestRank(nil, 0.5); got != 0 {
		t.Fatalf("empty input = %v, want 0", got)
	}
}

// TestParseTagsCSV verifies tag splitting and whitespace handling.
func TestParseTagsCSV(t *testing.T) {
	got := ParseTagsCSV(" env:prod , team:data ,, ")
	if len(got) != 2 || got[0] != "env:prod" || got[1] != "team:data" {
		t.Fatalf("ParseTagsCSV = %#v", got)
	}
	if got := ParseTagsCSV(""); got != nil {
		t.Fatalf("empty input should return nil, got %#v", got)
	}
}

func metricNames(p datadogV2.MetricPayload) string {
	names := make([]string, 0, len(p.Series))
	for _, s := range p.Series {
		names = append(names, s.Metric)
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

func hasTag(tags []string, want string) bool {
	for _, t := range tags {
		if t == want {
			return true
		}
	}
	return false
}
