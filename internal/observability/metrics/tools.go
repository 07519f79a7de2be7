package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

type callKey struct {
	tool    string
	outcome string
}

type errorKey struct {
	tool string
}

type latencyKey struct {
	tool string
}

type histogram struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type collector struct {
	mu      sync.Mutex
	calls   map[callKey]uint64
	errors  map[errorKey]uint64
	latency map[latencyKey]*histogram
}

var toolCollector = &collector{
	calls:   make(map[callKey]uint64),
	errors:  make(map[errorKey]uint64),
	latency: make(map[latencyKey]*histogram),
}

// OutcomeOK labels a tool invocation that produced a regular result.
// Failed invocations are labelled with their error code instead.
const OutcomeOK = "ok"

// ObserveToolCall records metrics about a single tool invocation.
func ObserveToolCall(tool, outcome string, duration time.Duration) {
	toolCollector.observe(tool, outcome, duration)
}

func (c *collector) observe(tool, outcome string, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls[callKey{tool: tool, outcome: outcome}]++
	if outcome != OutcomeOK {
		c.errors[errorKey{tool: tool}]++
	}

	latKey := latencyKey{tool: tool}
	hist := c.latency[latKey]
	if hist == nil {
		hist = newHistogram()
		c.latency[latKey] = hist
	}
	hist.observe(duration.Seconds())
}

func newHistogram() *histogram {
	buckets := []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) observe(value float64) {
	h.count++
	h.sum += value
	for idx, bound := range h.buckets {
		if value <= bound {
			for i := idx; i < len(h.counts); i++ {
				h.counts[i]++
			}
			break
		}
	}
	// Values greater than the last bucket are accounted for in the +Inf bucket via h.count.
}

// Handler exposes the metrics in Prometheus text exposition format.
func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		_, _ = fmt.Fprint(w, toolCollector.render())
	})
}

func (c *collector) render() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	type callMetric struct {
		callKey
		value uint64
	}
	type errorMetric struct {
		errorKey
		value uint64
	}
	type latencyMetric struct {
		latencyKey
		buckets []float64
		counts  []uint64
		sum     float64
		count   uint64
	}

	calls := make([]callMetric, 0, len(c.calls))
	for key, value := range c.calls {
		calls = append(calls, callMetric{callKey: key, value: value})
	}
	errs := make([]errorMetric, 0, len(c.errors))
	for key, value := range c.errors {
		errs = append(errs, errorMetric{errorKey: key, value: value})
	}
	lats := make([]latencyMetric, 0, len(c.latency))
	for key, hist := range c.latency {
		lats = append(lats, latencyMetric{
			latencyKey: key,
			buckets:    append([]float64(nil), hist.buckets...),
			counts:     append([]uint64(nil), hist.counts...),
			sum:        hist.sum,
			count:      hist.count,
		})
	}

	sort.Slice(calls, func(i, j int) bool {
		if calls[i].tool == calls[j].tool {
			return calls[i].outcome < calls[j].outcome
		}
		return calls[i].tool < calls[j].tool
	})
	sort.Slice(errs, func(i, j int) bool {
		return errs[i].tool < errs[j].tool
	})
	sort.Slice(lats, func(i, j int) bool {
		return lats[i].tool < lats[j].tool
	})

	var builder strings.Builder
	builder.Grow(1024)

	builder.WriteString("# HELP monadmcp_tool_calls_total Total number of tool invocations processed.\n")
	builder.WriteString("# TYPE monadmcp_tool_calls_total counter\n")
	for _, metric := range calls {
		builder.WriteString(fmt.Sprintf("monadmcp_tool_calls_total{tool=\"%s\",outcome=\"%s\"} %d\n",
			escape(metric.tool), escape(metric.outcome), metric.value))
	}

	builder.WriteString("# HELP monadmcp_tool_call_errors_total Total number of tool invocations that returned an error result.\n")
	builder.WriteString("# TYPE monadmcp_tool_call_errors_total counter\n")
	for _, metric := range errs {
		builder.WriteString(fmt.Sprintf("monadmcp_tool_call_errors_total{tool=\"%s\"} %d\n",
			escape(metric.tool), metric.value))
	}

	builder.WriteString("# HELP monadmcp_tool_call_duration_seconds Tool invocation duration in seconds.\n")
	builder.WriteString("# TYPE monadmcp_tool_call_duration_seconds histogram\n")
	for _, metric := range lats {
		for idx, bound := range metric.buckets {
			builder.WriteString(fmt.Sprintf("monadmcp_tool_call_duration_seconds_bucket{tool=\"%s\",le=\"%s\"} %d\n",
				escape(metric.tool), formatFloat(bound), metric.counts[idx]))
		}
		builder.WriteString(fmt.Sprintf("monadmcp_tool_call_duration_seconds_bucket{tool=\"%s\",le=\"+Inf\"} %d\n",
			escape(metric.tool), metric.count))
		builder.WriteString(fmt.Sprintf("monadmcp_tool_call_duration_seconds_sum{tool=\"%s\"} %s\n",
			escape(metric.tool), formatFloat(metric.sum)))
		builder.WriteString(fmt.Sprintf("monadmcp_tool_call_duration_seconds_count{tool=\"%s\"} %d\n",
			escape(metric.tool), metric.count))
	}

	return builder.String()
}

func escape(value string) string {
	value = strings.ReplaceAll(value, "\\", "\\\\")
	value = strings.ReplaceAll(value, "\"", "\\\"")
	value = strings.ReplaceAll(value, "\n", "")
	return value
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// StartServer launches a standalone HTTP server exposing the /metrics
// endpoint. The MCP transport owns stdout, so metrics get their own
// listener instead of piggybacking on the protocol stream.
func StartServer(ctx context.Context, addr string) error {
	if addr == "" {
		return errors.New("metrics address is empty")
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())

	srv := &http.Server{Addr: addr, Handler: mux}
	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err, ok := <-errCh:
		if !ok {
			return nil
		}
		return err
	}
}
