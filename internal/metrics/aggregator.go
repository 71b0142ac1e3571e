// internal/metrics/aggregator.go
package metrics

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mwiater/gsmprompt/internal/logging"
	"github.com/mwiater/gsmprompt/internal/util"
)

// Aggregator collects per-model call statistics for one run.
type Aggregator struct {
	mutex   sync.Mutex
	metrics map[string]*ModelMetrics
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{metrics: make(map[string]*ModelMetrics)}
}

// Record adds one model call. Failed calls count toward the request and
// latency totals but not the response size.
func (a *Aggregator) Record(model string, latency time.Duration, promptChars, responseChars int, callErr error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	m, ok := a.metrics[model]
	if !ok {
		m = &ModelMetrics{ModelName: model}
		a.metrics[model] = m
	}
	m.LastUpdatedUTC = time.Now().UTC()
	m.TotalRequests++
	updateRunningStat(&m.LatencyMillis, float64(latency.Milliseconds()))
	updateRunningStat(&m.PromptChars, float64(promptChars))
	if callErr != nil {
		m.FailedRequests++
		return
	}
	updateRunningStat(&m.ResponseChars, float64(responseChars))
}

// Snapshot returns a copy of the current metrics ordered by model name.
func (a *Aggregator) Snapshot() []ModelMetrics {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	out := make([]ModelMetrics, 0, len(a.metrics))
	for _, m := range a.metrics {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ModelName < out[j].ModelName })
	return out
}

// Summary renders a one-line description of every model's calls.
func (a *Aggregator) Summary() []string {
	var lines []string
	for _, m := range a.Snapshot() {
		lines = append(lines, fmt.Sprintf("Model calls (%s): %d, failed: %d, mean latency: %.0fms",
			m.ModelName, m.TotalRequests, m.FailedRequests, m.LatencyMillis.Mean))
	}
	return lines
}

// Save writes the metrics to path as indented JSON.
func (a *Aggregator) Save(path string) error {
	logging.LogEvent("[METRICS] Saving metrics to %s", path)
	data, err := json.MarshalIndent(a.Snapshot(), "", "  ")
	if err != nil {
		return err
	}
	return util.WriteFile(path, data)
}

// updateRunningStat updates a single running statistic using Welford's online algorithm.
func updateRunningStat(rs *RunningStat, value float64) {
	rs.Count++
	if rs.Count == 1 {
		rs.Min = value
		rs.Max = value
	} else {
		if value < rs.Min {
			rs.Min = value
		}
		if value > rs.Max {
			rs.Max = value
		}
	}

	delta := value - rs.Mean
	rs.Mean += delta / float64(rs.Count)
	delta2 := value - rs.Mean
	rs.M2 += delta * delta2
}
