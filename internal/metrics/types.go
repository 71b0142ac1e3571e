// internal/metrics/types.go
package metrics

import (
	"math"
	"time"
)

// ModelMetrics is the aggregated call data for a single model.
type ModelMetrics struct {
	ModelName      string      `json:"model_name"`
	LastUpdatedUTC time.Time   `json:"last_updated_utc"`
	TotalRequests  int64       `json:"total_requests"`
	FailedRequests int64       `json:"failed_requests"`
	LatencyMillis  RunningStat `json:"latency_ms"`
	PromptChars    RunningStat `json:"prompt_chars"`
	ResponseChars  RunningStat `json:"response_chars"`
}

// RunningStat holds the necessary values for online calculation of mean, variance, and stddev.
type RunningStat struct {
	Count int64   `json:"-"`
	Mean  float64 `json:"mean"`
	M2    float64 `json:"-"` // Sum of squares of differences from the current mean
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// StdDev returns the sample standard deviation.
func (rs RunningStat) StdDev() float64 {
	if rs.Count < 2 {
		return 0
	}
	return math.Sqrt(rs.M2 / float64(rs.Count-1))
}
