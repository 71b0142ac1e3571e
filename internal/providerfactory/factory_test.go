package providerfactory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwiater/gsmprompt/internal/appconfig"
	"github.com/mwiater/gsmprompt/internal/metrics"
)

func TestNewCompleterFailsFastWithoutAPIKey(t *testing.T) {
	_, err := NewCompleter(context.Background(), appconfig.Config{}, appconfig.Credentials{})
	require.ErrorIs(t, err, appconfig.ErrMissingAPIKey)
}

func TestNewCompleterRejectsUnknownProvider(t *testing.T) {
	_, err := NewCompleter(context.Background(), appconfig.Config{Provider: "bedrock"}, appconfig.Credentials{})
	require.Error(t, err)
}

func TestNewCompleterGeminiWithKey(t *testing.T) {
	c, err := NewCompleter(context.Background(), appconfig.Config{}, appconfig.Credentials{GeminiAPIKey: "k-123"})
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.NoError(t, c.Close())
}

func TestNewCompleterOllamaNeedsNoKey(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"#### 7"},"done":true}`))
	}))
	defer srv.Close()

	cfg := appconfig.Config{Provider: appconfig.ProviderOllama, BaseURL: srv.URL, DelaySeconds: -1}

	agg := metrics.NewAggregator()
	c, err := NewCompleter(context.Background(), cfg, appconfig.Credentials{}, WithMetrics(agg))
	require.NoError(t, err)
	defer c.Close()

	got, err := c.Complete(context.Background(), "What is 3+4?")
	require.NoError(t, err)
	assert.Equal(t, "#### 7", got)
	assert.Equal(t, int32(1), hits.Load())

	snap := agg.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, appconfig.DefaultOllamaModel, snap[0].ModelName)
	assert.Equal(t, int64(1), snap[0].TotalRequests)
}
