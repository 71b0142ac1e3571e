// internal/cli/session.go
package gsmprompt

import (
	"context"
	"io"
	"path/filepath"

	"github.com/mwiater/gsmprompt/internal/appconfig"
	"github.com/mwiater/gsmprompt/internal/dataset"
	"github.com/mwiater/gsmprompt/internal/logging"
	"github.com/mwiater/gsmprompt/internal/metrics"
	"github.com/mwiater/gsmprompt/internal/providerfactory"
	"github.com/mwiater/gsmprompt/internal/providers"
)

// Seams for tests.
var (
	loadCredentials = appconfig.LoadCredentials
	newCompleter    = providerfactory.NewCompleter
	sourceFor       = dataset.SourceFor
)

// session is the per-run wiring shared by every run mode.
type session struct {
	cfg     appconfig.Config
	client  providers.Completer
	source  dataset.Source
	metrics *metrics.Aggregator
	out     io.Writer
}

// newSession checks credentials before anything else so a missing key aborts
// the run before the dataset is downloaded or any model is called.
func newSession(ctx context.Context, cfg appconfig.Config, out io.Writer) (*session, error) {
	creds, err := loadCredentials()
	if err != nil {
		return nil, err
	}
	if err := creds.RequireAPIKey(cfg.ProviderName()); err != nil {
		return nil, err
	}

	if err := logging.Init(cfg.LogFilePath(), cfg.Debug); err != nil {
		return nil, err
	}
	logging.LogEvent("starting run: provider=%s model=%s config=%q", cfg.ProviderName(), cfg.ModelName(), cfg.ConfigPath)

	agg := metrics.NewAggregator()
	client, err := newCompleter(ctx, cfg, creds, providerfactory.WithMetrics(agg))
	if err != nil {
		_ = logging.Close()
		return nil, err
	}

	return &session{
		cfg:     cfg,
		client:  client,
		source:  sourceFor(cfg.Dataset),
		metrics: agg,
		out:     out,
	}, nil
}

// saveMetrics writes the call statistics for mode next to the results.
func (s *session) saveMetrics(mode string) {
	path := filepath.Join(s.cfg.OutputDirectory(), mode+"_metrics.json")
	if err := s.metrics.Save(path); err != nil {
		logging.LogError("save metrics: %v", err)
	}
}

func (s *session) Close() error {
	err := s.client.Close()
	_ = logging.Close()
	return err
}
