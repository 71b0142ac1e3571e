package dataset

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"
)

const (
	defaultFetchTimeout = 120 * time.Second
	maxJSONLLine        = 1 << 20
)

// SourceFor picks a Source implementation from the location's extension.
// Locations ending in .jsonl or .json are read as JSON lines; anything else
// is treated as parquet.
func SourceFor(location string) Source {
	location = strings.TrimSpace(location)
	if location == "" {
		location = DefaultTrainURL
	}
	switch strings.ToLower(filepath.Ext(stripQuery(location))) {
	case ".jsonl", ".json":
		return &JSONLSource{Location: location}
	default:
		return &ParquetSource{Location: location}
	}
}

// ParquetSource reads the question/answer columns of a parquet file fetched
// over HTTP(S) or read from disk.
type ParquetSource struct {
	Location string
	Client   *http.Client
}

// Load downloads (or reads) the file and decodes every row.
func (s *ParquetSource) Load(ctx context.Context) ([]Problem, error) {
	raw, err := readLocation(ctx, s.Client, s.Location)
	if err != nil {
		return nil, err
	}
	rows, err := parquet.Read[Problem](bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("decode parquet %q: %w", s.Location, err)
	}
	return indexRows(rows)
}

// JSONLSource reads one {"question","answer"} object per line, the format of
// the upstream grade-school-math repository.
type JSONLSource struct {
	Location string
	Client   *http.Client
}

// Load reads and decodes every non-blank line.
func (s *JSONLSource) Load(ctx context.Context) ([]Problem, error) {
	raw, err := readLocation(ctx, s.Client, s.Location)
	if err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(bytes.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), maxJSONLLine)

	var rows []Problem
	line := 0
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var row Problem
		if err := json.Unmarshal([]byte(text), &row); err != nil {
			return nil, fmt.Errorf("decode %q line %d: %w", s.Location, line, err)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %q: %w", s.Location, err)
	}
	return indexRows(rows)
}

func indexRows(rows []Problem) ([]Problem, error) {
	out := make([]Problem, 0, len(rows))
	for i, row := range rows {
		row.Index = i
		if strings.TrimSpace(row.Question) == "" {
			continue
		}
		out = append(out, row)
	}
	if len(out) == 0 {
		return nil, errors.New("dataset contains no questions")
	}
	return out, nil
}

func readLocation(ctx context.Context, client *http.Client, location string) ([]byte, error) {
	if !isRemote(location) {
		data, err := os.ReadFile(location)
		if err != nil {
			return nil, fmt.Errorf("read dataset %q: %w", location, err)
		}
		return data, nil
	}

	if client == nil {
		client = &http.Client{Timeout: defaultFetchTimeout}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset %q: %w", location, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch dataset %q: %s", location, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset %q: %w", location, err)
	}
	return data, nil
}

func isRemote(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func stripQuery(location string) string {
	if i := strings.IndexAny(location, "?#"); i >= 0 {
		return location[:i]
	}
	return location
}
