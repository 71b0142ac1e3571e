// Package results persists evaluation records, the best prompt and a run
// summary.
package results

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/mwiater/gsmprompt/internal/evaluator"
	"github.com/mwiater/gsmprompt/internal/optimizer"
	"github.com/mwiater/gsmprompt/internal/parser"
	"github.com/mwiater/gsmprompt/internal/util"
)

// Header is the column order of result tables.
var Header = []string{"index", "question", "answer", "llm_answer", "model_parsed", "correct_parsed", "is_correct", "error"}

// Summary describes one run.
type Summary struct {
	Mode        string                        `json:"mode"`
	Provider    string                        `json:"provider"`
	Model       string                        `json:"model"`
	Description string                        `json:"description"`
	Seed        uint64                        `json:"seed"`
	Accuracy    float64                       `json:"accuracy"`
	Correct     int                           `json:"correct"`
	Total       int                           `json:"total"`
	Prompt      string                        `json:"prompt"`
	Generations []optimizer.GenerationOutcome `json:"generations,omitempty"`
	Timestamp   string                        `json:"timestamp"`
}

// NewSummary fills a Summary from an evaluation report.
func NewSummary(mode, provider, model string, seed uint64, prompt string, report evaluator.Report) Summary {
	return Summary{
		Mode:        mode,
		Provider:    provider,
		Model:       model,
		Description: report.Description,
		Seed:        seed,
		Accuracy:    report.Accuracy,
		Correct:     report.Correct,
		Total:       report.Total,
		Prompt:      prompt,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
}

// WriteCSV writes one row per record. Unparsed values are left empty.
func WriteCSV(path string, records []evaluator.Record) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Header); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			strconv.Itoa(r.Index),
			r.Question,
			r.Answer,
			r.Response,
			parser.Format(r.ModelValue),
			parser.Format(r.TruthValue),
			strconv.FormatBool(r.Correct),
			r.Err,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	if err := util.WriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write results %s: %w", path, err)
	}
	return nil
}

// WritePrompt saves prompt text verbatim.
func WritePrompt(path, text string) error {
	if err := util.WriteFile(path, []byte(text)); err != nil {
		return fmt.Errorf("write prompt %s: %w", path, err)
	}
	return nil
}

// WriteSummary saves s as indented JSON.
func WriteSummary(path string, s Summary) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := util.WriteFile(path, append(data, '\n')); err != nil {
		return fmt.Errorf("write summary %s: %w", path, err)
	}
	return nil
}
