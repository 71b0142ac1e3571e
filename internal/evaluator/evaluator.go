// Package evaluator runs a prompt template over a sample set and scores the
// model's delimited answers against the benchmark ground truth.
package evaluator

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/mwiater/gsmprompt/internal/dataset"
	"github.com/mwiater/gsmprompt/internal/logging"
	"github.com/mwiater/gsmprompt/internal/parser"
	"github.com/mwiater/gsmprompt/internal/prompt"
	"github.com/mwiater/gsmprompt/internal/providers"
	"github.com/mwiater/gsmprompt/internal/util"
)

const progressResponseRunes = 60

var (
	passColor = color.New(color.FgGreen)
	failColor = color.New(color.FgRed)
	headColor = color.New(color.FgCyan, color.Bold)
)

// Evaluator scores templates with Client. Progress, when set, receives one
// line per row.
type Evaluator struct {
	Client   providers.Completer
	Progress io.Writer
}

// New returns an Evaluator that prints progress to out.
func New(client providers.Completer, out io.Writer) *Evaluator {
	return &Evaluator{Client: client, Progress: out}
}

// Evaluate runs tmpl over every problem in set. A failed model call marks
// that row incorrect and the batch continues; Evaluate itself never fails.
// An empty set yields accuracy 0.
func (e *Evaluator) Evaluate(ctx context.Context, tmpl prompt.Template, set dataset.SampleSet, description string) Report {
	total := set.Len()
	report := Report{
		Description: description,
		Records:     make([]Record, 0, total),
		Failures:    []Record{},
		Total:       total,
	}
	if total == 0 {
		return report
	}

	e.printf(headColor, "--- Running %s for a prompt on %d questions ---\n", description, total)

	for i, problem := range set.Problems {
		rec := e.evaluateRow(ctx, tmpl, problem)
		report.Records = append(report.Records, rec)
		if rec.Correct {
			report.Correct++
		} else {
			report.Failures = append(report.Failures, rec)
		}
		e.progress(i+1, total, rec)
	}

	report.Accuracy = float64(report.Correct) / float64(total)
	logging.LogEvent("%s: %d/%d correct (%.2f%%)", description, report.Correct, total, report.Accuracy*100)
	return report
}

// evaluateRow scores a single problem. The record is seeded with the row's
// identity before the model is called so an error always lands on this row.
func (e *Evaluator) evaluateRow(ctx context.Context, tmpl prompt.Template, problem dataset.Problem) Record {
	rec := Record{
		Index:      problem.Index,
		Question:   problem.Question,
		Answer:     problem.Answer,
		TruthValue: parser.ParsePtr(problem.Answer),
	}

	if err := ctx.Err(); err != nil {
		rec.Err = err.Error()
		return rec
	}

	response, err := e.Client.Complete(ctx, tmpl.Render(problem.Question))
	if err != nil {
		rec.Err = err.Error()
		logging.LogError("row %d: model call failed: %v", problem.Index, err)
		return rec
	}

	rec.Response = response
	rec.ModelValue = parser.ParsePtr(response)
	rec.Correct = parser.Equal(rec.TruthValue, rec.ModelValue)
	return rec
}

func (e *Evaluator) progress(i, total int, rec Record) {
	if e.Progress == nil {
		return
	}
	c := passColor
	if !rec.Correct {
		c = failColor
	}
	if rec.Err != "" {
		c.Fprintf(e.Progress, "[%d/%d] ERROR row=%d: %s\n", i, total, rec.Index, util.TruncateRunes(rec.Err, progressResponseRunes))
		return
	}
	c.Fprintf(e.Progress, "[%d/%d] correct=%t model=%s truth=%s\n", i, total, rec.Correct, shown(rec.ModelValue), shown(rec.TruthValue))
}

func shown(v *float64) string {
	if v == nil {
		return "none"
	}
	return parser.Format(v)
}

func (e *Evaluator) printf(c *color.Color, format string, args ...any) {
	if e.Progress == nil {
		return
	}
	_, _ = c.Fprintf(e.Progress, format, args...)
}

// String renders a one-line summary of the report.
func (r Report) String() string {
	return fmt.Sprintf("%s: %d/%d correct (%.2f%%)", r.Description, r.Correct, r.Total, r.Accuracy*100)
}
