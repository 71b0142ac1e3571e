// Package optimizer improves a prompt template by asking the model to
// rewrite it against the rows it currently gets wrong.
//
// Each generation proposes one candidate, pre-screens it on the known
// failures, and only then runs it over the whole dev set. A candidate
// replaces the best prompt only when it scores strictly higher, but its
// failures always become the next generation's input, promoted or not, so
// the search keeps following the newest error signal.
package optimizer

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/mwiater/gsmprompt/internal/dataset"
	"github.com/mwiater/gsmprompt/internal/evaluator"
	"github.com/mwiater/gsmprompt/internal/logging"
	"github.com/mwiater/gsmprompt/internal/prompt"
	"github.com/mwiater/gsmprompt/internal/providers"
)

// DefaultGenerations is used when Optimizer.Generations is zero.
const DefaultGenerations = 5

// Action is what a generation did with its candidate.
type Action string

const (
	ActionSkipped   Action = "skipped"
	ActionDiscarded Action = "discarded"
	ActionPromoted  Action = "promoted"
	ActionHeld      Action = "held"
	ActionStopped   Action = "stopped"
)

// State is threaded through the generations.
type State struct {
	BestPrompt prompt.Template
	BestScore  float64
	Failures   []evaluator.Record
}

// GenerationOutcome records one generation.
type GenerationOutcome struct {
	Number           int     `json:"generation"`
	Action           Action  `json:"action"`
	TargetedAccuracy float64 `json:"targetedAccuracy"`
	FullAccuracy     float64 `json:"fullAccuracy"`
	Promoted         bool    `json:"promoted"`
	BestScore        float64 `json:"bestScore"`
	Failures         int     `json:"failures"`
	Candidate        string  `json:"candidate,omitempty"`
	Reason           string  `json:"reason,omitempty"`
}

// Result is the state after the last generation.
type Result struct {
	Initial     evaluator.Report
	Best        State
	Generations []GenerationOutcome
}

// Optimizer runs the mutation loop. Client answers the meta-prompt;
// Evaluator scores candidates.
type Optimizer struct {
	Client      providers.Completer
	Evaluator   *evaluator.Evaluator
	Generations int
	Out         io.Writer
}

// New returns an Optimizer that scores candidates with the same client it
// asks for revisions.
func New(client providers.Completer, generations int, out io.Writer) *Optimizer {
	return &Optimizer{
		Client:      client,
		Evaluator:   evaluator.New(client, out),
		Generations: generations,
		Out:         out,
	}
}

// Run evaluates initial on devSet and then runs the configured number of
// generations, stopping early once no failures remain. Malformed revisions
// and failed mutation calls skip a generation. Run only returns an error
// when ctx is cancelled; the result then holds every completed generation.
func (o *Optimizer) Run(ctx context.Context, initial prompt.Template, devSet dataset.SampleSet) (Result, error) {
	eval := o.Evaluator
	if eval == nil {
		eval = evaluator.New(o.Client, o.Out)
	}
	generations := o.Generations
	if generations <= 0 {
		generations = DefaultGenerations
	}

	report := eval.Evaluate(ctx, initial, devSet, "Full Initial Evaluation")
	result := Result{Initial: report}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	state := State{BestPrompt: initial, BestScore: report.Accuracy, Failures: report.Failures}
	result.Best = state
	o.printf(nil, "Generation 0 | Initial Score: %.2f%% | Failures: %d\n", state.BestScore*100, len(state.Failures))

	for gen := 1; gen <= generations; gen++ {
		o.printf(nil, "\n--- Starting Generation %d/%d ---\n", gen, generations)

		outcome, next, err := o.generation(ctx, eval, gen, state, devSet)
		if err != nil {
			return result, err
		}
		state = next
		outcome.BestScore = state.BestScore
		outcome.Failures = len(state.Failures)
		result.Best = state
		result.Generations = append(result.Generations, outcome)
		logging.LogEvent("generation %d: %s (targeted=%.4f full=%.4f best=%.4f failures=%d)",
			gen, outcome.Action, outcome.TargetedAccuracy, outcome.FullAccuracy, outcome.BestScore, outcome.Failures)

		if outcome.Action == ActionStopped {
			break
		}
	}
	return result, nil
}

// generation runs one propose, pre-screen, regress, promote-or-hold cycle
// and returns the state for the next generation. state is never modified
// when err is non-nil.
func (o *Optimizer) generation(ctx context.Context, eval *evaluator.Evaluator, gen int, state State, devSet dataset.SampleSet) (GenerationOutcome, State, error) {
	outcome := GenerationOutcome{Number: gen}

	if len(state.Failures) == 0 {
		o.printf(nil, "No failures found. Ending optimization early.\n")
		outcome.Action = ActionStopped
		return outcome, state, nil
	}

	candidate, reason := o.propose(ctx, gen, state)
	if err := ctx.Err(); err != nil {
		return outcome, state, err
	}
	if reason != "" {
		o.printf(color.New(color.FgYellow), "ERROR: %s. Skipping this generation.\n", reason)
		outcome.Action = ActionSkipped
		outcome.Reason = reason
		return outcome, state, nil
	}
	outcome.Candidate = candidate.Text

	o.printf(nil, "Pre-screening new prompt on %d known failures...\n", len(state.Failures))
	targeted := eval.Evaluate(ctx, candidate, evaluator.FailureSet(state.Failures), "Targeted Re-Test")
	if err := ctx.Err(); err != nil {
		return outcome, state, err
	}
	outcome.TargetedAccuracy = targeted.Accuracy
	if targeted.Correct == 0 {
		o.printf(nil, "Candidate failed to fix any known issues. Discarding.\n")
		outcome.Action = ActionDiscarded
		return outcome, state, nil
	}
	o.printf(nil, "Candidate fixed %.2f%% of failures. Promoting to full regression test.\n", targeted.Accuracy*100)

	full := eval.Evaluate(ctx, candidate, devSet, "Full Regression Test")
	if err := ctx.Err(); err != nil {
		return outcome, state, err
	}
	outcome.FullAccuracy = full.Accuracy

	next := state
	next.Failures = full.Failures
	if full.Accuracy > state.BestScore {
		o.printf(color.New(color.FgGreen, color.Bold), "IMPROVEMENT FOUND! New Score: %.2f%% | Old Score: %.2f%%\n", full.Accuracy*100, state.BestScore*100)
		next.BestPrompt = candidate
		next.BestScore = full.Accuracy
		outcome.Action = ActionPromoted
		outcome.Promoted = true
		return outcome, next, nil
	}
	o.printf(nil, "No improvement in full test (%.2f%%). Using new failure data to guide next generation.\n", full.Accuracy*100)
	outcome.Action = ActionHeld
	return outcome, next, nil
}

// propose asks the model for a revised prompt. A non-empty reason means no
// usable candidate was produced.
func (o *Optimizer) propose(ctx context.Context, gen int, state State) (prompt.Template, string) {
	meta := MetaPrompt(FailureReport(state.Failures), state.BestPrompt.Text, FormatInstructions())

	o.printf(nil, "Asking LLM to generate an improved prompt in a structured format...\n")
	reply, err := o.Client.Complete(ctx, meta)
	if err != nil {
		logging.LogError("generation %d: mutation call failed: %v", gen, err)
		return prompt.Template{}, fmt.Sprintf("mutation call failed: %v", err)
	}

	rev, err := ParseRevision(reply)
	if err != nil {
		logging.LogError("generation %d: %v", gen, err)
		return prompt.Template{}, fmt.Sprintf("could not parse LLM output: %v", err)
	}

	candidate, err := prompt.New(fmt.Sprintf("generation-%d", gen), rev.NewPrompt)
	if err != nil {
		logging.LogError("generation %d: %v", gen, err)
		return prompt.Template{}, fmt.Sprintf("could not use revised prompt: %v", err)
	}
	o.printf(nil, "Successfully parsed new candidate prompt.\n")
	return candidate, ""
}

func (o *Optimizer) printf(c *color.Color, format string, args ...any) {
	if o.Out == nil {
		return
	}
	if c == nil {
		fmt.Fprintf(o.Out, format, args...)
		return
	}
	c.Fprintf(o.Out, format, args...)
}
