package optimizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mwiater/gsmprompt/internal/dataset"
	"github.com/mwiater/gsmprompt/internal/prompt"
	"github.com/mwiater/gsmprompt/internal/providers/mocks"
)

// scriptedModel answers question prompts of the form "<MODE> <question>"
// according to solves, and answers meta-prompts from mutations in order.
type scriptedModel struct {
	solves    map[string]map[string]bool
	truths    map[string]string
	mutations []string
	metaCalls int
}

func (m *scriptedModel) Complete(ctx context.Context, p string) (string, error) {
	if strings.Contains(p, "expert prompt engineer") {
		if m.metaCalls >= len(m.mutations) {
			return "", errors.New("no more scripted mutations")
		}
		reply := m.mutations[m.metaCalls]
		m.metaCalls++
		if reply == "!transport" {
			return "", errors.New("503 service unavailable")
		}
		return reply, nil
	}
	mode, question, _ := strings.Cut(p, " ")
	if m.solves[mode][question] {
		return "#### " + m.truths[question], nil
	}
	return "#### 999", nil
}

func (m *scriptedModel) Close() error { return nil }

func revisionReply(t *testing.T, text string) string {
	t.Helper()
	raw, err := json.Marshal(Revision{NewPrompt: text})
	require.NoError(t, err)
	return "```json\n" + string(raw) + "\n```"
}

func devSet() dataset.SampleSet {
	return dataset.SampleSet{Seed: 32, Problems: []dataset.Problem{
		{Index: 0, Question: "q1", Answer: "#### 1"},
		{Index: 1, Question: "q2", Answer: "#### 2"},
		{Index: 2, Question: "q3", Answer: "#### 3"},
	}}
}

func newModel(mutations ...string) *scriptedModel {
	return &scriptedModel{
		solves: map[string]map[string]bool{
			"BASE": {"q1": true},
			"HELD": {"q2": true},
			"NOPE": {"q2": true},
			"GOOD": {"q1": true, "q2": true, "q3": true},
		},
		truths:    map[string]string{"q1": "1", "q2": "2", "q3": "3"},
		mutations: mutations,
	}
}

func TestRunWalksEveryTransition(t *testing.T) {
	model := newModel(
		revisionReply(t, "HELD {question}"),
		"sorry, I cannot produce JSON today",
		revisionReply(t, "NOPE {question}"),
		revisionReply(t, "GOOD {question}"),
	)
	base, err := prompt.New("base", "BASE {question}")
	require.NoError(t, err)

	var out bytes.Buffer
	opt := New(model, 6, &out)
	res, err := opt.Run(context.Background(), base, devSet())
	require.NoError(t, err)

	assert.InDelta(t, 1.0/3, res.Initial.Accuracy, 1e-9)

	actions := make([]Action, 0, len(res.Generations))
	for _, g := range res.Generations {
		actions = append(actions, g.Action)
	}
	assert.Equal(t, []Action{ActionHeld, ActionSkipped, ActionDiscarded, ActionPromoted, ActionStopped}, actions)

	held := res.Generations[0]
	assert.False(t, held.Promoted)
	assert.InDelta(t, 0.5, held.TargetedAccuracy, 1e-9)
	assert.InDelta(t, 1.0/3, held.FullAccuracy, 1e-9)
	assert.InDelta(t, 1.0/3, held.BestScore, 1e-9)
	assert.Equal(t, 2, held.Failures)

	promoted := res.Generations[3]
	assert.True(t, promoted.Promoted)
	assert.Equal(t, 1.0, promoted.FullAccuracy)

	assert.Equal(t, "GOOD {question}", res.Best.BestPrompt.Text)
	assert.Equal(t, 1.0, res.Best.BestScore)
	assert.Empty(t, res.Best.Failures)
	assert.Equal(t, 4, model.metaCalls)
	assert.Contains(t, out.String(), "IMPROVEMENT FOUND!")
	assert.Contains(t, out.String(), "No failures found. Ending optimization early.")
}

func TestRunHeldCandidateStillRefreshesFailures(t *testing.T) {
	model := newModel(revisionReply(t, "HELD {question}"))
	base, err := prompt.New("base", "BASE {question}")
	require.NoError(t, err)

	res, err := New(model, 1, nil).Run(context.Background(), base, devSet())
	require.NoError(t, err)

	require.Len(t, res.Generations, 1)
	assert.Equal(t, ActionHeld, res.Generations[0].Action)
	assert.Equal(t, "BASE {question}", res.Best.BestPrompt.Text)

	var indices []int
	for _, f := range res.Best.Failures {
		indices = append(indices, f.Index)
	}
	assert.Equal(t, []int{0, 2}, indices)
}

func TestRunBestScoreNeverDecreases(t *testing.T) {
	model := newModel(
		revisionReply(t, "GOOD {question}"),
		revisionReply(t, "HELD {question}"),
	)
	model.solves["GOOD"] = map[string]bool{"q1": true, "q2": true}
	base, err := prompt.New("base", "BASE {question}")
	require.NoError(t, err)

	res, err := New(model, 5, nil).Run(context.Background(), base, devSet())
	require.NoError(t, err)

	prev := res.Initial.Accuracy
	for _, g := range res.Generations {
		assert.GreaterOrEqual(t, g.BestScore, prev, "generation %d", g.Number)
		prev = g.BestScore
	}
	assert.Equal(t, "GOOD {question}", res.Best.BestPrompt.Text)
}

func TestRunSkipsUnusableRevisions(t *testing.T) {
	model := newModel(
		"!transport",
		revisionReply(t, "a prompt with no slot"),
		`{"new_prompt": ""}`,
	)
	base, err := prompt.New("base", "BASE {question}")
	require.NoError(t, err)

	res, err := New(model, 3, nil).Run(context.Background(), base, devSet())
	require.NoError(t, err)

	require.Len(t, res.Generations, 3)
	for _, g := range res.Generations {
		assert.Equal(t, ActionSkipped, g.Action)
		assert.NotEmpty(t, g.Reason)
	}
	assert.Equal(t, base, res.Best.BestPrompt)
	assert.Len(t, res.Best.Failures, 2)
}

func TestRunEmptyDevSetStopsWithoutMutating(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockCompleter(ctrl)

	res, err := New(client, 5, nil).Run(context.Background(), prompt.ChainOfThought, dataset.SampleSet{})
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Best.BestScore)
	require.Len(t, res.Generations, 1)
	assert.Equal(t, ActionStopped, res.Generations[0].Action)
}

func TestRunReturnsContextError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ctrl := gomock.NewController(t)
	client := mocks.NewMockCompleter(ctrl)

	_, err := New(client, 5, nil).Run(ctx, prompt.ChainOfThought, devSet())
	require.ErrorIs(t, err, context.Canceled)
}
