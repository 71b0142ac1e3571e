package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSubstitutesOnlyThePlaceholder(t *testing.T) {
	tmpl, err := New("custom", "Use {braces} freely.\nQuestion: {question}\nAgain: {question}")
	require.NoError(t, err)

	got := tmpl.Render("What is {2+2}?")
	assert.Equal(t, "Use {braces} freely.\nQuestion: What is {2+2}?\nAgain: What is {2+2}?", got)
}

func TestNewRejectsMissingPlaceholder(t *testing.T) {
	_, err := New("broken", "Solve it. Question: {q}")
	require.ErrorIs(t, err, ErrMissingPlaceholder)
}

func TestBaselines(t *testing.T) {
	for _, name := range []string{"direct", "cot"} {
		tmpl, err := Baseline(name)
		require.NoError(t, err)
		assert.Contains(t, tmpl.Text, Placeholder)
		assert.Contains(t, tmpl.Text, "####")
	}

	rendered := ChainOfThought.Render("How many legs do 3 spiders have?")
	assert.True(t, strings.Contains(rendered, "Question: How many legs do 3 spiders have?\nAnswer: Let's think step by step."))
	assert.NotContains(t, Direct.Render("x"), Placeholder)

	_, err := Baseline("fewshot")
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "best_prompt.txt")
	require.NoError(t, os.WriteFile(path, []byte("Q: {question}\nA:"), 0o644))

	tmpl, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Q: 7*6?\nA:", tmpl.Render("7*6?"))

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
}
