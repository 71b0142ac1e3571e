// internal/cli/cli_test.go
package gsmprompt

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwiater/gsmprompt/internal/appconfig"
	"github.com/mwiater/gsmprompt/internal/providerfactory"
	"github.com/mwiater/gsmprompt/internal/providers"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	b := new(bytes.Buffer)
	rootCmd.SetOut(b)
	rootCmd.SetErr(b)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		currentConfig = nil
	})
	err := rootCmd.ExecuteContext(context.Background())
	return b.String(), err
}

func stubSeams(t *testing.T, creds appconfig.Credentials, client providers.Completer) *int {
	t.Helper()
	origCreds, origCompleter := loadCredentials, newCompleter
	t.Cleanup(func() {
		loadCredentials = origCreds
		newCompleter = origCompleter
	})

	built := 0
	loadCredentials = func() (appconfig.Credentials, error) { return creds, nil }
	newCompleter = func(ctx context.Context, cfg appconfig.Config, c appconfig.Credentials, opts ...providerfactory.Option) (providers.Completer, error) {
		built++
		return client, nil
	}
	return &built
}

func writeDataset(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "gsm8k.jsonl")
	lines := []string{
		`{"question": "What is 2+2?", "answer": "2+2=4\n#### 4"}`,
		`{"question": "What is 3+1?", "answer": "3+1=4\n#### 4"}`,
		`{"question": "What is 5+5?", "answer": "5+5=10\n#### 10"}`,
	}
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func TestParseCommand(t *testing.T) {
	out, err := execute(t, "parse", "Result #### $1,234.50", "no answer here")
	require.NoError(t, err)
	assert.Contains(t, out, `"Result #### $1,234.50" -> Parsed: 1234.5`)
	assert.Contains(t, out, `"no answer here" -> Parsed: None`)
}

func TestRunDirectFailsFastWithoutKey(t *testing.T) {
	dir := t.TempDir()
	built := stubSeams(t, appconfig.Credentials{}, nil)

	_, err := execute(t, "run", "direct", "--provider", "gemini", "--dataset", writeDataset(t, dir), "--outputDir", dir)
	require.ErrorIs(t, err, appconfig.ErrMissingAPIKey)
	assert.Equal(t, 0, *built)
	_, statErr := os.Stat(filepath.Join(dir, "direct.csv"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunDirectWritesResults(t *testing.T) {
	dir := t.TempDir()
	client := providers.CompleterFunc(func(ctx context.Context, p string) (string, error) {
		return "#### 4", nil
	})
	stubSeams(t, appconfig.Credentials{GoogleAPIKey: "test-key"}, client)

	out, err := execute(t, "run", "direct",
		"--provider", "gemini",
		"--dataset", writeDataset(t, dir),
		"--sample", "3",
		"--delay=-1",
		"--outputDir", dir,
		"--logFile", filepath.Join(dir, "run.log"),
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Total Correct: 2 / 3")
	assert.Contains(t, out, "Accuracy: 66.67%")

	f, err := os.Open(filepath.Join(dir, "direct.csv"))
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 4)

	_, err = os.Stat(filepath.Join(dir, "direct.json"))
	assert.NoError(t, err)
}

func TestRunOptimizeWritesBestPrompt(t *testing.T) {
	dir := t.TempDir()
	client := providers.CompleterFunc(func(ctx context.Context, p string) (string, error) {
		return "#### 4", nil
	})
	stubSeams(t, appconfig.Credentials{GoogleAPIKey: "test-key"}, client)

	out, err := execute(t, "run", "optimize",
		"--provider", "gemini",
		"--dataset", writeDataset(t, dir),
		"--dev", "1",
		"--test", "2",
		"--generations", "1",
		"--delay=-1",
		"--outputDir", dir,
		"--logFile", filepath.Join(dir, "run.log"),
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Final Test (held-out)")

	best, err := os.ReadFile(filepath.Join(dir, "best_prompt.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(best), "{question}")

	_, err = os.Stat(filepath.Join(dir, "optimize.csv"))
	assert.NoError(t, err)
}

func TestShowConfigRedactsKey(t *testing.T) {
	stubSeams(t, appconfig.Credentials{GoogleAPIKey: "AIzaSECRETSECRET1234"}, nil)

	out, err := execute(t, "show", "config", "--provider", "ollama", "--model", "llama3.2")
	require.NoError(t, err)
	assert.Contains(t, out, "Provider:        ollama")
	assert.Contains(t, out, "Model:           llama3.2")
	assert.NotContains(t, out, "AIzaSECRETSECRET1234")
}

func TestRunOptimizeStartsFromNamedBaseline(t *testing.T) {
	dir := t.TempDir()
	var prompts []string
	client := providers.CompleterFunc(func(ctx context.Context, p string) (string, error) {
		prompts = append(prompts, p)
		return "#### 4", nil
	})
	stubSeams(t, appconfig.Credentials{GoogleAPIKey: "test-key"}, client)
	t.Cleanup(func() { _ = runOptimizeCmd.Flags().Set("baseline", "cot") })

	_, err := execute(t, "run", "optimize",
		"--provider", "gemini",
		"--dataset", writeDataset(t, dir),
		"--baseline", "direct",
		"--dev", "1",
		"--test", "1",
		"--generations", "1",
		"--delay=-1",
		"--outputDir", dir,
		"--logFile", filepath.Join(dir, "run.log"),
	)
	require.NoError(t, err)
	require.NotEmpty(t, prompts)
	assert.Contains(t, prompts[0], "Do not show your work.")
}

func TestRunOptimizeRejectsUnknownBaseline(t *testing.T) {
	built := stubSeams(t, appconfig.Credentials{GoogleAPIKey: "test-key"}, nil)
	t.Cleanup(func() { _ = runOptimizeCmd.Flags().Set("baseline", "cot") })

	_, err := execute(t, "run", "optimize", "--baseline", "fewshot", "--delay=-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown baseline prompt")
	assert.Equal(t, 0, *built)
}

func TestShowConfigChecksStandaloneFile(t *testing.T) {
	stubSeams(t, appconfig.Credentials{}, nil)
	t.Cleanup(func() { _ = showConfigCmd.Flags().Set("file", "") })

	path := filepath.Join(t.TempDir(), "candidate.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"provider": "ollama", "model": "qwen3:4b", "generations": 2}`), 0o644))

	out, err := execute(t, "show", "config", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Config file: "+path)
	assert.Contains(t, out, "Model:           qwen3:4b")
	assert.Contains(t, out, "Generations:     2")

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"provider": "openai"}`), 0o644))
	_, err = execute(t, "show", "config", "--file", bad)
	require.Error(t, err)
}
