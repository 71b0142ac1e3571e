package optimizer

import (
	"strings"
	"text/template"

	"github.com/mwiater/gsmprompt/internal/evaluator"
	"github.com/mwiater/gsmprompt/internal/prompt"
)

var failureReportTmpl = template.Must(template.New("failures").Parse(
	`{{range $i, $r := .}}{{if $i}}
{{end}}[row {{$r.Index}}]
question: {{$r.Question}}
answer: {{$r.Answer}}
llm_answer: {{if $r.Err}}(error: {{$r.Err}}){{else}}{{$r.Response}}{{end}}
{{end}}`))

const metaPromptText = `You are an expert prompt engineer. Your task is to analyze failed math problems and rewrite a prompt to fix them.

--- FAILURE ANALYSIS REPORT ---
{{.Report}}
--- END REPORT ---

Based on your analysis of the ` + "`llm_answer`" + ` column in the report, rewrite the Original Prompt to prevent these specific errors.
The rewritten prompt must keep the literal placeholder {{.Placeholder}} where the question goes, and must still ask for the final numerical answer on its own line prefixed with "####".
Your output MUST be a JSON object that follows the specified format.

{{.Instructions}}

Original Prompt:
---
{{.Original}}
---
`

var metaPromptTmpl = template.Must(template.New("meta").Parse(metaPromptText))

// FailureReport lists the question, ground truth and model reply of every
// record.
func FailureReport(records []evaluator.Record) string {
	var b strings.Builder
	if err := failureReportTmpl.Execute(&b, records); err != nil {
		panic(err)
	}
	return b.String()
}

// MetaPrompt asks the model for a revised prompt that fixes the failures in
// report.
func MetaPrompt(report, original, instructions string) string {
	var b strings.Builder
	data := struct {
		Report, Original, Instructions, Placeholder string
	}{report, original, instructions, prompt.Placeholder}
	if err := metaPromptTmpl.Execute(&b, data); err != nil {
		panic(err)
	}
	return b.String()
}
