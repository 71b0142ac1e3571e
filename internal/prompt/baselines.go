package prompt

import "fmt"

const directText = `Read the following math question.
Your task is to provide *only* the final numerical answer.
Do not show your work. Do not use any text, units, or LaTeX.
Format your answer on a single line, starting with the "####" prefix.

Question: {question}
Final Answer: `

const chainOfThoughtText = `You are a helpful math assistant.
1. Solve the following question by showing your reasoning step-by-step.
2. After all your reasoning, provide the final numerical answer on a *new line*, prefixed with "####".
Question: {question}
Answer: Let's think step by step.
`

var (
	// Direct asks for the bare delimited answer with no working shown.
	Direct = Template{Name: "direct", Text: directText}
	// ChainOfThought asks for step-by-step reasoning before the delimited answer.
	ChainOfThought = Template{Name: "cot", Text: chainOfThoughtText}
)

// Baseline returns a built-in template by name.
func Baseline(name string) (Template, error) {
	switch name {
	case Direct.Name:
		return Direct, nil
	case ChainOfThought.Name:
		return ChainOfThought, nil
	default:
		return Template{}, fmt.Errorf("unknown baseline prompt %q (want %q or %q)", name, Direct.Name, ChainOfThought.Name)
	}
}
