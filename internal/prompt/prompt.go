// Package prompt holds the question templates sent to the model.
package prompt

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Placeholder is the single substitution slot a template must contain.
const Placeholder = "{question}"

// ErrMissingPlaceholder is returned for template text without Placeholder.
var ErrMissingPlaceholder = errors.New("prompt template has no " + Placeholder + " placeholder")

// Template is prompt text with a question slot.
type Template struct {
	Name string
	Text string
}

// New validates text and returns a Template.
func New(name, text string) (Template, error) {
	if !strings.Contains(text, Placeholder) {
		return Template{}, fmt.Errorf("template %q: %w", name, ErrMissingPlaceholder)
	}
	return Template{Name: name, Text: text}, nil
}

// Render substitutes the question into the template. Nothing else in the
// text is changed, so braces elsewhere in the prompt survive untouched.
func (t Template) Render(question string) string {
	return strings.ReplaceAll(t.Text, Placeholder, question)
}

// LoadFile reads a template from a plain text file.
func LoadFile(path string) (Template, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Template{}, fmt.Errorf("read prompt file: %w", err)
	}
	return New(path, string(raw))
}
