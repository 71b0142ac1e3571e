package optimizer

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/xeipuuv/gojsonschema"
)

// ErrMalformedRevision is returned when the model's reply to the meta-prompt
// does not hold a usable revision.
var ErrMalformedRevision = errors.New("malformed prompt revision")

// Revision is the single structured field the model must return.
type Revision struct {
	NewPrompt string `json:"new_prompt" jsonschema:"description=The complete raw text of the new improved prompt." validate:"required"`
}

var (
	fencedJSON = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*)```")
	validate   = validator.New()

	schemaOnce     sync.Once
	compiledSchema *gojsonschema.Schema
	schemaErr      error
)

// Schema returns the JSON schema a Revision reply must satisfy.
func Schema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		Anonymous:                 true,
		DoNotReference:            true,
		ExpandedStruct:            true,
		AllowAdditionalProperties: true,
	}
	s := r.Reflect(&Revision{})
	s.Version = ""
	return s
}

// FormatInstructions tells the model how to shape its reply. It is injected
// verbatim into the meta-prompt.
func FormatInstructions() string {
	raw, err := json.MarshalIndent(Schema(), "", "  ")
	if err != nil {
		panic(err)
	}
	return "The output should be a markdown code snippet containing a JSON object that conforms to the JSON schema below, " +
		"including the leading and trailing \"```json\" and \"```\":\n\n```json\n" + string(raw) + "\n```"
}

// ParseRevision extracts a Revision from a model reply. The JSON object may
// be fenced or embedded in surrounding prose. All errors wrap
// ErrMalformedRevision.
func ParseRevision(text string) (Revision, error) {
	doc := extractJSON(text)
	if doc == "" {
		return Revision{}, fmt.Errorf("%w: no JSON object in reply", ErrMalformedRevision)
	}

	schema, err := revisionSchema()
	if err != nil {
		return Revision{}, err
	}
	result, err := schema.Validate(gojsonschema.NewStringLoader(doc))
	if err != nil {
		return Revision{}, fmt.Errorf("%w: %v", ErrMalformedRevision, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return Revision{}, fmt.Errorf("%w: %s", ErrMalformedRevision, strings.Join(msgs, "; "))
	}

	var rev Revision
	if err := json.Unmarshal([]byte(doc), &rev); err != nil {
		return Revision{}, fmt.Errorf("%w: %v", ErrMalformedRevision, err)
	}
	rev.NewPrompt = strings.TrimSpace(rev.NewPrompt)
	if err := validate.Struct(rev); err != nil {
		return Revision{}, fmt.Errorf("%w: %v", ErrMalformedRevision, err)
	}
	return rev, nil
}

func revisionSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		raw, err := json.Marshal(Schema())
		if err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	})
	return compiledSchema, schemaErr
}

// extractJSON prefers the span from the first '{' to the last '}' when it is
// valid JSON, so fences quoted inside the prompt text survive. Otherwise it
// looks inside the outermost fenced block.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if doc := braceSpan(text); doc != "" && json.Valid([]byte(doc)) {
		return doc
	}
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		return braceSpan(m[1])
	}
	return braceSpan(text)
}

func braceSpan(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return ""
	}
	return text[start : end+1]
}
