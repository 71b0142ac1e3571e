package evaluator

import "github.com/mwiater/gsmprompt/internal/dataset"

// Record is the outcome of one problem. Records are built once per row and
// never modified afterwards.
type Record struct {
	Index      int      `json:"index"`
	Question   string   `json:"question"`
	Answer     string   `json:"answer"`
	Response   string   `json:"llm_answer"`
	ModelValue *float64 `json:"model_parsed"`
	TruthValue *float64 `json:"correct_parsed"`
	Correct    bool     `json:"is_correct"`
	Err        string   `json:"error,omitempty"`
}

// Problem returns the benchmark row the record was produced from.
func (r Record) Problem() dataset.Problem {
	return dataset.Problem{Index: r.Index, Question: r.Question, Answer: r.Answer}
}

// Report summarizes one evaluation pass.
type Report struct {
	Description string
	Records     []Record
	Failures    []Record
	Accuracy    float64
	Correct     int
	Total       int
}

// FailureSet returns the failed rows, in original order, as a sample set.
func (r Report) FailureSet() dataset.SampleSet {
	return FailureSet(r.Failures)
}

// FailureSet turns records back into the problems they were scored on so
// they can be re-evaluated with another prompt.
func FailureSet(records []Record) dataset.SampleSet {
	problems := make([]dataset.Problem, 0, len(records))
	for _, rec := range records {
		problems = append(problems, rec.Problem())
	}
	return dataset.SampleSet{Problems: problems}
}
