// internal/judge/verdict.go
package judge

import (
	"encoding/json"
	"io"
)

// Score identifies the verdict class reported to the grading pipeline.
// The codes form a closed set; the pipeline stores them as-is.
type Score int

const (
	ScoreCompilerError Score = iota + 1
	ScoreTimeLimitExceeded
	ScoreExecutionError
	ScoreWrongAnswer
	ScoreWrongFormatting
	ScoreProgramSuccess
)

// Process exit statuses for the judge itself. A runtime error propagates the
// submission's own exit code instead of ExitFailure.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// Result messages, one per verdict path.
const (
	MsgUnknownLanguage  = "Unable to determine language"
	MsgCompilationError = "Compilation Error"
	MsgExecutionError   = "Execution Error"
	MsgTimeLimit        = "Time Limit Exceeded"
	MsgWrongAnswer      = "Wrong Answer"
	MsgFormatError      = "Output Format Error"
	MsgSuccess          = "Success"
)

// Verdict is the terminal classification of a judged run. Exactly one is
// produced per invocation.
type Verdict struct {
	Result     string `json:"result"`
	Score      Score  `json:"score"`
	ExitStatus int    `json:"-"`
}

// NewVerdict builds a verdict from its three components.
func NewVerdict(result string, exitStatus int, score Score) Verdict {
	return Verdict{Result: result, Score: score, ExitStatus: exitStatus}
}

// Emit writes the verdict as a single JSON object with exactly the two keys
// the grading pipeline consumes.
func (v Verdict) Emit(w io.Writer) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
