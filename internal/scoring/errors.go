package scoring

import "fmt"

// UnknownQuestionError reports an answer keyed by an ID the catalog does not know.
type UnknownQuestionError struct {
	QuestionID string
}

func (e *UnknownQuestionError) Error() string {
	return fmt.Sprintf("unknown question %q", e.QuestionID)
}

// InvalidScoreError reports an answer whose score matches none of the question's options.
type InvalidScoreError struct {
	QuestionID string
	Score      int
	Allowed    []int
}

func (e *InvalidScoreError) Error() string {
	return fmt.Sprintf("question %q: score %d is not one of %v", e.QuestionID, e.Score, e.Allowed)
}
