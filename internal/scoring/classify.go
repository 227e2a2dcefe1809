package scoring

import "github.com/dotcommander/scorecard/internal/quiz"

// ClassifyBand returns the first band whose inclusive range contains score,
// or fallback when none does.
func ClassifyBand(score int, bands []quiz.Band, fallback quiz.Band) quiz.Band {
	for _, b := range bands {
		if b.Contains(score) {
			return b
		}
	}
	return fallback
}

// ResolveSegment maps the answer given to the segment question to a segment.
//
// fallback is returned when there is no segment question, when it is
// unanswered, when no option carries the answered score, or when the matching
// option has no segment tag.
func ResolveSegment(question *quiz.Question, answers quiz.Answers, fallback quiz.Segment) quiz.Segment {
	if question == nil {
		return fallback
	}
	score, answered := answers[question.ID]
	if !answered {
		return fallback
	}
	opt, ok := question.OptionForScore(score)
	if !ok || opt.Segment == "" {
		return fallback
	}
	return opt.Segment
}
