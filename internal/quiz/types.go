// Package quiz implements the question-by-question assessment wizard that
// gates lesson progression.
package quiz

// PassThreshold is the score percentage required for a passing verdict.
// It applies uniformly to lesson quizzes and course-level final assessments.
const PassThreshold = 80

// Quiz is an immutable quiz definition.
type Quiz struct {
	ID        string
	Questions []Question
}

// Question is one prompt with a fixed set of options.
type Question struct {
	Prompt      string
	Options     []string
	Correct     int // index into Options
	Explanation string
}

// Result is the outcome of a completed quiz run.
type Result struct {
	Score  int
	Total  int
	Passed bool
}

// Percent returns the result score as a 0-100 percentage.
func (r Result) Percent() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Score) / float64(r.Total) * 100
}

func passes(score, total int) bool {
	if total == 0 {
		return false
	}
	return float64(score)/float64(total)*100 >= PassThreshold
}
