package quiz

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// quizSchema validates raw quiz payloads from the fetch collaborator.
const quizSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["id", "questions"],
	"properties": {
		"id": {"type": "string", "minLength": 1},
		"questions": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["question", "options", "correct_answer"],
				"properties": {
					"question": {"type": "string", "minLength": 1},
					"options": {
						"type": "array",
						"minItems": 2,
						"items": {"type": "string"}
					},
					"correct_answer": {"type": "integer", "minimum": 0},
					"explanation": {"type": "string"}
				}
			}
		}
	}
}`

var quizSchemaLoader = gojsonschema.NewStringLoader(quizSchema)

type rawQuiz struct {
	ID        string        `json:"id"`
	Questions []rawQuestion `json:"questions"`
}

type rawQuestion struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Correct     int      `json:"correct_answer"`
	Explanation string   `json:"explanation"`
}

// DecodeQuiz validates and normalizes a JSON quiz payload. The schema
// cannot relate the answer index to the option count, so that check
// happens here.
func DecodeQuiz(data []byte) (Quiz, error) {
	result, err := gojsonschema.Validate(quizSchemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return Quiz{}, fmt.Errorf("validate quiz payload: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return Quiz{}, fmt.Errorf("invalid quiz payload: %s", strings.Join(msgs, "; "))
	}

	var raw rawQuiz
	if err := json.Unmarshal(data, &raw); err != nil {
		return Quiz{}, fmt.Errorf("decode quiz payload: %w", err)
	}

	q := Quiz{ID: raw.ID}
	for i, rq := range raw.Questions {
		if rq.Correct >= len(rq.Options) {
			return Quiz{}, fmt.Errorf("question %d: correct_answer %d out of range for %d options",
				i, rq.Correct, len(rq.Options))
		}
		q.Questions = append(q.Questions, Question{
			Prompt:      rq.Question,
			Options:     rq.Options,
			Correct:     rq.Correct,
			Explanation: rq.Explanation,
		})
	}

	return q, nil
}
