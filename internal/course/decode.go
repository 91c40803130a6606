package course

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// courseSchema validates raw course payloads from the fetch collaborator
// before normalization. Modules may carry topics, direct lessons, or
// neither; the normalizer resolves the shape.
const courseSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["id", "title", "modules"],
	"properties": {
		"id": {"type": "string", "minLength": 1},
		"slug": {"type": "string"},
		"title": {"type": "string", "minLength": 1},
		"status": {"enum": ["live", "coming-soon"]},
		"final_quiz_id": {"type": "string"},
		"modules": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id", "title"],
				"properties": {
					"id": {"type": "string", "minLength": 1},
					"title": {"type": "string"},
					"order": {"type": "integer"},
					"topics": {"type": "array", "items": {"$ref": "#/definitions/topic"}},
					"lessons": {"type": "array", "items": {"$ref": "#/definitions/lesson"}}
				}
			}
		}
	},
	"definitions": {
		"topic": {
			"type": "object",
			"required": ["id", "title"],
			"properties": {
				"id": {"type": "string", "minLength": 1},
				"title": {"type": "string"},
				"order": {"type": "integer"},
				"lessons": {"type": "array", "items": {"$ref": "#/definitions/lesson"}}
			}
		},
		"lesson": {
			"type": "object",
			"required": ["id", "title", "type"],
			"properties": {
				"id": {"type": "string", "minLength": 1},
				"title": {"type": "string"},
				"order": {"type": "integer"},
				"type": {"enum": ["video", "guide", "quiz", "workshop", "assignment", "reading", "final-assessment"]},
				"media_ref": {"type": "string"},
				"quiz_id": {"type": "string"},
				"is_locked": {"type": "boolean"}
			}
		}
	}
}`

var courseSchemaLoader = gojsonschema.NewStringLoader(courseSchema)

// rawCourse mirrors the irregular wire/catalog shape. Both JSON payloads and
// YAML catalog files decode into it; Normalize resolves the module variants.
type rawCourse struct {
	ID          string      `json:"id" yaml:"id"`
	Slug        string      `json:"slug" yaml:"slug"`
	Title       string      `json:"title" yaml:"title"`
	Status      string      `json:"status" yaml:"status"`
	FinalQuizID string      `json:"final_quiz_id" yaml:"final_quiz_id"`
	Modules     []rawModule `json:"modules" yaml:"modules"`
}

type rawModule struct {
	ID      string      `json:"id" yaml:"id"`
	Title   string      `json:"title" yaml:"title"`
	Order   int         `json:"order" yaml:"order"`
	Topics  []rawTopic  `json:"topics" yaml:"topics"`
	Lessons []rawLesson `json:"lessons" yaml:"lessons"`
}

type rawTopic struct {
	ID      string      `json:"id" yaml:"id"`
	Title   string      `json:"title" yaml:"title"`
	Order   int         `json:"order" yaml:"order"`
	Lessons []rawLesson `json:"lessons" yaml:"lessons"`
}

type rawLesson struct {
	ID       string `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	Order    int    `json:"order" yaml:"order"`
	Type     string `json:"type" yaml:"type"`
	MediaRef string `json:"media_ref" yaml:"media_ref"`
	QuizID   string `json:"quiz_id" yaml:"quiz_id"`
	Locked   bool   `json:"is_locked" yaml:"is_locked"`
}

// DecodeCourse validates and normalizes a JSON course payload.
func DecodeCourse(data []byte) (Course, error) {
	result, err := gojsonschema.Validate(courseSchemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return Course{}, fmt.Errorf("validate course payload: %w", err)
	}
	if !result.Valid() {
		return Course{}, fmt.Errorf("invalid course payload: %s", schemaErrors(result))
	}

	var raw rawCourse
	if err := json.Unmarshal(data, &raw); err != nil {
		return Course{}, fmt.Errorf("decode course payload: %w", err)
	}

	return raw.normalize(), nil
}

func (r rawCourse) normalize() Course {
	c := Course{
		ID:          r.ID,
		Slug:        r.Slug,
		Title:       r.Title,
		Status:      Status(r.Status),
		FinalQuizID: r.FinalQuizID,
	}
	if c.Slug == "" {
		c.Slug = Slugify(r.Title)
	}
	if c.Status == "" {
		c.Status = StatusLive
	}

	for _, m := range r.Modules {
		c.Modules = append(c.Modules, m.normalize(c.Slug))
	}
	return c
}

// normalize resolves the module variant. Topics win over direct lessons
// when a payload carries both, so lessons are never double counted.
func (m rawModule) normalize(courseSlug string) Module {
	switch {
	case len(m.Topics) > 0:
		if len(m.Lessons) > 0 {
			slog.Warn("module has both topics and direct lessons, keeping topics",
				"course", courseSlug,
				"module", m.ID,
			)
		}
		topics := make([]Topic, 0, len(m.Topics))
		for _, t := range m.Topics {
			topics = append(topics, Topic{
				ID:      t.ID,
				Title:   t.Title,
				Order:   t.Order,
				Lessons: normalizeLessons(t.Lessons),
			})
		}
		return NewTopicalModule(m.ID, m.Title, m.Order, topics)
	case len(m.Lessons) > 0:
		return NewDirectModule(m.ID, m.Title, m.Order, normalizeLessons(m.Lessons))
	default:
		return NewEmptyModule(m.ID, m.Title, m.Order)
	}
}

func normalizeLessons(raw []rawLesson) []Lesson {
	out := make([]Lesson, 0, len(raw))
	for _, l := range raw {
		out = append(out, Lesson{
			ID:       l.ID,
			Title:    l.Title,
			Order:    l.Order,
			Type:     LessonType(l.Type),
			MediaRef: l.MediaRef,
			QuizID:   l.QuizID,
			Locked:   l.Locked,
		})
	}
	return out
}

func schemaErrors(result *gojsonschema.Result) string {
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return strings.Join(msgs, "; ")
}
