// Package course models a course curriculum and flattens it into the
// ordered lesson sequence that lock evaluation and aggregation run on.
package course

// Status indicates whether a course is open for learning.
type Status string

const (
	StatusLive       Status = "live"
	StatusComingSoon Status = "coming-soon"
)

// LessonType classifies a lesson's content.
type LessonType string

const (
	LessonVideo           LessonType = "video"
	LessonGuide           LessonType = "guide"
	LessonQuiz            LessonType = "quiz"
	LessonWorkshop        LessonType = "workshop"
	LessonAssignment      LessonType = "assignment"
	LessonReading         LessonType = "reading"
	LessonFinalAssessment LessonType = "final-assessment"
)

// Lesson is a single learnable unit. Order is local to its container.
type Lesson struct {
	ID       string
	Title    string
	Order    int
	Type     LessonType
	MediaRef string
	QuizID   string
	// Locked is the author-declared intent flag. Computed accessibility
	// lives in the progress package and never reads this field.
	Locked bool
}

// Topic groups lessons inside a topical module.
type Topic struct {
	ID      string
	Title   string
	Order   int
	Lessons []Lesson
}

// Module is one curriculum item. Its body is a tagged variant: a module
// holds topics, or direct lessons, or nothing. The constructors are the
// only way to build one, so "both at once" is unrepresentable.
type Module struct {
	ID    string
	Title string
	Order int
	body  moduleBody
}

type moduleBody interface {
	orderedLessons() []Lesson
}

type topicalBody struct{ topics []Topic }
type directBody struct{ lessons []Lesson }
type emptyBody struct{}

// NewTopicalModule builds a module whose lessons are nested under topics.
func NewTopicalModule(id, title string, order int, topics []Topic) Module {
	return Module{ID: id, Title: title, Order: order, body: topicalBody{topics: topics}}
}

// NewDirectModule builds a module with a flat lesson list.
func NewDirectModule(id, title string, order int, lessons []Lesson) Module {
	return Module{ID: id, Title: title, Order: order, body: directBody{lessons: lessons}}
}

// NewEmptyModule builds a placeholder module that contributes no lessons.
func NewEmptyModule(id, title string, order int) Module {
	return Module{ID: id, Title: title, Order: order, body: emptyBody{}}
}

// Topics returns the nested topics and true for a topical module.
func (m Module) Topics() ([]Topic, bool) {
	b, ok := m.body.(topicalBody)
	return b.topics, ok
}

// DirectLessons returns the flat lesson list and true for a direct module.
func (m Module) DirectLessons() ([]Lesson, bool) {
	b, ok := m.body.(directBody)
	return b.lessons, ok
}

// IsEmpty reports whether the module contributes no lessons.
func (m Module) IsEmpty() bool {
	_, ok := m.body.(emptyBody)
	return ok || m.body == nil
}

// Course is an immutable curriculum as supplied by the catalog. FinalQuizID
// is set when the course carries a course-level final assessment.
type Course struct {
	ID          string
	Slug        string
	Title       string
	Status      Status
	Modules     []Module
	FinalQuizID string
}

// SequenceEntry is one position in the flattened lesson sequence.
type SequenceEntry struct {
	LessonID string
	Position int
	Type     LessonType
	// QuizID is set when passing a quiz gates progression past this lesson.
	QuizID string
}

// Sequence is the flattened, strictly ordered lesson list for one course.
// It is the single source of truth for "previous lesson" relationships.
type Sequence []SequenceEntry

// Position returns the position of a lesson in the sequence.
func (s Sequence) Position(lessonID string) (int, bool) {
	for _, e := range s {
		if e.LessonID == lessonID {
			return e.Position, true
		}
	}
	return 0, false
}

// FinalAssessmentTitle names the synthetic trailing module appended for a
// course-level quiz.
const FinalAssessmentTitle = "Final Assessment"
