package course

import "sort"

// Flatten derives the ordered lesson sequence for a course. Modules are
// sorted by order, then topics inside topical modules, then lessons inside
// each container. Empty modules contribute nothing and never disturb
// position contiguity. When the course carries a final quiz, a synthetic
// final-assessment entry whose lesson id equals the quiz id is appended
// last. Flatten never mutates the course.
func Flatten(c Course) Sequence {
	mods := make([]Module, len(c.Modules))
	copy(mods, c.Modules)
	sort.SliceStable(mods, func(i, j int) bool { return mods[i].Order < mods[j].Order })

	var seq Sequence
	for _, m := range mods {
		for _, l := range m.orderedLessons() {
			seq = append(seq, SequenceEntry{
				LessonID: l.ID,
				Position: len(seq),
				Type:     l.Type,
				QuizID:   l.QuizID,
			})
		}
	}

	if c.FinalQuizID != "" {
		seq = append(seq, SequenceEntry{
			LessonID: c.FinalQuizID,
			Position: len(seq),
			Type:     LessonFinalAssessment,
			QuizID:   c.FinalQuizID,
		})
	}

	return seq
}

func (m Module) orderedLessons() []Lesson {
	if m.body == nil {
		return nil
	}
	return m.body.orderedLessons()
}

func (b topicalBody) orderedLessons() []Lesson {
	topics := make([]Topic, len(b.topics))
	copy(topics, b.topics)
	sort.SliceStable(topics, func(i, j int) bool { return topics[i].Order < topics[j].Order })

	var out []Lesson
	for _, t := range topics {
		out = append(out, sortLessons(t.Lessons)...)
	}
	return out
}

func (b directBody) orderedLessons() []Lesson {
	return sortLessons(b.lessons)
}

func (emptyBody) orderedLessons() []Lesson {
	return nil
}

func sortLessons(lessons []Lesson) []Lesson {
	out := make([]Lesson, len(lessons))
	copy(out, lessons)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}
