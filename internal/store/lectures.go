package store

import "strings"

func (s *Store) Lectures() []Lecture {
	out := make([]Lecture, len(s.lectures))
	copy(out, s.lectures)
	return out
}

func (s *Store) GetLecture(id string) (Lecture, error) {
	i := s.lectureIndex(id)
	if i < 0 {
		return Lecture{}, notFound("get lecture", id)
	}
	return s.lectures[i], nil
}

// AddLecture stores l, assigning an id when it has none.
func (s *Store) AddLecture(l Lecture) (Lecture, error) {
	if strings.TrimSpace(l.Title) == "" {
		return Lecture{}, ErrEmptyTitle
	}
	if l.ID == "" {
		l.ID = s.newID()
	}
	if l.Recurrence == "" {
		l.Recurrence = RecurrenceNone
	}
	s.lectures = append(s.lectures, l)
	s.touch()
	return l, nil
}

// UpdateLecture replaces the lecture with the same id.
func (s *Store) UpdateLecture(l Lecture) error {
	if strings.TrimSpace(l.Title) == "" {
		return ErrEmptyTitle
	}
	i := s.lectureIndex(l.ID)
	if i < 0 {
		return notFound("update lecture", l.ID)
	}
	s.lectures[i] = l
	s.touch()
	return nil
}

func (s *Store) DeleteLecture(id string) error {
	i := s.lectureIndex(id)
	if i < 0 {
		return notFound("delete lecture", id)
	}
	s.lectures = append(s.lectures[:i], s.lectures[i+1:]...)
	s.touch()
	return nil
}

func (s *Store) lectureIndex(id string) int {
	for i := range s.lectures {
		if s.lectures[i].ID == id {
			return i
		}
	}
	return -1
}
