package store

import "time"

// Seed loads the demo lectures, tasks and sessions, anchored on now so the
// schedule and deadlines land in the current week.
func (s *Store) Seed(now time.Time) {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	offset := (int(today.Weekday()) + 6) % 7
	monday := today.AddDate(0, 0, -offset)
	at := func(day time.Time, h, m int) time.Time {
		return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, loc)
	}
	due := func(days int) *time.Time {
		d := today.AddDate(0, 0, days)
		return &d
	}

	lectures := []Lecture{
		{
			Title:      "Introduction to Psychology",
			Professor:  "Dr. Sarah Johnson",
			Location:   "Room 302, Science Building",
			StartTime:  at(monday, 10, 0),
			EndTime:    at(monday, 11, 30),
			Recurrence: RecurrenceWeekly,
			Color:      "#4361EE",
			Notes:      "Bring textbook chapters 1-3",
		},
		{
			Title:      "Calculus II",
			Professor:  "Prof. Michael Chen",
			Location:   "Room 105, Math Building",
			StartTime:  at(monday, 13, 0),
			EndTime:    at(monday, 14, 30),
			Recurrence: RecurrenceWeekly,
			Color:      "#FF006E",
			Notes:      "Quiz on derivatives",
		},
		{
			Title:      "Computer Science Principles",
			Professor:  "Dr. Emily Rodriguez",
			Location:   "Room 201, Tech Building",
			StartTime:  at(monday.AddDate(0, 0, 1), 9, 0),
			EndTime:    at(monday.AddDate(0, 0, 1), 10, 30),
			Recurrence: RecurrenceWeekly,
			Color:      "#B5E48C",
		},
	}
	for _, l := range lectures {
		s.AddLecture(l)
	}

	tasks := []Task{
		{
			Title:       "Psychology Essay",
			Description: "Write a 1500-word essay on cognitive behavioral therapy",
			Deadline:    due(1),
			Priority:    PriorityUrgent,
			Subtasks: []SubTask{
				{Title: "Research sources", Completed: true},
				{Title: "Create outline", Completed: true},
				{Title: "Write introduction", Completed: true},
				{Title: "Write body paragraphs"},
				{Title: "Write conclusion"},
				{Title: "Proofread and edit"},
			},
		},
		{
			Title:       "Math Problem Set",
			Description: "Complete problems 1-20 from Chapter 8",
			Deadline:    due(4),
			Priority:    PriorityHigh,
			Subtasks: []SubTask{
				{Title: "Problems 1-5", Completed: true},
				{Title: "Problems 6-10", Completed: true},
				{Title: "Problems 11-15"},
				{Title: "Problems 16-20"},
			},
		},
		{
			Title:       "CS Project Proposal",
			Description: "Submit project proposal for final semester project",
			Deadline:    due(7),
			Priority:    PriorityMedium,
			Subtasks: []SubTask{
				{Title: "Choose project topic", Completed: true},
				{Title: "Research requirements"},
				{Title: "Write proposal draft"},
				{Title: "Submit proposal"},
			},
		},
	}
	for _, t := range tasks {
		s.AddTask(t)
	}

	yesterday := today.AddDate(0, 0, -1)
	s.AddSession(StudySession{
		StartTime: at(yesterday, 14, 0),
		EndTime:   at(yesterday, 15, 30),
		Duration:  90,
		Subject:   "Psychology",
		Breaks:    2,
	})
	s.AddSession(StudySession{
		StartTime: at(yesterday, 16, 0),
		EndTime:   at(yesterday, 17, 0),
		Duration:  60,
		Subject:   "Mathematics",
		Breaks:    1,
	})
}
