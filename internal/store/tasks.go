package store

import (
	"math"
	"strings"
)

// Tasks returns a deep copy of the task collection.
func (s *Store) Tasks() []Task {
	out := make([]Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = cloneTask(t)
	}
	return out
}

func (s *Store) GetTask(id string) (Task, error) {
	i := s.taskIndex(id)
	if i < 0 {
		return Task{}, notFound("get task", id)
	}
	return cloneTask(s.tasks[i]), nil
}

// AddTask stores t, assigning ids to the task and its subtasks when missing.
func (s *Store) AddTask(t Task) (Task, error) {
	if strings.TrimSpace(t.Title) == "" {
		return Task{}, ErrEmptyTitle
	}
	if t.ID == "" {
		t.ID = s.newID()
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	t = cloneTask(t)
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == "" {
			t.Subtasks[i].ID = s.newID()
		}
	}
	syncProgress(&t)
	s.tasks = append(s.tasks, t)
	s.touch()
	return cloneTask(t), nil
}

// UpdateTask replaces the task with the same id.
func (s *Store) UpdateTask(t Task) error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	i := s.taskIndex(t.ID)
	if i < 0 {
		return notFound("update task", t.ID)
	}
	t = cloneTask(t)
	syncProgress(&t)
	s.tasks[i] = t
	s.touch()
	return nil
}

// PatchTask applies fn to the stored task and re-derives its progress.
func (s *Store) PatchTask(id string, fn func(*Task)) (Task, error) {
	i := s.taskIndex(id)
	if i < 0 {
		return Task{}, notFound("patch task", id)
	}
	t := cloneTask(s.tasks[i])
	fn(&t)
	t.ID = id
	if strings.TrimSpace(t.Title) == "" {
		return Task{}, ErrEmptyTitle
	}
	syncProgress(&t)
	s.tasks[i] = t
	s.touch()
	return cloneTask(t), nil
}

func (s *Store) DeleteTask(id string) error {
	i := s.taskIndex(id)
	if i < 0 {
		return notFound("delete task", id)
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	s.touch()
	return nil
}

// ToggleTask flips a task's completion. A task with subtasks carries all of
// them to the new state so progress stays derived.
func (s *Store) ToggleTask(id string) (Task, error) {
	return s.PatchTask(id, func(t *Task) {
		done := !t.Completed
		if len(t.Subtasks) > 0 {
			for i := range t.Subtasks {
				t.Subtasks[i].Completed = done
			}
			return
		}
		t.Completed = done
		if done {
			t.Progress = 100
		} else {
			t.Progress = 0
		}
	})
}

func (s *Store) ToggleSubtask(taskID, subtaskID string) (Task, error) {
	i := s.taskIndex(taskID)
	if i < 0 {
		return Task{}, notFound("toggle subtask", taskID)
	}
	found := false
	for _, st := range s.tasks[i].Subtasks {
		if st.ID == subtaskID {
			found = true
			break
		}
	}
	if !found {
		return Task{}, notFound("toggle subtask", subtaskID)
	}
	return s.PatchTask(taskID, func(t *Task) {
		for j := range t.Subtasks {
			if t.Subtasks[j].ID == subtaskID {
				t.Subtasks[j].Completed = !t.Subtasks[j].Completed
			}
		}
	})
}

func (s *Store) AddSubtask(taskID, title string) (Task, error) {
	if strings.TrimSpace(title) == "" {
		return Task{}, ErrEmptyTitle
	}
	if s.taskIndex(taskID) < 0 {
		return Task{}, notFound("add subtask", taskID)
	}
	id := s.newID()
	return s.PatchTask(taskID, func(t *Task) {
		t.Subtasks = append(t.Subtasks, SubTask{ID: id, Title: title})
	})
}

// SetTaskProgress sets progress directly on a task without subtasks. The
// value is clamped to 0-100 and the task is complete at 100.
func (s *Store) SetTaskProgress(id string, progress int) (Task, error) {
	i := s.taskIndex(id)
	if i < 0 {
		return Task{}, notFound("set task progress", id)
	}
	if len(s.tasks[i].Subtasks) > 0 {
		return Task{}, ErrDerivedProgress
	}
	return s.PatchTask(id, func(t *Task) {
		t.Progress = clamp(progress, 0, 100)
		t.Completed = t.Progress == 100
	})
}

// SubtaskProgress is round(100 * completed / total), or 0 for no subtasks.
func SubtaskProgress(subtasks []SubTask) int {
	if len(subtasks) == 0 {
		return 0
	}
	done := 0
	for _, st := range subtasks {
		if st.Completed {
			done++
		}
	}
	return int(math.Round(100 * float64(done) / float64(len(subtasks))))
}

func syncProgress(t *Task) {
	if len(t.Subtasks) == 0 {
		t.Progress = clamp(t.Progress, 0, 100)
		return
	}
	t.Progress = SubtaskProgress(t.Subtasks)
	t.Completed = t.Progress == 100
}

func cloneTask(t Task) Task {
	if t.Subtasks != nil {
		subs := make([]SubTask, len(t.Subtasks))
		copy(subs, t.Subtasks)
		t.Subtasks = subs
	}
	if t.Deadline != nil {
		d := *t.Deadline
		t.Deadline = &d
	}
	return t
}

func (s *Store) taskIndex(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
