package store

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no entity has the requested id.
	ErrNotFound = errors.New("store: not found")
	// ErrEmptyTitle is returned when a lecture, task or subtask has no title.
	ErrEmptyTitle = errors.New("store: title is required")
	// ErrDerivedProgress is returned when progress is set directly on a task
	// whose progress is derived from its subtasks.
	ErrDerivedProgress = errors.New("store: progress is derived from subtasks")
)

// Store holds the application state for one session. It is owned by a
// single event loop and does no locking.
type Store struct {
	lectures []Lecture
	tasks    []Task
	sessions []StudySession
	settings UserSettings

	version uint64
	newID   func() string
}

type Option func(*Store)

// WithIDGenerator replaces the UUID generator used for new entities.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithSettings sets the initial user settings.
func WithSettings(us UserSettings) Option {
	return func(s *Store) {
		us.Pomodoro = us.Pomodoro.Normalized()
		s.settings = us
	}
}

// New returns an empty store with default settings.
func New(opts ...Option) *Store {
	s := &Store{
		settings: DefaultSettings(),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Version increases on every mutation. Derived data may be cached against it.
func (s *Store) Version() uint64 {
	return s.version
}

func (s *Store) touch() {
	s.version++
}

func (s *Store) Settings() UserSettings {
	return s.settings
}

// UpdateSettings mutates the settings singleton in place.
func (s *Store) UpdateSettings(fn func(*UserSettings)) UserSettings {
	fn(&s.settings)
	s.settings.Pomodoro = s.settings.Pomodoro.Normalized()
	s.touch()
	return s.settings
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}
