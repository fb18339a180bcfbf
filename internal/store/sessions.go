package store

import "time"

// Sessions returns the recorded study sessions in insertion order.
func (s *Store) Sessions() []StudySession {
	out := make([]StudySession, len(s.sessions))
	copy(out, s.sessions)
	return out
}

// AddSession appends a completed study session. Sessions are immutable once
// recorded.
func (s *Store) AddSession(ss StudySession) StudySession {
	if ss.ID == "" {
		ss.ID = s.newID()
	}
	s.sessions = append(s.sessions, ss)
	s.touch()
	return ss
}

// SessionsBetween returns sessions whose start lies in [from, to).
func (s *Store) SessionsBetween(from, to time.Time) []StudySession {
	var out []StudySession
	for _, ss := range s.sessions {
		if !ss.StartTime.Before(from) && ss.StartTime.Before(to) {
			out = append(out, ss)
		}
	}
	return out
}
