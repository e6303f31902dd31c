package quiz

import (
	"sync"
	"time"

	"skillscan/internal/errors"
	"skillscan/internal/types"
)

const DefaultTTL = 30 * time.Minute

type storedQuiz struct {
	quiz    types.Quiz
	expires time.Time
}

// Store keeps generated quizzes in memory until they expire.
type Store struct {
	mu      sync.Mutex
	quizzes map[string]storedQuiz
	ttl     time.Duration
	now     func() time.Time
	done    chan struct{}
	logger  *errors.Logger
}

// NewStore creates a store and starts its cleanup goroutine. Call Close to
// stop it.
func NewStore(ttl time.Duration, logger *errors.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Store{
		quizzes: make(map[string]storedQuiz),
		ttl:     ttl,
		now:     time.Now,
		done:    make(chan struct{}),
		logger:  logger,
	}

	go s.cleanupRoutine(max(ttl/2, time.Second))
	return s
}

// Put saves a quiz under its ID.
func (s *Store) Put(q types.Quiz) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.quizzes[q.ID] = storedQuiz{quiz: q, expires: s.now().Add(s.ttl)}
}

// Get returns an unexpired quiz.
func (s *Store) Get(id string) (types.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.quizzes[id]
	if !ok || s.now().After(stored.expires) {
		return types.Quiz{}, errors.NewValidationError(errors.ErrCodeQuizNotFound,
			"Quiz not found or expired", nil).
			WithContext("quiz_id", id)
	}
	return stored.quiz, nil
}

// Len returns the number of stored quizzes, including expired ones not yet
// cleaned up.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.quizzes)
}

// GetStats returns store statistics
func (s *Store) GetStats() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	return map[string]any{
		"stored_quizzes": len(s.quizzes),
		"ttl_seconds":    s.ttl.Seconds(),
	}
}

func (s *Store) cleanupRoutine(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.done:
			return
		}
	}
}

// cleanup removes expired quizzes
func (s *Store) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, stored := range s.quizzes {
		if now.After(stored.expires) {
			delete(s.quizzes, id)
		}
	}

	s.logger.Debug("Quiz store cleanup completed",
		"remaining_quizzes", len(s.quizzes))
}

// Close stops the cleanup goroutine.
func (s *Store) Close() {
	close(s.done)
}
