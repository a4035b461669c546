package quiz

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// PointsPerCorrect is awarded for each correct answer.
const PointsPerCorrect = 10

var (
	ErrSessionNotFound  = errors.New("quiz session not found")
	ErrDeckFinished     = errors.New("no question left in this round")
	ErrAlreadyAnswered  = errors.New("question already answered")
	ErrOptionOutOfRange = errors.New("option index out of range")
)

// State is what a client needs to render the session.
type State struct {
	ID        string    `json:"id"`
	Index     int       `json:"index"`
	Total     int       `json:"total"`
	Question  *Question `json:"question,omitempty"`
	Answered  bool      `json:"answered"`
	Finished  bool      `json:"finished"`
	Score     int       `json:"score"`
	BestScore int       `json:"bestScore"`

	// DisplayScore is the score shown to the player: max(Score, BestScore).
	DisplayScore int `json:"displayScore"`
}

// AnswerResult is the outcome of one pick.
type AnswerResult struct {
	Correct      bool `json:"correct"`
	CorrectIndex int  `json:"correctIndex"`
	Score        int  `json:"score"`
	BestScore    int  `json:"bestScore"`
	DisplayScore int  `json:"displayScore"`
	NewBest      bool `json:"newBest"`
}

// Session walks one deck linearly. The deck is fixed for the session's life.
type Session struct {
	mu        sync.Mutex
	id        string
	deck      []Question
	index     int
	score     int
	answered  bool
	best      *BestScore
	createdAt time.Time
}

// NewSession starts a session at the first question with a zero score.
func NewSession(deck []Question, best *BestScore) *Session {
	return &Session{
		id:        uuid.NewString(),
		deck:      deck,
		best:      best,
		createdAt: time.Now(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// State returns a snapshot of the session.
func (s *Session) State(ctx context.Context) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state(ctx)
}

func (s *Session) state(ctx context.Context) (State, error) {
	best, err := s.best.Get(ctx)
	if err != nil {
		return State{}, err
	}
	st := State{
		ID:           s.id,
		Index:        s.index,
		Total:        len(s.deck),
		Answered:     s.answered,
		Finished:     s.index >= len(s.deck),
		Score:        s.score,
		BestScore:    best,
		DisplayScore: max(s.score, best),
	}
	if !st.Finished {
		q := s.deck[s.index]
		st.Question = &q
	}
	return st, nil
}

// Answer records a pick for the current question. Each question takes one
// pick; a correct pick adds PointsPerCorrect and is offered as a new best.
// The session only changes once the best score has been read or written, so
// a storage failure leaves the question open for a retry.
func (s *Session) Answer(ctx context.Context, option int) (AnswerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index >= len(s.deck) {
		return AnswerResult{}, ErrDeckFinished
	}
	if s.answered {
		return AnswerResult{}, ErrAlreadyAnswered
	}
	q := s.deck[s.index]
	if option < 0 || option >= len(q.Options) {
		return AnswerResult{}, ErrOptionOutOfRange
	}

	res := AnswerResult{
		Correct:      q.Correct(option),
		CorrectIndex: q.Answer,
		Score:        s.score,
	}

	if res.Correct {
		score := s.score + PointsPerCorrect
		best, updated, err := s.best.Offer(ctx, score)
		if err != nil {
			return AnswerResult{}, err
		}
		res.Score, res.BestScore, res.NewBest = score, best, updated
	} else {
		best, err := s.best.Get(ctx)
		if err != nil {
			return AnswerResult{}, err
		}
		res.BestScore = best
	}

	s.score = res.Score
	s.answered = true
	res.DisplayScore = max(res.Score, res.BestScore)
	return res, nil
}

// Next moves to the following question. Past the end of the deck it starts
// a new round from the first question with a zero score.
func (s *Session) Next(ctx context.Context) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index >= len(s.deck) {
		s.index, s.score = 0, 0
	} else {
		s.index++
	}
	s.answered = false
	return s.state(ctx)
}

// Reset zeroes the score and returns to the first question.
func (s *Session) Reset(ctx context.Context) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.index, s.score, s.answered = 0, 0, false
	return s.state(ctx)
}

// Registry holds live sessions by ID.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Add registers s.
func (r *Registry) Add(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.id] = s
}

// Get returns the session with id, or ErrSessionNotFound.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Prune drops sessions created more than maxAge ago and returns how many went.
func (r *Registry) Prune(maxAge time.Duration) int {
	cutoff := r.now().Add(-maxAge)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, s := range r.sessions {
		if s.createdAt.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}
