package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"emojibooth/internal/booth"
	imageprovider "emojibooth/internal/providers/image"
)

// State is the user-facing phase of a booth session. There is no idle
// state: a session only exists once a photo has been uploaded.
type State string

const (
	StateUploaded   State = "image-uploaded"
	StateGenerating State = "generating"
	StateResults    State = "results-shown"
)

// Session holds everything for one visitor: the uploaded photo, the
// pipeline with its results, and the run phase. All of it lives in memory
// and vanishes when the session expires.
type Session struct {
	ID        string
	Source    imageprovider.SourceImage
	Pipeline  *booth.Pipeline
	CreatedAt time.Time

	mu      sync.Mutex
	started bool
	running bool
}

// New mints a session around an uploaded photo.
func New(source imageprovider.SourceImage, pipeline *booth.Pipeline) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Source:    source,
		Pipeline:  pipeline,
		CreatedAt: time.Now(),
	}
}

// State derives the current phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.running:
		return StateGenerating
	case s.started:
		return StateResults
	default:
		return StateUploaded
	}
}

// BeginRun claims the single run slot. It returns false while a pipeline
// run is already in flight, which keeps runs per session serialized.
func (s *Session) BeginRun() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	s.running = true
	s.started = true
	return true
}

// FinishRun releases the run slot.
func (s *Session) FinishRun() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}
