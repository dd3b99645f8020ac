package chat

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fairyhunter13/stylist-storefront/internal/dialogue"
	"github.com/fairyhunter13/stylist-storefront/internal/model"
	"github.com/fairyhunter13/stylist-storefront/internal/obs"
	"github.com/google/uuid"
)

var (
	// ErrEmptyMessage is returned by Send for blank input.
	ErrEmptyMessage = errors.New("empty message")
	// ErrSessionClosed is returned by Send after Close.
	ErrSessionClosed = errors.New("session closed")
	// ErrSchedulerStopped is returned by Send when replies can no longer be
	// scheduled.
	ErrSchedulerStopped = errors.New("scheduler stopped")
)

// Session is one chat conversation. Its message log is append-only between
// resets.
type Session struct {
	id        string
	responder *dialogue.Responder
	sched     *Scheduler
	seq       *Sequencer
	now       func() time.Time

	mu       sync.Mutex
	messages []model.Message
	ctx      context.Context
	cancel   context.CancelFunc
	gen      uint64
	typing   int
	closed   bool
}

func newSession(id string, r *dialogue.Responder, sched *Scheduler, seq *Sequencer) *Session {
	s := &Session{id: id, responder: r, sched: sched, seq: seq, now: time.Now}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.messages = []model.Message{s.message(model.RoleAssistant, dialogue.Intro, nil)}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Messages returns a copy of the log in insertion order.
func (s *Session) Messages() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.messages)
}

// Typing reports whether an assistant reply is pending.
func (s *Session) Typing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.typing > 0
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Send appends the user's message and schedules the assistant's reply.
func (s *Session) Send(text string) (model.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Message{}, ErrEmptyMessage
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return model.Message{}, ErrSessionClosed
	}
	gen := s.gen
	if !s.sched.Schedule(s.ctx, func() { s.deliver(gen, text) }) {
		return model.Message{}, ErrSchedulerStopped
	}
	msg := s.message(model.RoleUser, text, nil)
	s.messages = append(s.messages, msg)
	s.typing++
	return msg, nil
}

// deliver computes the reply and appends it unless the session was reset or
// closed after the message was sent.
func (s *Session) deliver(gen uint64, text string) {
	reply := s.responder.Respond(text)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.gen {
		return
	}
	s.messages = append(s.messages, s.message(model.RoleAssistant, reply.Text, reply.Products))
	s.typing--
	obs.Logger.Info("chat_reply_delivered",
		"session_id", s.id,
		"rule", reply.Rule,
		"product_count", len(reply.Products),
	)
}

// Reset discards pending replies and restores the intro-only log.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancel()
	s.gen++
	s.typing = 0
	if !s.closed {
		s.ctx, s.cancel = context.WithCancel(context.Background())
	}
	s.messages = []model.Message{s.message(model.RoleAssistant, dialogue.Intro, nil)}
}

// Close discards pending replies and rejects further messages.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancel()
	s.gen++
	s.typing = 0
	s.closed = true
}

// message must be called with mu held or before the session is shared.
func (s *Session) message(role model.Role, content string, products []model.Product) model.Message {
	return model.Message{
		ID:        uuid.NewString(),
		Sequence:  s.seq.Next(),
		Role:      role,
		Content:   content,
		Products:  products,
		Timestamp: s.now(),
	}
}
