package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sridharsri/consultancy/backend/internal/model/chat"
)

// Greeting opens every conversation as the first bot message.
const Greeting = "Hello! I'm your healthcare assistant. How can I help?"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrUnknownSender   = errors.New("unknown sender")
)

// Service owns conversation sessions and their append-only transcripts.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]chat.Session
	messages map[string][]chat.Message
}

// NewService bootstraps the in-memory conversation store.
func NewService() *Service {
	return &Service{
		sessions: make(map[string]chat.Session),
		messages: make(map[string][]chat.Message),
	}
}

// CreateSession provisions a conversation seeded with the greeting message.
func (s *Service) CreateSession(_ context.Context) (chat.Session, error) {
	session := chat.Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.messages[session.ID] = []chat.Message{greetingMessage(session.ID)}
	s.mu.Unlock()

	return session, nil
}

// EnsureSession returns the session for a client-supplied conversation
// identifier, provisioning it on first use. Widget mounts generate their
// identifier locally, so the backend sees it before any session call.
func (s *Service) EnsureSession(_ context.Context, sessionID string) (chat.Session, error) {
	if strings.TrimSpace(sessionID) == "" {
		return chat.Session{}, ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.sessions[sessionID]; ok {
		return session, nil
	}

	session := chat.Session{ID: sessionID, CreatedAt: time.Now().UTC()}
	s.sessions[session.ID] = session
	s.messages[session.ID] = []chat.Message{greetingMessage(session.ID)}
	return session, nil
}

// SaveMessage appends a message to the session transcript. Empty or
// whitespace-only user text is ignored without error, matching the widget
// contract. Transcripts only grow; messages are never edited or removed.
func (s *Service) SaveMessage(_ context.Context, message chat.Message) error {
	if message.Sender != chat.SenderUser && message.Sender != chat.SenderBot {
		return ErrUnknownSender
	}
	if message.Sender == chat.SenderUser && strings.TrimSpace(message.Text) == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[message.ConversationID]; !ok {
		return ErrSessionNotFound
	}

	message.ID = uuid.NewString()
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}

	s.messages[message.ConversationID] = append(s.messages[message.ConversationID], message)
	return nil
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(_ context.Context, sessionID string) (chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return chat.Session{}, ErrSessionNotFound
	}
	return session, nil
}

// LoadTranscript returns stored messages for the provided session.
func (s *Service) LoadTranscript(_ context.Context, sessionID string) ([]chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages, ok := s.messages[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	copied := make([]chat.Message, len(messages))
	copy(copied, messages)
	return copied, nil
}

func greetingMessage(sessionID string) chat.Message {
	return chat.Message{
		ID:             uuid.NewString(),
		ConversationID: sessionID,
		Sender:         chat.SenderBot,
		Text:           Greeting,
		CreatedAt:      time.Now().UTC(),
	}
}
