package chat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/Skufu/heartcheck/internal/upstream"
)

var (
	// ErrEmptyMessage is returned for blank input; callers ignore it.
	ErrEmptyMessage = errors.New("chat: empty message")
	// ErrReplyPending rejects a send while the conversation waits for a reply.
	ErrReplyPending = errors.New("chat: reply pending")
)

const loginPrompt = "Please log in to continue using the AI assistant."

// Greetings open every conversation.
var Greetings = []string{
	"Hello! I'm your AI Health Assistant. I can help you with:",
	"• Understanding your heart health metrics\n• Providing lifestyle recommendations\n• Explaining medical terms\n• Emergency guidance\n• Diet and exercise advice",
	"Feel free to ask me anything about your heart health!",
}

type conversation struct {
	messages []Message
	pending  bool
}

// Sessions holds one conversation per browser session.
type Sessions struct {
	backend Backend
	log     *zap.Logger
	now     func() time.Time

	mu    sync.Mutex
	convs map[string]*conversation
}

func NewSessions(backend Backend, log *zap.Logger) *Sessions {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sessions{
		backend: backend,
		log:     log,
		now:     time.Now,
		convs:   make(map[string]*conversation),
	}
}

func (s *Sessions) greetings() []Message {
	at := s.now()
	msgs := make([]Message, 0, len(Greetings))
	for _, g := range Greetings {
		msgs = append(msgs, Message{Role: RoleAssistant, Content: g, Timestamp: at})
	}
	return msgs
}

// Transcript returns a copy of the conversation. A session that never sent a
// message sees only the greetings and is not stored.
func (s *Sessions) Transcript(id string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.convs[id]
	if !ok {
		return s.greetings()
	}
	return append([]Message(nil), c.messages...)
}

// Pending reports whether the conversation waits for a reply.
func (s *Sessions) Pending(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.convs[id]
	return ok && c.pending
}

// Send appends text as a user message and asks the backend for a reply with
// the whole transcript. The user message stays in the transcript when the
// backend fails.
func (s *Sessions) Send(ctx context.Context, id, text string) (Message, error) {
	if strings.TrimSpace(text) == "" {
		return Message{}, ErrEmptyMessage
	}

	s.mu.Lock()
	c, ok := s.convs[id]
	if !ok {
		c = &conversation{messages: s.greetings()}
		s.convs[id] = c
	}
	if c.pending {
		s.mu.Unlock()
		return Message{}, ErrReplyPending
	}
	c.messages = append(c.messages, Message{Role: RoleUser, Content: text, Timestamp: s.now()})
	c.pending = true
	history := append([]Message(nil), c.messages...)
	s.mu.Unlock()

	reply, err := s.backend.Reply(ctx, history)

	s.mu.Lock()
	defer s.mu.Unlock()
	c.pending = false
	if err != nil {
		s.log.Warn("AI assistant reply failed", zap.String("session_id", id), zap.Error(err))
		return Message{}, err
	}
	msg := Message{Role: RoleAssistant, Content: reply, Timestamp: s.now()}
	c.messages = append(c.messages, msg)
	return msg, nil
}

// UserMessage is the notification text for a failed Send.
func UserMessage(err error) string {
	if IsUnauthorized(err) {
		return loginPrompt
	}
	if d := upstream.Detail(err); d != "" {
		return "Failed to get AI response: " + d
	}
	return fmt.Sprintf("Failed to get AI response: %v", err)
}

// IsUnauthorized reports whether err is a 401 from either assistant backend.
func IsUnauthorized(err error) bool {
	if errors.Is(err, upstream.ErrUnauthorized) {
		return true
	}
	var oaErr *openai.APIError
	if errors.As(err, &oaErr) && oaErr.HTTPStatusCode == http.StatusUnauthorized {
		return true
	}
	return false
}
