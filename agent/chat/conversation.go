package chat

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	contractx "github.com/tanpawarit/advisor-query-dispatch/agent/contract"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Turn struct {
	Role    Role      `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// Examples are offered to the user when a conversation starts.
var Examples = []string{
	"Show me the clients managed by John Smith",
	"What are all the financial advisors in the system?",
}

// Conversation owns the transcript of one chat. Every turn is answered
// independently; the transcript is for display only.
type Conversation struct {
	id       string
	answerer contractx.Answerer

	mu    sync.Mutex
	turns []Turn

	now func() time.Time
}

func NewConversation(answerer contractx.Answerer) (*Conversation, error) {
	if answerer == nil {
		return nil, errors.New("answerer is required")
	}
	return &Conversation{
		id:       uuid.NewString(),
		answerer: answerer,
		now:      time.Now,
	}, nil
}

func (c *Conversation) ID() string {
	return c.id
}

// Ask records the user turn, answers it and records the reply.
func (c *Conversation) Ask(ctx context.Context, text string) string {
	c.append(RoleUser, text)
	reply := c.answerer.Answer(ctx, text)
	c.append(RoleAssistant, reply)
	return reply
}

// History returns a copy of the transcript.
func (c *Conversation) History() []Turn {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

func (c *Conversation) Clear() {
	c.mu.Lock()
	c.turns = nil
	c.mu.Unlock()
}

func (c *Conversation) append(role Role, content string) {
	c.mu.Lock()
	c.turns = append(c.turns, Turn{Role: role, Content: content, At: c.now().UTC()})
	c.mu.Unlock()
}
