package memory

import (
	"sync"
	"time"
)

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Turn is one immutable conversation entry.
type Turn struct {
	Role      Role
	Content   string
	CreatedAt time.Time
}

// Conversation is a bounded, ordered message log. After any add the
// log is trimmed to the window by dropping oldest entries first;
// trimming never reorders survivors. Safe for concurrent use.
type Conversation struct {
	mu     sync.Mutex
	window int
	turns  []Turn
}

// NewConversation creates a conversation bounded to window entries.
func NewConversation(window int) *Conversation {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Conversation{window: window}
}

// AddHuman appends a user turn.
func (c *Conversation) AddHuman(text string) {
	c.add(RoleUser, text)
}

// AddAI appends an assistant turn.
func (c *Conversation) AddAI(text string) {
	c.add(RoleAssistant, text)
}

// AddSystem appends a system turn.
func (c *Conversation) AddSystem(text string) {
	c.add(RoleSystem, text)
}

func (c *Conversation) add(role Role, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.turns = append(c.turns, Turn{Role: role, Content: text, CreatedAt: time.Now()})
	if over := len(c.turns) - c.window; over > 0 {
		c.turns = append(c.turns[:0:0], c.turns[over:]...)
	}
}

// Messages returns a copy of the retained turns in original order.
func (c *Conversation) Messages() []Turn {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// Len returns the number of retained turns.
func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.turns)
}

// Clear drops all turns.
func (c *Conversation) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = nil
}
