package tutor

import (
	"sync"

	"github.com/google/uuid"

	"smearn/internal/llm"
)

// Manager owns the live conversations. A conversation belongs to the session
// that opened it and is torn down with it.
type Manager struct {
	provider llm.Provider

	mu            sync.RWMutex
	conversations map[string]*Conversation
}

// NewManager creates an empty registry.
func NewManager(provider llm.Provider) *Manager {
	return &Manager{
		provider:      provider,
		conversations: make(map[string]*Conversation),
	}
}

// Open starts a new conversation for ownerID.
func (m *Manager) Open(ownerID string) *Conversation {
	c := NewConversation(uuid.NewString(), ownerID, m.provider)

	m.mu.Lock()
	m.conversations[c.ID] = c
	m.mu.Unlock()
	return c
}

// Get returns the conversation if it exists and belongs to ownerID.
func (m *Manager) Get(id, ownerID string) (*Conversation, error) {
	m.mu.RLock()
	c, ok := m.conversations[id]
	m.mu.RUnlock()
	if !ok || c.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	return c, nil
}

// Close tears down one conversation.
func (m *Manager) Close(id, ownerID string) error {
	m.mu.Lock()
	c, ok := m.conversations[id]
	if !ok || c.OwnerID != ownerID {
		m.mu.Unlock()
		return ErrNotFound
	}
	delete(m.conversations, id)
	m.mu.Unlock()

	c.Close()
	return nil
}

// CloseOwnedBy tears down every conversation of ownerID, e.g. on logout.
func (m *Manager) CloseOwnedBy(ownerID string) int {
	m.mu.Lock()
	var closing []*Conversation
	for id, c := range m.conversations {
		if c.OwnerID == ownerID {
			closing = append(closing, c)
			delete(m.conversations, id)
		}
	}
	m.mu.Unlock()

	for _, c := range closing {
		c.Close()
	}
	return len(closing)
}

// CloseAll tears down everything, used on shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	all := m.conversations
	m.conversations = make(map[string]*Conversation)
	m.mu.Unlock()

	for _, c := range all {
		c.Close()
	}
}

// Count returns the number of live conversations.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.conversations)
}
