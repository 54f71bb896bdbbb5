package session

import (
	"sync"
	"time"

	"docchat/internal/llm"
)

// DocumentSlot is the slot uploaded documents are stored under.
const DocumentSlot = "document_content"

type session struct {
	history    []llm.Message
	files      map[string]string
	image      string // pending base64 payload, consumed by the next question
	lastActive time.Time
}

// Manager owns all per-chat conversation state. Nothing here survives the
// process: state lives exactly as long as the interactive session does.
type Manager struct {
	mu       sync.Mutex
	sessions map[int64]*session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[int64]*session)}
}

// get creates the session on first touch and bumps its activity clock.
// Callers must hold the lock.
func (m *Manager) get(chatID int64) *session {
	s, ok := m.sessions[chatID]
	if !ok {
		s = &session{files: make(map[string]string)}
		m.sessions[chatID] = s
	}
	s.lastActive = time.Now()
	return s
}

// History returns a copy of the chat history, creating an empty session if
// none exists yet.
func (m *Manager) History(chatID int64) []llm.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.get(chatID)
	out := make([]llm.Message, len(s.history))
	copy(out, s.history)
	return out
}

// AppendTurn records a completed question/answer pair: the user turn first,
// then the assistant turn, under a single lock acquisition.
func (m *Manager) AppendTurn(chatID int64, question, answer string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.get(chatID)
	s.history = append(s.history,
		llm.Message{Role: llm.RoleUser, Content: question},
		llm.Message{Role: llm.RoleAssistant, Content: answer},
	)
}

// StoreFile overwrites the slot. An empty string records that extraction
// yielded nothing for the latest upload.
func (m *Manager) StoreFile(chatID int64, slot, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.get(chatID).files[slot] = text
}

// FileContent returns the stored text, or "" when the slot is empty or absent.
func (m *Manager) FileContent(chatID int64, slot string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.get(chatID).files[slot]
}

// SetImage stores an image payload to be attached to the next question.
func (m *Manager) SetImage(chatID int64, payload string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.get(chatID).image = payload
}

// TakeImage returns the pending image payload and clears it.
func (m *Manager) TakeImage(chatID int64) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.get(chatID)
	img := s.image
	s.image = ""
	return img
}

// Reset drops the whole session: history, stored files and pending image.
func (m *Manager) Reset(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, chatID)
}

// SweepIdle drops sessions with no activity for longer than ttl and reports
// how many were removed.
func (m *Manager) SweepIdle(ttl time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := time.Now().Add(-ttl)
	n := 0
	for id, s := range m.sessions {
		if s.lastActive.Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}
