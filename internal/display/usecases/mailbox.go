package usecases

import "sync"

// Mailbox holds at most one pending message. A new message replaces an
// unconsumed one.
type Mailbox struct {
	mu      sync.Mutex
	payload string
}

// Put stores payload and reports whether an undelivered message was dropped.
func (m *Mailbox) Put(payload string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	replaced := m.payload != ""
	m.payload = payload
	return replaced
}

// Take returns the pending message and empties the slot.
func (m *Mailbox) Take() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.payload == "" {
		return "", false
	}

	payload := m.payload
	m.payload = ""
	return payload, true
}
