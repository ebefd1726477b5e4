package journal

import (
	"sync"
	"time"
)

// Direction classifies an entry relative to the host controller.
type Direction string

const (
	DirectionSent     Direction = "sent"
	DirectionReceived Direction = "received"
	DirectionError    Direction = "error"
)

// Entry is one line of the protocol journal. Entries are observational
// only and play no role in protocol correctness.
type Entry struct {
	ID        uint64    `json:"id"`
	Text      string    `json:"text"`
	Direction Direction `json:"direction"`
	Timestamp time.Time `json:"timestamp"`
}

// Recorder receives protocol journal entries. Implementations must never
// fail the operation that produced an entry.
type Recorder interface {
	Append(text string, direction Direction) Entry
	Entries() []Entry
}

// Memory is an append-only in-process journal with monotonically
// increasing entry ids. Old entries are trimmed once the cap is reached.
type Memory struct {
	mu      sync.Mutex
	nextID  uint64
	cap     int
	entries []Entry
}

const defaultCap = 1000

func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = defaultCap
	}
	return &Memory{cap: capacity}
}

func (m *Memory) Append(text string, direction Direction) Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	e := Entry{
		ID:        m.nextID,
		Text:      text,
		Direction: direction,
		Timestamp: time.Now(),
	}

	m.entries = append(m.entries, e)
	if len(m.entries) > m.cap {
		m.entries = m.entries[len(m.entries)-m.cap:]
	}

	return e
}

func (m *Memory) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}
