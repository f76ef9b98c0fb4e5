package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/AnikethTS/citadel-backend-v2/internal/model"
)

// MessageLog is the ordered chat history, persisted as a single JSON file.
// Every mutation re-reads the file and rewrites it in full, serialized
// behind one writer lock so concurrent edits and deletes always run against
// a fresh snapshot. Reads may run concurrently with each other.
type MessageLog struct {
	path string
	mu   sync.RWMutex
}

func NewMessageLog(path string) *MessageLog {
	return &MessageLog{path: path}
}

// ReadAll returns the full log in append order. A missing file is an empty
// log, not an error.
func (l *MessageLog) ReadAll() ([]model.Message, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.load()
}

// Append adds a message at the end of the log.
func (l *MessageLog) Append(msg model.Message) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	msgs, err := l.load()
	if err != nil {
		return err
	}
	return l.persist(append(msgs, msg))
}

// ReplaceAll overwrites the log with the given sequence.
func (l *MessageLog) ReplaceAll(msgs []model.Message) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.persist(msgs)
}

// UpdateAt replaces the body of the message at the given index, leaving
// sender, media and time untouched. An out-of-range index is a silent no-op:
// the unchanged log is returned with ok=false and the file is not rewritten.
func (l *MessageLog) UpdateAt(index int, newBody string) ([]model.Message, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msgs, err := l.load()
	if err != nil {
		return nil, false, err
	}
	if index < 0 || index >= len(msgs) {
		return msgs, false, nil
	}
	msgs[index].Body = newBody
	if err := l.persist(msgs); err != nil {
		return nil, false, err
	}
	return msgs, true, nil
}

// DeleteAt removes the message at the given index, shifting every later
// message down by one. Same bounds contract as UpdateAt.
func (l *MessageLog) DeleteAt(index int) ([]model.Message, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msgs, err := l.load()
	if err != nil {
		return nil, false, err
	}
	if index < 0 || index >= len(msgs) {
		return msgs, false, nil
	}
	msgs = append(msgs[:index], msgs[index+1:]...)
	if err := l.persist(msgs); err != nil {
		return nil, false, err
	}
	return msgs, true, nil
}

func (l *MessageLog) load() ([]model.Message, error) {
	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return []model.Message{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read message log: %w", err)
	}

	var msgs []model.Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, fmt.Errorf("parse message log: %w", err)
	}
	if msgs == nil {
		msgs = []model.Message{}
	}
	return msgs, nil
}

func (l *MessageLog) persist(msgs []model.Message) error {
	data, err := json.MarshalIndent(msgs, "", "    ")
	if err != nil {
		return fmt.Errorf("encode message log: %w", err)
	}
	if err := os.WriteFile(l.path, data, 0o644); err != nil {
		return fmt.Errorf("write message log: %w", err)
	}
	return nil
}
