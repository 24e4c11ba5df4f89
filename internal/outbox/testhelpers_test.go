package outbox

import (
	"context"
	"sync"
)

// mockStore implements Store for testing.
type mockStore struct {
	InsertBatchFn  func(ctx context.Context, msgs []Message) error
	FetchPendingFn func(ctx context.Context, limit int) ([]Message, error)
	UpdateFn       func(ctx context.Context, msg Message) error
}

func (m *mockStore) InsertBatch(ctx context.Context, msgs []Message) error {
	return m.InsertBatchFn(ctx, msgs)
}

func (m *mockStore) FetchPending(ctx context.Context, limit int) ([]Message, error) {
	return m.FetchPendingFn(ctx, limit)
}

func (m *mockStore) Update(ctx context.Context, msg Message) error {
	return m.UpdateFn(ctx, msg)
}

// recordingStore collects every Update for later inspection.
type recordingStore struct {
	mockStore
	mu      sync.Mutex
	updates []Message
}

func newRecordingStore(pending []Message) *recordingStore {
	s := &recordingStore{}
	s.FetchPendingFn = func(ctx context.Context, limit int) ([]Message, error) {
		return pending, nil
	}
	s.UpdateFn = func(ctx context.Context, msg Message) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.updates = append(s.updates, msg)
		return nil
	}
	return s
}

func (s *recordingStore) lastUpdate() Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updates[len(s.updates)-1]
}

func (s *recordingStore) updateCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.updates)
}

// mockSender implements EventSender for testing.
type mockSender struct {
	SendEventFn func(ctx context.Context, eventID string, payload []byte) error
}

func (m *mockSender) SendEvent(ctx context.Context, eventID string, payload []byte) error {
	return m.SendEventFn(ctx, eventID, payload)
}
