package job

import (
	"context"
	"sync"

	"github.com/speakspace/speakspace-api/internal/domain"
)

// mockTranscriber implements Transcriber with an injectable function.
type mockTranscriber struct {
	TranscribeFn func(ctx context.Context, audioPath string) (string, error)
	calls        []string
	mu           sync.Mutex
}

func (m *mockTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, audioPath)
	m.mu.Unlock()

	if m.TranscribeFn != nil {
		return m.TranscribeFn(ctx, audioPath)
	}
	return "mock transcript", nil
}

func (m *mockTranscriber) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// mockExtractor implements Extractor with an injectable function.
type mockExtractor struct {
	ExtractFn func(ctx context.Context, transcript string) ([]domain.ActionItem, error)
	calls     []string
	mu        sync.Mutex
}

func (m *mockExtractor) Extract(ctx context.Context, transcript string) ([]domain.ActionItem, error) {
	m.mu.Lock()
	m.calls = append(m.calls, transcript)
	m.mu.Unlock()

	if m.ExtractFn != nil {
		return m.ExtractFn(ctx, transcript)
	}
	return nil, nil
}

func (m *mockExtractor) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// mockItemSink implements ItemSink, recording saved items.
type mockItemSink struct {
	SaveFn func(ctx context.Context, item domain.ActionItem) error
	saved  []domain.ActionItem
	mu     sync.Mutex
}

func (m *mockItemSink) Save(ctx context.Context, item domain.ActionItem) error {
	m.mu.Lock()
	m.saved = append(m.saved, item)
	m.mu.Unlock()

	if m.SaveFn != nil {
		return m.SaveFn(ctx, item)
	}
	return nil
}

func (m *mockItemSink) Saved() []domain.ActionItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.ActionItem(nil), m.saved...)
}

// mockArmer implements ReminderArmer, recording armed items.
type mockArmer struct {
	armed []domain.ActionItem
	mu    sync.Mutex
}

func (m *mockArmer) ArmForItem(item domain.ActionItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.armed = append(m.armed, item)
}

func (m *mockArmer) Armed() []domain.ActionItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.ActionItem(nil), m.armed...)
}
