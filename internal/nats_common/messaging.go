package nats_common

import (
	"context"
	"sync"

	"github.com/ZanzyTHEbar/spendr-go/interfaces"
)

// Publisher announces committed ledger changes.
type Publisher interface {
	Publish(ctx context.Context, event *interfaces.Event) error
	Close() error
}

// NoopPublisher drops every event. It is used when NATS is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, *interfaces.Event) error { return nil }

func (NoopPublisher) Close() error { return nil }

// PublishedMessage is one event recorded by a MemoryPublisher.
type PublishedMessage struct {
	Subject string
	Event   *interfaces.Event
}

// MemoryPublisher keeps published events in memory.
type MemoryPublisher struct {
	mu       sync.Mutex
	prefix   string
	messages []PublishedMessage
}

func NewMemoryPublisher(prefix string) *MemoryPublisher {
	return &MemoryPublisher{prefix: prefix}
}

func (p *MemoryPublisher) Publish(ctx context.Context, event *interfaces.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, PublishedMessage{
		Subject: Subject(p.prefix, event.Type),
		Event:   event,
	})
	return nil
}

func (p *MemoryPublisher) Close() error { return nil }

// Messages returns the recorded events whose subject matches pattern, oldest first.
func (p *MemoryPublisher) Messages(pattern string) []PublishedMessage {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []PublishedMessage
	for _, msg := range p.messages {
		if MatchSubject(pattern, msg.Subject) {
			out = append(out, msg)
		}
	}
	return out
}

// Reset forgets every recorded event.
func (p *MemoryPublisher) Reset() {
	p.mu.Lock()
	p.messages = nil
	p.mu.Unlock()
}
