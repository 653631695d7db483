package mocks

import (
	"context"
	"sync"

	"campus/shared/event"
)

// Recorder is an in-memory event.Publisher that keeps every published message.
type Recorder struct {
	mu       sync.Mutex
	messages []event.Message
	err      error
}

// Publish implements event.Publisher.
func (r *Recorder) Publish(_ context.Context, msg event.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return r.err
	}

	r.messages = append(r.messages, msg)

	return nil
}

// Close implements event.Publisher.
func (r *Recorder) Close() error {
	return nil
}

func (r *Recorder) Messages() []event.Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]event.Message(nil), r.messages...)
}

func (r *Recorder) Topics() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	topics := make([]string, 0, len(r.messages))
	for _, msg := range r.messages {
		topics = append(topics, msg.Topic)
	}

	return topics
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// NewFailingRecorder returns a publisher whose every Publish fails with err.
func NewFailingRecorder(err error) *Recorder {
	return &Recorder{err: err}
}
