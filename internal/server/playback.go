package server

import (
	"context"
	"sync"
)

// PlaybackRegistry tracks in-flight audio streams.
//
// In exclusive mode, beginning a stream aborts every other registered
// stream, so at most one sample plays at a time.
type PlaybackRegistry struct {
	mu        sync.Mutex
	active    map[int64]context.CancelFunc
	next      int64
	exclusive bool
}

// NewPlaybackRegistry creates a registry. Exclusive mode enforces
// single-sample playback.
func NewPlaybackRegistry(exclusive bool) *PlaybackRegistry {
	return &PlaybackRegistry{
		active:    make(map[int64]context.CancelFunc),
		exclusive: exclusive,
	}
}

// Begin registers a stream and returns its context plus a release
// function the caller must invoke when the stream ends.
func (p *PlaybackRegistry) Begin(ctx context.Context) (context.Context, func()) {
	streamCtx, cancel := context.WithCancel(ctx)

	p.mu.Lock()
	if p.exclusive {
		for id, abort := range p.active {
			abort()
			delete(p.active, id)
		}
	}
	p.next++
	id := p.next
	p.active[id] = cancel
	p.mu.Unlock()

	release := func() {
		p.mu.Lock()
		if stored, ok := p.active[id]; ok {
			delete(p.active, id)
			p.mu.Unlock()
			stored()
			return
		}
		p.mu.Unlock()
	}

	return streamCtx, release
}

// StopAll aborts every registered stream.
func (p *PlaybackRegistry) StopAll() {
	p.mu.Lock()
	cancels := make([]context.CancelFunc, 0, len(p.active))
	for id, cancel := range p.active {
		cancels = append(cancels, cancel)
		delete(p.active, id)
	}
	p.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}

// ActiveStreams returns the number of registered streams.
func (p *PlaybackRegistry) ActiveStreams() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.active)
}
