// Package events fans out freshly recorded portfolio snapshots to
// subscribers such as the SSE stream of the web server.
package events

import (
	"sync"

	"github.com/vadiminshakov/walletrack/internal/domain"
)

// PortfolioBroadcaster fans out snapshots to all subscribers via buffered
// channels. Slow consumers drop updates instead of blocking the tracker loop.
type PortfolioBroadcaster struct {
	mu     sync.RWMutex
	subs   map[chan domain.PortfolioSnapshot]struct{}
	buffer int
}

// NewPortfolioBroadcaster creates a broadcaster with the given per-subscriber buffer.
func NewPortfolioBroadcaster(buffer int) *PortfolioBroadcaster {
	if buffer < 1 {
		buffer = 16
	}
	return &PortfolioBroadcaster{
		subs:   make(map[chan domain.PortfolioSnapshot]struct{}),
		buffer: buffer,
	}
}

// Publish sends the snapshot to all subscribers, dropping if a reader is slow.
func (b *PortfolioBroadcaster) Publish(s domain.PortfolioSnapshot) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- s:
		default:
			// drop slow consumer
		}
	}
}

// Subscribe returns a channel that receives snapshots until Unsubscribe is called.
func (b *PortfolioBroadcaster) Subscribe() chan domain.PortfolioSnapshot {
	ch := make(chan domain.PortfolioSnapshot, b.buffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes the channel and closes it.
func (b *PortfolioBroadcaster) Unsubscribe(ch chan domain.PortfolioSnapshot) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}
