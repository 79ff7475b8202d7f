// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"sync"
	"sync/atomic"
)

// Reporter accepts events from task goroutines.
type Reporter interface {
	// Report delivers the event, blocking until the consumer has room for it.
	// It returns false if the reporter was closed and the event was discarded.
	Report(event Event) bool
	// Close stops delivery. Pending and future Report calls return false instead of blocking.
	Close()
}

var _ Reporter = (*Channel)(nil)

// Channel is a Reporter backed by a Go channel with a single consumer.
//
// The data channel is never closed because there are many senders. Close only releases
// senders that would otherwise block forever once the consumer has stopped reading.
type Channel struct {
	ch      chan Event
	closed  chan struct{}
	once    sync.Once
	dropped atomic.Int64
}

// NewChannel returns a Channel with the given buffer size.
func NewChannel(bufferSize int) *Channel {
	return &Channel{
		ch:     make(chan Event, bufferSize),
		closed: make(chan struct{}),
	}
}

// Report implements Reporter. Events are never dropped while the Channel is open.
func (c *Channel) Report(event Event) bool {
	select {
	case <-c.closed:
		c.dropped.Add(1)
		return false
	default:
	}

	select {
	case c.ch <- event:
		return true
	case <-c.closed:
		c.dropped.Add(1)
		return false
	}
}

// Close implements Reporter. It is safe to call more than once.
func (c *Channel) Close() {
	c.once.Do(func() {
		close(c.closed)
	})
}

// Events returns the receive side for the consumer.
func (c *Channel) Events() <-chan Event {
	return c.ch
}

// Dropped returns how many events were discarded after Close.
func (c *Channel) Dropped() int64 {
	return c.dropped.Load()
}
