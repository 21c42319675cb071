package events

import (
	"context"
	"sync"
	"time"
)

type Action string

const (
	ActionAdd    Action = "add"
	ActionDelete Action = "delete"
)

type Phase string

const (
	PhasePending  Phase = "pending"
	PhaseResolved Phase = "resolved"
)

// Mutation announces a submission entering or leaving flight.
type Mutation struct {
	Action Action `json:"action"`
	Phase  Phase  `json:"phase"`
	Token  string `json:"token"`
	// Input is the submitted title for adds and the id for deletes.
	Input  string `json:"input"`
	Err    string `json:"error,omitempty"`
	Origin string `json:"origin,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, m Mutation) error
}

const (
	subscriberBuffer = 64
	resolveTimeout   = 5 * time.Second
)

// Broker fans mutations out to in-process subscribers.
// Publish waits for slow subscribers instead of dropping, so resolutions are never lost.
type Broker struct {
	mu   sync.Mutex
	subs map[chan Mutation]struct{}
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[chan Mutation]struct{})}
}

// Subscribe returns a feed of mutations and a func that ends the subscription.
func (b *Broker) Subscribe() (<-chan Mutation, func()) {
	ch := make(chan Mutation, subscriberBuffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, ch)
			b.mu.Unlock()
		})
	}
}

func (b *Broker) Publish(ctx context.Context, m Mutation) error {
	b.mu.Lock()
	subs := make([]chan Mutation, 0, len(b.subs))
	for ch := range b.subs {
		subs = append(subs, ch)
	}
	b.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- m:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Track publishes the pending phase, runs fn and publishes the resolved phase
// whether fn succeeded or not. fn's error is returned unchanged.
func Track(ctx context.Context, pub Publisher, m Mutation, fn func() error) error {
	if pub == nil {
		return fn()
	}

	m.Phase = PhasePending
	_ = pub.Publish(ctx, m)

	err := fn()

	m.Phase = PhaseResolved
	if err != nil {
		m.Err = err.Error()
	}
	// the caller may have gone away; subscribers still need the resolution
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), resolveTimeout)
	defer cancel()
	_ = pub.Publish(pubCtx, m)
	return err
}

// Signal is a coalescing change notification: a subscriber that misses
// several notifications sees one.
type Signal struct {
	mu   sync.Mutex
	subs map[chan struct{}]struct{}
}

func NewSignal() *Signal {
	return &Signal{subs: make(map[chan struct{}]struct{})}
}

func (s *Signal) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()
	return ch, func() {
		s.mu.Lock()
		delete(s.subs, ch)
		s.mu.Unlock()
	}
}

func (s *Signal) Notify() {
	s.mu.Lock()
	for ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	s.mu.Unlock()
}
