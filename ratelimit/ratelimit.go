// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package ratelimit provides a sliding-window rate limiter keyed by
// (user, action). State is in-memory only: a restart resets all counters,
// which briefly relaxes limits but never threatens integrity.
package ratelimit

import (
	"sync"
	"time"
)

// Rule caps the number of events per key within a trailing window.
type Rule struct {
	Cap    int
	Window time.Duration
}

const (
	sweepInterval = 5 * time.Minute
)

type key struct {
	userID string
	action string
}

// Limiter tracks per (user, action) event timestamps, pruned to the active
// window. Safe for concurrent use.
type Limiter struct {
	mu    sync.Mutex
	rules map[string]Rule
	calls map[key][]time.Time
	done  chan struct{}
	once  sync.Once

	now func() time.Time // overridable in tests
}

// New creates a limiter with one Rule per action kind and starts the
// background sweep that drops idle keys.
func New(rules map[string]Rule) *Limiter {
	l := &Limiter{
		rules: rules,
		calls: make(map[key][]time.Time),
		done:  make(chan struct{}),
		now:   time.Now,
	}
	go l.sweepLoop()
	return l
}

// Allow reports whether userID may perform action now. On allow the event is
// recorded; on deny nothing is recorded and retryAfter hints when the oldest
// event leaves the window. Actions without a configured rule are always
// allowed.
func (l *Limiter) Allow(userID, action string) (allowed bool, retryAfter time.Duration) {
	rule, ok := l.rules[action]
	if !ok || rule.Cap <= 0 {
		return true, 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	k := key{userID, action}
	now := l.now()
	cutoff := now.Add(-rule.Window)

	kept := l.calls[k][:0]
	for _, ts := range l.calls[k] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	l.calls[k] = kept

	if len(kept) < rule.Cap {
		l.calls[k] = append(kept, now)
		return true, 0
	}

	// Oldest surviving event is the first to expire.
	return false, kept[0].Add(rule.Window).Sub(now)
}

// Reset clears all recorded events for a user across every action kind.
func (l *Limiter) Reset(userID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for k := range l.calls {
		if k.userID == userID {
			delete(l.calls, k)
		}
	}
}

// Close stops the background sweep.
func (l *Limiter) Close() {
	l.once.Do(func() { close(l.done) })
}

func (l *Limiter) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			l.sweep()
		}
	}
}

// sweep discards per-key records whose every event has left the window, so
// memory stays bounded by recently active users.
func (l *Limiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	for k, events := range l.calls {
		rule, ok := l.rules[k.action]
		if !ok {
			delete(l.calls, k)
			continue
		}
		cutoff := now.Add(-rule.Window)
		live := false
		for _, ts := range events {
			if ts.After(cutoff) {
				live = true
				break
			}
		}
		if !live {
			delete(l.calls, k)
		}
	}
}
