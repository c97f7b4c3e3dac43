package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

type contextKey string

const ContextProfileKey contextKey = "performanceProfile"

func NewPerformanceProfile() *PerformanceProfile {
	return &PerformanceProfile{
		StartTime: time.Now(),
		Events:    []PerformanceProfileEvent{},
	}
}

type PerformanceProfileEvent struct {
	Name      string `json:"name"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// PerformanceProfile records how long each step of a graph run took.
// Engines run concurrently so every mutation takes the lock
type PerformanceProfile struct {
	mu        sync.Mutex
	StartTime time.Time                 `json:"-"`
	Events    []PerformanceProfileEvent `json:"events"`
	TotalMs   int64                     `json:"totalMs"`
}

// GetPerformanceProfile returns the profile stored in ctx, or nil
func GetPerformanceProfile(ctx context.Context) *PerformanceProfile {
	p, _ := ctx.Value(ContextProfileKey).(*PerformanceProfile)
	return p
}

func WithPerformanceProfile(ctx context.Context, p *PerformanceProfile) context.Context {
	return context.WithValue(ctx, ContextProfileKey, p)
}

// Track starts timing name and returns the func that records it
func (p *PerformanceProfile) Track(name string) func() {
	if p == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		elapsed := time.Since(start).Milliseconds()
		p.mu.Lock()
		defer p.mu.Unlock()
		p.Events = append(p.Events, PerformanceProfileEvent{
			Name:      name,
			ElapsedMs: elapsed,
		})
	}
}

func (p *PerformanceProfile) End() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.TotalMs = time.Since(p.StartTime).Milliseconds()
}

func (p *PerformanceProfile) ToJsonBytes() ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	bytes, err := json.Marshal(struct {
		Events  []PerformanceProfileEvent `json:"events"`
		TotalMs int64                     `json:"totalMs"`
	}{p.Events, p.TotalMs})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal performance profile: %w", err)
	}
	return bytes, nil
}
