package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// SessionPurger removes expired sessions
type SessionPurger interface {
	PurgeExpired(ctx context.Context) (int, error)
}

// SessionCleaner periodically deletes expired login sessions. Stores that
// expire keys on their own (Redis) report zero removals.
type SessionCleaner struct {
	sessions SessionPurger
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
	running  bool
	mu       sync.Mutex
}

// NewSessionCleaner creates a new session cleanup job
func NewSessionCleaner(sessions SessionPurger, interval time.Duration) *SessionCleaner {
	if interval <= 0 {
		interval = time.Hour
	}
	return &SessionCleaner{
		sessions: sessions,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the cleanup job
func (c *SessionCleaner) Start() {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.mu.Unlock()

	c.wg.Add(1)
	go c.run()
	slog.Info("session cleaner started", slog.Duration("interval", c.interval))
}

// Stop gracefully stops the cleanup job
func (c *SessionCleaner) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	c.mu.Unlock()

	close(c.stopCh)
	c.wg.Wait()
	slog.Info("session cleaner stopped")
}

func (c *SessionCleaner) run() {
	defer c.wg.Done()

	c.clean()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.clean()
		case <-c.stopCh:
			return
		}
	}
}

func (c *SessionCleaner) clean() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := c.sessions.PurgeExpired(ctx); err != nil {
		slog.Error("session cleanup failed", slog.String("error", err.Error()))
	}
}
