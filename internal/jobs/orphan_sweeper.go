package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Sweeper removes services left without a customer
type Sweeper interface {
	SweepOrphans(ctx context.Context) (int, error)
}

// OrphanSweeper periodically deletes services whose customer is gone
type OrphanSweeper struct {
	catalog  Sweeper
	interval time.Duration
	timeout  time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
	running  bool
	mu       sync.Mutex
}

// NewOrphanSweeper creates a new orphan sweeper job
func NewOrphanSweeper(catalog Sweeper, interval time.Duration) *OrphanSweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &OrphanSweeper{
		catalog:  catalog,
		interval: interval,
		timeout:  5 * time.Minute,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the sweeper job
func (s *OrphanSweeper) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run()
	slog.Info("orphan sweeper started", slog.Duration("interval", s.interval))
}

// Stop gracefully stops the sweeper job
func (s *OrphanSweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()
	slog.Info("orphan sweeper stopped")
}

func (s *OrphanSweeper) run() {
	defer s.wg.Done()

	s.sweep()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

func (s *OrphanSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := s.RunOnce(ctx); err != nil {
		slog.Error("orphan sweep failed", slog.String("error", err.Error()))
	}
}

// RunOnce sweeps once and returns how many services were removed
func (s *OrphanSweeper) RunOnce(ctx context.Context) (int, error) {
	n, err := s.catalog.SweepOrphans(ctx)
	if err != nil {
		return 0, err
	}
	slog.Debug("orphan sweep finished", slog.Int("removed", n))
	return n, nil
}
