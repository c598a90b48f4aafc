package scheduler

import (
	"context"
	"time"

	"KeepUpDaily/internal/ports"
)

// DailyScheduler triggers the pipeline immediately and then once per day.
type DailyScheduler struct {
	interval time.Duration
	stop     chan struct{}
}

var _ ports.Scheduler = (*DailyScheduler)(nil)

// NewDailyScheduler builds a ticker-backed scheduler.
func NewDailyScheduler() *DailyScheduler {
	return &DailyScheduler{interval: 24 * time.Hour}
}

// Start begins ticking; the job runs once right away.
func (d *DailyScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	if d.stop != nil {
		return nil
	}

	d.stop = make(chan struct{})
	go func() {
		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()
		job(time.Now())
		for {
			select {
			case t := <-ticker.C:
				job(t)
			case <-ctx.Done():
				return
			case <-d.stop:
				return
			}
		}
	}()

	return nil
}

// Stop halts the ticker goroutine.
func (d *DailyScheduler) Stop(ctx context.Context) error {
	if d.stop == nil {
		return nil
	}
	close(d.stop)
	d.stop = nil
	return nil
}
