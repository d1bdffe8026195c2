package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"nbserve/internal/tasks"
)

// CleanupScheduler periodically enqueues conversion event cleanup tasks.
type CleanupScheduler struct {
	client        *tasks.Client
	schedule      string
	retentionDays int

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

func NewCleanupScheduler(client *tasks.Client, schedule string, retentionDays int) *CleanupScheduler {
	return &CleanupScheduler{
		client:        client,
		schedule:      schedule,
		retentionDays: retentionDays,
		cron:          cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler.
func (s *CleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.client == nil {
		log.Printf("Cleanup scheduler: task queue not configured, skipping")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.enqueueCleanup()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule cleanup job with '%s': %w", s.schedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Cleanup scheduler: started with schedule '%s'", s.schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler.
func (s *CleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	// Stop accepting new jobs and wait for running jobs to complete
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Cleanup scheduler: stopped")
}

// RunNow enqueues an immediate cleanup.
func (s *CleanupScheduler) RunNow() {
	go s.enqueueCleanup()
}

// IsRunning returns whether the scheduler is active.
func (s *CleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next cleanup will be enqueued.
func (s *CleanupScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *CleanupScheduler) enqueueCleanup() {
	_, err := s.client.Add(tasks.CleanupConversionEventsTask{
		RetentionDays: s.retentionDays,
	}).Save()
	if err != nil {
		log.Printf("Cleanup scheduler: failed to enqueue cleanup task: %v", err)
		return
	}
	log.Printf("Cleanup scheduler: enqueued conversion event cleanup (retention %d days)", s.retentionDays)
}
