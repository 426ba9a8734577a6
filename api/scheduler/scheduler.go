package scheduler

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/openroadmotors/dealership-api/api/checkout"
	"github.com/openroadmotors/dealership-api/databases"
)

// staleSessionAge is how long a checkout session may stay pending before
// the sweeper reconciles it. Hosted checkout sessions expire upstream
// after 24 hours, so by this point the provider has a final answer.
const staleSessionAge = 24 * time.Hour

// Scheduler runs the periodic checkout session sweep
type Scheduler struct {
	cron        *cron.Cron
	Coordinator *checkout.Coordinator
	LockDB      databases.SchedulerLockDatabase
	instanceID  string
}

// NewScheduler creates a new scheduler instance
func NewScheduler(coordinator *checkout.Coordinator, lockDB databases.SchedulerLockDatabase) *Scheduler {
	// Generate a unique instance ID for this pod
	instanceID := os.Getenv("DYNO") // Heroku sets this to "web.1", "web.2", etc.
	if instanceID == "" {
		instanceID = fmt.Sprintf("instance-%d", time.Now().UnixNano())
	}

	return &Scheduler{
		cron:        cron.New(cron.WithLocation(time.UTC)),
		Coordinator: coordinator,
		LockDB:      lockDB,
		instanceID:  instanceID,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Sweep stale pending checkout sessions every 10 minutes
	_, err := s.cron.AddFunc("*/10 * * * *", s.sweepStaleSessions)
	if err != nil {
		zap.S().Errorw("failed to register session sweep job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("Checkout session scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("Checkout session scheduler stopped")
}

// sweepStaleSessions reconciles pending sessions older than staleSessionAge.
// Customers who abandon checkout never poll the status endpoint, so without
// this sweep their vehicles would stay reserved forever.
func (s *Scheduler) sweepStaleSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// Try to acquire distributed lock (10 minute TTL)
	acquired, err := s.LockDB.TryAcquireLock(ctx, "session_sweep_job", s.instanceID, 10*time.Minute)
	if err != nil {
		zap.S().Errorw("failed to acquire lock for session sweep job", "error", err)
		return
	}
	if !acquired {
		zap.S().Debug("Session sweep already running on another instance, skipping")
		return
	}
	defer s.LockDB.ReleaseLock(ctx, "session_sweep_job", s.instanceID)

	zap.S().Infow("Running checkout session sweep", "instance", s.instanceID)

	if err := s.Coordinator.SweepPendingSessions(ctx, staleSessionAge); err != nil {
		zap.S().Errorw("checkout session sweep failed", "error", err)
		return
	}

	zap.S().Info("Checkout session sweep complete")
}
