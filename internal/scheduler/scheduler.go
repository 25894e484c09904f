package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmacia/internal/service/alerts"
)

// AlertRefresher reloads the alert dashboard.
type AlertRefresher interface {
	Refresh(ctx context.Context) (alerts.Dashboard, error)
}

// SessionState tells whether an operator is logged in.
type SessionState interface {
	IsAuthenticated() bool
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	schedule string
	alerts   AlertRefresher
	session  SessionState
	logger   *zap.Logger
}

// NewScheduler creates a new scheduler instance. An empty schedule disables
// the alert refresh.
func NewScheduler(schedule string, alertSvc AlertRefresher, session SessionState, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Standard 5-field cron expressions in the local timezone.
	c := cron.New()

	return &Scheduler{
		cron:     c,
		schedule: schedule,
		alerts:   alertSvc,
		session:  session,
		logger:   logger,
	}
}

// Start registers the jobs and starts the scheduler.
func (s *Scheduler) Start() error {
	if s.schedule == "" {
		s.logger.Info("alert refresh disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, s.RefreshAlerts); err != nil {
		return fmt.Errorf("schedule alert refresh %q: %w", s.schedule, err)
	}

	s.logger.Info("starting scheduler", zap.String("alerts_cron", s.schedule))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

// RefreshAlerts reloads the dashboard while an operator is logged in.
func (s *Scheduler) RefreshAlerts() {
	if !s.session.IsAuthenticated() {
		s.logger.Debug("skipping alert refresh, no operator logged in")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	d, err := s.alerts.Refresh(ctx)
	if err != nil {
		s.logger.Error("failed to refresh alerts", zap.Error(err))
		return
	}
	s.logger.Info("alerts refreshed", zap.Int("alerts", d.Count()))
}
