// Package reminder runs the periodic check that turns due reminders into
// notification events.
package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
	"github.com/zstar1003/Tosticker/internal/metrics"
	"github.com/zstar1003/Tosticker/internal/models"
)

// DefaultInterval is the period between reminder checks.
const DefaultInterval = 60 * time.Second

// Scanner finds todos whose reminder is due at now.
type Scanner interface {
	DueReminders(ctx context.Context, now time.Time) ([]models.Todo, error)
}

// Notifier delivers a todo-reminder event for one todo.
type Notifier interface {
	Notify(ctx context.Context, todo models.Todo) error
}

// Loop periodically scans for due reminders and notifies about each one.
// A reminder keeps firing on every tick until the todo is completed,
// archived, or its reminder is cleared or moved into the future.
type Loop struct {
	scanner  Scanner
	notifier Notifier
	interval time.Duration
	logger   *logrus.Entry
	metrics  *metrics.Metrics
	now      func() time.Time

	mu        sync.Mutex
	scheduler gocron.Scheduler
	ctx       context.Context
	cancel    context.CancelFunc
}

// Option configures a Loop.
type Option func(*Loop)

// WithInterval sets the period between checks.
func WithInterval(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.interval = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logrus.Logger) Option {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger.WithField("component", "reminder")
		}
	}
}

// WithMetrics records tick outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Loop) {
		l.metrics = m
	}
}

// WithClock replaces the time source used for "now".
func WithClock(now func() time.Time) Option {
	return func(l *Loop) {
		l.now = now
	}
}

// New creates a reminder loop. It does nothing until Start is called.
func New(scanner Scanner, notifier Notifier, opts ...Option) *Loop {
	l := &Loop{
		scanner:  scanner,
		notifier: notifier,
		interval: DefaultInterval,
		logger:   logrus.StandardLogger().WithField("component", "reminder"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Interval returns the configured period between checks.
func (l *Loop) Interval() time.Duration {
	return l.interval
}

// Start schedules the check. The first tick runs immediately and ticks
// never overlap.
func (l *Loop) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.scheduler != nil {
		return fmt.Errorf("reminder loop already started")
	}

	sched, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	_, err = sched.NewJob(
		gocron.DurationJob(l.interval),
		gocron.NewTask(func() {
			l.Tick(ctx)
		}),
		gocron.WithName("reminder-check"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		cancel()
		_ = sched.Shutdown()
		return fmt.Errorf("schedule reminder check: %w", err)
	}

	sched.Start()
	l.scheduler = sched
	l.ctx = ctx
	l.cancel = cancel

	l.logger.WithField("interval", l.interval.String()).Info("Reminder loop started")
	return nil
}

// Stop cancels any in-flight tick and waits for it to return.
func (l *Loop) Stop() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.scheduler == nil {
		return nil
	}

	l.cancel()
	err := l.scheduler.Shutdown()
	l.scheduler = nil
	l.logger.Info("Reminder loop stopped")
	if err != nil {
		return fmt.Errorf("shutdown scheduler: %w", err)
	}
	return nil
}

// Tick runs one check and returns the number of events delivered.
// Failures are logged and never stop the loop.
func (l *Loop) Tick(ctx context.Context) int {
	now := l.now().UTC()

	due, err := l.scanner.DueReminders(ctx, now)
	if err != nil {
		l.logger.WithError(err).Warn("Reminder check failed")
		l.metrics.ObserveTick(0, err)
		return 0
	}

	sent := 0
	for _, todo := range due {
		if err := l.notifier.Notify(ctx, todo); err != nil {
			l.logger.WithFields(logrus.Fields{
				"todo_id": todo.ID,
				"error":   err.Error(),
			}).Warn("Reminder notification failed")
			l.metrics.NotifyFailed()
			continue
		}
		sent++
	}

	if len(due) > 0 {
		l.logger.WithFields(logrus.Fields{
			"due":  len(due),
			"sent": sent,
		}).Debug("Reminder check complete")
	}
	l.metrics.ObserveTick(sent, nil)
	return sent
}
