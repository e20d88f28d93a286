package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"policereserves/roster/internal/common"
	"policereserves/roster/internal/config"
	"policereserves/roster/internal/constants"
	"policereserves/roster/internal/db/repositories"
	"policereserves/roster/internal/logging"
	"policereserves/roster/internal/metrics"
	"policereserves/roster/internal/models/dtos"
	gormModels "policereserves/roster/internal/models/gorm"

	"golang.org/x/sync/errgroup"
)

const reminderTimeLayout = "Mon Jan 2 15:04 MST"

// ReminderJob sweeps for sessions, equipment returns and policies that are
// due a reminder and writes one notification per match
type ReminderJob struct {
	store     *repositories.Store
	publisher common.NotificationPublisher
	metrics   *metrics.MetricsRegistry
	cfg       config.ReminderConfig
	now       func() time.Time
}

// NewReminderJob creates the job. publisher may be nil when Redis is not
// configured; notifications are then only stored.
func NewReminderJob(
	store *repositories.Store,
	publisher common.NotificationPublisher,
	m *metrics.MetricsRegistry,
	cfg config.ReminderConfig,
) *ReminderJob {
	return &ReminderJob{
		store:     store,
		publisher: publisher,
		metrics:   m,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// window returns [now+LeadTime, now+LeadTime+Window) and the dedup cutoff
func (j *ReminderJob) window(now time.Time) (from, to, remindedBefore time.Time) {
	from = now.Add(j.cfg.LeadTime)
	return from, from.Add(j.cfg.Window), now.Add(-j.cfg.Window)
}

func (j *ReminderJob) SendEventReminders(ctx context.Context) (int, error) {
	now := j.now()
	from, to, cutoff := j.window(now)

	events, err := j.store.Events.ListDueForReminder(ctx, from, to, cutoff)
	if err != nil {
		return 0, err
	}

	var (
		sent int
		errs []error
	)
	for _, e := range events {
		n := &gormModels.Notification{
			Kind:      constants.NotificationEvent,
			SubjectID: e.ID,
			Message:   sessionMessage(e.Name, e.Location, e.StartTime),
			CreatedAt: now,
		}
		err := j.notify(ctx, n, func(tx *repositories.Store) error {
			return tx.Events.MarkReminded(ctx, e.ID, now)
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("event %d: %w", e.ID, err))
			continue
		}
		sent++
	}

	return sent, errors.Join(errs...)
}

func (j *ReminderJob) SendTrainingReminders(ctx context.Context) (int, error) {
	now := j.now()
	from, to, cutoff := j.window(now)

	trainings, err := j.store.Trainings.ListDueForReminder(ctx, from, to, cutoff)
	if err != nil {
		return 0, err
	}

	var (
		sent int
		errs []error
	)
	for _, tr := range trainings {
		n := &gormModels.Notification{
			Kind:      constants.NotificationTraining,
			SubjectID: tr.ID,
			Message:   sessionMessage(tr.Name, tr.Location, tr.StartTime),
			CreatedAt: now,
		}
		err := j.notify(ctx, n, func(tx *repositories.Store) error {
			return tx.Trainings.MarkReminded(ctx, tr.ID, now)
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("training %d: %w", tr.ID, err))
			continue
		}
		sent++
	}

	return sent, errors.Join(errs...)
}

// SendEquipmentReturnReminders notifies the holder of each open checkout
// whose expected return date falls in the window
func (j *ReminderJob) SendEquipmentReturnReminders(ctx context.Context) (int, error) {
	now := j.now()
	from, to, cutoff := j.window(now)

	due, err := j.store.Equipment.ListReturnsDue(ctx, from, to, cutoff)
	if err != nil {
		return 0, err
	}

	var (
		sent int
		errs []error
	)
	for _, a := range due {
		name := "equipment"
		if a.Equipment != nil {
			name = a.Equipment.Name
		}
		userID := a.UserID
		n := &gormModels.Notification{
			Kind:      constants.NotificationEquipmentReturn,
			SubjectID: a.ID,
			UserID:    &userID,
			Message:   fmt.Sprintf("Please return %s by %s", name, a.ExpectedReturnDate.Format("Mon Jan 2")),
			CreatedAt: now,
		}
		err := j.notify(ctx, n, func(tx *repositories.Store) error {
			return tx.Equipment.MarkAssignmentReminded(ctx, a.ID, now)
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("assignment %d: %w", a.ID, err))
			continue
		}
		sent++
	}

	return sent, errors.Join(errs...)
}

// SendPolicyReminders nags about every active policy on a recurring cadence
func (j *ReminderJob) SendPolicyReminders(ctx context.Context) (int, error) {
	now := j.now()

	policies, err := j.store.Policies.ListDueForReminder(ctx, now.Add(-j.cfg.PolicyInterval))
	if err != nil {
		return 0, err
	}

	var (
		sent int
		errs []error
	)
	for _, p := range policies {
		n := &gormModels.Notification{
			Kind:      constants.NotificationPolicy,
			SubjectID: p.ID,
			Message:   fmt.Sprintf("Please review policy %s: %s", p.Number, p.Name),
			CreatedAt: now,
		}
		err := j.notify(ctx, n, func(tx *repositories.Store) error {
			return tx.Policies.MarkReminded(ctx, p.ID, now)
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("policy %d: %w", p.ID, err))
			continue
		}
		sent++
	}

	return sent, errors.Join(errs...)
}

// notify stores n and marks its subject in one transaction, then publishes
// it. A publish failure is logged only: the row is committed and the
// delivery side can backfill from the table.
func (j *ReminderJob) notify(ctx context.Context, n *gormModels.Notification, mark func(tx *repositories.Store) error) error {
	log := logging.FromContext(ctx)

	err := j.store.InTx(ctx, func(tx *repositories.Store) error {
		if err := tx.Notifications.Create(ctx, n); err != nil {
			return err
		}
		return mark(tx)
	})
	if err != nil {
		log.Errorw("reminder failed", "kind", n.Kind, "subject_id", n.SubjectID, "error", err)
		return err
	}

	if j.publisher != nil {
		if err := j.publisher.Publish(ctx, n); err != nil {
			log.Warnw("failed to publish notification", "notification_id", n.ID, "error", err)
		}
	}
	return nil
}

func sessionMessage(name, location string, start time.Time) string {
	msg := fmt.Sprintf("Reminder: %s starts %s", name, start.UTC().Format(reminderTimeLayout))
	if location != "" {
		msg += " at " + location
	}
	return msg
}

type sweep struct {
	kind constants.NotificationKind
	run  func(context.Context) (int, error)
}

func (j *ReminderJob) sweeps() []sweep {
	return []sweep{
		{constants.NotificationEvent, j.SendEventReminders},
		{constants.NotificationTraining, j.SendTrainingReminders},
		{constants.NotificationEquipmentReturn, j.SendEquipmentReturnReminders},
		{constants.NotificationPolicy, j.SendPolicyReminders},
	}
}

// RunAll runs every sweep concurrently. A failing sweep does not stop the
// others; its error is reported in its result and nothing is retried.
func (j *ReminderJob) RunAll(ctx context.Context) []dtos.SweepResult {
	log := logging.FromContext(ctx).With("module", "reminders", "op", "RunAll")

	sweeps := j.sweeps()
	results := make([]dtos.SweepResult, len(sweeps))

	var g errgroup.Group
	for i, s := range sweeps {
		g.Go(func() error {
			start := time.Now()
			sent, err := s.run(ctx)
			elapsed := time.Since(start)

			results[i] = dtos.SweepResult{
				Kind:       s.kind.String(),
				Sent:       sent,
				DurationMs: elapsed.Milliseconds(),
			}

			outcome := "success"
			if err != nil {
				outcome = "failure"
				results[i].Error = err.Error()
				log.Errorw("reminder sweep failed", "kind", s.kind, "sent", sent, "error", err)
			} else {
				log.Infow("reminder sweep completed", "kind", s.kind, "sent", sent, "duration", elapsed)
			}

			if j.metrics != nil {
				j.metrics.ReminderSweepsTotal.WithLabelValues(s.kind.String(), outcome).Inc()
				j.metrics.ReminderSweepDuration.WithLabelValues(s.kind.String()).Observe(elapsed.Seconds())
				j.metrics.RemindersSentTotal.WithLabelValues(s.kind.String()).Add(float64(sent))
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// RunScheduled runs all sweeps on every tick until ctx is cancelled
func (j *ReminderJob) RunScheduled(ctx context.Context, interval time.Duration) {
	log := logging.FromContext(ctx).With("module", "reminders")
	log.Infow("starting scheduled reminders", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.RunAll(ctx)
		case <-ctx.Done():
			log.Infow("shutting down scheduled reminders")
			return
		}
	}
}
