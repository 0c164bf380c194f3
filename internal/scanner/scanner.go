package scanner

import (
	"fmt"
	"sync"
	"time"

	"team-task-board/internal/ledger"
	"team-task-board/internal/models"
	"team-task-board/internal/notify"
	"team-task-board/internal/scheduler"
	"team-task-board/internal/session"
	"team-task-board/internal/store"

	"github.com/sirupsen/logrus"
)

// Reminder kinds. Overdue kinds embed the calendar day so an unresolved task
// reminds again each day; dueIn1/dueIn3 are one-shot forever. The asymmetry
// is deliberate: daily urgency for overdue work, a single heads-up otherwise.
const (
	KindDueIn1        = "dueIn1"
	KindDueIn3        = "dueIn3"
	overdueKindPrefix = "overdue-"
)

// OverdueKind returns the overdue reminder kind for the given day.
func OverdueKind(day time.Time) string {
	return overdueKindPrefix + day.Format("2006-01-02")
}

// Scanner periodically evaluates every open task against its deadline and
// dispatches at-most-once reminders through the emitter.
type Scanner struct {
	store    *store.Store
	ledger   *ledger.Ledger
	emitter  *notify.Emitter
	sessions *session.Registry

	interval  time.Duration
	bootDelay time.Duration

	mu        sync.Mutex
	sched     *scheduler.Scheduler
	bootTimer *time.Timer

	// now is injectable for tests.
	now func() time.Time
}

func New(st *store.Store, led *ledger.Ledger, em *notify.Emitter, sessions *session.Registry, interval, bootDelay time.Duration) *Scanner {
	return &Scanner{
		store:     st,
		ledger:    led,
		emitter:   em,
		sessions:  sessions,
		interval:  interval,
		bootDelay: bootDelay,
		now:       time.Now,
	}
}

// Start begins ticking: one short-delay first run, then the recurring
// interval. Calling Start while running is a no-op.
func (s *Scanner) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sched != nil {
		return nil
	}

	sched := scheduler.New(time.Local)
	if _, err := sched.ScheduleInterval(s.interval, s.Tick); err != nil {
		return err
	}
	sched.Start()
	s.sched = sched
	s.bootTimer = time.AfterFunc(s.bootDelay, s.Tick)
	return nil
}

// Stop halts future ticks and waits for a running tick to finish. In-flight
// email sends are not cancelled; only future ticks are prevented. Safe to
// call repeatedly, so repeated start/stop cycles do not leak timers.
func (s *Scanner) Stop() {
	s.mu.Lock()
	sched := s.sched
	timer := s.bootTimer
	s.sched = nil
	s.bootTimer = nil
	s.mu.Unlock()

	if timer != nil {
		timer.Stop()
	}
	if sched != nil {
		sched.Stop()
	}
}

// Tick performs one scan. It is exported so tests and the boot timer can
// invoke it directly; the cron schedule calls it on the configured interval.
func (s *Scanner) Tick() {
	// Session-scoped: no reminders while nobody is logged in.
	if !s.sessions.Active() {
		return
	}

	tasks, err := s.store.ListTasks()
	if err != nil {
		logrus.WithError(err).Error("scanner: failed to list tasks")
		return
	}

	today := midnight(s.now())

	type dispatch struct {
		pair ledger.Pair
		msg  notify.EmailMessage
	}
	var dispatches []dispatch

	for _, task := range tasks {
		if task.Status == models.StatusDone {
			continue
		}

		assignee, err := s.store.FindUserByID(task.AssigneeID)
		if err != nil || assignee.Email == "" {
			continue
		}

		deadline, ok := parseDeadline(task.Deadline)
		if !ok {
			continue
		}

		diffDays := int(deadline.Sub(today).Hours() / 24)

		var kind, subject, body string
		switch {
		case diffDays < 0:
			kind = OverdueKind(today)
			subject = fmt.Sprintf("OVERDUE: Task %q", task.Title)
			body = fmt.Sprintf("This is a daily reminder that your task %q was due on %s. Please update its status as soon as possible.",
				task.Title, formatDeadline(deadline))
		case diffDays == 1:
			kind = KindDueIn1
			subject = fmt.Sprintf("Reminder: Task %q is due tomorrow", task.Title)
			body = fmt.Sprintf("This is a friendly reminder that your task %q is due tomorrow, %s.",
				task.Title, formatDeadline(deadline))
		case diffDays == 3:
			kind = KindDueIn3
			subject = fmt.Sprintf("Reminder: Task %q is due in 3 days", task.Title)
			body = fmt.Sprintf("This is a friendly reminder that your task %q is due in 3 days, on %s.",
				task.Title, formatDeadline(deadline))
		default:
			// Sparse schedule: only exactly 1 and 3 days out.
			continue
		}

		if s.ledger.HasSent(task.ID, kind) {
			continue
		}

		dispatches = append(dispatches, dispatch{
			pair: ledger.Pair{TaskID: task.ID, Kind: kind},
			msg: notify.EmailMessage{
				ToName:  assignee.Name,
				ToEmail: assignee.Email,
				Subject: subject,
				Body:    fmt.Sprintf("Hi %s,\n\n%s\n\nThanks,\nTeam Task Manager", assignee.Name, body),
			},
		})
	}

	if len(dispatches) == 0 {
		return
	}

	// Dispatch everything for this tick, wait for all sends to settle, then
	// commit the whole batch to the ledger in one write. A failed send still
	// counts as attempted and is not retried today.
	var wg sync.WaitGroup
	for _, d := range dispatches {
		wg.Add(1)
		go func(msg notify.EmailMessage) {
			defer wg.Done()
			_ = s.emitter.EmitReminder(msg)
		}(d.msg)
	}
	wg.Wait()

	pairs := make([]ledger.Pair, 0, len(dispatches))
	for _, d := range dispatches {
		pairs = append(pairs, d.pair)
	}
	if err := s.ledger.MarkSentBatch(pairs); err != nil {
		logrus.WithError(err).Error("scanner: failed to persist sent reminders")
	}

	logrus.WithField("count", len(pairs)).Info("scanner: reminders dispatched")
}

// SetNowFunc overrides the clock. Intended for tests.
func (s *Scanner) SetNowFunc(now func() time.Time) {
	s.now = now
}

// midnight strips the time-of-day component, keeping calendar-day
// granularity for the deadline subtraction.
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func parseDeadline(dateStr string) (time.Time, bool) {
	if dateStr == "" {
		return time.Time{}, false
	}
	layouts := []string{
		"2006-01-02", // ISO date
		time.RFC3339, // full RFC3339, time-of-day dropped
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return midnight(t), true
		}
	}
	return time.Time{}, false
}

func formatDeadline(t time.Time) string {
	return t.Format("January 2, 2006")
}
