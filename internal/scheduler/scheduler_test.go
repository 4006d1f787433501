package scheduler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/robfig/cron/v3"

	"github.com/dukerupert/choreboard/internal/metrics"
)

type fakePurger struct {
	n     int64
	err   error
	calls int
}

func (f *fakePurger) DeleteExpired() (int64, error) {
	f.calls++
	return f.n, f.err
}

type fakeSweeper struct {
	calls int
}

func (f *fakeSweeper) Cleanup() int {
	f.calls++
	return 2
}

type fakeRoller struct {
	calls int
	err   error
}

func (f *fakeRoller) Run(now time.Time) (int, error) {
	f.calls++
	return 0, f.err
}

type fakeReminder struct {
	calls int
	at    time.Time
}

func (f *fakeReminder) Run(ctx context.Context, now time.Time) (int, error) {
	f.calls++
	f.at = now
	return 1, nil
}

type fakePruner struct {
	before time.Time
}

func (f *fakePruner) DeleteSentBefore(before time.Time) (int64, error) {
	f.before = before
	return 4, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPurgeSessionsCountsMetric(t *testing.T) {
	before := testutil.ToFloat64(metrics.SessionsPurgedTotal)

	PurgeSessions(&fakePurger{n: 3}, discardLogger())

	if got := testutil.ToFloat64(metrics.SessionsPurgedTotal) - before; got != 3 {
		t.Errorf("sessions purged metric grew by %v, want 3", got)
	}
}

func TestPurgeSessionsError(t *testing.T) {
	before := testutil.ToFloat64(metrics.SessionsPurgedTotal)

	p := &fakePurger{n: 5, err: errors.New("db locked")}
	PurgeSessions(p, discardLogger())

	if p.calls != 1 {
		t.Errorf("calls = %d, want 1", p.calls)
	}
	if got := testutil.ToFloat64(metrics.SessionsPurgedTotal) - before; got != 0 {
		t.Errorf("metric grew by %v on error, want 0", got)
	}
}

func TestEveryRejectsShortInterval(t *testing.T) {
	s := New(discardLogger())
	if _, err := s.Every(500*time.Millisecond, func() {}); err == nil {
		t.Error("expected error for sub-second interval")
	}
}

func TestAddHousekeeping(t *testing.T) {
	s := New(discardLogger())
	if err := s.AddHousekeeping(&fakePurger{}, &fakeSweeper{}, &fakeRoller{}); err != nil {
		t.Fatalf("AddHousekeeping: %v", err)
	}
	if got := len(s.cron.Entries()); got != 3 {
		t.Errorf("entries = %d, want 3", got)
	}
}

func TestSchedulerRunsJobs(t *testing.T) {
	s := New(discardLogger())
	ran := make(chan struct{}, 1)
	if _, err := s.Every(time.Second, func() {
		select {
		case ran <- struct{}{}:
		default:
		}
	}); err != nil {
		t.Fatalf("Every: %v", err)
	}

	s.Start()
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}
}

func TestSweepRateLimiter(t *testing.T) {
	sw := &fakeSweeper{}
	SweepRateLimiter(sw, discardLogger())
	if sw.calls != 1 {
		t.Errorf("calls = %d, want 1", sw.calls)
	}
}

func TestRollRecurringLogsError(t *testing.T) {
	r := &fakeRoller{err: errors.New("boom")}
	RollRecurring(r, discardLogger())
	if r.calls != 1 {
		t.Errorf("calls = %d, want 1", r.calls)
	}
}

func TestAddCron(t *testing.T) {
	s := New(discardLogger())
	if _, err := s.AddCron("0 3 * * *", func() {}); err != nil {
		t.Errorf("valid spec: %v", err)
	}
	if _, err := s.AddCron("every night", func() {}); err == nil {
		t.Error("expected error for invalid spec")
	}
}

func TestAddReminders(t *testing.T) {
	s := New(discardLogger())
	if err := s.AddReminders(context.Background(), &fakeReminder{}, &fakePruner{}); err != nil {
		t.Fatalf("AddReminders: %v", err)
	}
	if got := len(s.cron.Entries()); got != 2 {
		t.Errorf("entries = %d, want 2", got)
	}
}

func TestSendReminders(t *testing.T) {
	r := &fakeReminder{}
	SendReminders(context.Background(), r, discardLogger())
	if r.calls != 1 {
		t.Errorf("calls = %d, want 1", r.calls)
	}
	if time.Since(r.at) > time.Minute {
		t.Errorf("reminder ran with stale time %v", r.at)
	}
}

func TestPruneSent(t *testing.T) {
	p := &fakePruner{}
	PruneSent(p, discardLogger())
	age := time.Since(p.before)
	if age < SentRetention-time.Minute || age > SentRetention+time.Minute {
		t.Errorf("pruned before %v ago, want about %v", age, SentRetention)
	}
}

func TestRecoveredPanicIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	job := cron.Recover(cronLogger{logger})(cron.FuncJob(func() { panic("backup exploded") }))
	job.Run()

	out := buf.String()
	for _, want := range []string{"level=ERROR", "cron: panic", "backup exploded"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}
