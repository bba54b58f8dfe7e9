// Package manager runs the checks of a profile against one directory and
// delivers their reports, in profile order, to a single completion callback.
//
// Every check runs on its own goroutine. A check that reports errors, panics,
// or cannot be constructed is turned into a [report.ErrorReport] at its
// position; a check that reports nothing is left out. Neither outcome affects
// the other checks of the run.
package manager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spboyer/dircheck/internal/checks"
	"github.com/spboyer/dircheck/internal/profile"
	"github.com/spboyer/dircheck/internal/report"
)

// ErrCheckTimeout is reported for a check that did not call back within the
// timeout set by [WithCheckTimeout].
var ErrCheckTimeout = errors.New("check timed out")

// Status is the terminal state of one check in a run.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusIgnored   Status = "ignored"
	StatusFailed    Status = "failed"
)

// EventType represents the type of progress event
type EventType string

const (
	EventCheckStart    EventType = "check_start"
	EventCheckComplete EventType = "check_complete"
	EventRunComplete   EventType = "run_complete"
)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	EventType EventType
	CheckID   string
	Index     int
	Total     int
	// Status is set for EventCheckComplete.
	Status Status
}

// ProgressListener receives progress updates. Listeners are called from the
// goroutines running the checks and must be safe for concurrent use. A
// panicking listener is logged and skipped; it never fails a check.
type ProgressListener func(event ProgressEvent)

// Option configures a Manager.
type Option func(*Manager)

// WithRegistry sets the registry check ids are resolved against.
func WithRegistry(reg *checks.Registry) Option {
	return func(m *Manager) {
		m.registry = reg
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

// WithProgress registers a progress listener.
func WithProgress(l ProgressListener) Option {
	return func(m *Manager) {
		m.listeners = append(m.listeners, l)
	}
}

// WithCheckTimeout fails any check that has not called back after d. The
// check's context is cancelled at the same time. Zero disables the timeout,
// in which case a check that never calls back keeps the run from completing.
func WithCheckTimeout(d time.Duration) Option {
	return func(m *Manager) {
		m.timeout = d
	}
}

// Manager runs profiles against a single directory.
type Manager struct {
	dir       string
	registry  *checks.Registry
	logger    *slog.Logger
	listeners []ProgressListener
	timeout   time.Duration
}

// New creates a Manager bound to dir.
func New(dir string, opts ...Option) *Manager {
	m := &Manager{
		dir:      dir,
		registry: checks.Default,
		logger:   slog.Default(),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Dir returns the directory the manager checks.
func (m *Manager) Dir() string { return m.dir }

// Execute starts one run of p and returns immediately. done is invoked
// exactly once, from another goroutine, after every check has settled, with
// the reports of the checks that produced one, in profile order. Check
// instances are constructed fresh for every call. A panic in done is not
// recovered and is never attributed to a check.
func (m *Manager) Execute(ctx context.Context, p *profile.Profile, done func([]report.Report)) {
	if p == nil {
		p = &profile.Profile{}
	}
	r := &run{
		m:       m,
		profile: p,
		slots:   make([]slot, len(p.Checks)),
		done:    done,
	}
	r.pending.Store(int64(len(p.Checks)))

	if len(p.Checks) == 0 {
		go r.finish()
		return
	}
	for i := range p.Checks {
		go r.start(ctx, i)
	}
}

// Run executes p and waits for its reports. If ctx is done first, Run
// returns ctx.Err(); checks still in flight are left to finish on their own.
func (m *Manager) Run(ctx context.Context, p *profile.Profile) ([]report.Report, error) {
	ch := make(chan []report.Report, 1)
	m.Execute(ctx, p, func(reports []report.Report) {
		ch <- reports
	})

	select {
	case reports := <-ch:
		return reports, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (m *Manager) notify(event ProgressEvent) {
	for _, l := range m.listeners {
		m.callListener(l, event)
	}
}

func (m *Manager) callListener(l ProgressListener, event ProgressEvent) {
	defer func() {
		if v := recover(); v != nil {
			m.logger.Error("progress listener panicked", "event", event.EventType, "check", event.CheckID, "panic", v)
		}
	}()
	l(event)
}

// callbackPanic carries a panic raised by the completion callback past the
// recover in start.
type callbackPanic struct {
	value any
}

func (p callbackPanic) Error() string {
	return fmt.Sprintf("completion callback panicked: %v", p.value)
}

// slot holds the outcome of the check at one profile position. It settles
// once; later callbacks are ignored.
type slot struct {
	once   sync.Once
	status Status
	report report.Report
}

// run is the state of one Execute call.
type run struct {
	m       *Manager
	profile *profile.Profile
	slots   []slot
	pending atomic.Int64
	done    func([]report.Report)
}

func (r *run) start(ctx context.Context, i int) {
	id := r.profile.Checks[i].ID
	cancel := context.CancelFunc(func() {})

	defer func() {
		if v := recover(); v != nil {
			if cp, ok := v.(callbackPanic); ok {
				panic(cp.value)
			}
			r.m.logger.Warn("check panicked", "check", id, "panic", v)
			r.settle(i, nil, []error{&checks.PanicError{CheckID: id, Value: v, Stack: debug.Stack()}})
			cancel()
		}
	}()

	r.m.notify(ProgressEvent{EventType: EventCheckStart, CheckID: id, Index: i, Total: len(r.slots)})
	r.m.logger.Debug("check started", "check", id, "index", i, "dir", r.m.dir)

	chk, err := r.m.registry.New(id, r.profile.OptionsFor(i))
	if err != nil {
		r.settle(i, nil, []error{fmt.Errorf("creating check %q: %w", id, err)})
		return
	}
	if chk == nil {
		r.settle(i, nil, []error{fmt.Errorf("creating check %q: factory returned no check", id)})
		return
	}

	var timer *time.Timer
	if d := r.m.timeout; d > 0 {
		ctx, cancel = context.WithTimeout(ctx, d)
		timer = time.AfterFunc(d, func() {
			r.settle(i, nil, []error{fmt.Errorf("%w after %s", ErrCheckTimeout, d)})
		})
	}

	chk.Execute(ctx, r.m.dir, func(rep report.Report, errs []error) {
		if timer != nil {
			timer.Stop()
		}
		r.settle(i, rep, errs)
		cancel()
	})
}

// settle records the outcome of the check at position i. Only the first
// call for a position has any effect.
func (r *run) settle(i int, rep report.Report, errs []error) {
	id := r.profile.Checks[i].ID
	s := &r.slots[i]

	first := false
	s.once.Do(func() {
		first = true
		errs = compactErrors(errs)
		switch {
		case len(errs) > 0:
			s.status = StatusFailed
			s.report = report.NewErrorReport(id, errs)
		case isNilReport(rep):
			s.status = StatusIgnored
		default:
			s.status = StatusSucceeded
			s.report = rep
		}
	})
	if !first {
		r.m.logger.Warn("check reported more than once, ignoring", "check", id, "index", i)
		return
	}

	r.m.logger.Debug("check settled", "check", id, "index", i, "status", s.status)
	r.m.notify(ProgressEvent{EventType: EventCheckComplete, CheckID: id, Index: i, Total: len(r.slots), Status: s.status})

	if r.pending.Add(-1) == 0 {
		r.finish()
	}
}

func (r *run) finish() {
	reports := make([]report.Report, 0, len(r.slots))
	for i := range r.slots {
		if r.slots[i].status != StatusIgnored {
			reports = append(reports, r.slots[i].report)
		}
	}

	r.m.notify(ProgressEvent{EventType: EventRunComplete, Total: len(r.slots)})
	r.m.logger.Debug("run complete", "profile", r.profile.Name, "checks", len(r.slots), "reports", len(reports))
	r.deliver(reports)
}

func (r *run) deliver(reports []report.Report) {
	defer func() {
		if v := recover(); v != nil {
			panic(callbackPanic{value: v})
		}
	}()
	r.done(reports)
}

func compactErrors(errs []error) []error {
	var out []error
	for _, err := range errs {
		if err != nil {
			out = append(out, err)
		}
	}
	return out
}

// isNilReport also catches a nil pointer stored in the interface.
func isNilReport(rep report.Report) bool {
	if rep == nil {
		return true
	}
	v := reflect.ValueOf(rep)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
