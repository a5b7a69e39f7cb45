// Package countdown provides a cancellable once-per-second countdown toward a
// target time. Each subscription owns its timer: acquire on Start, guaranteed
// release on Stop.
package countdown

import (
	"context"
	"sync"
	"time"
)

const (
	millisPerSecond = 1_000
	millisPerMinute = 60_000
	millisPerHour   = 3_600_000
	millisPerDay    = 86_400_000
)

// Snapshot is one observation of the time remaining until a target. All
// components are non-negative; a reached or invalid target collapses to the
// all-zero finished snapshot.
type Snapshot struct {
	Days     int  `json:"days"`
	Hours    int  `json:"hours"`
	Minutes  int  `json:"minutes"`
	Seconds  int  `json:"seconds"`
	Finished bool `json:"finished"`
}

// Remaining decomposes the duration between now and target by integer floor
// division of the millisecond difference. A zero target counts as already
// finished.
func Remaining(target, now time.Time) Snapshot {
	if target.IsZero() {
		return Snapshot{Finished: true}
	}

	diff := target.Sub(now)
	if diff <= 0 {
		return Snapshot{Finished: true}
	}

	ms := diff.Milliseconds()
	return Snapshot{
		Days:    int(ms / millisPerDay),
		Hours:   int(ms / millisPerHour % 24),
		Minutes: int(ms / millisPerMinute % 60),
		Seconds: int(ms / millisPerSecond % 60),
	}
}

// Ticker emits a Snapshot immediately on Start and then once per interval
// until the target is reached or Stop is called. Exactly one finished
// snapshot is emitted, after which no further ticks occur. A Ticker is not
// restartable; a new target requires a new Ticker.
type Ticker struct {
	target   time.Time
	interval time.Duration
	now      func() time.Time
	onTick   func(Snapshot)

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
}

// TickerParams configures a Ticker. OnTick is required; Interval defaults to
// one second and Now to time.Now.
type TickerParams struct {
	Target   time.Time
	OnTick   func(Snapshot)
	Interval time.Duration
	Now      func() time.Time
}

// NewTicker creates a ticker for the given target. It does not emit anything
// until Start is called.
func NewTicker(params TickerParams) *Ticker {
	interval := params.Interval
	if interval <= 0 {
		interval = time.Second
	}

	now := params.Now
	if now == nil {
		now = time.Now
	}

	onTick := params.OnTick
	if onTick == nil {
		onTick = func(Snapshot) {}
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Ticker{
		target:   params.Target,
		interval: interval,
		now:      now,
		onTick:   onTick,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start emits the current remaining duration immediately, then keeps emitting
// once per interval. Calling Start more than once has no effect.
func (t *Ticker) Start() {
	t.startOnce.Do(func() {
		snapshot := Remaining(t.target, t.now())
		t.onTick(snapshot)
		if snapshot.Finished {
			t.cancel()
			return
		}

		t.wg.Add(1)
		go t.run()
	})
}

func (t *Ticker) run() {
	defer t.wg.Done()

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if t.ctx.Err() != nil {
				return
			}
			snapshot := Remaining(t.target, t.now())
			t.onTick(snapshot)
			if snapshot.Finished {
				t.cancel()
				return
			}
		case <-t.ctx.Done():
			return
		}
	}
}

// Stop cancels the ticker and waits for any in-flight emission to complete.
// After Stop returns, OnTick is never invoked again. Stop is idempotent and
// safe to call before Start.
func (t *Ticker) Stop() {
	t.stopOnce.Do(func() {
		t.cancel()
	})
	t.wg.Wait()
}
