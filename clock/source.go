package clock

import (
	"sort"
	"sync"
	"time"
)

// Source schedules a periodic callback. It is the injectable timer behind
// every Clock, so tests can drive time by hand.
type Source interface {
	Every(d time.Duration, fn func()) Handle
}

// Handle stops a periodic callback. Stop is idempotent.
type Handle interface {
	Stop()
}

// Realtime ticks on wall-clock time, one goroutine per callback
type Realtime struct{}

type tickerHandle struct {
	ticker   *time.Ticker
	stopChan chan struct{}
	once     sync.Once
}

// Every starts a goroutine that calls fn every d until stopped
func (Realtime) Every(d time.Duration, fn func()) Handle {
	h := &tickerHandle{
		ticker:   time.NewTicker(d),
		stopChan: make(chan struct{}),
	}
	go h.run(fn)
	return h
}

func (h *tickerHandle) run(fn func()) {
	for {
		select {
		case <-h.stopChan:
			return
		case <-h.ticker.C:
			// Stop may have raced the ticker
			select {
			case <-h.stopChan:
				return
			default:
			}
			fn()
		}
	}
}

func (h *tickerHandle) Stop() {
	h.once.Do(func() {
		h.ticker.Stop()
		close(h.stopChan)
	})
}

// Manual is a simulated time source. Nothing fires until Advance is called,
// and callbacks run synchronously on the caller's goroutine.
type Manual struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	m       *Manual
	every   time.Duration
	next    time.Duration
	seq     int
	fn      func()
	stopped bool
}

// NewManual creates a simulated source at time zero
func NewManual() *Manual {
	return &Manual{}
}

// Every registers fn to fire every d of simulated time
func (m *Manual) Every(d time.Duration, fn func()) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d <= 0 {
		d = time.Millisecond
	}
	m.seq++
	t := &manualTimer{m: m, every: d, next: m.now + d, seq: m.seq, fn: fn}
	m.timers = append(m.timers, t)
	return t
}

func (t *manualTimer) Stop() {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	t.stopped = true
}

// Advance moves simulated time forward by d, firing every callback that
// falls due in order.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	for {
		t := m.nextDueLocked(target)
		if t == nil {
			break
		}
		m.now = t.next
		t.next += t.every
		m.mu.Unlock()
		t.fn()
		m.mu.Lock()
	}
	m.now = target
	m.mu.Unlock()
}

// Now returns the elapsed simulated time
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Active returns how many callbacks are still scheduled
func (m *Manual) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

func (m *Manual) nextDueLocked(target time.Duration) *manualTimer {
	live := m.timers[:0]
	for _, t := range m.timers {
		if !t.stopped {
			live = append(live, t)
		}
	}
	m.timers = live

	sort.SliceStable(m.timers, func(i, j int) bool {
		if m.timers[i].next != m.timers[j].next {
			return m.timers[i].next < m.timers[j].next
		}
		return m.timers[i].seq < m.timers[j].seq
	})

	if len(m.timers) == 0 || m.timers[0].next > target {
		return nil
	}
	return m.timers[0]
}
