package sync

import (
	"context"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// SyncState represents the current state of the refresh loop.
type SyncState int

const (
	SyncIdle SyncState = iota
	SyncRunning
	SyncError
)

// SyncStatus holds the refresh state shown in the status bar.
type SyncStatus struct {
	State    SyncState
	LastSync time.Time
	Error    error
}

// defaultInterval applies when no positive interval is configured.
const defaultInterval = 120 * time.Second

// Poller refreshes the snapshot in the background and delivers results
// to the Bubble Tea runtime.
type Poller struct {
	refresher *Refresher
	interval  time.Duration
	status    SyncStatus
	resultCh  chan DashboardMsg
	triggerCh chan struct{}
	stopCh    chan struct{}
	mu        gosync.Mutex
	running   bool
}

// New creates a Poller that refreshes every interval.
func New(r *Refresher, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Poller{
		refresher: r,
		interval:  interval,
		resultCh:  make(chan DashboardMsg, 16),
		triggerCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
	}
}

// Start returns a tea.Cmd that starts the polling goroutine and
// subscribes to results. A cached snapshot, if any, is delivered first.
func (p *Poller) Start() tea.Cmd {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	p.mu.Unlock()

	if cached, ok := p.refresher.Cached(context.Background()); ok {
		p.sendResult(cached)
	}

	go p.loop()

	return p.waitForResult()
}

// Stop halts the polling goroutine.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}

	close(p.stopCh)
	p.running = false
}

// Refresh triggers an immediate fetch. Requests made while one is
// already queued are coalesced.
func (p *Poller) Refresh() tea.Cmd {
	select {
	case p.triggerCh <- struct{}{}:
	default:
	}
	return nil
}

// Status returns the current refresh status.
func (p *Poller) Status() SyncStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *Poller) loop() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// Do an initial fetch immediately
	p.fetch()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.fetch()
		case <-p.triggerCh:
			p.fetch()
		}
	}
}

func (p *Poller) fetch() {
	p.setStatus(SyncRunning, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-p.stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()
	msg := p.refresher.Fetch(ctx)
	cancel()

	if msg.Error != nil {
		p.setStatus(SyncError, msg.Error)
	} else {
		p.setStatus(SyncIdle, nil)
	}
	p.sendResult(msg)
}

func (p *Poller) setStatus(state SyncState, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.status.State = state
	p.status.Error = err
	if state == SyncIdle && err == nil {
		p.status.LastSync = time.Now()
	}
}

// sendResult sends a result without blocking.
func (p *Poller) sendResult(msg DashboardMsg) {
	select {
	case p.resultCh <- msg:
	default:
		// Drop if channel is full to avoid blocking the poller
	}
}

func (p *Poller) waitForResult() tea.Cmd {
	return func() tea.Msg {
		result, ok := <-p.resultCh
		if !ok {
			return nil
		}
		return result
	}
}

// WaitForNextResult returns a tea.Cmd that waits for the next result.
// Call it after handling a DashboardMsg to keep listening.
func (p *Poller) WaitForNextResult() tea.Cmd {
	return p.waitForResult()
}
