package service

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultWaitTimeout bounds a single long poll
const DefaultWaitTimeout = 25 * time.Second

// WaitRegistry tracks long-polling clients waiting for a session's ply count to change
type WaitRegistry struct {
	mu       sync.Mutex
	waiters  map[string][]*WaitRequest // sessionID → waiting clients
	timeout  time.Duration
	shutdown chan struct{}
	wg       sync.WaitGroup
}

// WaitRequest is one waiting client. Notify is closed when the wait ends,
// whether by a change, timeout, disconnect, removal or shutdown.
type WaitRequest struct {
	Plies     int
	Notify    chan struct{}
	sessionID string
	timer     *time.Timer
	once      sync.Once
}

func NewWaitRegistry(timeout time.Duration) *WaitRegistry {
	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}
	return &WaitRegistry{
		waiters:  make(map[string][]*WaitRequest),
		timeout:  timeout,
		shutdown: make(chan struct{}),
	}
}

// RegisterWait parks a client that last saw plies half-moves
func (w *WaitRegistry) RegisterWait(ctx context.Context, sessionID string, plies int) <-chan struct{} {
	req := &WaitRequest{
		Plies:     plies,
		Notify:    make(chan struct{}),
		sessionID: sessionID,
	}

	// timer is armed under mu so removeWaiter never sees it unset
	w.mu.Lock()
	w.waiters[sessionID] = append(w.waiters[sessionID], req)
	req.timer = time.AfterFunc(w.timeout, func() { w.release(req) })
	w.mu.Unlock()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		select {
		case <-ctx.Done():
			w.release(req)
		case <-w.shutdown:
			w.release(req)
		case <-req.Notify:
		}
	}()

	return req.Notify
}

// NotifySession wakes every waiter whose known ply count differs from plies
func (w *WaitRegistry) NotifySession(sessionID string, plies int) {
	w.mu.Lock()
	var stale []*WaitRequest
	for _, req := range w.waiters[sessionID] {
		if req.Plies != plies {
			stale = append(stale, req)
		}
	}
	w.mu.Unlock()

	for _, req := range stale {
		w.release(req)
	}
}

// RemoveSession wakes all waiters of a session that is going away
func (w *WaitRegistry) RemoveSession(sessionID string) {
	w.mu.Lock()
	waitList := append([]*WaitRequest(nil), w.waiters[sessionID]...)
	w.mu.Unlock()

	for _, req := range waitList {
		w.release(req)
	}
}

// Pending counts parked clients
func (w *WaitRegistry) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	n := 0
	for _, list := range w.waiters {
		n += len(list)
	}
	return n
}

func (w *WaitRegistry) Shutdown(timeout time.Duration) error {
	close(w.shutdown)

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("wait registry shutdown timed out")
	}
}

func (w *WaitRegistry) release(req *WaitRequest) {
	req.once.Do(func() {
		w.removeWaiter(req)
		close(req.Notify)
	})
}

func (w *WaitRegistry) removeWaiter(req *WaitRequest) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if req.timer != nil {
		req.timer.Stop()
	}

	waitList := w.waiters[req.sessionID]
	for i, waiter := range waitList {
		if waiter == req {
			w.waiters[req.sessionID] = append(waitList[:i], waitList[i+1:]...)
			break
		}
	}
	if len(w.waiters[req.sessionID]) == 0 {
		delete(w.waiters, req.sessionID)
	}
}
