// Package syncer mirrors each user's item collection to the remote sheet
// without ever blocking the request path. Saves coalesce: at most one push
// per user is in flight, and while it runs only the newest snapshot is kept
// pending. Intermediate snapshots are dropped on purpose.
package syncer

import (
	"context"
	"sync"
	"time"

	"github.com/jmhodges/clock"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/remindly/remindly-server/internal/model"
	"github.com/remindly/remindly-server/internal/sheet"
	"github.com/remindly/remindly-server/internal/store"
)

// State is the per-user sync status surfaced to the API.
type State string

const (
	StateIdle    State = "idle"
	StateSyncing State = "syncing"
	StateSaved   State = "saved"
	StateError   State = "error"
)

// Status is a snapshot of a user's sync state.
type Status struct {
	State        State      `json:"state"`
	LastError    string     `json:"lastError,omitempty"`
	LastSyncedAt *time.Time `json:"lastSyncedAt,omitempty"`
}

type userState struct {
	inFlight   bool
	pending    []model.ReminderItem
	hasPending bool
	status     Status
}

// Worker owns the push slots and the periodic pull schedule.
type Worker struct {
	client sheet.Client
	store  store.Store
	log    zerolog.Logger
	clk    clock.Clock

	mu     sync.Mutex
	users  map[string]*userState
	closed bool
	cron   *cron.Cron
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// New builds a worker. pullSpec is a cron spec ("@every 15m"); empty disables
// the periodic pull.
func New(client sheet.Client, st store.Store, clk clock.Clock, log zerolog.Logger, pullSpec string) (*Worker, error) {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Worker{
		client: client,
		store:  st,
		log:    log,
		clk:    clk,
		users:  make(map[string]*userState),
		ctx:    ctx,
		cancel: cancel,
	}
	if pullSpec != "" {
		c := cron.New()
		if _, err := c.AddFunc(pullSpec, w.pullAll); err != nil {
			cancel()
			return nil, err
		}
		w.cron = c
	}
	return w, nil
}

// Start begins the periodic pull schedule, if configured.
func (w *Worker) Start() {
	if w.cron != nil {
		w.cron.Start()
	}
}

// Stop halts scheduling and waits for in-flight pushes to drain. Pushes that
// arrive afterwards are dropped rather than failed against a dead context.
func (w *Worker) Stop() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	if w.cron != nil {
		w.cron.Stop()
	}
	w.cancel()
	w.wg.Wait()
}

// Track registers a user for periodic pulls. Called at login.
func (w *Worker) Track(username string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state(username)
}

// Push schedules a snapshot for upload. Returns immediately. If a push for
// the user is already in flight the snapshot parks in the pending slot,
// replacing whatever was there.
func (w *Worker) Push(username string, items []model.ReminderItem) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	st := w.state(username)
	if st.inFlight {
		st.pending = items
		st.hasPending = true
		return
	}
	st.inFlight = true
	st.status.State = StateSyncing
	w.wg.Add(1)
	go w.run(username, items)
}

// run uploads snapshot after snapshot until the pending slot is empty.
func (w *Worker) run(username string, items []model.ReminderItem) {
	defer w.wg.Done()
	for {
		err := w.client.Save(w.ctx, username, items)
		if err != nil {
			w.log.Error().Stack().Err(err).Str("username", username).Msg("sheet push failed")
		}

		w.mu.Lock()
		st := w.state(username)
		if err != nil {
			st.status.State = StateError
			st.status.LastError = err.Error()
		} else {
			now := w.clk.Now()
			st.status.State = StateSaved
			st.status.LastError = ""
			st.status.LastSyncedAt = &now
		}
		// A pending snapshot supersedes the outcome just recorded.
		if st.hasPending {
			items = st.pending
			st.pending = nil
			st.hasPending = false
			st.status.State = StateSyncing
			w.mu.Unlock()
			continue
		}
		st.inFlight = false
		w.mu.Unlock()
		return
	}
}

// Flush pushes the user's current store contents synchronously. Used by the
// explicit flush endpoint and at shutdown.
func (w *Worker) Flush(ctx context.Context, username string) error {
	items, err := w.store.Items().List(ctx, username)
	if err != nil {
		return err
	}
	if err := w.client.Save(ctx, username, items); err != nil {
		w.setError(username, err)
		return err
	}
	w.setSaved(username)
	return nil
}

// Pull refreshes the local store from the sheet.
func (w *Worker) Pull(ctx context.Context, username string) error {
	items, err := w.client.Read(ctx, username)
	if err != nil {
		w.setError(username, err)
		return err
	}
	if err := w.store.Items().ReplaceAll(ctx, username, items); err != nil {
		w.setError(username, err)
		return err
	}
	w.setSaved(username)
	return nil
}

func (w *Worker) pullAll() {
	w.mu.Lock()
	usernames := make([]string, 0, len(w.users))
	for u := range w.users {
		usernames = append(usernames, u)
	}
	w.mu.Unlock()

	for _, username := range usernames {
		if err := w.Pull(w.ctx, username); err != nil {
			w.log.Error().Stack().Err(err).Str("username", username).Msg("periodic pull failed")
		}
	}
}

// Status reports the user's current sync state.
func (w *Worker) Status(username string) Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state(username).status
}

func (w *Worker) state(username string) *userState {
	st, ok := w.users[username]
	if !ok {
		st = &userState{status: Status{State: StateIdle}}
		w.users[username] = st
	}
	return st
}

func (w *Worker) setError(username string, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	st := w.state(username)
	st.status.State = StateError
	st.status.LastError = err.Error()
}

func (w *Worker) setSaved(username string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	st := w.state(username)
	now := w.clk.Now()
	st.status.State = StateSaved
	st.status.LastError = ""
	st.status.LastSyncedAt = &now
}
