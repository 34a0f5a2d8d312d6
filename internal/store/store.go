// Package store is the root controller of the todo client.
//
// It owns the confirmed todo list, the pending creation preview, the set
// of ids with a request in flight and the error banner. Every change
// replaces the affected value wholesale under one mutex, so completions
// landing back to back never work on a stale copy.
package store

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/Makepad-fr/tada/internal/api"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/notify"
)

var (
	// ErrEmptyTitle is returned by Submit for a blank title; no request is made.
	ErrEmptyTitle = errors.New("empty title")
	// ErrBusy is returned when the target already has a request in flight.
	ErrBusy = errors.New("todo is busy")
	// ErrNotFound is returned for an id absent from the list.
	ErrNotFound = errors.New("todo not found")
)

// Options configure a Store.
type Options struct {
	UserID   int
	Notifier *notify.Notifier // nil creates one with the default TTL
	Logger   *log.Logger      // nil discards
}

// Snapshot is a read-only view of the store. Its slices and sets are
// never modified after being handed out.
type Snapshot struct {
	Todos      []model.Todo
	Pending    model.Pending
	Loading    model.IDSet
	Submitting bool
	Loaded     bool
	Error      string
}

// Batch reports the outcome of a bulk operation.
type Batch struct {
	Targets []int
	Failed  []int
}

// Store is safe for concurrent use.
type Store struct {
	svc    api.Service
	userID int
	notes  *notify.Notifier
	logger *log.Logger

	mu         sync.Mutex
	todos      []model.Todo
	pending    model.Pending
	loading    model.IDSet
	submitting bool
	loaded     bool
	subs       []func()
}

// New returns an empty store backed by svc.
func New(svc api.Service, opt Options) *Store {
	s := &Store{
		svc:    svc,
		userID: opt.UserID,
		notes:  opt.Notifier,
		logger: opt.Logger,
	}
	if s.notes == nil {
		s.notes = notify.New(notify.DefaultTTL)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	s.notes.OnChange(func(string) { s.broadcast() })
	return s
}

// UserID is the fixed owner of every todo this store handles.
func (s *Store) UserID() int { return s.userID }

// Notifier exposes the banner, for manual dismiss.
func (s *Store) Notifier() *notify.Notifier { return s.notes }

// Subscribe registers fn to run after every state change.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	snap := Snapshot{
		Todos:      s.todos,
		Pending:    s.pending,
		Loading:    s.loading,
		Submitting: s.submitting,
		Loaded:     s.loaded,
	}
	s.mu.Unlock()
	snap.Error = s.notes.Message()
	return snap
}

// Filtered projects the current list by status.
func (s *Store) Filtered(status model.Status) []model.Todo {
	return model.Filter(s.Snapshot().Todos, status)
}

// Load fetches the user's todos. On failure the list is left untouched.
func (s *Store) Load(ctx context.Context) error {
	todos, err := s.svc.List(ctx, s.userID)
	if err != nil {
		s.fail(notify.MsgLoad, "load todos", err)
		return err
	}
	s.logger.Info("loaded todos", "count", len(todos))
	s.mutate(func() {
		s.todos = todos
		s.loaded = true
	})
	return nil
}

// DeleteOne deletes id remotely and drops it from the list on success.
// The id is out of the loading set once this returns, whatever the outcome.
func (s *Store) DeleteOne(ctx context.Context, id int) error {
	s.markLoading(id)
	defer s.unmarkLoading(id)

	if err := s.svc.Delete(ctx, id); err != nil {
		s.fail(notify.MsgDelete, "delete todo", err, "id", id)
		return err
	}
	s.mutate(func() { s.todos = without(s.todos, id) })
	s.logger.Info("deleted todo", "id", id)
	return nil
}

// UpdateOne sends the full record and replaces the local copy with the
// server's answer.
func (s *Store) UpdateOne(ctx context.Context, t model.Todo) (model.Todo, error) {
	s.markLoading(t.ID)
	defer s.unmarkLoading(t.ID)

	updated, err := s.svc.Update(ctx, t)
	if err != nil {
		s.fail(notify.MsgUpdate, "update todo", err, "id", t.ID)
		return model.Todo{}, err
	}
	s.mutate(func() { s.todos = replaced(s.todos, t.ID, updated) })
	s.logger.Info("updated todo", "id", t.ID, "completed", updated.Completed)
	return updated, nil
}

// Toggle flips the completion flag of id. It refuses while id is loading.
func (s *Store) Toggle(ctx context.Context, id int) (model.Todo, error) {
	snap := s.Snapshot()
	if snap.Loading.Has(id) {
		return model.Todo{}, ErrBusy
	}
	t, ok := model.Find(snap.Todos, id)
	if !ok {
		return model.Todo{}, ErrNotFound
	}
	t.Completed = !t.Completed
	return s.UpdateOne(ctx, t)
}

// Rename sets a new title on id.
func (s *Store) Rename(ctx context.Context, id int, title string) (model.Todo, error) {
	t, ok := model.Find(s.Snapshot().Todos, id)
	if !ok {
		return model.Todo{}, ErrNotFound
	}
	t.Title = title
	return s.UpdateOne(ctx, t)
}

// Submit creates a todo from raw input. While the request runs the
// pending preview is set and Submitting is true.
func (s *Store) Submit(ctx context.Context, raw string) (model.Todo, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		s.notes.Show(notify.MsgEmptyTitle)
		return model.Todo{}, ErrEmptyTitle
	}

	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return model.Todo{}, ErrBusy
	}
	s.submitting = true
	s.pending = model.PendingOf(title, s.userID)
	s.mu.Unlock()
	s.broadcast()
	defer s.mutate(func() { s.submitting = false })

	created, err := s.svc.Create(ctx, model.NewTodo{Title: title, UserID: s.userID})
	if err != nil {
		s.mutate(func() { s.pending = model.Pending{} })
		s.fail(notify.MsgAdd, "create todo", err)
		return model.Todo{}, err
	}
	s.mutate(func() {
		s.todos = appended(s.todos, created)
		s.pending = model.Pending{}
	})
	s.logger.Info("created todo", "id", created.ID)
	return created, nil
}

// DeleteCompleted deletes every completed todo concurrently and waits
// for all of them. Failed deletes stay in the list; each has already
// shown its own banner, the last one winning.
func (s *Store) DeleteCompleted(ctx context.Context) Batch {
	ids := model.CompletedIDs(s.Snapshot().Todos)
	b := s.batch(ids, func(id int) error { return s.DeleteOne(ctx, id) })
	s.notes.Rearm()
	return b
}

// ToggleAll marks every todo incomplete when all are completed, and
// otherwise completes the incomplete ones. Targets are fixed when the
// call starts.
func (s *Store) ToggleAll(ctx context.Context) Batch {
	todos := s.Snapshot().Todos
	target := !model.AllCompleted(todos)

	updates := make(map[int]model.Todo)
	ids := make([]int, 0, len(todos))
	for _, t := range todos {
		if t.Completed == target {
			continue
		}
		t.Completed = target
		updates[t.ID] = t
		ids = append(ids, t.ID)
	}
	return s.batch(ids, func(id int) error {
		_, err := s.UpdateOne(ctx, updates[id])
		return err
	})
}

// batch marks ids loading in one step, runs op for each concurrently and
// joins on all of them before unmarking.
func (s *Store) batch(ids []int, op func(id int) error) Batch {
	b := Batch{Targets: ids}
	if len(ids) == 0 {
		return b
	}
	s.markLoading(ids...)
	defer s.unmarkLoading(ids...)

	var (
		g  errgroup.Group
		mu sync.Mutex
	)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			if err := op(id); err != nil {
				mu.Lock()
				b.Failed = append(b.Failed, id)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	if len(b.Failed) > 0 {
		s.logger.Warn("batch finished with failures", "targets", len(ids), "failed", len(b.Failed))
	}
	return b
}

// fail logs at warn level; the banner is what the user sees.
func (s *Store) fail(msg, what string, err error, keyvals ...interface{}) {
	s.logger.Warn(what, append(keyvals, "err", err)...)
	s.notes.Show(msg)
}

func (s *Store) markLoading(ids ...int) {
	s.mutate(func() { s.loading = s.loading.With(ids...) })
}

func (s *Store) unmarkLoading(ids ...int) {
	s.mutate(func() { s.loading = s.loading.Without(ids...) })
}

// mutate applies fn under the lock, then tells subscribers.
func (s *Store) mutate(fn func()) {
	s.mu.Lock()
	fn()
	s.mu.Unlock()
	s.broadcast()
}

func (s *Store) broadcast() {
	s.mu.Lock()
	subs := append([]func(){}, s.subs...)
	s.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

func without(todos []model.Todo, id int) []model.Todo {
	out := make([]model.Todo, 0, len(todos))
	for _, t := range todos {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

func replaced(todos []model.Todo, id int, with model.Todo) []model.Todo {
	out := make([]model.Todo, len(todos))
	for i, t := range todos {
		if t.ID == id {
			t = with
		}
		out[i] = t
	}
	return out
}

func appended(todos []model.Todo, t model.Todo) []model.Todo {
	out := make([]model.Todo, len(todos), len(todos)+1)
	copy(out, todos)
	return append(out, t)
}
