package world

import (
	"context"
	"reflect"
	"sync"

	"go.uber.org/zap"

	"github.com/go-arbor/arbor/pkg/task"
)

// Entity identifies one live node in the world. The zero Entity is never
// allocated and can be used as "none".
type Entity uint64

type record struct {
	parent   Entity
	children []Entity
	attrs    map[reflect.Type]any
	tasks    []*task.Handle
}

type applyOp struct {
	f    func(*World)
	done chan struct{}
}

// World is an in-memory retained scene graph.
type World struct {
	mu       sync.Mutex
	nextID   Entity
	entities map[Entity]*record

	ops     chan applyOp
	ctx     context.Context
	cancel  context.CancelFunc
	runDone chan struct{}
	pool    *task.Pool
	log     *zap.Logger
}

// Option configures a World.
type Option func(*World)

// WithLogger sets the world's logger. The default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(w *World) { w.log = log }
}

// New returns an empty world. Call Run (usually on its own goroutine) to
// start draining the mutation queue, and Shutdown to tear everything down.
func New(opts ...Option) *World {
	ctx, cancel := context.WithCancel(context.Background())
	w := &World{
		nextID:   1,
		entities: make(map[Entity]*record),
		ops:      make(chan applyOp, 64),
		ctx:      ctx,
		cancel:   cancel,
		runDone:  make(chan struct{}),
		pool:     task.NewPool(),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Context returns the world's base context. Tasks bound to the world
// derive from it and stop when Shutdown is called.
func (w *World) Context() context.Context {
	return w.ctx
}

// Pool returns the task pool materialization spawns onto.
func (w *World) Pool() *task.Pool {
	return w.pool
}

// Logger returns the world's logger.
func (w *World) Logger() *zap.Logger {
	return w.log
}

// Run drains the mutation queue until Shutdown. Each queued closure runs
// to completion before the next; Apply callers are unblocked as their
// closure finishes.
func (w *World) Run() {
	defer close(w.runDone)
	for {
		select {
		case <-w.ctx.Done():
			return
		case op := <-w.ops:
			op.f(w)
			close(op.done)
		}
	}
}

// Apply enqueues f and blocks until the Run loop has executed it,
// returning true, or until ctx is cancelled, returning false. A false
// return does not guarantee f will never run; closures must tolerate
// running against torn-down state (Contains re-checks cover this).
func (w *World) Apply(ctx context.Context, f func(*World)) bool {
	op := applyOp{f: f, done: make(chan struct{})}
	select {
	case <-ctx.Done():
		return false
	case <-w.ctx.Done():
		return false
	case w.ops <- op:
	}
	select {
	case <-ctx.Done():
		return false
	case <-w.ctx.Done():
		return false
	case <-op.done:
		return true
	}
}

// Shutdown cancels the base context, stopping the Run loop and every held
// task, then waits for the pool to drain.
func (w *World) Shutdown() {
	w.cancel()
	<-w.runDone
	w.pool.Wait()
}

// Spawn creates a new entity carrying the given attribute values and
// returns its identifier.
func (w *World) Spawn(attrs ...any) Entity {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := w.nextID
	w.nextID++
	rec := &record{attrs: make(map[reflect.Type]any, len(attrs))}
	for _, a := range attrs {
		storeAttr(rec, a)
	}
	w.entities[id] = rec
	return id
}

// Contains reports whether e is live.
func (w *World) Contains(e Entity) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.entities[e]
	return ok
}

// Count returns the number of live entities.
func (w *World) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.entities)
}

// Children returns a copy of parent's ordered child list.
func (w *World) Children(parent Entity) []Entity {
	w.mu.Lock()
	defer w.mu.Unlock()
	rec, ok := w.entities[parent]
	if !ok {
		return nil
	}
	out := make([]Entity, len(rec.children))
	copy(out, rec.children)
	return out
}

// InsertChildren atomically inserts the given live entities as children
// of parent starting at index, detaching each from any previous parent
// first. index is clamped to the current child count. Returns false if
// parent is not live.
func (w *World) InsertChildren(parent Entity, index int, children ...Entity) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	rec, ok := w.entities[parent]
	if !ok {
		return false
	}
	live := children[:0:len(children)]
	for _, c := range children {
		crec, ok := w.entities[c]
		if !ok {
			w.log.Debug("insert of dead child skipped", zap.Uint64("child", uint64(c)))
			continue
		}
		if crec.parent != 0 {
			w.detachLocked(crec.parent, c)
		}
		crec.parent = parent
		live = append(live, c)
	}
	if index < 0 {
		index = 0
	}
	if index > len(rec.children) {
		index = len(rec.children)
	}
	rec.children = append(rec.children[:index], append(append([]Entity(nil), live...), rec.children[index:]...)...)
	return true
}

// RemoveChildren detaches the given entities from parent without
// destroying them.
func (w *World) RemoveChildren(parent Entity, children ...Entity) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, c := range children {
		if crec, ok := w.entities[c]; ok && crec.parent == parent {
			w.detachLocked(parent, c)
			crec.parent = 0
		}
	}
}

func (w *World) detachLocked(parent, child Entity) {
	rec, ok := w.entities[parent]
	if !ok {
		return
	}
	for i, c := range rec.children {
		if c == child {
			rec.children = append(rec.children[:i], rec.children[i+1:]...)
			return
		}
	}
}

// Despawn destroys e and all of its descendants, detaching e from its
// parent and cancelling every task held by the destroyed entities.
// Despawning a dead entity is a no-op.
func (w *World) Despawn(e Entity) {
	w.mu.Lock()
	rec, ok := w.entities[e]
	if !ok {
		w.mu.Unlock()
		w.log.Debug("despawn of dead entity ignored", zap.Uint64("entity", uint64(e)))
		return
	}
	if rec.parent != 0 {
		w.detachLocked(rec.parent, e)
	}
	var cancelled []*task.Handle
	w.despawnLocked(e, &cancelled)
	w.mu.Unlock()
	for _, h := range cancelled {
		h.Cancel()
	}
}

func (w *World) despawnLocked(e Entity, cancelled *[]*task.Handle) {
	rec, ok := w.entities[e]
	if !ok {
		return
	}
	for _, c := range rec.children {
		w.despawnLocked(c, cancelled)
	}
	*cancelled = append(*cancelled, rec.tasks...)
	delete(w.entities, e)
}

// HoldTask binds h to e's lifetime: despawning e cancels h. If e is
// already dead the task is cancelled immediately.
func (w *World) HoldTask(e Entity, h *task.Handle) {
	w.mu.Lock()
	rec, ok := w.entities[e]
	if ok {
		rec.tasks = append(rec.tasks, h)
	}
	w.mu.Unlock()
	if !ok {
		h.Cancel()
	}
}
