package node

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/go-arbor/arbor/pkg/signal"
	"github.com/go-arbor/arbor/pkg/world"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const (
	settleTimeout = 3 * time.Second
	settleTick    = 2 * time.Millisecond
)

type label struct{ name string }

func labeled(name string) *Builder {
	return New(label{name})
}

func newTestWorld(t *testing.T) *world.World {
	t.Helper()
	w := world.New(world.WithLogger(zaptest.NewLogger(t)))
	go w.Run()
	t.Cleanup(w.Shutdown)
	return w
}

// labels reads the label names of parent's children, in tree order.
func labels(w *world.World, parent world.Entity) []string {
	children := w.Children(parent)
	out := make([]string, 0, len(children))
	for _, c := range children {
		l, _ := world.Get[label](w, c)
		out = append(out, l.name)
	}
	return out
}

func requireChildren(t *testing.T, w *world.World, parent world.Entity, want []string) {
	t.Helper()
	require.Eventually(t, func() bool {
		got := labels(w, parent)
		if len(got) != len(want) {
			return false
		}
		for i := range got {
			if got[i] != want[i] {
				return false
			}
		}
		return true
	}, settleTimeout, settleTick, "children never settled to %v (last: %v)", want, labels(w, parent))
}

func TestBuilder_SpawnRunsOneShotsInOrder(t *testing.T) {
	w := newTestWorld(t)

	var order []string
	b := New().
		OnSpawn(func(*world.World, world.Entity) { order = append(order, "first") }).
		OnSpawn(func(*world.World, world.Entity) { order = append(order, "second") })
	e := b.Spawn(w)

	require.NotZero(t, e)
	require.Equal(t, []string{"first", "second"}, order)
}

func TestBuilder_SpawnInsertsInitialAttributes(t *testing.T) {
	w := newTestWorld(t)
	e := labeled("root").Spawn(w)

	l, ok := world.Get[label](w, e)
	require.True(t, ok)
	require.Equal(t, "root", l.name)
}

func TestBuilder_AttrSignalTracksLatestValue(t *testing.T) {
	w := newTestWorld(t)

	src := signal.New(label{"one"})
	e := AttrSignal(New(), src).Spawn(w)

	require.Eventually(t, func() bool {
		l, ok := world.Get[label](w, e)
		return ok && l.name == "one"
	}, settleTimeout, settleTick)

	src.Set(label{"two"})
	require.Eventually(t, func() bool {
		l, _ := world.Get[label](w, e)
		return l.name == "two"
	}, settleTimeout, settleTick)
}

func TestBuilder_OnSignalStopsWhenEntityDespawned(t *testing.T) {
	w := newTestWorld(t)

	src := signal.New(0)
	seen := make(chan int, 16)
	e := OnSignal(New(), src, func(ctx context.Context, w *world.World, _ world.Entity, v int) {
		seen <- v
	}).Spawn(w)

	require.Equal(t, 0, <-seen)
	w.Despawn(e)

	// The subscription task is bound to the entity's lifetime; once the
	// despawn has propagated, new values must not be observed.
	drain := func() {
		for {
			select {
			case <-seen:
			default:
				return
			}
		}
	}
	require.Eventually(t, func() bool {
		drain()
		src.Set(99)
		time.Sleep(20 * time.Millisecond)
		select {
		case <-seen:
			return false
		default:
			return true
		}
	}, settleTimeout, 25*time.Millisecond)
}

func TestBuilder_ChildBlocksLandInDeclarationOrder(t *testing.T) {
	w := newTestWorld(t)

	parent := New().
		Child(labeled("a")).
		Child(labeled("b")).
		Child(labeled("c")).
		Spawn(w)

	requireChildren(t, w, parent, []string{"a", "b", "c"})
}

func TestBuilder_NilChildIsSkipped(t *testing.T) {
	w := newTestWorld(t)
	parent := New().
		Child(nil).
		Child(labeled("only")).
		Spawn(w)

	requireChildren(t, w, parent, []string{"only"})
}

func TestBuilder_StaticListBlock(t *testing.T) {
	w := newTestWorld(t)
	parent := New().
		Children(labeled("a"), nil, labeled("b")).
		Child(labeled("c")).
		Spawn(w)

	requireChildren(t, w, parent, []string{"a", "b", "c"})
}

func TestBuilder_MixedBlocksInterleaveCorrectly(t *testing.T) {
	w := newTestWorld(t)

	vec := signal.NewVec(labeled("l1"), labeled("l2"))
	parent := New().
		Child(labeled("head")).
		ChildrenSignalVec(vec).
		Child(labeled("tail")).
		Spawn(w)

	requireChildren(t, w, parent, []string{"head", "l1", "l2", "tail"})
}

func TestChildSignal_NoneSomeNone(t *testing.T) {
	w := newTestWorld(t)
	baseline := w.Count()

	src := signal.New[*Builder](nil)
	parent := New().ChildSignal(src).Spawn(w)
	requireChildren(t, w, parent, []string{})

	src.Set(labeled("x"))
	requireChildren(t, w, parent, []string{"x"})

	src.Set(nil)
	requireChildren(t, w, parent, []string{})
	require.Eventually(t, func() bool {
		return w.Count() == baseline+1 // just the parent
	}, settleTimeout, settleTick, "optional child leaked")
}

func TestChildSignal_ReplacementDestroysPrevious(t *testing.T) {
	w := newTestWorld(t)

	src := signal.New(labeled("first"))
	parent := New().ChildSignal(src).Spawn(w)
	requireChildren(t, w, parent, []string{"first"})
	firstChild := w.Children(parent)[0]

	src.Set(labeled("second"))
	requireChildren(t, w, parent, []string{"second"})
	require.False(t, w.Contains(firstChild))
}

func TestOffsets_SumOfLowerBlockPopulations(t *testing.T) {
	w := newTestWorld(t)

	optional := signal.New[*Builder](nil)
	vec := signal.NewVec(labeled("v1"), labeled("v2"), labeled("v3"))
	b := New().
		Children(labeled("s1"), labeled("s2")). // block 0, population 2
		ChildSignal(optional).                  // block 1, population 0
		ChildrenSignalVec(vec).                 // block 2, population 3
		Child(labeled("last"))                  // block 3, population 1
	parent := b.Spawn(w)

	requireChildren(t, w, parent, []string{"s1", "s2", "v1", "v2", "v3", "last"})
	require.Equal(t, 0, b.reg.offsetAt(0))
	require.Equal(t, 2, b.reg.offsetAt(1))
	require.Equal(t, 2, b.reg.offsetAt(2))
	require.Equal(t, 5, b.reg.offsetAt(3))

	// Populating the optional block shifts every higher block.
	optional.Set(labeled("opt"))
	requireChildren(t, w, parent, []string{"s1", "s2", "opt", "v1", "v2", "v3", "last"})
	require.Equal(t, 3, b.reg.offsetAt(2))
	require.Equal(t, 6, b.reg.offsetAt(3))

	// And clearing it shifts them back.
	optional.Set(nil)
	requireChildren(t, w, parent, []string{"s1", "s2", "v1", "v2", "v3", "last"})
	require.Equal(t, 2, b.reg.offsetAt(2))
	require.Equal(t, 5, b.reg.offsetAt(3))
}

func TestSpawn_ReturnsBeforeChildrenSettle(t *testing.T) {
	w := newTestWorld(t)

	release := signal.New[*Builder](nil)
	parent := New().ChildSignal(release).Spawn(w)
	require.NotZero(t, parent) // id available immediately

	release.Set(labeled("late"))
	requireChildren(t, w, parent, []string{"late"})
}
