package signal

import (
	"context"
	"fmt"
	"sync"
)

// VecOp identifies one kind of incremental change to an ordered sequence.
type VecOp uint8

const (
	// OpReplace replaces the entire sequence with Values.
	OpReplace VecOp = iota + 1
	// OpInsertAt inserts Value at Index.
	OpInsertAt
	// OpPush appends Value.
	OpPush
	// OpUpdateAt replaces the element at Index with Value.
	OpUpdateAt
	// OpMove swaps the element at Index into NewIndex, the displaced
	// element taking the vacated slot.
	OpMove
	// OpRemoveAt removes the element at Index.
	OpRemoveAt
	// OpPop removes the last element.
	OpPop
	// OpClear removes every element.
	OpClear
)

func (op VecOp) String() string {
	switch op {
	case OpReplace:
		return "Replace"
	case OpInsertAt:
		return "InsertAt"
	case OpPush:
		return "Push"
	case OpUpdateAt:
		return "UpdateAt"
	case OpMove:
		return "Move"
	case OpRemoveAt:
		return "RemoveAt"
	case OpPop:
		return "Pop"
	case OpClear:
		return "Clear"
	default:
		return fmt.Sprintf("VecOp(%d)", uint8(op))
	}
}

// VecDiff is one incremental change to an ordered sequence of T.
// Which fields are meaningful depends on Op.
type VecDiff[T any] struct {
	Op       VecOp
	Index    int
	NewIndex int
	Value    T
	Values   []T
}

// DiffSource is an ordered stream of sequence changes. The first diff
// delivered to a new watcher describes the current state (a Replace);
// later diffs arrive strictly in publication order.
type DiffSource[T any] interface {
	WatchDiffs(ctx context.Context) <-chan VecDiff[T]
}

// MutableVec is a reactive ordered sequence of T.
type MutableVec[T any] struct {
	mu      sync.Mutex
	items   []T
	subs    map[uint64]*vecSub[T]
	nextSub uint64
}

type vecSub[T any] struct {
	mu     sync.Mutex
	queue  []VecDiff[T]
	notify chan struct{}
}

// NewVec returns a MutableVec seeded with items.
func NewVec[T any](items ...T) *MutableVec[T] {
	v := &MutableVec[T]{}
	v.items = append(v.items, items...)
	return v
}

// Len returns the current number of elements.
func (v *MutableVec[T]) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.items)
}

// Slice returns a copy of the current contents.
func (v *MutableVec[T]) Slice() []T {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]T, len(v.items))
	copy(out, v.items)
	return out
}

// Replace swaps the entire contents for items.
func (v *MutableVec[T]) Replace(items ...T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.items = append(v.items[:0:0], items...)
	v.emitLocked(VecDiff[T]{Op: OpReplace, Values: append([]T(nil), items...)})
}

// InsertAt inserts item at index. index must be in [0, Len()].
func (v *MutableVec[T]) InsertAt(index int, item T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if index < 0 || index > len(v.items) {
		panic(fmt.Sprintf("signal: InsertAt index %d out of range [0,%d]", index, len(v.items)))
	}
	v.items = append(v.items, item)
	copy(v.items[index+1:], v.items[index:])
	v.items[index] = item
	v.emitLocked(VecDiff[T]{Op: OpInsertAt, Index: index, Value: item})
}

// Push appends item.
func (v *MutableVec[T]) Push(item T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.items = append(v.items, item)
	v.emitLocked(VecDiff[T]{Op: OpPush, Value: item})
}

// SetAt replaces the element at index. index must be in [0, Len()).
func (v *MutableVec[T]) SetAt(index int, item T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.checkIndexLocked("SetAt", index)
	v.items[index] = item
	v.emitLocked(VecDiff[T]{Op: OpUpdateAt, Index: index, Value: item})
}

// Move swaps the elements at from and to. Both must be in [0, Len()).
func (v *MutableVec[T]) Move(from, to int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.checkIndexLocked("Move", from)
	v.checkIndexLocked("Move", to)
	v.items[from], v.items[to] = v.items[to], v.items[from]
	v.emitLocked(VecDiff[T]{Op: OpMove, Index: from, NewIndex: to})
}

// RemoveAt removes the element at index. index must be in [0, Len()).
func (v *MutableVec[T]) RemoveAt(index int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.checkIndexLocked("RemoveAt", index)
	v.items = append(v.items[:index], v.items[index+1:]...)
	v.emitLocked(VecDiff[T]{Op: OpRemoveAt, Index: index})
}

// Pop removes the last element, if any.
func (v *MutableVec[T]) Pop() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.items) == 0 {
		return
	}
	v.items = v.items[:len(v.items)-1]
	v.emitLocked(VecDiff[T]{Op: OpPop})
}

// Clear removes every element.
func (v *MutableVec[T]) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.items = v.items[:0]
	v.emitLocked(VecDiff[T]{Op: OpClear})
}

func (v *MutableVec[T]) checkIndexLocked(op string, index int) {
	if index < 0 || index >= len(v.items) {
		panic(fmt.Sprintf("signal: %s index %d out of range [0,%d)", op, index, len(v.items)))
	}
}

// WatchDiffs subscribes to the sequence. The first diff delivered is a
// Replace carrying the contents at subscription time; every later diff is
// delivered in order, without coalescing. The subscription detaches when
// ctx is cancelled.
func (v *MutableVec[T]) WatchDiffs(ctx context.Context) <-chan VecDiff[T] {
	out := make(chan VecDiff[T])
	sub := &vecSub[T]{notify: make(chan struct{}, 1)}
	v.mu.Lock()
	if v.subs == nil {
		v.subs = make(map[uint64]*vecSub[T])
	}
	id := v.nextSub
	v.nextSub++
	v.subs[id] = sub
	sub.queue = append(sub.queue, VecDiff[T]{Op: OpReplace, Values: append([]T(nil), v.items...)})
	v.mu.Unlock()

	go func() {
		defer func() {
			v.mu.Lock()
			delete(v.subs, id)
			v.mu.Unlock()
		}()
		for {
			sub.mu.Lock()
			var (
				d    VecDiff[T]
				have bool
			)
			if len(sub.queue) > 0 {
				d, have = sub.queue[0], true
				sub.queue = sub.queue[1:]
			}
			sub.mu.Unlock()
			if !have {
				select {
				case <-ctx.Done():
					return
				case <-sub.notify:
				}
				continue
			}
			select {
			case <-ctx.Done():
				return
			case out <- d:
			}
		}
	}()
	return out
}

func (v *MutableVec[T]) emitLocked(d VecDiff[T]) {
	for _, sub := range v.subs {
		sub.mu.Lock()
		sub.queue = append(sub.queue, d)
		sub.mu.Unlock()
		select {
		case sub.notify <- struct{}{}:
		default:
		}
	}
}

// MapVec adapts a DiffSource of T into one of U by mapping every carried
// value through f. Order and operation kinds are preserved.
func MapVec[T, U any](src DiffSource[T], f func(T) U) DiffSource[U] {
	return mappedVec[T, U]{src: src, f: f}
}

type mappedVec[T, U any] struct {
	src DiffSource[T]
	f   func(T) U
}

func (m mappedVec[T, U]) WatchDiffs(ctx context.Context) <-chan VecDiff[U] {
	in := m.src.WatchDiffs(ctx)
	out := make(chan VecDiff[U])
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-in:
				if !ok {
					return
				}
				mapped := VecDiff[U]{Op: d.Op, Index: d.Index, NewIndex: d.NewIndex}
				switch d.Op {
				case OpReplace:
					mapped.Values = make([]U, len(d.Values))
					for i, v := range d.Values {
						mapped.Values[i] = m.f(v)
					}
				case OpInsertAt, OpPush, OpUpdateAt:
					mapped.Value = m.f(d.Value)
				}
				select {
				case <-ctx.Done():
					return
				case out <- mapped:
				}
			}
		}
	}()
	return out
}
