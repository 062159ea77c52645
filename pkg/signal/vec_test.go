package signal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMutableVec_Ops(t *testing.T) {
	v := NewVec("a", "b")

	v.Push("c")
	require.Equal(t, []string{"a", "b", "c"}, v.Slice())

	v.InsertAt(1, "x")
	require.Equal(t, []string{"a", "x", "b", "c"}, v.Slice())

	v.SetAt(0, "y")
	require.Equal(t, []string{"y", "x", "b", "c"}, v.Slice())

	v.Move(0, 3)
	require.Equal(t, []string{"c", "x", "b", "y"}, v.Slice())

	v.RemoveAt(1)
	require.Equal(t, []string{"c", "b", "y"}, v.Slice())

	v.Pop()
	require.Equal(t, []string{"c", "b"}, v.Slice())

	v.Replace("z")
	require.Equal(t, []string{"z"}, v.Slice())

	v.Clear()
	require.Empty(t, v.Slice())
	require.Zero(t, v.Len())
}

func TestMutableVec_PopOnEmptyIsNoop(t *testing.T) {
	v := NewVec[int]()
	v.Pop()
	require.Zero(t, v.Len())
}

func TestMutableVec_IndexPanics(t *testing.T) {
	v := NewVec(1, 2)
	require.Panics(t, func() { v.InsertAt(3, 9) })
	require.Panics(t, func() { v.InsertAt(-1, 9) })
	require.Panics(t, func() { v.SetAt(2, 9) })
	require.Panics(t, func() { v.RemoveAt(2) })
	require.Panics(t, func() { v.Move(0, 2) })
}

func TestMutableVec_WatchDeliversInitialReplace(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	v := NewVec("a", "b")
	ch := v.WatchDiffs(ctx)

	d := <-ch
	require.Equal(t, OpReplace, d.Op)
	require.Equal(t, []string{"a", "b"}, d.Values)
}

func TestMutableVec_WatchDeliversDiffsInOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	v := NewVec[string]()
	ch := v.WatchDiffs(ctx)
	require.Equal(t, OpReplace, (<-ch).Op)

	// Diffs are never coalesced; every operation arrives, in order.
	v.Push("a")
	v.InsertAt(0, "b")
	v.Move(0, 1)
	v.RemoveAt(0)
	v.Pop()

	want := []VecOp{OpPush, OpInsertAt, OpMove, OpRemoveAt, OpPop}
	for _, op := range want {
		d := <-ch
		assert.Equal(t, op, d.Op)
	}
}

func TestMutableVec_PopOnEmptyEmitsNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	v := NewVec[string]()
	ch := v.WatchDiffs(ctx)
	<-ch

	v.Pop()
	v.Push("sentinel")
	require.Equal(t, OpPush, (<-ch).Op)
}

func TestMapVec(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	v := NewVec(1, 2)
	mapped := MapVec[int, int](v, func(n int) int { return n * 10 })
	ch := mapped.WatchDiffs(ctx)

	d := <-ch
	require.Equal(t, OpReplace, d.Op)
	require.Equal(t, []int{10, 20}, d.Values)

	v.Push(3)
	d = <-ch
	require.Equal(t, OpPush, d.Op)
	require.Equal(t, 30, d.Value)

	v.Move(0, 2)
	d = <-ch
	require.Equal(t, OpMove, d.Op)
	require.Equal(t, 0, d.Index)
	require.Equal(t, 2, d.NewIndex)
}
