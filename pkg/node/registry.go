package node

import (
	"context"
	"sync"

	"github.com/go-arbor/arbor/pkg/signal"
)

type blockKind uint8

const (
	blockSingle blockKind = iota
	blockOptional
	blockStatic
	blockReactive
)

// blockRegistry is the ordered table of child-block populations and
// has-inserted-once flags for one node. Blocks are added only while the
// builder is being assembled; after Spawn the table size is fixed and
// each block's population is written only by that block's task (inside
// queued world mutations), while offsets are read by any later block.
//
// offsets[i] is kept equal to the sum of populations[0..i-1]. It is
// republished synchronously inside setPopulation, before the publishing
// mutation's Apply returns, so a later block's queued operation can never
// observe a stale offset for an already-published population change.
type blockRegistry struct {
	mu          sync.Mutex
	kinds       []blockKind
	populations []int
	offsets     []*signal.Mutable[int]
	inserted    []*signal.Mutable[bool]
}

func newBlockRegistry() *blockRegistry {
	return &blockRegistry{}
}

// addBlock claims the next block index.
func (r *blockRegistry) addBlock(kind blockKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := len(r.populations)
	r.kinds = append(r.kinds, kind)
	r.populations = append(r.populations, 0)
	r.offsets = append(r.offsets, signal.NewEq(r.prefixLocked(i)))
	r.inserted = append(r.inserted, signal.NewEq(false))
	return i
}

func (r *blockRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.populations)
}

func (r *blockRegistry) prefixLocked(i int) int {
	sum := 0
	for _, p := range r.populations[:i] {
		sum += p
	}
	return sum
}

// setPopulation publishes block i's population and republishes every
// higher block's offset. Deduplicated: an unchanged offset is not
// re-announced.
func (r *blockRegistry) setPopulation(i, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.populations[i] = n
	for j := i + 1; j < len(r.offsets); j++ {
		r.offsets[j].SetNeq(r.prefixLocked(j))
	}
}

func (r *blockRegistry) population(i int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.populations[i]
}

// offsetAt returns block i's current offset: the cumulative population of
// all lower-indexed blocks.
func (r *blockRegistry) offsetAt(i int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.prefixLocked(i)
}

// offsetSignal exposes block i's offset as a reactive value.
func (r *blockRegistry) offsetSignal(i int) *signal.Mutable[int] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.offsets[i]
}

// markInserted records that block i has applied at least one operation,
// unblocking the next block's first operation.
func (r *blockRegistry) markInserted(i int) {
	r.mu.Lock()
	flag := r.inserted[i]
	r.mu.Unlock()
	flag.SetNeq(true)
}

// waitUntilInserted blocks until block i has applied its first operation.
// Returns false if ctx is cancelled first.
func (r *blockRegistry) waitUntilInserted(ctx context.Context, i int) bool {
	r.mu.Lock()
	flag := r.inserted[i]
	r.mu.Unlock()
	return signal.WaitFor(ctx, flag, true)
}
