// Package node builds entities declaratively and keeps their child lists
// in sync with reactive sources.
//
// A Builder accumulates a pending node: initial attributes, one-shot
// mutations, persistent signal subscriptions, and child blocks. Spawn
// materializes it: the entity is created, one-shot mutations run
// synchronously in declaration order, and one pool task is launched per
// subscription and per child block, bound to the entity's lifetime.
// Spawn returns immediately; children populate asynchronously.
//
// # Child blocks
//
// Each child declaration (Child, ChildSignal, Children,
// ChildrenSignalVec) claims the next block index. A block owns a
// contiguous run of the parent's children; its insertion position is the
// sum of the populations of all lower-indexed blocks. Block i+1 applies
// its first operation only after block i has applied one, so runs land in
// declaration order even though they populate concurrently. Within a
// block, diffs replay strictly in arrival order.
//
// A Builder is single-use: Spawn consumes it.
package node
