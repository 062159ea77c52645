// Package signal provides the reactive values that drive incremental tree
// construction.
//
// Two primitives are exposed:
//
// Mutable is a thread-safe cell holding a single value. Watchers receive
// the current value immediately on subscription and then the latest value
// after each change. Intermediate values may be coalesced: a slow watcher
// observes the newest state, never a stale one.
//
// MutableVec is a thread-safe ordered sequence. Watchers receive an
// initial Replace diff carrying the current contents, followed by every
// subsequent diff in arrival order. Unlike Mutable, vec diffs are never
// coalesced or reordered; consumers replay them one by one.
//
// Both types are safe for concurrent use. Subscriptions are bound to a
// context and detach when it is cancelled.
package signal
