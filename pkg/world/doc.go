// Package world is an in-memory host world: an entity-based retained
// scene graph the construction layer attaches nodes to.
//
// It provides the collaborator surface the builder consumes: entity
// creation, atomic insertion of existing entities as children at an
// index, recursive destruction (which detaches from the parent), typed
// attribute storage, and a serialized mutation queue.
//
// # Mutation model
//
// All structural mutation from concurrent tasks goes through Apply, which
// enqueues a closure and blocks until the Run loop has executed it. The
// Run loop is the single writer for queued work, so closures observe and
// produce consistent tree state without their authors taking locks.
// Direct method calls are still safe (a mutex guards entity storage) and
// are intended for setup code and tests.
//
// # Lifetimes
//
// Tasks held on an entity via HoldTask are cancelled when the entity is
// despawned, directly or as part of an ancestor's despawn. Shutdown
// cancels everything and waits for the task pool to drain.
package world
