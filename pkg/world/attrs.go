package world

import "reflect"

// Typed attribute access is one generic set/get/patch implemented once
// and parameterized over the attribute type; entities carry at most one
// value per type.

func attrKey[A any]() reflect.Type {
	return reflect.TypeOf((*A)(nil)).Elem()
}

func storeAttr(rec *record, attr any) {
	t := reflect.TypeOf(attr)
	p := reflect.New(t)
	p.Elem().Set(reflect.ValueOf(attr))
	rec.attrs[t] = p.Interface()
}

// Insert sets e's attribute of type A, replacing any previous value.
// Returns false if e is not live.
func Insert[A any](w *World, e Entity, attr A) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	rec, ok := w.entities[e]
	if !ok {
		return false
	}
	a := attr
	rec.attrs[attrKey[A]()] = &a
	return true
}

// Get returns e's attribute of type A, if present.
func Get[A any](w *World, e Entity) (A, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	var zero A
	rec, ok := w.entities[e]
	if !ok {
		return zero, false
	}
	p, ok := rec.attrs[attrKey[A]()].(*A)
	if !ok {
		return zero, false
	}
	return *p, true
}

// Patch mutates e's attribute of type A in place. It is a no-op (returning
// false) if e is dead or carries no such attribute.
func Patch[A any](w *World, e Entity, f func(*A)) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	rec, ok := w.entities[e]
	if !ok {
		return false
	}
	p, ok := rec.attrs[attrKey[A]()].(*A)
	if !ok {
		return false
	}
	f(p)
	return true
}
