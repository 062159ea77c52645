package signal

import "context"

// Map adapts a Source of T into a Source of U by passing every value
// through f. Like any Source, the result coalesces: a slow watcher sees
// the mapping of the latest value.
func Map[T, U any](src Source[T], f func(T) U) Source[U] {
	return mappedSource[T, U]{src: src, f: f}
}

type mappedSource[T, U any] struct {
	src Source[T]
	f   func(T) U
}

func (m mappedSource[T, U]) Watch(ctx context.Context) <-chan U {
	in := m.src.Watch(ctx)
	out := make(chan U, 1)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-in:
				if !ok {
					return
				}
				u := m.f(v)
				// Single writer; drain-then-send keeps only the latest.
				select {
				case out <- u:
				default:
					select {
					case <-out:
					default:
					}
					out <- u
				}
			}
		}
	}()
	return out
}
