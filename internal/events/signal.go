package events

import "sync"

// Signal is a typed publish/subscribe point for in-process notifications.
// Handlers run synchronously on the publisher's goroutine, in subscribe order,
// so delivery stays serialized with the node's update loop.
type Signal[T any] struct {
	mu   sync.Mutex
	next int
	subs map[int]func(T)
	ids  []int
}

// Subscribe registers a handler and returns a func that removes it.
func (s *Signal[T]) Subscribe(fn func(T)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.subs == nil {
		s.subs = make(map[int]func(T))
	}
	id := s.next
	s.next++
	s.subs[id] = fn
	s.ids = append(s.ids, id)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
		for i, v := range s.ids {
			if v == id {
				s.ids = append(s.ids[:i], s.ids[i+1:]...)
				break
			}
		}
	}
}

// Publish calls every subscribed handler with v.
func (s *Signal[T]) Publish(v T) {
	s.mu.Lock()
	ids := append([]int(nil), s.ids...)
	subs := make(map[int]func(T), len(s.subs))
	for id, fn := range s.subs {
		subs[id] = fn
	}
	s.mu.Unlock()

	for _, id := range ids {
		if fn, ok := subs[id]; ok {
			fn(v)
		}
	}
}
