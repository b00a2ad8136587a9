// Package queue implements the first-in-first-out waiting line that
// feeds open court slots.
package queue

// Queue holds waiting players in arrival order. A player appears at
// most once. Not safe for concurrent use; callers serialize access.
type Queue struct {
	names []string
	index map[string]struct{}
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{
		index: make(map[string]struct{}),
	}
}

// Len returns the number of waiting players.
func (q *Queue) Len() int {
	return len(q.names)
}

// Names returns the waiting players front to back.
func (q *Queue) Names() []string {
	out := make([]string, len(q.names))
	copy(out, q.names)

	return out
}

// Contains reports whether name is waiting.
func (q *Queue) Contains(name string) bool {
	_, ok := q.index[name]

	return ok
}

// Enqueue appends name to the back of the line. It returns false when
// the name is empty or already waiting, leaving the queue unchanged.
func (q *Queue) Enqueue(name string) bool {
	if name == "" {
		return false
	}
	if _, ok := q.index[name]; ok {
		return false
	}
	q.names = append(q.names, name)
	q.index[name] = struct{}{}

	return true
}

// DequeueFront removes and returns the player at the front of the line.
func (q *Queue) DequeueFront() (string, error) {
	if len(q.names) == 0 {
		return "", ErrEmptyQueue
	}
	name := q.names[0]
	q.names = q.names[1:]
	delete(q.index, name)

	return name, nil
}

// Remove takes name out of the line wherever it stands. It returns
// false when the name is not waiting.
func (q *Queue) Remove(name string) bool {
	if _, ok := q.index[name]; !ok {
		return false
	}
	for i, n := range q.names {
		if n == name {
			q.names = append(q.names[:i], q.names[i+1:]...)

			break
		}
	}
	delete(q.index, name)

	return true
}

// Rebuild replaces the line with the given names in order, applying the
// same empty-name and duplicate guards as Enqueue.
func (q *Queue) Rebuild(names []string) {
	q.names = q.names[:0]
	q.index = make(map[string]struct{}, len(names))
	for _, name := range names {
		q.Enqueue(name)
	}
}
