package queue

import "errors"

// ErrEmptyQueue indicates a dequeue from an empty waiting line.
var ErrEmptyQueue = errors.New("queue is empty")
