package queue

import "sync"

// Queue is a mutex-guarded FIFO of tasks.
type Queue struct {
	mu    sync.Mutex
	tasks []Task
	ready chan struct{}
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{ready: make(chan struct{}, 1)}
}

// Enqueue appends a task and wakes the worker.
func (q *Queue) Enqueue(tasks ...Task) {
	if len(tasks) == 0 {
		return
	}

	q.mu.Lock()
	q.tasks = append(q.tasks, tasks...)
	depth := len(q.tasks)
	q.mu.Unlock()

	QueueDepth.Set(float64(depth))

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Dequeue removes and returns the oldest task.
func (q *Queue) Dequeue() (Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.tasks) == 0 {
		return Task{}, false
	}

	task := q.tasks[0]
	q.tasks[0] = Task{}
	q.tasks = q.tasks[1:]
	QueueDepth.Set(float64(len(q.tasks)))
	return task, true
}

// Clear drops all queued tasks and returns how many were dropped.
func (q *Queue) Clear() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := len(q.tasks)
	q.tasks = nil
	QueueDepth.Set(0)
	return n
}

// Len returns the number of queued tasks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Ready is signalled after Enqueue. A signal may cover several tasks.
func (q *Queue) Ready() <-chan struct{} {
	return q.ready
}
