package queue

import (
	"errors"
	"sync"

	"marketplace/server/internal/models"

	"github.com/sirupsen/logrus"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

// NotificationQueue hands notification batches from request handlers to the
// background writer. Handlers never wait on it: a full queue rejects the
// batch. Batches accepted before Close are still delivered.
type NotificationQueue struct {
	items    chan []*models.Notification
	done     chan struct{}
	maxSize  int
	closed   bool
	mu       sync.RWMutex
	logger   *logrus.Logger
	handlers []func([]*models.Notification) error
	wg       sync.WaitGroup
}

// NewNotificationQueue creates a queue holding up to bufferSize batches.
// A nil logger gets a default one.
func NewNotificationQueue(bufferSize int, logger *logrus.Logger) *NotificationQueue {
	if logger == nil {
		logger = logrus.New()
	}
	return &NotificationQueue{
		items:    make(chan []*models.Notification, bufferSize),
		done:     make(chan struct{}),
		maxSize:  bufferSize,
		logger:   logger,
		handlers: make([]func([]*models.Notification) error, 0),
	}
}

// Push enqueues batch and returns at once: ErrQueueFull when bufferSize
// batches are already waiting, ErrQueueClosed after Close.
func (q *NotificationQueue) Push(batch []*models.Notification) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.items <- batch:
		q.logger.WithField("batch_size", len(batch)).Debug("Pushed notification batch to queue")
		return nil
	default:
		return ErrQueueFull
	}
}

// Subscribe registers a handler. Every handler sees every batch, in
// registration order; a handler error is logged and does not stop the rest.
func (q *NotificationQueue) Subscribe(handler func([]*models.Notification) error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers = append(q.handlers, handler)
}

// Start launches the single delivery goroutine. Call it once.
func (q *NotificationQueue) Start() {
	q.wg.Add(1)
	go q.process()
}

func (q *NotificationQueue) process() {
	defer q.wg.Done()
	for {
		select {
		case <-q.done:
			// Flush whatever was queued before Close
			for {
				select {
				case batch, ok := <-q.items:
					if !ok {
						return
					}
					q.processBatch(batch)
				default:
					return
				}
			}
		case batch, ok := <-q.items:
			if !ok {
				return
			}
			q.processBatch(batch)
		}
	}
}

// processBatch delivers one batch to the handlers registered so far
func (q *NotificationQueue) processBatch(batch []*models.Notification) {
	q.mu.RLock()
	handlers := q.handlers
	q.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(batch); err != nil {
			q.logger.WithError(err).Error("Handler failed to process notification batch")
		}
	}
}

// Close rejects further pushes, delivers what is already queued and waits
// for the delivery goroutine to exit. Later calls are no-ops.
func (q *NotificationQueue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.done)
	close(q.items)
	q.mu.Unlock()

	q.wg.Wait()
	return nil
}

// Len reports how many batches are waiting for delivery
func (q *NotificationQueue) Len() int {
	return len(q.items)
}

// IsClosed reports whether Close has been called
func (q *NotificationQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
