// Package notify sends best-effort transactional email. Delivery runs on a
// small pool of background workers; callers never wait for it and never see
// its errors.
package notify

import (
	"context"                  // Shutdown deadline
	"errors"                   // Sentinel errors
	"fmt"                      // Panic formatting
	"skydesk/internal/metrics" // Notification counters
	"sync"                     // Worker bookkeeping

	"github.com/sirupsen/logrus" // Structured logging
)

// ErrQueueFull is logged when a message is dropped because every slot is taken
var ErrQueueFull = errors.New("notify: queue is full")

// Notifier is the fire-and-forget interface the services depend on
type Notifier interface {
	Send(subject, recipient, bodyHTML string)
}

// Dispatcher queues messages and delivers them from background workers
type Dispatcher struct {
	sender  Sender
	jobs    chan Message
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
	once    sync.Once
	drained chan struct{}
}

// NewDispatcher starts workers goroutines delivering through sender. The queue
// holds queueSize pending messages.
func NewDispatcher(sender Sender, workers, queueSize int) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = workers * 32
	}
	d := &Dispatcher{
		sender:  sender,
		jobs:    make(chan Message, queueSize),
		drained: make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	go func() {
		d.wg.Wait()
		close(d.drained)
	}()
	return d
}

// Send renders and queues a message. It never blocks: when the queue is full
// or the dispatcher is shut down the message is dropped and logged.
func (d *Dispatcher) Send(subject, recipient, bodyHTML string) {
	msg := Message{Subject: subject, To: recipient, HTML: RenderEnvelope(bodyHTML)}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.drop(msg, errors.New("notify: dispatcher is shut down"))
		return
	}
	select {
	case d.jobs <- msg:
	default:
		d.drop(msg, ErrQueueFull)
	}
}

// Shutdown stops accepting messages and waits for queued ones to be delivered
// or for ctx to end. It is safe to call more than once.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.once.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.jobs)
		d.mu.Unlock()
	})
	select {
	case <-d.drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for msg := range d.jobs {
		d.deliver(msg)
	}
}

// deliver sends one message, logging and swallowing any failure including panics
func (d *Dispatcher) deliver(msg Message) {
	defer func() {
		if r := recover(); r != nil {
			d.fail(msg, fmt.Errorf("notify: sender panic: %v", r))
		}
	}()
	if err := d.sender.Deliver(msg); err != nil {
		d.fail(msg, err)
		return
	}
	metrics.Notifications.WithLabelValues("sent").Inc()
	logrus.WithFields(logrus.Fields{
		"recipient": msg.To,
		"subject":   msg.Subject,
	}).Info("Email sent")
}

func (d *Dispatcher) fail(msg Message, err error) {
	metrics.Notifications.WithLabelValues("failed").Inc()
	logrus.WithFields(logrus.Fields{
		"recipient": msg.To,
		"subject":   msg.Subject,
		"error":     err.Error(),
	}).Error("Email failed (ignored)")
}

func (d *Dispatcher) drop(msg Message, err error) {
	metrics.Notifications.WithLabelValues("dropped").Inc()
	logrus.WithFields(logrus.Fields{
		"recipient": msg.To,
		"subject":   msg.Subject,
		"error":     err.Error(),
	}).Warn("Email dropped")
}
