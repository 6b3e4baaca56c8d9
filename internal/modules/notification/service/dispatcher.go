package notification

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"anoa.com/jornalufc/pkg/mailer"
	"github.com/rs/zerolog"
)

// Dispatcher hands e-mails to a background worker pool. Callers never wait
// for delivery and never see its outcome.
type Dispatcher interface {
	Send(subject string, recipients []string, body string)
	Enqueue(msg mailer.Message)
	Close()
}

type Options struct {
	Workers     int
	QueueSize   int
	SendTimeout time.Duration
}

// MailDispatcher is the worker-pool Dispatcher.
type MailDispatcher struct {
	sender  mailer.Sender
	logger  zerolog.Logger
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan mailer.Message
	wg     sync.WaitGroup

	dropped atomic.Uint64
}

func NewDispatcher(sender mailer.Sender, logger zerolog.Logger, opts Options) *MailDispatcher {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.QueueSize < 1 {
		opts.QueueSize = 1
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = 30 * time.Second
	}

	d := &MailDispatcher{
		sender:  sender,
		logger:  logger,
		timeout: opts.SendTimeout,
		queue:   make(chan mailer.Message, opts.QueueSize),
	}
	for i := 0; i < opts.Workers; i++ {
		d.wg.Add(1)
		go d.work(i)
	}
	return d
}

func (d *MailDispatcher) Send(subject string, recipients []string, body string) {
	d.Enqueue(mailer.Message{Subject: subject, Recipients: recipients, HTMLBody: body})
}

// Enqueue drops the message when the queue is full or the dispatcher is closed.
func (d *MailDispatcher) Enqueue(msg mailer.Message) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(msg, "dispatcher closed")
		return
	}

	select {
	case d.queue <- msg:
	default:
		d.drop(msg, "queue full")
	}
}

// Close stops accepting messages and waits for queued ones to be delivered.
func (d *MailDispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
}

// Dropped is the number of messages discarded without a delivery attempt.
func (d *MailDispatcher) Dropped() uint64 {
	return d.dropped.Load()
}

func (d *MailDispatcher) drop(msg mailer.Message, reason string) {
	d.dropped.Add(1)
	d.logger.Warn().
		Str("subject", msg.Subject).
		Strs("to", msg.Recipients).
		Str("reason", reason).
		Msg("notification dropped")
}

func (d *MailDispatcher) work(id int) {
	defer d.wg.Done()
	for msg := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		if err := d.sender.Send(ctx, msg); err != nil {
			d.logger.Error().Err(err).
				Int("worker", id).
				Str("subject", msg.Subject).
				Strs("to", msg.Recipients).
				Msg("failed to deliver notification")
		}
		cancel()
	}
}
