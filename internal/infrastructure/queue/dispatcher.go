package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/encore-live/backstage-api/internal/api/metrics"
	"github.com/encore-live/backstage-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

const (
	noticeRegistration  = "registration"
	noticePasswordReset = "password_reset"
	noticeStartup       = "startup"
)

type notice struct {
	kind     string
	username string
	email    string
}

// Dispatcher makes notification delivery asynchronous: it implements
// ports.Notifier by enqueueing notices onto a fixed worker pool that calls
// the wrapped Notifier. Notices are sharded by recipient, so the notices for
// one address are delivered in order. Delivery failures are logged and
// counted, never surfaced — the account mutation already happened.
type Dispatcher struct {
	workers []chan notice
	next    ports.Notifier
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers wrapping
// next. If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, next ports.Notifier, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan notice, numWorkers),
		next:    next,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan notice, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

func (d *Dispatcher) SendRegistrationNotice(_ context.Context, username, email string) error {
	d.enqueue(notice{kind: noticeRegistration, username: username, email: email})
	return nil
}

func (d *Dispatcher) SendPasswordResetNotice(_ context.Context, email string) error {
	d.enqueue(notice{kind: noticePasswordReset, email: email})
	return nil
}

func (d *Dispatcher) SendStartupNotice(_ context.Context) error {
	d.enqueue(notice{kind: noticeStartup})
	return nil
}

// enqueue sends a notice to the worker responsible for its recipient.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) enqueue(n notice) {
	i := d.shardIndex(n.email)
	d.workers[i] <- n
	metrics.NotifyQueueDepth.WithLabelValues(strconv.Itoa(i)).Set(float64(len(d.workers[i])))
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(email))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan notice) {
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-ch:
			if !ok {
				return
			}
			metrics.NotifyQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
			d.deliver(ctx, id, n)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, id int, n notice) {
	var err error
	switch n.kind {
	case noticeRegistration:
		err = d.next.SendRegistrationNotice(ctx, n.username, n.email)
	case noticePasswordReset:
		err = d.next.SendPasswordResetNotice(ctx, n.email)
	case noticeStartup:
		err = d.next.SendStartupNotice(ctx)
	}

	if err != nil {
		metrics.NotificationsTotal.WithLabelValues(n.kind, "error").Inc()
		d.log.Error().Err(err).
			Str("kind", n.kind).
			Str("email", n.email).
			Int("worker_id", id).
			Msg("notification delivery failed")
		return
	}
	metrics.NotificationsTotal.WithLabelValues(n.kind, "sent").Inc()
}
