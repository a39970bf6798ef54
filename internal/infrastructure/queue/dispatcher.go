package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/natours/tour-booking-api/internal/core/domain"
	"github.com/natours/tour-booking-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

type welcomeJob struct {
	user *domain.User
	url  string
}

// MailDispatcher decorates a Mailer so welcome mail is delivered off the
// request path by a fixed set of workers. Recipients hash to a worker, so
// mail to one address keeps its order. Password-reset mail stays
// synchronous: its failure must clear the persisted token, which only the
// caller can do.
type MailDispatcher struct {
	workers []chan welcomeJob
	mailer  ports.Mailer
	log     zerolog.Logger
}

// NewMailDispatcher creates a MailDispatcher with numWorkers sharded
// workers. If numWorkers <= 0, defaultWorkers is used.
func NewMailDispatcher(numWorkers int, mailer ports.Mailer, log zerolog.Logger) *MailDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &MailDispatcher{
		workers: make([]chan welcomeJob, numWorkers),
		mailer:  mailer,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan welcomeJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *MailDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// SendWelcome enqueues the welcome mail and returns immediately. The call
// blocks only when the responsible worker's buffer is full.
func (d *MailDispatcher) SendWelcome(_ context.Context, to *domain.User, url string) error {
	d.workers[d.shardIndex(to.Email)] <- welcomeJob{user: to, url: url}
	return nil
}

// SendPasswordReset delegates to the wrapped mailer synchronously.
func (d *MailDispatcher) SendPasswordReset(ctx context.Context, to *domain.User, resetURL string) error {
	return d.mailer.SendPasswordReset(ctx, to, resetURL)
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *MailDispatcher) shardIndex(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(email))
	return int(h.Sum32()) % len(d.workers)
}

func (d *MailDispatcher) runWorker(ctx context.Context, id int, ch <-chan welcomeJob) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			if err := d.mailer.SendWelcome(ctx, job.user, job.url); err != nil {
				d.log.Error().Err(err).
					Str("email", job.user.Email).
					Int("worker_id", id).
					Msg("welcome mail delivery failed")
			}
		}
	}
}
