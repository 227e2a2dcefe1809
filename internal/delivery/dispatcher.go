// Package delivery forwards captured leads and completed results to the
// configured sinks (a Notion database and a generic webhook) in the
// background, retrying transient failures.
package delivery

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dotcommander/scorecard/internal/lead"
	"github.com/dotcommander/scorecard/internal/logging"
	"github.com/dotcommander/scorecard/internal/scoring"
)

// Sink names reported to the Observer. Dropped jobs are reported under SinkQueue.
const (
	SinkNotion  = "notion"
	SinkWebhook = "webhook"
	SinkQueue   = "queue"
)

// DefaultCacheSize bounds how many leads are remembered for result matching.
const DefaultCacheSize = 4096

// DefaultQueueSize bounds how many jobs wait for a free worker.
const DefaultQueueSize = 1024

// ErrQueueFull is reported when the queue is full, or the dispatcher closed,
// and a job is dropped.
var ErrQueueFull = errors.New("delivery queue full")

// Observer is told the outcome of every delivery job.
type Observer func(sink, event string, err error)

// Config wires the Dispatcher
type Config struct {
	Notion    *NotionClient  // nil disables Notion
	Webhook   *WebhookClient // nil disables the webhook
	Retry     RetryConfig
	Workers   int // concurrent jobs
	QueueSize int // jobs waiting for a worker; further jobs are dropped
	CacheSize int
	Logger    *slog.Logger
	Observer  Observer
}

// record tracks a captured lead until its result arrives.
type record struct {
	lead lead.Lead

	mu      sync.Mutex
	settled bool // the Notion page exists or creation gave up
	pageID  string
	waiters []func(pageID string)
}

// settle stores the page ID and runs the callbacks registered before it.
func (r *record) settle(pageID string) {
	r.mu.Lock()
	r.settled = true
	r.pageID = pageID
	waiters := r.waiters
	r.waiters = nil
	r.mu.Unlock()

	for _, fn := range waiters {
		fn(pageID)
	}
}

// page returns the page ID once settled. Otherwise fn is kept and called by
// settle.
func (r *record) page(fn func(pageID string)) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.settled {
		return r.pageID, true
	}
	r.waiters = append(r.waiters, fn)
	return "", false
}

type job func(ctx context.Context)

// Dispatcher runs deliveries in the background on a fixed pool of workers
// fed by a bounded queue. The zero value is not usable; create one with
// NewDispatcher.
type Dispatcher struct {
	cfg    Config
	tracer trace.Tracer
	leads  *lru.Cache[string, *record]

	ctx     context.Context
	cancel  context.CancelFunc
	jobs    chan job
	pending sync.WaitGroup // queued or running jobs
	workers sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewDispatcher starts the workers. Close must be called to drain them.
func NewDispatcher(cfg Config) (*Dispatcher, error) {
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop()
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = DefaultRetryConfig()
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultCacheSize
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	leads, err := lru.New[string, *record](cfg.CacheSize)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		cfg:    cfg,
		tracer: otel.Tracer("github.com/dotcommander/scorecard/internal/delivery"),
		leads:  leads,
		ctx:    ctx,
		cancel: cancel,
		jobs:   make(chan job, cfg.QueueSize),
	}
	if d.Enabled() {
		for range max(cfg.Workers, 1) {
			d.workers.Go(d.work)
		}
	}
	return d, nil
}

// Enabled reports whether any sink is configured.
func (d *Dispatcher) Enabled() bool {
	return d.cfg.Notion != nil || d.cfg.Webhook != nil
}

func (d *Dispatcher) work() {
	for {
		select {
		case j := <-d.jobs:
			j(d.ctx)
			d.pending.Done()
		case <-d.ctx.Done():
			return
		}
	}
}

// LeadCaptured queues delivery of a new lead under id.
func (d *Dispatcher) LeadCaptured(id string, l lead.Lead) {
	if !d.Enabled() {
		return
	}
	rec := &record{lead: l}
	d.leads.Add(id, rec)
	if d.cfg.Notion == nil {
		rec.settle("")
	}

	queued := d.submit(EventLeadCaptured, false, func(ctx context.Context) {
		var wg sync.WaitGroup
		if d.cfg.Notion != nil {
			wg.Go(func() {
				var pageID string
				defer func() { rec.settle(pageID) }()
				err := d.run(ctx, SinkNotion, EventLeadCaptured, id, func(ctx context.Context) error {
					var err error
					pageID, err = d.cfg.Notion.CreateLead(ctx, l)
					return err
				})
				if err == nil {
					d.cfg.Logger.Info("notion lead created", "lead_id", id, "page_id", pageID)
				}
			})
		}
		if d.cfg.Webhook != nil {
			wg.Go(func() {
				event := Event{Type: EventLeadCaptured, ID: id, Timestamp: time.Now().UTC(), Lead: &l}
				d.run(ctx, SinkWebhook, EventLeadCaptured, id, func(ctx context.Context) error {
					return d.cfg.Webhook.Send(ctx, event)
				})
			})
		}
		wg.Wait()
	})
	if !queued && d.cfg.Notion != nil {
		rec.settle("")
	}
}

// QuizCompleted queues delivery of a result. leadID links it to an earlier
// LeadCaptured call; pageID, when known by the caller, names the Notion page
// directly. Without either the Notion update is skipped. An update for a lead
// whose page is still being created is queued once the page exists, so no
// worker waits for it.
func (d *Dispatcher) QuizCompleted(leadID, pageID string, result scoring.ScoreResult) {
	if !d.Enabled() {
		return
	}

	var rec *record
	if leadID != "" {
		rec, _ = d.leads.Get(leadID)
	}

	if d.cfg.Notion != nil {
		switch {
		case pageID != "":
			d.updateScore(leadID, pageID, result, false)
		case rec != nil:
			if page, ok := rec.page(func(page string) {
				d.updateScore(leadID, page, result, true)
			}); ok {
				d.updateScore(leadID, page, result, false)
			}
		default:
			d.cfg.Logger.Debug("no notion page for result", "lead_id", leadID)
		}
	}

	if d.cfg.Webhook != nil {
		event := Event{Type: EventQuizCompleted, ID: leadID, Timestamp: time.Now().UTC(), Result: &result}
		if rec != nil {
			event.Lead = &rec.lead
		}
		d.submit(EventQuizCompleted, false, func(ctx context.Context) {
			d.run(ctx, SinkWebhook, EventQuizCompleted, leadID, func(ctx context.Context) error {
				return d.cfg.Webhook.Send(ctx, event)
			})
		})
	}
}

// updateScore queues the Notion page update. followUp marks updates queued
// by a running lead job, which are accepted while Close drains.
func (d *Dispatcher) updateScore(leadID, pageID string, result scoring.ScoreResult, followUp bool) {
	if pageID == "" {
		d.cfg.Logger.Debug("no notion page for result", "lead_id", leadID)
		return
	}
	d.submit(EventQuizCompleted, followUp, func(ctx context.Context) {
		d.run(ctx, SinkNotion, EventQuizCompleted, leadID, func(ctx context.Context) error {
			return d.cfg.Notion.UpdateScore(ctx, pageID, result)
		})
	})
}

// submit queues fn without blocking. It reports false, after logging and
// notifying the Observer, when the queue is full or the dispatcher is closed.
func (d *Dispatcher) submit(event string, followUp bool, fn func(ctx context.Context)) bool {
	d.mu.Lock()
	queued := false
	if !d.closed || followUp {
		d.pending.Add(1)
		select {
		case d.jobs <- fn:
			queued = true
		default:
			d.pending.Done()
		}
	}
	d.mu.Unlock()

	if !queued {
		d.cfg.Logger.Warn("delivery dropped", "event", event, "error", ErrQueueFull)
		if d.cfg.Observer != nil {
			d.cfg.Observer(SinkQueue, event, ErrQueueFull)
		}
	}
	return queued
}

// run executes one sink call with retries inside a span and reports the outcome.
func (d *Dispatcher) run(ctx context.Context, sink, event, id string, fn func(ctx context.Context) error) error {
	ctx, span := d.tracer.Start(ctx, "delivery."+sink,
		trace.WithAttributes(
			attribute.String("delivery.event", event),
			attribute.String("lead.id", id),
		))
	defer span.End()

	logger := d.cfg.Logger.With("sink", sink, "event", event, "lead_id", id)
	err := Retry(ctx, d.cfg.Retry, logger, fn)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.ErrorContext(ctx, "delivery failed", "error", err)
	}
	if d.cfg.Observer != nil {
		d.cfg.Observer(sink, event, err)
	}
	return err
}

// Close stops accepting jobs and waits until the queue is drained. When ctx
// expires first, running jobs are cancelled, queued ones are discarded and
// ctx's error is returned.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		d.pending.Wait()
		close(drained)
	}()

	var err error
	select {
	case <-drained:
	case <-ctx.Done():
		err = ctx.Err()
	}
	d.cancel()
	d.workers.Wait()

	for {
		select {
		case <-d.jobs:
			d.pending.Done()
		default:
			return err
		}
	}
}
