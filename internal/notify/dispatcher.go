package notify

import (
	"context"
	"log/slog"
	"maps"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/stacklok/media-readiness-server/internal/httpclient"
	"github.com/stacklok/media-readiness-server/internal/library"
	"github.com/stacklok/media-readiness-server/internal/otel"
	"github.com/stacklok/media-readiness-server/internal/readiness"
	"github.com/stacklok/media-readiness-server/internal/store"
	"github.com/stacklok/media-readiness-server/internal/telemetry"
)

const (
	// DefaultDeliveryTimeout bounds a single webhook delivery
	DefaultDeliveryTimeout = 10 * time.Second

	// DefaultMaxConcurrent is the number of deliveries in flight at once
	DefaultMaxConcurrent = 8

	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

//go:generate mockgen -destination=mocks/mock_dispatcher.go -package=mocks -source=dispatcher.go Dispatcher

// Dispatcher detects readiness transitions and delivers webhook notifications
type Dispatcher interface {
	// Dispatch diffs verdicts against the previous cycle, delivers notifications
	// for transitions of interest and waits for every delivery to finish.
	// The verdicts become the new baseline even when deliveries fail.
	Dispatch(ctx context.Context, verdicts []readiness.Verdict) DispatchSummary

	// SendTest delivers a synthetic notification to one webhook
	SendTest(ctx context.Context, webhook store.Webhook) error

	// LastVerdicts returns a copy of the verdicts of the last cycle keyed by item id
	LastVerdicts() map[string]readiness.Verdict

	// LastVerdict returns the last verdict of one item
	LastVerdict(itemID string) (readiness.Verdict, bool)
}

// DispatchSummary reports what one Dispatch call did
type DispatchSummary struct {
	// Seeded is true when this call only recorded the baseline
	Seeded bool
	// Evaluated is the number of verdicts received
	Evaluated int
	// Transitions is the number of items with a transition of interest
	Transitions int
	// Suppressed is the number of transitions skipped because the item is dismissed
	Suppressed int
	// Succeeded and Failed count individual webhook deliveries
	Succeeded int
	Failed    int
}

// Deliveries returns the number of attempted deliveries
func (s DispatchSummary) Deliveries() int {
	return s.Succeeded + s.Failed
}

// Option configures a dispatcher
type Option func(*dispatcher)

// WithDeliveryTimeout sets the timeout of each delivery
func WithDeliveryTimeout(d time.Duration) Option {
	return func(ds *dispatcher) {
		if d > 0 {
			ds.deliveryTimeout = d
		}
	}
}

// WithMaxConcurrent bounds the number of deliveries in flight
func WithMaxConcurrent(n int) Option {
	return func(ds *dispatcher) {
		if n > 0 {
			ds.maxConcurrent = n
		}
	}
}

// WithSeedOnFirstCycle makes the first Dispatch only record verdicts without notifying
func WithSeedOnFirstCycle(seed bool) Option {
	return func(ds *dispatcher) {
		ds.seedOnFirstCycle = seed
	}
}

// WithMetrics records delivery outcomes
func WithMetrics(m *telemetry.NotificationMetrics) Option {
	return func(ds *dispatcher) {
		ds.metrics = m
	}
}

// WithTracer sets the tracer for delivery spans
func WithTracer(tracer trace.Tracer) Option {
	return func(ds *dispatcher) {
		ds.tracer = tracer
	}
}

// WithClock overrides the clock used for payload timestamps
func WithClock(now func() time.Time) Option {
	return func(ds *dispatcher) {
		ds.now = now
	}
}

type dispatcher struct {
	store  store.Store
	client httpclient.Client

	deliveryTimeout  time.Duration
	maxConcurrent    int
	seedOnFirstCycle bool
	metrics          *telemetry.NotificationMetrics
	tracer           trace.Tracer
	now              func() time.Time

	mu     sync.RWMutex
	last   map[string]readiness.Verdict
	seeded bool
}

// NewDispatcher creates a dispatcher reading webhooks and dismissals from st
func NewDispatcher(st store.Store, client httpclient.Client, opts ...Option) Dispatcher {
	d := &dispatcher{
		store:            st,
		client:           client,
		deliveryTimeout:  DefaultDeliveryTimeout,
		maxConcurrent:    DefaultMaxConcurrent,
		seedOnFirstCycle: true,
		now:              time.Now,
		last:             make(map[string]readiness.Verdict),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type delivery struct {
	webhook store.Webhook
	event   Event
}

func (d *dispatcher) Dispatch(ctx context.Context, verdicts []readiness.Verdict) DispatchSummary {
	summary := DispatchSummary{Evaluated: len(verdicts)}

	next := make(map[string]readiness.Verdict, len(verdicts))
	for _, v := range verdicts {
		next[v.ItemID] = v
	}

	d.mu.Lock()
	previous := d.last
	seeding := !d.seeded && d.seedOnFirstCycle
	d.last = next
	d.seeded = true
	d.mu.Unlock()

	if seeding {
		slog.Info("Recorded initial readiness baseline, no notifications sent", "items", len(verdicts))
		summary.Seeded = true
		return summary
	}

	now := d.now()
	var events []Event
	for _, v := range verdicts {
		var prev *readiness.Verdict
		if p, ok := previous[v.ItemID]; ok {
			prev = &p
		}
		kind := Transition(prev, v)
		if event, ok := NewEvent(kind, v, now); ok {
			events = append(events, event)
		}
	}
	if len(events) == 0 {
		return summary
	}

	webhooks, err := d.store.ListWebhooks(ctx)
	if err != nil {
		slog.Error("Failed to load webhooks, skipping notifications", "error", err, "transitions", len(events))
		summary.Transitions = len(events)
		return summary
	}
	dismissed, err := d.dismissedSet(ctx)
	if err != nil {
		slog.Error("Failed to load dismissed items, skipping notifications", "error", err, "transitions", len(events))
		summary.Transitions = len(events)
		return summary
	}

	var jobs []delivery
	for _, event := range events {
		summary.Transitions++
		if _, ok := dismissed[event.Verdict.ItemID]; ok {
			summary.Suppressed++
			slog.Debug("Item is dismissed, not notifying", "item_id", event.Verdict.ItemID, "event", event.Name)
			continue
		}
		for _, w := range webhooks {
			if !w.Enabled || !event.Kind.Matches(w.Filters) {
				continue
			}
			jobs = append(jobs, delivery{webhook: w, event: event})
		}
	}

	succeeded, failed := d.deliverAll(ctx, jobs)
	summary.Succeeded = succeeded
	summary.Failed = failed

	slog.Info("Notification dispatch completed",
		"transitions", summary.Transitions,
		"suppressed", summary.Suppressed,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed)
	return summary
}

// deliverAll runs every delivery with bounded concurrency and waits for all of them
func (d *dispatcher) deliverAll(ctx context.Context, jobs []delivery) (int, int) {
	if len(jobs) == 0 {
		return 0, 0
	}

	var succeeded, failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(d.maxConcurrent)
	for _, job := range jobs {
		g.Go(func() error {
			if err := d.deliver(ctx, job.webhook, job.event); err != nil {
				failed.Add(1)
				slog.Warn("Webhook delivery failed",
					"webhook_id", job.webhook.ID,
					"webhook_name", job.webhook.Name,
					"item_id", job.event.Verdict.ItemID,
					"event", job.event.Name,
					"error", err)
				return nil
			}
			succeeded.Add(1)
			return nil
		})
	}
	// Deliveries never return errors, failures are isolated and counted above
	_ = g.Wait()

	return int(succeeded.Load()), int(failed.Load())
}

func (d *dispatcher) deliver(ctx context.Context, w store.Webhook, event Event) (err error) {
	ctx, span := otel.StartSpan(ctx, d.tracer, "notify.deliver",
		trace.WithAttributes(
			otel.AttrWebhookID.String(w.ID),
			otel.AttrWebhookType.String(string(w.Type)),
			otel.AttrItemID.String(event.Verdict.ItemID),
		))
	defer span.End()

	start := time.Now()
	defer func() {
		outcome := outcomeSuccess
		if err != nil {
			outcome = outcomeFailure
			otel.RecordError(span, err)
		}
		d.metrics.RecordDelivery(ctx, string(w.Type), outcome, time.Since(start))
	}()

	body, err := BuildPayload(w.Type, event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, d.deliveryTimeout)
	defer cancel()
	return d.client.PostJSON(ctx, w.URL, body)
}

func (d *dispatcher) SendTest(ctx context.Context, w store.Webhook) error {
	event := Event{
		Kind: TransitionNone,
		Name: EventWebhookTest,
		Verdict: readiness.Verdict{
			ItemID:          "test",
			ItemKind:        library.ItemKindSeries,
			Title:           "Test notification",
			Status:          readiness.StatusReady,
			ProgressPercent: 1,
			RuleResults:     []readiness.RuleResult{},
		},
		Timestamp: d.now(),
	}
	if err := d.deliver(ctx, w, event); err != nil {
		return err
	}
	slog.Info("Test notification delivered", "webhook_id", w.ID, "webhook_name", w.Name)
	return nil
}

func (d *dispatcher) LastVerdicts() map[string]readiness.Verdict {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return maps.Clone(d.last)
}

func (d *dispatcher) LastVerdict(itemID string) (readiness.Verdict, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.last[itemID]
	return v, ok
}

func (d *dispatcher) dismissedSet(ctx context.Context) (map[string]struct{}, error) {
	items, err := d.store.ListDismissed(ctx)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item.ItemID] = struct{}{}
	}
	return set, nil
}
