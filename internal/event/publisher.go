package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fekuna/omnipos-inventory-service/internal/logger"
	"github.com/fekuna/omnipos-inventory-service/internal/metrics"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"go.uber.org/zap"
)

// Subscriber receives every published event at least once. Handle must be
// idempotent.
type Subscriber interface {
	Name() string
	Handle(ctx context.Context, ev model.InventoryEvent) error
}

type PublisherConfig struct {
	// MaxRetries bounds one delivery cycle. An event that exhausts it goes
	// to the back of the subscriber's queue.
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	HandleTimeout  time.Duration
}

func DefaultPublisherConfig() *PublisherConfig {
	return &PublisherConfig{
		MaxRetries:     5,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     5 * time.Second,
		HandleTimeout:  10 * time.Second,
	}
}

type subscription struct {
	sub    Subscriber
	mu     sync.Mutex
	queue  []model.InventoryEvent
	notify chan struct{}
}

func (s *subscription) push(ev model.InventoryEvent) int {
	s.mu.Lock()
	s.queue = append(s.queue, ev)
	n := len(s.queue)
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
	return n
}

func (s *subscription) pop() (model.InventoryEvent, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return model.InventoryEvent{}, 0, false
	}
	ev := s.queue[0]
	s.queue[0] = model.InventoryEvent{}
	s.queue = s.queue[1:]
	return ev, len(s.queue), true
}

func (s *subscription) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Publisher fans events out to subscribers. Each subscriber has its own
// unbounded FIFO and worker, so a slow or failing subscriber never blocks
// Publish or the other subscribers.
type Publisher struct {
	cfg     *PublisherConfig
	logger  logger.ZapLogger
	metrics *metrics.Metrics

	mu       sync.Mutex
	subs     []*subscription
	running  bool
	stopped  bool
	ctx      context.Context
	cancel   context.CancelFunc
	draining chan struct{}
	wg       sync.WaitGroup
}

func NewPublisher(cfg *PublisherConfig, log logger.ZapLogger, m *metrics.Metrics) *Publisher {
	if cfg == nil {
		cfg = DefaultPublisherConfig()
	}
	return &Publisher{
		cfg:      cfg,
		logger:   log,
		metrics:  m,
		draining: make(chan struct{}),
	}
}

// Subscribe registers s. It must be called before Start.
func (p *Publisher) Subscribe(s Subscriber) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running || p.stopped {
		return fmt.Errorf("publisher already started, cannot subscribe %s", s.Name())
	}
	p.subs = append(p.subs, &subscription{sub: s, notify: make(chan struct{}, 1)})
	return nil
}

func (p *Publisher) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return errors.New("publisher already running")
	}
	if p.stopped {
		return errors.New("publisher stopped")
	}
	p.running = true
	p.ctx, p.cancel = context.WithCancel(ctx)

	for _, s := range p.subs {
		p.wg.Add(1)
		go p.run(s)
	}
	p.logger.Info("Starting event publisher", zap.Int("subscribers", len(p.subs)))
	return nil
}

// Publish enqueues ev for every subscriber and returns immediately.
func (p *Publisher) Publish(ev model.InventoryEvent) {
	p.mu.Lock()
	stopped := p.stopped
	subs := p.subs
	p.mu.Unlock()

	if stopped {
		p.logger.Warn("Publisher stopped, dropping event", zap.String("event_id", ev.EventID))
		return
	}
	for _, s := range subs {
		depth := s.push(ev)
		p.metrics.SetQueueDepth(s.sub.Name(), depth)
	}
}

// Stop drains queued events until ctx expires, then abandons the rest.
func (p *Publisher) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return errors.New("publisher not running")
	}
	p.running = false
	p.stopped = true
	close(p.draining)
	p.mu.Unlock()

	p.logger.Info("Stopping event publisher, draining queues")

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		p.logger.Info("Event publisher stopped")
		return nil
	case <-ctx.Done():
		p.cancel()
		<-done
		for _, s := range p.subs {
			if n := s.len(); n > 0 {
				p.logger.Error("Undelivered events abandoned at shutdown",
					zap.String("subscriber", s.sub.Name()),
					zap.Int("count", n),
				)
			}
		}
		return ctx.Err()
	}
}

// Pending returns the number of queued events for the named subscriber.
func (p *Publisher) Pending(name string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, s := range p.subs {
		if s.sub.Name() == name {
			return s.len()
		}
	}
	return 0
}

func (p *Publisher) run(s *subscription) {
	defer p.wg.Done()
	name := s.sub.Name()

	for {
		ev, depth, ok := s.pop()
		if !ok {
			select {
			case <-s.notify:
				continue
			case <-p.draining:
				if s.len() == 0 {
					return
				}
				continue
			case <-p.ctx.Done():
				return
			}
		}
		p.metrics.SetQueueDepth(name, depth)

		if err := p.deliver(s.sub, ev); err != nil {
			s.push(ev)
			if p.ctx.Err() != nil {
				return
			}
			p.logger.Error("Event delivery failed, requeueing",
				zap.String("subscriber", name),
				zap.String("event_id", ev.EventID),
				zap.Error(err),
			)
			p.metrics.RecordRequeue(name)
		}
	}
}

func (p *Publisher) deliver(s Subscriber, ev model.InventoryEvent) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.cfg.InitialBackoff
	b.MaxInterval = p.cfg.MaxBackoff
	b.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(p.cfg.MaxRetries)), p.ctx)

	op := func() error {
		err := p.handle(s, ev)
		if err != nil {
			p.metrics.RecordDelivery(s.Name(), "failure")
			return err
		}
		p.metrics.RecordDelivery(s.Name(), "success")
		return nil
	}
	notify := func(err error, wait time.Duration) {
		p.logger.Warn("Event delivery attempt failed",
			zap.String("subscriber", s.Name()),
			zap.String("event_id", ev.EventID),
			zap.Duration("retry_in", wait),
			zap.Error(err),
		)
	}
	return backoff.RetryNotify(op, policy, notify)
}

func (p *Publisher) handle(s Subscriber, ev model.InventoryEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("subscriber %s panicked: %v", s.Name(), r)
		}
	}()

	ctx := p.ctx
	if p.cfg.HandleTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.HandleTimeout)
		defer cancel()
	}
	return s.Handle(ctx, ev)
}
