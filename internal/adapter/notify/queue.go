package notify

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/rl1809/stockroom/internal/core/domain"
	"github.com/rl1809/stockroom/internal/port"
)

type eventKind int

const (
	catalogEvent eventKind = iota
	cartEvent
	summaryEvent
)

type event struct {
	kind     eventKind
	products []domain.Product
	items    []domain.CartItem
	summary  domain.Summary
}

// Queue hands notifications to a single worker so that the sender never runs
// the target itself. Events are delivered in the order they were sent.
type Queue struct {
	target port.Notifier
	log    logrus.FieldLogger
	events chan event

	mu     sync.RWMutex
	closed bool
}

func NewQueue(target port.Notifier, size int, log logrus.FieldLogger) *Queue {
	return &Queue{
		target: target,
		log:    log,
		events: make(chan event, size),
	}
}

// Run delivers events until Close is called and the queue is drained.
func (q *Queue) Run() {
	for e := range q.events {
		q.deliver(e)
	}
}

// Close stops accepting events. Run returns once the pending ones are
// delivered.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.events)
}

func (q *Queue) CatalogChanged(products []domain.Product) {
	q.push(event{kind: catalogEvent, products: products})
}

func (q *Queue) CartChanged(items []domain.CartItem) {
	q.push(event{kind: cartEvent, items: items})
}

func (q *Queue) SummaryChanged(summary domain.Summary) {
	q.push(event{kind: summaryEvent, summary: summary})
}

func (q *Queue) push(e event) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		q.log.WithField("event", e.kind).Warn("notification dropped, queue closed")
		return
	}
	q.events <- e
}

func (q *Queue) deliver(e event) {
	defer func() {
		if r := recover(); r != nil {
			q.log.WithField("panic", r).Error("notifier panicked")
		}
	}()

	switch e.kind {
	case catalogEvent:
		q.target.CatalogChanged(e.products)
	case cartEvent:
		q.target.CartChanged(e.items)
	case summaryEvent:
		q.target.SummaryChanged(e.summary)
	}
}
