// internal/writer/publisher.go
package writer

import (
	"context"

	"go.uber.org/zap"

	"github.com/tamzrod/minivendi/internal/metrics"
	"github.com/tamzrod/minivendi/internal/status"
)

// Publisher decouples the node's tick loop from status delivery.
// Offer never blocks; the latest snapshot wins.
type Publisher struct {
	w   StatusWriter
	in  chan status.Snapshot
	log *zap.Logger

	failing bool
}

func NewPublisher(w StatusWriter, log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{
		w:   w,
		in:  make(chan status.Snapshot, 1),
		log: log,
	}
}

// Offer queues s for delivery, replacing any snapshot not yet written.
// Single producer.
func (p *Publisher) Offer(s status.Snapshot) {
	select {
	case p.in <- s:
		return
	default:
	}
	select {
	case <-p.in:
	default:
	}
	select {
	case p.in <- s:
	default:
	}
}

// Run delivers offered snapshots until ctx is cancelled.
// One goroutine. No retries: a failed write is superseded by the next offer.
func (p *Publisher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case s := <-p.in:
			p.deliver(s)
		}
	}
}

func (p *Publisher) deliver(s status.Snapshot) {
	err := p.w.WriteStatus(s)
	switch {
	case err != nil:
		metrics.StatusWriteErrors.Inc()
		if !p.failing {
			p.log.Warn("status write failed", zap.Error(err))
		}
		p.failing = true
	case p.failing:
		p.failing = false
		p.log.Info("status write recovered")
	}
}
