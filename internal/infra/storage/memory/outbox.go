package memory

import (
	"context"
	"sync"

	"hotelops/internal/app/outbox"
)

// Outbox collects event records in memory. Flush is a no-op; tests read
// the records directly and the dev setup simply drops them.
type Outbox struct {
	mu      sync.Mutex
	records []outbox.EventRecord
}

func NewOutbox() *Outbox {
	return &Outbox{}
}

func (o *Outbox) Add(ctx context.Context, record outbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.records = append(o.records, record)
	return nil
}

func (o *Outbox) Flush(ctx context.Context) error { return nil }

// Records returns a copy of everything recorded so far.
func (o *Outbox) Records() []outbox.EventRecord {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]outbox.EventRecord, len(o.records))
	copy(out, o.records)
	return out
}
