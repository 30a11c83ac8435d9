package patterns

import (
	"fmt"
	"time"

	"github.com/shopkit/storefront/internal/metrics"
)

// Bulkhead caps the number of concurrent calls against one dependency.
// Order placement runs through a bulkhead so a slow backend cannot pile up
// duplicate submissions.
type Bulkhead struct {
	semaphore chan struct{}
	name      string
	service   string
}

// NewBulkhead creates a bulkhead admitting at most size concurrent calls.
func NewBulkhead(size int, name, service string) *Bulkhead {
	return &Bulkhead{
		semaphore: make(chan struct{}, size),
		name:      name,
		service:   service,
	}
}

// Execute runs fn if a slot is free, rejecting after a 1s wait.
func (b *Bulkhead) Execute(fn func() error) error {
	select {
	case b.semaphore <- struct{}{}:
		metrics.BulkheadActiveRequests.WithLabelValues(b.service, b.name).Inc()

		defer func() {
			<-b.semaphore
			metrics.BulkheadActiveRequests.WithLabelValues(b.service, b.name).Dec()
		}()

		return fn()

	case <-time.After(1 * time.Second):
		metrics.BulkheadRejectedRequests.WithLabelValues(b.service, b.name).Inc()
		return fmt.Errorf("bulkhead %s: timeout acquiring resource", b.name)
	}
}
