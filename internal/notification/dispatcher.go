package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"catalog-api/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultSendTimeout = 10 * time.Second

// Dispatcher turns catalog events into outbound pushes. Every send runs
// on its own goroutine with an independent deadline, after the triggering
// write has already committed: a failed push is logged under its dispatch
// ID and never surfaces to the operation that raised the event.
type Dispatcher struct {
	notifier   Notifier
	logger     *zap.Logger
	topic      string
	stockToken string
	timeout    time.Duration

	wg sync.WaitGroup
}

// NewDispatcher creates a dispatcher broadcasting product events to topic
// and sending stock events to the configured subscriber token.
func NewDispatcher(notifier Notifier, logger *zap.Logger, topic, stockToken string) *Dispatcher {
	return &Dispatcher{
		notifier:   notifier,
		logger:     logger,
		topic:      topic,
		stockToken: stockToken,
		timeout:    defaultSendTimeout,
	}
}

// ProductCreated broadcasts a new-product announcement to the product topic.
func (d *Dispatcher) ProductCreated(product *domain.Product) {
	title := "New product available"
	body := fmt.Sprintf("%s is now available for %s", product.Name, product.Price.StringFixed(2))

	d.dispatch("product_created", func(ctx context.Context) error {
		return d.notifier.Broadcast(ctx, d.topic, title, body)
	})
}

// StockChanged sends a targeted stock-level notification.
func (d *Dispatcher) StockChanged(productID int64, stock int) {
	title := "Stock updated"
	body := fmt.Sprintf("Product %d stock is now %d", productID, stock)

	d.dispatch("stock_changed", func(ctx context.Context) error {
		return d.notifier.Send(ctx, d.stockToken, title, body)
	})
}

func (d *Dispatcher) dispatch(event string, send func(context.Context) error) {
	dispatchID := uuid.New().String()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := send(ctx); err != nil {
			d.logger.Error("Failed to send notification",
				zap.String("event", event),
				zap.String("dispatch_id", dispatchID),
				zap.Error(err),
			)
			return
		}

		d.logger.Info("Notification sent",
			zap.String("event", event),
			zap.String("dispatch_id", dispatchID),
		)
	}()
}

// Close waits for in-flight sends to finish. Called on shutdown.
func (d *Dispatcher) Close() {
	d.wg.Wait()
}
