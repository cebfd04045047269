package adapters

import (
	"context"

	"go-shop/pkg/events"
	"go-shop/pkg/logger"
	"go-shop/pkg/rabbitmq"
)

// RabbitMQStockNotifier implements StockNotifier using RabbitMQ. Each product
// has its own topic ("product.<id>") on the stock exchange, so real-time
// clients subscribe per product.
type RabbitMQStockNotifier struct {
	publisher *rabbitmq.Publisher
	log       *logger.Logger
}

// NewRabbitMQStockNotifier creates a new RabbitMQ stock notifier
func NewRabbitMQStockNotifier(publisher *rabbitmq.Publisher, log *logger.Logger) *RabbitMQStockNotifier {
	return &RabbitMQStockNotifier{
		publisher: publisher,
		log:       log,
	}
}

// PublishStockUpdated publishes the new stock level for a product
func (n *RabbitMQStockNotifier) PublishStockUpdated(ctx context.Context, productID uint, stock int) error {
	traceID := logger.GetTraceID(ctx)

	event := events.NewStockUpdatedEvent(productID, stock, traceID)

	return n.publisher.Publish(ctx, events.RoutingKeyForProduct(productID), event)
}
