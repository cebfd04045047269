package events

import (
	"fmt"
	"time"
)

// Exchange names
const (
	ExchangeStock = "stock.events"
)

// RoutingKeyForProduct returns the per-product topic clients subscribe to.
// One topic per product: "product.<id>".
func RoutingKeyForProduct(productID uint) string {
	return fmt.Sprintf("product.%d", productID)
}

// RoutingKeyAllProducts matches every per-product topic
const RoutingKeyAllProducts = "product.#"

// StockUpdatedEvent is published whenever a product's stock changes,
// either through an order placement or a direct administrative update.
type StockUpdatedEvent struct {
	Version   string              `json:"version"`
	EventType string              `json:"event_type"`
	Timestamp time.Time           `json:"timestamp"`
	TraceID   string              `json:"trace_id"`
	Payload   StockUpdatedPayload `json:"payload"`
}

// StockUpdatedPayload contains the new stock level
type StockUpdatedPayload struct {
	ProductID uint `json:"product_id"`
	Stock     int  `json:"stock"`
}

// NewStockUpdatedEvent creates a new StockUpdatedEvent
func NewStockUpdatedEvent(productID uint, stock int, traceID string) *StockUpdatedEvent {
	return &StockUpdatedEvent{
		Version:   "1.0",
		EventType: "stock.updated",
		Timestamp: time.Now(),
		TraceID:   traceID,
		Payload: StockUpdatedPayload{
			ProductID: productID,
			Stock:     stock,
		},
	}
}
