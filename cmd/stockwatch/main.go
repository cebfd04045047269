package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"go-shop/pkg/config"
	"go-shop/pkg/events"
	"go-shop/pkg/logger"
	"go-shop/pkg/rabbitmq"
)

// stockwatch tails the per-product stock topics, the same channel real-time
// clients subscribe to. Useful for watching stock move while exercising the
// API. With no arguments it follows every product.
func main() {
	var topic string
	flag.StringVar(&topic, "product", "", "product id to watch (default: all products)")
	flag.Parse()

	cfg := config.Load()
	log := logger.New("stockwatch", cfg.LogLevel, "console")
	defer log.Sync()

	routingKey := events.RoutingKeyAllProducts
	if topic != "" {
		routingKey = "product." + topic
	}

	conn, err := rabbitmq.NewConnection(cfg.RabbitMQURL, log)
	if err != nil {
		log.Fatal("failed to connect to RabbitMQ: " + err.Error())
	}
	defer conn.Close()

	sub, err := rabbitmq.NewSubscriber(conn, events.ExchangeStock, []string{routingKey}, log)
	if err != nil {
		log.Fatal("failed to create subscriber: " + err.Error())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err = sub.Consume(ctx, func(ctx context.Context, routingKey string, body []byte) error {
		var event events.StockUpdatedEvent
		if err := json.Unmarshal(body, &event); err != nil {
			return err
		}

		log.WithContext(ctx).Info("stock updated",
			zap.String("topic", routingKey),
			zap.Uint("product_id", event.Payload.ProductID),
			zap.Int("stock", event.Payload.Stock),
		)
		return nil
	})
	if err != nil {
		log.Fatal("failed to start consuming: " + err.Error())
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
}
