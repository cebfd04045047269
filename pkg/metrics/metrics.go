package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// ShopMetrics contains the Prometheus collectors for the order pipeline.
type ShopMetrics struct {
	ordersPlaced      prometheus.Counter
	ordersFailed      *prometheus.CounterVec
	ordersRolledBack  prometheus.Counter
	stockNotified     prometheus.Counter
	stockNotifyFailed prometheus.Counter
	httpDuration      *prometheus.HistogramVec
}

// New creates metrics registered against the default registerer.
func New() *ShopMetrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates metrics registered against the given registerer.
func NewWithRegisterer(registerer prometheus.Registerer) *ShopMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &ShopMetrics{
		ordersPlaced: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shop_orders_placed_total",
			Help: "Total number of orders placed successfully",
		}),
		ordersFailed: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "shop_orders_failed_total",
			Help: "Total number of rejected order attempts by reason",
		}, []string{"reason"}),
		ordersRolledBack: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shop_orders_rolled_back_total",
			Help: "Total number of orders whose stock decrements were compensated",
		}),
		stockNotified: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shop_stock_notifications_total",
			Help: "Total number of stock update notifications published",
		}),
		stockNotifyFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shop_stock_notification_failures_total",
			Help: "Total number of stock update notifications that failed to publish",
		}),
		httpDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "shop_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}
}

// OrderPlaced increments the placed-order counter
func (m *ShopMetrics) OrderPlaced() {
	m.ordersPlaced.Inc()
}

// OrderFailed increments the failed-order counter for a reason (error code)
func (m *ShopMetrics) OrderFailed(reason string) {
	m.ordersFailed.WithLabelValues(reason).Inc()
}

// OrderRolledBack increments the compensated-order counter
func (m *ShopMetrics) OrderRolledBack() {
	m.ordersRolledBack.Inc()
}

// StockNotified increments the published-notification counter
func (m *ShopMetrics) StockNotified() {
	m.stockNotified.Inc()
}

// StockNotifyFailed increments the failed-notification counter
func (m *ShopMetrics) StockNotifyFailed() {
	m.stockNotifyFailed.Inc()
}

// ObserveHTTP records an HTTP request duration
func (m *ShopMetrics) ObserveHTTP(method, path, status string, seconds float64) {
	m.httpDuration.WithLabelValues(method, path, status).Observe(seconds)
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}
