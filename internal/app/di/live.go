package di

import (
	"log/slog"
	"time"

	"stock_dashboard/internal/feature/live/adapters/kafka"
	"stock_dashboard/internal/feature/live/domain/entity"
	livehandler "stock_dashboard/internal/feature/live/transport/handler"
	"stock_dashboard/internal/feature/live/usecase"
)

// NewPublisher creates the Kafka tick publisher when KAFKA_BROKERS is set.
// Otherwise it returns a no-op publisher. The returned func closes the publisher.
func NewPublisher() (usecase.Publisher, func() error) {
	cfg := kafka.LoadConfig()
	if !cfg.Enabled() {
		return usecase.NopPublisher{}, func() error { return nil }
	}
	if err := kafka.EnsureTopic(cfg); err != nil {
		slog.Warn("kafka topic setup failed; publishing anyway", "topic", cfg.Topic, "error", err)
	}
	p := kafka.NewQuotePublisher(cfg)
	slog.Info("publishing live ticks to kafka", "brokers", cfg.Brokers, "topic", cfg.Topic)
	return p, p.Close
}

// NewLiveSessionFactory returns a factory creating one live session per websocket connection.
func NewLiveSessionFactory(interval time.Duration, loc *time.Location, pub usecase.Publisher) livehandler.SessionFactory {
	return func(onTick func(usecase.Snapshot)) livehandler.LiveSession {
		return usecase.NewSession(entity.DefaultQuotes(), usecase.Options{
			Interval:  interval,
			Location:  loc,
			Publisher: pub,
			OnTick:    onTick,
		})
	}
}
