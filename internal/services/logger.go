package services

import (
	"context"

	"github.com/franciscosanchezn/gin-food-delivery-api/internal/events"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// SetLogLevel aligns the service logger with the application log level.
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}

// publish emits an event after the owning transaction has committed.
// Delivery failures are logged and never fail the request.
func publish(ctx context.Context, publisher events.Publisher, routingKey string, data interface{}) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, routingKey, data); err != nil {
		log.WithError(err).WithField("routing_key", routingKey).Warn("Failed to publish event")
	}
}
