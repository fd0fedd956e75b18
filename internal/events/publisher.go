package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mogaaruf1/somali-student-hub/internal/config"
)

// EnrollmentCreated is published after an enrollment document commits.
type EnrollmentCreated struct {
	EnrollmentID  string    `json:"enrollmentId"`
	ResourceID    string    `json:"resourceId"`
	ResourceTitle string    `json:"resourceTitle"`
	StudentName   string    `json:"studentName"`
	StudentEmail  string    `json:"studentEmail"`
	EnrolledAt    time.Time `json:"enrolledAt"`
}

// Publisher abstracts the event broker (NATS/Kafka)
type Publisher interface {
	Publish(ctx context.Context, value interface{}) error
	Close() error
}

// New builds the publisher selected by cfg.Driver. Returns nil when
// messaging is switched off.
func New(cfg config.MessagingConfig, logger *slog.Logger) (Publisher, error) {
	switch cfg.Driver {
	case "nats":
		return NewNATSPublisher(cfg.NATSURL, cfg.Subject, logger)
	case "kafka":
		return NewKafkaPublisher(cfg.KafkaBrokers, cfg.Topic, logger)
	case "", "off":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown messaging driver %q", cfg.Driver)
	}
}
