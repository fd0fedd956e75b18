package notify

import (
	"context"
	"fmt"
	"log/slog"
)

type Notification struct {
	StudentName   string `json:"studentName" validate:"required"`
	StudentEmail  string `json:"studentEmail" validate:"required"`
	ResourceTitle string `json:"resourceTitle" validate:"required"`
}

// Notifier delivers an enrollment notification. Callers treat delivery as
// best-effort: a failed Send never affects the enrollment itself.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
}

// LogNotifier is the mocked email sink. It writes the notification to the
// log and never fails.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) Send(ctx context.Context, n Notification) error {
	l.logger.InfoContext(ctx, "[EMAIL NOTIFICATION]",
		"message", fmt.Sprintf("Cusub! %s (%s) ayaa is-diiwaangeliyay koorsada %s.",
			n.StudentName, n.StudentEmail, n.ResourceTitle),
	)
	return nil
}
