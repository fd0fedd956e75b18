package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	enrollmentsSubmitted metric.Int64Counter
	enrollmentsModerated metric.Int64Counter
	enrollmentsDeleted   metric.Int64Counter
	chatRequests         metric.Int64Counter
	notificationsSent    metric.Int64Counter
}

func New(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.enrollmentsSubmitted, err = meter.Int64Counter(
		"student_hub.enrollments.submitted",
		metric.WithDescription("Total number of enrollment submissions accepted"),
		metric.WithUnit("{enrollment}"),
	)
	if err != nil {
		return nil, err
	}

	m.enrollmentsModerated, err = meter.Int64Counter(
		"student_hub.enrollments.moderated",
		metric.WithDescription("Total number of enrollment status changes applied by admins"),
		metric.WithUnit("{change}"),
	)
	if err != nil {
		return nil, err
	}

	m.enrollmentsDeleted, err = meter.Int64Counter(
		"student_hub.enrollments.deleted",
		metric.WithDescription("Total number of enrollments deleted by admins"),
		metric.WithUnit("{enrollment}"),
	)
	if err != nil {
		return nil, err
	}

	m.chatRequests, err = meter.Int64Counter(
		"student_hub.chat.requests",
		metric.WithDescription("Total number of AI tutor chat requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	m.notificationsSent, err = meter.Int64Counter(
		"student_hub.notifications.sent",
		metric.WithDescription("Total number of enrollment notifications dispatched"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// NewMock creates a no-op Metrics instance for testing.
// The returned Metrics will safely ignore all Record* calls.
func NewMock() *Metrics {
	return &Metrics{}
}

func (m *Metrics) RecordEnrollmentSubmitted(ctx context.Context) {
	if m == nil || m.enrollmentsSubmitted == nil {
		return
	}
	m.enrollmentsSubmitted.Add(ctx, 1)
}

func (m *Metrics) RecordEnrollmentModerated(ctx context.Context, status string) {
	if m == nil || m.enrollmentsModerated == nil {
		return
	}
	m.enrollmentsModerated.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

func (m *Metrics) RecordEnrollmentDeleted(ctx context.Context) {
	if m == nil || m.enrollmentsDeleted == nil {
		return
	}
	m.enrollmentsDeleted.Add(ctx, 1)
}

func (m *Metrics) RecordChatRequest(ctx context.Context, outcome string) {
	if m == nil || m.chatRequests == nil {
		return
	}
	m.chatRequests.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (m *Metrics) RecordNotificationSent(ctx context.Context) {
	if m == nil || m.notificationsSent == nil {
		return
	}
	m.notificationsSent.Add(ctx, 1)
}
