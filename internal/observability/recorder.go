package observability

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/appointment-service/internal/events"
)

// EventRecorder subscribes to appointment lifecycle events and feeds the
// metrics counters.
type EventRecorder struct {
	dispatcher events.Dispatcher
	metrics    *Metrics
	logger     *zap.Logger
}

// NewEventRecorder creates the recorder.
func NewEventRecorder(dispatcher events.Dispatcher, metrics *Metrics, logger *zap.Logger) *EventRecorder {
	return &EventRecorder{dispatcher: dispatcher, metrics: metrics, logger: logger}
}

// RegisterHandlers subscribes to events.
func (r *EventRecorder) RegisterHandlers() {
	if r.dispatcher == nil {
		return
	}
	r.dispatcher.Subscribe(events.EventAppointmentRequested, r.handle)
	r.dispatcher.Subscribe(events.EventAppointmentStatusChanged, r.handle)
}

func (r *EventRecorder) handle(_ context.Context, event events.Event) error {
	r.metrics.RecordAppointmentEvent(string(event.Type))
	r.logger.Debug("appointment event",
		zap.String("type", string(event.Type)),
		zap.String("appointment_id", event.AppointmentID),
		zap.String("actor", event.Actor.Email),
	)
	return nil
}
